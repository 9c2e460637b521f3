package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dkasongo/darasa/reports"
)

func (cli *commandLine) report(classID, kind, outPath string) error {
	c, err := cli.local.GetClass(context.Background(), classID)
	if err != nil {
		return err
	}

	switch kind {
	case "attendance":
		f, err := reports.AttendanceWorkbook(c)
		if err != nil {
			return err
		}
		if err := f.SaveAs(outPath); err != nil {
			return err
		}
	case "grades":
		f, err := reports.GradesWorkbook(c)
		if err != nil {
			return err
		}
		if err := f.SaveAs(outPath); err != nil {
			return err
		}
	case "summary":
		doc, err := reports.ClassSummaryPDF(c)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, doc, 0o600); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown report kind %q", kind)
	}

	fmt.Fprintf(cli.out, "Report written to %s\n", outPath)
	return nil
}
