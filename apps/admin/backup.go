package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/backup"
)

func (cli *commandLine) backup(outPath, emailAddr string) error {
	ctx := context.Background()
	doc, err := backup.Export(ctx, cli.local)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, doc, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Backup written to %s (%d bytes)\n", outPath, len(doc))
	}

	if emailAddr != "" {
		filename := fmt.Sprintf("darasa-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
		// block until delivered; the process exits right after this command
		err := cli.mailSvc.SendMessage(&core.EmailMessage{
			To:      []mail.Address{{Address: emailAddr}},
			Subject: "Your classroom data backup",
			BodyStr: "Attached is the backup you requested. Keep it somewhere safe.",
			Attachments: []core.Attachment{{
				Content:     bytes.NewBuffer(doc),
				ContentType: "application/json",
				Filename:    filename,
			}},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Backup emailed to %s\n", emailAddr)
	}
	return nil
}

func (cli *commandLine) restore(inPath string, assumeYes bool) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	confirm := func(summary string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(cli.out, "%s [y/N]: ", summary)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}

	if err := cli.restorer.Restore(context.Background(), data, confirm); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Restore complete.")
	return nil
}
