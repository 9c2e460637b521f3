package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core/classroom"
)

// ClassSummaryPDF renders a one-page class overview: summary fields,
// student count, session count and each student's aggregate score.
func ClassSummaryPDF(c classroom.Classroom) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, c.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, fmt.Sprintf("Book: %s", c.BookName))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("Academic year: %s  |  Grading: %s", c.AcademicYear, c.Type))
	pdf.Ln(5)
	pdf.Cell(0, 5, fmt.Sprintf("%d students, %d sessions", len(c.Students), len(c.Sessions)))
	pdf.Ln(8)

	pdf.SetDrawColor(40, 145, 108)
	pdf.SetLineWidth(0.4)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 6, "Student", "B", 0, "", false, 0, "")
	pdf.CellFormat(40, 6, "Attendance", "B", 0, "", false, 0, "")
	pdf.CellFormat(40, 6, "Score", "B", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, student := range c.Students {
		var present, total int
		var score float64
		for _, sess := range c.Sessions {
			for _, rec := range sess.Records {
				if rec.StudentID != student.ID {
					continue
				}
				total++
				if rec.Attendance != classroom.AttendanceAbsent {
					present++
				}
				score += rec.Score()
			}
		}
		pdf.CellFormat(90, 6, student.Name, "", 0, "", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d/%d", present, total), "", 0, "", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", score), "", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "rendering PDF")
	}
	return buf.Bytes(), nil
}
