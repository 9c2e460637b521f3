package reports

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/dkasongo/darasa/core/classroom"
)

// AttendanceWorkbook builds a single sheet with one row per student and
// one column per session holding the attendance status, plus a total
// score column (positive points minus discipline penalties, summed).
func AttendanceWorkbook(c classroom.Classroom) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "Attendance")
	sheet := "Attendance"

	// header row: student name, then one column per session date
	_ = f.SetCellValue(sheet, "A1", "Student")
	for i, sess := range c.Sessions {
		cell, err := excelize.CoordinatesToCellName(i+2, 1)
		if err != nil {
			return nil, errors.Wrap(err, "building header cell")
		}
		_ = f.SetCellValue(sheet, cell, sess.Date)
	}
	totalCol := len(c.Sessions) + 2
	cell, err := excelize.CoordinatesToCellName(totalCol, 1)
	if err != nil {
		return nil, errors.Wrap(err, "building header cell")
	}
	_ = f.SetCellValue(sheet, cell, "Total score")

	for r, student := range c.Students {
		rowN := r + 2
		nameCell, err := excelize.CoordinatesToCellName(1, rowN)
		if err != nil {
			return nil, errors.Wrap(err, "building name cell")
		}
		_ = f.SetCellValue(sheet, nameCell, student.Name)

		var total float64
		for i, sess := range c.Sessions {
			for _, rec := range sess.Records {
				if rec.StudentID != student.ID {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(i+2, rowN)
				if err != nil {
					return nil, errors.Wrap(err, "building record cell")
				}
				_ = f.SetCellValue(sheet, cell, string(rec.Attendance))
				total += rec.Score()
				break
			}
		}
		cell, err := excelize.CoordinatesToCellName(totalCol, rowN)
		if err != nil {
			return nil, errors.Wrap(err, "building total cell")
		}
		_ = f.SetCellValue(sheet, cell, total)
	}

	return f, nil
}

// GradesWorkbook lays out one row per student with the grade columns of
// the class's grading structure (5 modules, or 2 terms with
// continuous+final sub-scores).
func GradesWorkbook(c classroom.Classroom) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "Grades")
	sheet := "Grades"

	headers := []string{"Student"}
	if c.Type == classroom.TypeModular {
		for m := 1; m <= 5; m++ {
			headers = append(headers, fmt.Sprintf("Module %d exam", m), fmt.Sprintf("Module %d score", m))
		}
	} else {
		for t := 1; t <= 2; t++ {
			headers = append(headers, fmt.Sprintf("Term %d continuous", t), fmt.Sprintf("Term %d final", t))
		}
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, errors.Wrap(err, "building header cell")
		}
		_ = f.SetCellValue(sheet, cell, h)
	}

	perfByStudent := make(map[string]classroom.Performance, len(c.Performance))
	for _, p := range c.Performance {
		perfByStudent[p.StudentID] = p
	}

	for r, student := range c.Students {
		rowN := r + 2
		cell, err := excelize.CoordinatesToCellName(1, rowN)
		if err != nil {
			return nil, errors.Wrap(err, "building name cell")
		}
		_ = f.SetCellValue(sheet, cell, student.Name)

		perf := perfByStudent[student.ID]
		if c.Type == classroom.TypeModular {
			for _, g := range perf.GradesModular {
				if g.ModuleID < 1 || g.ModuleID > 5 {
					continue
				}
				col := 2 + (g.ModuleID-1)*2
				if err := setFloatPair(f, sheet, col, rowN, g.ExamScore, g.Score); err != nil {
					return nil, err
				}
			}
		} else {
			for _, g := range perf.GradesTerm {
				if g.TermID < 1 || g.TermID > 2 {
					continue
				}
				col := 2 + (g.TermID-1)*2
				if err := setFloatPair(f, sheet, col, rowN, g.Continuous, g.Final); err != nil {
					return nil, err
				}
			}
		}
	}

	return f, nil
}

func setFloatPair(f *excelize.File, sheet string, col, row int, a, b float64) error {
	cellA, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return errors.Wrap(err, "building grade cell")
	}
	cellB, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return errors.Wrap(err, "building grade cell")
	}
	_ = f.SetCellValue(sheet, cellA, a)
	_ = f.SetCellValue(sheet, cellB, b)
	return nil
}
