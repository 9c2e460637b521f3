package pgrepos

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core/classroom"
)

// Row types mirror the remote table schema. The snake_case column to
// camelCase aggregate field mapping below is the single place where the
// two shapes meet; it must stay exact in both directions.
type (
	classRow struct {
		ID           string `db:"id"`
		Name         string `db:"name"`
		BookName     string `db:"book_name"`
		AcademicYear string `db:"academic_year"`
		Type         string `db:"type"`
		Resources    []byte `db:"resources"` // jsonb, nullable
		UpdatedAt    int64  `db:"updated_at"`
	}

	studentRow struct {
		ID          string `db:"id"`
		ClassID     string `db:"class_id"`
		Name        string `db:"name"`
		PhoneNumber string `db:"phone_number"`
		AvatarURL   string `db:"avatar_url"`
	}

	sessionRow struct {
		ID         string `db:"id"`
		ClassID    string `db:"class_id"`
		Date       string `db:"date"`
		DayOfWeek  string `db:"day_of_week"`
		LessonPlan []byte `db:"lesson_plan"` // jsonb, nullable
	}

	recordRow struct {
		UniqueID       string  `db:"unique_id"` // sessionId_studentId
		SessionID      string  `db:"session_id"`
		StudentID      string  `db:"student_id"`
		Attendance     string  `db:"attendance"`
		Discipline     []byte  `db:"discipline"` // jsonb
		PositivePoints float64 `db:"positive_points"`
		Note           string  `db:"note"`
	}

	gradeRow struct {
		StudentID     string `db:"student_id"`
		ClassID       string `db:"class_id"`
		GradesModular []byte `db:"grades_modular"` // jsonb, nullable
		GradesTerm    []byte `db:"grades_term"`    // jsonb, nullable
	}
)

func toClassRow(c classroom.Classroom) (classRow, error) {
	row := classRow{
		ID:           c.ID,
		Name:         c.Name,
		BookName:     c.BookName,
		AcademicYear: c.AcademicYear,
		Type:         string(c.Type),
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Resources != nil {
		doc, err := json.Marshal(c.Resources)
		if err != nil {
			return classRow{}, errors.Wrap(err, "encoding resources")
		}
		row.Resources = doc
	}
	return row, nil
}

func fromClassRow(row classRow) (classroom.Classroom, error) {
	c := classroom.Classroom{
		ID:           row.ID,
		Name:         row.Name,
		BookName:     row.BookName,
		AcademicYear: row.AcademicYear,
		Type:         classroom.ClassType(row.Type),
		UpdatedAt:    row.UpdatedAt,
	}
	if len(row.Resources) > 0 {
		var res classroom.Resources
		if err := json.Unmarshal(row.Resources, &res); err != nil {
			return classroom.Classroom{}, errors.Wrap(err, "decoding resources")
		}
		c.Resources = &res
	}
	return c, nil
}

func toStudentRow(classID string, s classroom.Student) studentRow {
	return studentRow{
		ID:          s.ID,
		ClassID:     classID,
		Name:        s.Name,
		PhoneNumber: s.PhoneNumber,
		AvatarURL:   s.Avatar,
	}
}

func fromStudentRow(row studentRow) classroom.Student {
	return classroom.Student{
		ID:          row.ID,
		Name:        row.Name,
		PhoneNumber: row.PhoneNumber,
		Avatar:      row.AvatarURL,
	}
}

func toSessionRow(classID string, s classroom.Session) (sessionRow, error) {
	row := sessionRow{
		ID:        s.ID,
		ClassID:   classID,
		Date:      s.Date,
		DayOfWeek: s.DayOfWeek,
	}
	if s.LessonPlan != nil {
		doc, err := json.Marshal(s.LessonPlan)
		if err != nil {
			return sessionRow{}, errors.Wrap(err, "encoding lesson plan")
		}
		row.LessonPlan = doc
	}
	return row, nil
}

func fromSessionRow(row sessionRow) (classroom.Session, error) {
	s := classroom.Session{
		ID:        row.ID,
		ClassID:   row.ClassID,
		Date:      row.Date,
		DayOfWeek: row.DayOfWeek,
	}
	if len(row.LessonPlan) > 0 {
		var lp classroom.LessonPlan
		if err := json.Unmarshal(row.LessonPlan, &lp); err != nil {
			return classroom.Session{}, errors.Wrap(err, "decoding lesson plan")
		}
		s.LessonPlan = &lp
	}
	return s, nil
}

func toRecordRow(r classroom.Record) (recordRow, error) {
	disc, err := json.Marshal(r.Discipline)
	if err != nil {
		return recordRow{}, errors.Wrap(err, "encoding discipline")
	}
	return recordRow{
		UniqueID:       r.UniqueID(),
		SessionID:      r.SessionID,
		StudentID:      r.StudentID,
		Attendance:     string(r.Attendance),
		Discipline:     disc,
		PositivePoints: r.PositivePoints,
		Note:           r.Note,
	}, nil
}

func fromRecordRow(row recordRow) (classroom.Record, error) {
	r := classroom.Record{
		SessionID:      row.SessionID,
		StudentID:      row.StudentID,
		Attendance:     classroom.Attendance(row.Attendance),
		PositivePoints: row.PositivePoints,
		Note:           row.Note,
	}
	if len(row.Discipline) > 0 {
		if err := json.Unmarshal(row.Discipline, &r.Discipline); err != nil {
			return classroom.Record{}, errors.Wrap(err, "decoding discipline")
		}
	}
	return r, nil
}

func toGradeRow(classID string, p classroom.Performance) (gradeRow, error) {
	row := gradeRow{
		StudentID: p.StudentID,
		ClassID:   classID,
	}
	if len(p.GradesModular) > 0 {
		doc, err := json.Marshal(p.GradesModular)
		if err != nil {
			return gradeRow{}, errors.Wrap(err, "encoding modular grades")
		}
		row.GradesModular = doc
	}
	if len(p.GradesTerm) > 0 {
		doc, err := json.Marshal(p.GradesTerm)
		if err != nil {
			return gradeRow{}, errors.Wrap(err, "encoding term grades")
		}
		row.GradesTerm = doc
	}
	return row, nil
}

func fromGradeRow(row gradeRow) (classroom.Performance, error) {
	p := classroom.Performance{StudentID: row.StudentID}
	if len(row.GradesModular) > 0 {
		if err := json.Unmarshal(row.GradesModular, &p.GradesModular); err != nil {
			return classroom.Performance{}, errors.Wrap(err, "decoding modular grades")
		}
	}
	if len(row.GradesTerm) > 0 {
		if err := json.Unmarshal(row.GradesTerm, &p.GradesTerm); err != nil {
			return classroom.Performance{}, errors.Wrap(err, "decoding term grades")
		}
	}
	return p, nil
}
