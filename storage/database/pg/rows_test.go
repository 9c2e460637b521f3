package pgrepos

import (
	"reflect"
	"testing"

	"github.com/dkasongo/darasa/core/classroom"
)

func TestClassRow_roundTrip(t *testing.T) {
	tests := []struct {
		name string
		c    classroom.Classroom
	}{
		{
			name: "bare",
			c:    classroom.Classroom{ID: "c1", Name: "English", Type: classroom.TypeModular, UpdatedAt: 42},
		},
		{
			name: "with resources",
			c: classroom.Classroom{
				ID: "c2", Name: "History", BookName: "World History", AcademicYear: "2025-2026",
				Type: classroom.TypeTerm, UpdatedAt: 99,
				Resources: &classroom.Resources{
					File: &classroom.ResourceFile{Name: "notes.pdf", MimeType: "application/pdf", Data: "aGVsbG8="},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := toClassRow(tt.c)
			if err != nil {
				t.Fatalf("toClassRow() failed: %v", err)
			}
			got, err := fromClassRow(row)
			if err != nil {
				t.Fatalf("fromClassRow() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.c) {
				t.Errorf("round trip = %+v, want %+v", got, tt.c)
			}
		})
	}
}

func TestSessionRow_roundTrip(t *testing.T) {
	s := classroom.Session{
		ID: "s1", ClassID: "c1", Date: "2026-01-05", DayOfWeek: "Monday",
		LessonPlan: &classroom.LessonPlan{Subject: "Past tense", Objectives: "Use it", Procedure: "Drill", Assessment: "Quiz"},
	}
	row, err := toSessionRow("c1", s)
	if err != nil {
		t.Fatalf("toSessionRow() failed: %v", err)
	}
	got, err := fromSessionRow(row)
	if err != nil {
		t.Fatalf("fromSessionRow() failed: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip = %+v, want %+v", got, s)
	}

	// no lesson plan stays nil, not zero-valued
	bare := classroom.Session{ID: "s2", ClassID: "c1", Date: "2026-01-06", DayOfWeek: "Tuesday"}
	row, err = toSessionRow("c1", bare)
	if err != nil {
		t.Fatal(err)
	}
	if row.LessonPlan != nil {
		t.Errorf("LessonPlan column = %s, want NULL", row.LessonPlan)
	}
	got, err = fromSessionRow(row)
	if err != nil {
		t.Fatal(err)
	}
	if got.LessonPlan != nil {
		t.Errorf("LessonPlan = %+v, want nil", got.LessonPlan)
	}
}

func TestRecordRow_roundTrip(t *testing.T) {
	r := classroom.Record{
		SessionID:      "s1",
		StudentID:      "st1",
		Attendance:     classroom.AttendanceLate,
		Discipline:     classroom.Discipline{Sleep: true, Expelled: true},
		PositivePoints: 4.5,
		Note:           "improving",
	}
	row, err := toRecordRow(r)
	if err != nil {
		t.Fatalf("toRecordRow() failed: %v", err)
	}
	if row.UniqueID != "s1_st1" {
		t.Errorf("UniqueID = %s, want s1_st1", row.UniqueID)
	}
	got, err := fromRecordRow(row)
	if err != nil {
		t.Fatalf("fromRecordRow() failed: %v", err)
	}
	if !reflect.DeepEqual(got, r) {
		t.Errorf("round trip = %+v, want %+v", got, r)
	}
}

func TestGradeRow_roundTrip(t *testing.T) {
	p := classroom.Performance{
		StudentID: "st1",
		GradesModular: []classroom.ModuleGrade{
			{ModuleID: 1, ExamScore: 70, Score: 80},
			{ModuleID: 3, ExamScore: 60, Score: 75},
		},
	}
	row, err := toGradeRow("c1", p)
	if err != nil {
		t.Fatalf("toGradeRow() failed: %v", err)
	}
	if row.ClassID != "c1" || row.GradesTerm != nil {
		t.Errorf("row = %+v", row)
	}
	got, err := fromGradeRow(row)
	if err != nil {
		t.Fatalf("fromGradeRow() failed: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}
