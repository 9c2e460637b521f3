package pgrepos

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core/classroom"
)

func newMockRepo(t *testing.T) (*ClassroomRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("opening mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewClassroomRepository(db), mock
}

func Test_insertChunked_abortsOnChunkError(t *testing.T) {
	repo, mock := newMockRepo(t)

	// three full chunks; the second one fails
	vals := make([][]interface{}, 0, insertChunkSize*3)
	for i := 0; i < insertChunkSize*3; i++ {
		vals = append(vals, []interface{}{fmt.Sprintf("st%d", i), "c1"})
	}

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, insertChunkSize))
	mock.ExpectExec("INSERT INTO students").
		WillReturnError(errors.New("deadlock detected"))
	// no expectation for the third chunk: it must never be issued

	err := repo.insertChunked(context.Background(), "students", []string{"id", "class_id"}, vals)
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(err.Error(), "deadlock detected") {
		t.Errorf("expected the failing chunk's error, got %q", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected statements after the failing chunk: %v", err)
	}
}

func Test_insertChunked_noRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	if err := repo.insertChunked(context.Background(), "students", []string{"id"}, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no statement should be issued for zero rows: %v", err)
	}
}

// Every fetch must carry a deterministic ORDER BY so that downloading the
// same remote state twice reconstructs identical aggregates.
func TestClassroomRepository_DownloadClass(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM classes WHERE id = \$1`).
		WithArgs("c1").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "name", "book_name", "academic_year", "type", "resources", "updated_at"}).
				AddRow("c1", "English", "Headway 2", "2025-2026", "MODULAR", nil, int64(5000)),
		)
	mock.ExpectQuery(`SELECT \* FROM students WHERE class_id = \$1 ORDER BY name, id`).
		WithArgs("c1").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "class_id", "name", "phone_number", "avatar_url"}).
				AddRow("st1", "c1", "Alice", "", "").
				AddRow("st2", "c1", "Bob", "", ""),
		)
	mock.ExpectQuery(`SELECT \* FROM sessions WHERE class_id = \$1 ORDER BY date, id`).
		WithArgs("c1").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "class_id", "date", "day_of_week", "lesson_plan"}).
				AddRow("s1", "c1", "2026-01-05", "Monday", nil),
		)
	mock.ExpectQuery(`SELECT \* FROM session_records WHERE session_id IN \(\$1\) ORDER BY unique_id`).
		WithArgs("s1").
		WillReturnRows(
			sqlmock.NewRows([]string{"unique_id", "session_id", "student_id", "attendance", "discipline", "positive_points", "note"}).
				AddRow("s1_st1", "s1", "st1", "PRESENT", []byte(`{}`), 2.0, "").
				AddRow("s1_st2", "s1", "st2", "LATE", []byte(`{}`), 0.0, ""),
		)
	mock.ExpectQuery(`SELECT \* FROM grades WHERE class_id = \$1 ORDER BY student_id`).
		WithArgs("c1").
		WillReturnRows(
			sqlmock.NewRows([]string{"student_id", "class_id", "grades_modular", "grades_term"}).
				AddRow("st1", "c1", []byte(`[{"moduleId":1,"examScore":70}]`), nil),
		)

	c, err := repo.DownloadClass(context.Background(), "c1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("queries did not match the ordered fetches: %v", err)
	}

	if len(c.Students) != 2 || c.Students[0].Name != "Alice" || c.Students[1].Name != "Bob" {
		t.Errorf("expected students [Alice Bob], got %+v", c.Students)
	}
	if len(c.Sessions) != 1 || c.Sessions[0].ID != "s1" {
		t.Fatalf("expected one session s1, got %+v", c.Sessions)
	}
	recs := c.Sessions[0].Records
	if len(recs) != 2 || recs[0].StudentID != "st1" || recs[1].StudentID != "st2" {
		t.Errorf("expected records for [st1 st2], got %+v", recs)
	}
	if len(c.Performance) != 1 || c.Performance[0].StudentID != "st1" {
		t.Errorf("expected performance for st1, got %+v", c.Performance)
	}
}

func TestClassroomRepository_DownloadClass_notFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM classes WHERE id = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "book_name", "academic_year", "type", "resources", "updated_at"}))

	_, err := repo.DownloadClass(context.Background(), "nope")
	if err != classroom.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
