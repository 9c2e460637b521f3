package pgrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dkasongo/darasa/core/classroom"
	syncs "github.com/dkasongo/darasa/core/sync"
)

// ClassroomRepository mirrors classroom aggregates into the normalized
// remote tables. An upload is a destructive full-replace of the class's
// children (delete-then-insert, relying on cascades), not an incremental
// diff; it is idempotent and safe to simply re-run after a partial
// failure. A download is pure.
type ClassroomRepository struct {
	db *sqlx.DB
}

var _ syncs.RemoteStore = (*ClassroomRepository)(nil)

func NewClassroomRepository(db *sql.DB) *ClassroomRepository {
	return &ClassroomRepository{db: sqlx.NewDb(db, "postgres")}
}

// Ping is the reachability probe: a lightweight round-trip, no writes.
func (repo *ClassroomRepository) Ping(ctx context.Context) error {
	return repo.db.PingContext(ctx)
}

func (repo *ClassroomRepository) ListClassHeads(ctx context.Context) ([]syncs.ClassHead, error) {
	rows := []struct {
		ID        string `db:"id"`
		UpdatedAt int64  `db:"updated_at"`
	}{}
	if err := repo.db.SelectContext(ctx, &rows, `SELECT id, updated_at FROM classes`); err != nil {
		return nil, errors.Wrap(err, "listing class heads")
	}
	heads := make([]syncs.ClassHead, 0, len(rows))
	for _, r := range rows {
		heads = append(heads, syncs.ClassHead{ID: r.ID, UpdatedAt: r.UpdatedAt})
	}
	return heads, nil
}

// UploadClass replaces the remote mirror of one aggregate:
//  1. upsert the class-summary row (sanitized);
//  2. delete all student and session rows for the class, cascades clearing
//     dependent records and grades;
//  3. insert current students and sessions;
//  4. insert all session records and grade rows.
//
// Bulk inserts are chunked; chunks are issued sequentially and the first
// chunk error aborts the remaining phases for the class. There is no
// transaction wrapping across phases: a failure can leave the class
// partially written remotely, recoverable by re-running sync.
func (repo *ClassroomRepository) UploadClass(ctx context.Context, c classroom.Classroom, progress syncs.ProgressFunc) error {
	c = c.Sanitized()

	progress.Notify(fmt.Sprintf("Uploading class %q summary...", c.Name))
	crow, err := toClassRow(c)
	if err != nil {
		return err
	}
	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO classes (id, name, book_name, academic_year, type, resources, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, book_name = excluded.book_name,
			academic_year = excluded.academic_year, type = excluded.type,
			resources = excluded.resources, updated_at = excluded.updated_at`,
		crow.ID, crow.Name, crow.BookName, crow.AcademicYear, crow.Type, crow.Resources, crow.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "upserting class")
	}

	// The two cleanup deletes are independent; run them concurrently.
	progress.Notify("Clearing previous cloud data...")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := repo.db.ExecContext(gctx, `DELETE FROM students WHERE class_id = $1`, c.ID)
		return errors.Wrap(err, "deleting students")
	})
	g.Go(func() error {
		_, err := repo.db.ExecContext(gctx, `DELETE FROM sessions WHERE class_id = $1`, c.ID)
		return errors.Wrap(err, "deleting sessions")
	})
	if err := g.Wait(); err != nil {
		return err
	}

	progress.Notify("Uploading students and sessions...")
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error { return repo.insertStudents(gctx, c) })
	g.Go(func() error { return repo.insertSessions(gctx, c) })
	if err := g.Wait(); err != nil {
		return err
	}

	progress.Notify("Uploading records and grades...")
	if err := repo.insertRecords(ctx, c); err != nil {
		return err
	}
	return repo.insertGrades(ctx, c)
}

func (repo *ClassroomRepository) insertStudents(ctx context.Context, c classroom.Classroom) error {
	cols := []string{"id", "class_id", "name", "phone_number", "avatar_url"}
	vals := make([][]interface{}, 0, len(c.Students))
	for _, s := range c.Students {
		row := toStudentRow(c.ID, s)
		vals = append(vals, []interface{}{row.ID, row.ClassID, row.Name, row.PhoneNumber, row.AvatarURL})
	}
	return repo.insertChunked(ctx, "students", cols, vals)
}

func (repo *ClassroomRepository) insertSessions(ctx context.Context, c classroom.Classroom) error {
	cols := []string{"id", "class_id", "date", "day_of_week", "lesson_plan"}
	vals := make([][]interface{}, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		row, err := toSessionRow(c.ID, s)
		if err != nil {
			return err
		}
		vals = append(vals, []interface{}{row.ID, row.ClassID, row.Date, row.DayOfWeek, row.LessonPlan})
	}
	return repo.insertChunked(ctx, "sessions", cols, vals)
}

func (repo *ClassroomRepository) insertRecords(ctx context.Context, c classroom.Classroom) error {
	cols := []string{"unique_id", "session_id", "student_id", "attendance", "discipline", "positive_points", "note"}
	recs := c.AllRecords()
	vals := make([][]interface{}, 0, len(recs))
	for _, r := range recs {
		row, err := toRecordRow(r)
		if err != nil {
			return err
		}
		vals = append(vals, []interface{}{
			row.UniqueID, row.SessionID, row.StudentID, row.Attendance,
			row.Discipline, row.PositivePoints, row.Note,
		})
	}
	return repo.insertChunked(ctx, "session_records", cols, vals)
}

func (repo *ClassroomRepository) insertGrades(ctx context.Context, c classroom.Classroom) error {
	cols := []string{"student_id", "class_id", "grades_modular", "grades_term"}
	vals := make([][]interface{}, 0, len(c.Performance))
	for _, p := range c.Performance {
		row, err := toGradeRow(c.ID, p)
		if err != nil {
			return err
		}
		vals = append(vals, []interface{}{row.StudentID, row.ClassID, row.GradesModular, row.GradesTerm})
	}
	return repo.insertChunked(ctx, "grades", cols, vals)
}

// insertChunked issues one multi-row INSERT per chunk of at most
// insertChunkSize rows, sequentially, aborting on the first chunk error.
func (repo *ClassroomRepository) insertChunked(ctx context.Context, table string, cols []string, vals [][]interface{}) error {
	for _, b := range chunkBounds(len(vals), insertChunkSize) {
		chunk := vals[b[0]:b[1]]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*len(cols))
		n := 1
		for _, row := range chunk {
			ph := make([]string, len(cols))
			for i := range cols {
				ph[i] = fmt.Sprintf("$%d", n)
				n++
			}
			placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
			args = append(args, row...)
		}

		query := fmt.Sprintf(
			"INSERT INTO %s (%s) VALUES %s",
			table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		)
		if _, err := repo.db.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "inserting into %s", table)
		}
	}
	return nil
}

// DownloadClass fetches one class's rows and reconstructs the aggregate in
// its local shape. Every fetch carries a deterministic ORDER BY so repeated
// downloads of the same remote state yield identical aggregates. Session
// records are fetched with membership filters chunked by session-id groups
// to respect query parameter limits.
func (repo *ClassroomRepository) DownloadClass(ctx context.Context, id string) (classroom.Classroom, error) {
	var crow classRow
	err := repo.db.GetContext(ctx, &crow, `SELECT * FROM classes WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	if err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "fetching class")
	}
	c, err := fromClassRow(crow)
	if err != nil {
		return classroom.Classroom{}, err
	}

	var srows []studentRow
	if err := repo.db.SelectContext(ctx, &srows, `SELECT * FROM students WHERE class_id = $1 ORDER BY name, id`, id); err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "fetching students")
	}
	for _, row := range srows {
		c.Students = append(c.Students, fromStudentRow(row))
	}

	var sessRows []sessionRow
	if err := repo.db.SelectContext(ctx, &sessRows, `SELECT * FROM sessions WHERE class_id = $1 ORDER BY date, id`, id); err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "fetching sessions")
	}
	sessionIDs := make([]string, 0, len(sessRows))
	for _, row := range sessRows {
		sess, err := fromSessionRow(row)
		if err != nil {
			return classroom.Classroom{}, err
		}
		c.Sessions = append(c.Sessions, sess)
		sessionIDs = append(sessionIDs, sess.ID)
	}

	recsBySession, err := repo.fetchRecords(ctx, sessionIDs)
	if err != nil {
		return classroom.Classroom{}, err
	}
	for i := range c.Sessions {
		c.Sessions[i].Records = recsBySession[c.Sessions[i].ID]
	}

	var grows []gradeRow
	if err := repo.db.SelectContext(ctx, &grows, `SELECT * FROM grades WHERE class_id = $1 ORDER BY student_id`, id); err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "fetching grades")
	}
	for _, row := range grows {
		p, err := fromGradeRow(row)
		if err != nil {
			return classroom.Classroom{}, err
		}
		c.Performance = append(c.Performance, p)
	}

	return c, nil
}

func (repo *ClassroomRepository) fetchRecords(ctx context.Context, sessionIDs []string) (map[string][]classroom.Record, error) {
	out := make(map[string][]classroom.Record)
	for _, b := range chunkBounds(len(sessionIDs), selectChunkSize) {
		query, args, err := sqlx.In(`SELECT * FROM session_records WHERE session_id IN (?) ORDER BY unique_id`, sessionIDs[b[0]:b[1]])
		if err != nil {
			return nil, errors.Wrap(err, "building records query")
		}
		var rrows []recordRow
		if err := repo.db.SelectContext(ctx, &rrows, repo.db.Rebind(query), args...); err != nil {
			return nil, errors.Wrap(err, "fetching session records")
		}
		for _, row := range rrows {
			rec, err := fromRecordRow(row)
			if err != nil {
				return nil, err
			}
			out[rec.SessionID] = append(out[rec.SessionID], rec)
		}
	}
	return out, nil
}

// DeleteClass removes a class and, through cascades, everything it owns.
// The client does not cascade local deletes automatically; callers decide
// when to mirror a local delete remotely.
func (repo *ClassroomRepository) DeleteClass(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return errors.Wrap(err, "deleting class")
}
