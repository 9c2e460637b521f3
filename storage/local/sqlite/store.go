package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core/classroom"
)

// schema of the on-device object store: classes are whole aggregates kept
// as JSON documents addressed by id; settings is a single row.
const schema = `
CREATE TABLE IF NOT EXISTS classes (
	id         TEXT PRIMARY KEY,
	doc        TEXT    NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	id  INTEGER PRIMARY KEY CHECK (id = 1),
	doc TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS custom_reports (
	id  TEXT PRIMARY KEY,
	doc TEXT NOT NULL
);
`

// Store is the on-device keyed object store backed by SQLite.
type Store struct {
	db *sql.DB
}

var _ classroom.Repository = (*Store)(nil)

// Open opens (and initializes) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening local store")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "initializing local store")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) GetAllClasses(ctx context.Context) ([]classroom.Classroom, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM classes ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	defer func() { _ = rows.Close() }()

	var classes []classroom.Classroom
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrap(err, "scanning class")
		}
		var c classroom.Classroom
		if err := json.Unmarshal([]byte(doc), &c); err != nil {
			return nil, errors.Wrap(err, "decoding class")
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (s *Store) GetClass(ctx context.Context, id string) (classroom.Classroom, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM classes WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	if err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "querying class")
	}
	var c classroom.Classroom
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return classroom.Classroom{}, errors.Wrap(err, "decoding class")
	}
	return c, nil
}

func (s *Store) PutClass(ctx context.Context, c classroom.Classroom) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding class")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO classes (id, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		c.ID, string(doc), c.UpdatedAt,
	)
	return errors.Wrap(err, "putting class")
}

func (s *Store) PutClasses(ctx context.Context, cs []classroom.Classroom) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning bulk upsert")
	}
	for _, c := range cs {
		doc, err := json.Marshal(c)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "encoding class")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO classes (id, doc, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
			c.ID, string(doc), c.UpdatedAt,
		); err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "putting class")
		}
	}
	return errors.Wrap(tx.Commit(), "committing bulk upsert")
}

func (s *Store) DeleteClass(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM classes WHERE id = ?`, id)
	return errors.Wrap(err, "deleting class")
}

func (s *Store) GetSettings(ctx context.Context) (classroom.Settings, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM settings WHERE id = 1`).Scan(&doc)
	if err == sql.ErrNoRows {
		return classroom.Settings{}, nil
	}
	if err != nil {
		return classroom.Settings{}, errors.Wrap(err, "querying settings")
	}
	var st classroom.Settings
	if err := json.Unmarshal([]byte(doc), &st); err != nil {
		return classroom.Settings{}, errors.Wrap(err, "decoding settings")
	}
	return st, nil
}

func (s *Store) PutSettings(ctx context.Context, st classroom.Settings) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (id, doc) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET doc = excluded.doc`,
		string(doc),
	)
	return errors.Wrap(err, "putting settings")
}

func (s *Store) GetCustomReports(ctx context.Context) ([]classroom.CustomReport, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM custom_reports ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying custom reports")
	}
	defer func() { _ = rows.Close() }()

	var reports []classroom.CustomReport
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.Wrap(err, "scanning custom report")
		}
		var r classroom.CustomReport
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			return nil, errors.Wrap(err, "decoding custom report")
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Store) PutCustomReports(ctx context.Context, rs []classroom.CustomReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning reports write")
	}
	if err := putCustomReportsTx(ctx, tx, rs); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing reports write")
}

// ReplaceAll wholesale-replaces the store contents in one transaction.
// A nil settings or reports argument (legacy backups) leaves the current
// value untouched.
func (s *Store) ReplaceAll(ctx context.Context, cs []classroom.Classroom, st *classroom.Settings, rs []classroom.CustomReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning replace")
	}
	rollback := func(err error) error {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM classes`); err != nil {
		return rollback(errors.Wrap(err, "clearing classes"))
	}
	for _, c := range cs {
		doc, err := json.Marshal(c)
		if err != nil {
			return rollback(errors.Wrap(err, "encoding class"))
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO classes (id, doc, updated_at) VALUES (?, ?, ?)`,
			c.ID, string(doc), c.UpdatedAt,
		); err != nil {
			return rollback(errors.Wrap(err, "inserting class"))
		}
	}

	if st != nil {
		doc, err := json.Marshal(st)
		if err != nil {
			return rollback(errors.Wrap(err, "encoding settings"))
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (id, doc) VALUES (1, ?)
			 ON CONFLICT (id) DO UPDATE SET doc = excluded.doc`,
			string(doc),
		); err != nil {
			return rollback(errors.Wrap(err, "replacing settings"))
		}
	}

	if rs != nil {
		if err := putCustomReportsTx(ctx, tx, rs); err != nil {
			return rollback(err)
		}
	}

	return errors.Wrap(tx.Commit(), "committing replace")
}

func putCustomReportsTx(ctx context.Context, tx *sql.Tx, rs []classroom.CustomReport) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM custom_reports`); err != nil {
		return errors.Wrap(err, "clearing custom reports")
	}
	for _, r := range rs {
		doc, err := json.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "encoding custom report")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO custom_reports (id, doc) VALUES (?, ?)`,
			r.ID, string(doc),
		); err != nil {
			return errors.Wrap(err, "inserting custom report")
		}
	}
	return nil
}
