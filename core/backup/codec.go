package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/classroom"
)

// Version written into new backup documents.
const Version = "2.0"

// ErrBadFormat rejects a document lacking a recognizable classes array,
// before any local mutation.
var ErrBadFormat = errors.New("unrecognized backup format: no classes found")

type (
	// Envelope is the backup file format (UTF-8 JSON).
	Envelope struct {
		Meta          Meta                    `json:"meta"`
		Classes       []classroom.Classroom   `json:"classes"`
		Settings      *classroom.Settings     `json:"settings,omitempty"`
		CustomReports []classroom.CustomReport `json:"customReports,omitempty"`
	}

	Meta struct {
		Version string    `json:"version"`
		Date    time.Time `json:"date"`
		App     string    `json:"app"`
	}
)

// Export serializes the entire local dataset into one backup document.
// Classes are sanitized on the way out: lesson-plan text stripped and any
// resource file over the size threshold elided.
func Export(ctx context.Context, repo classroom.Repository) ([]byte, error) {
	classes, err := repo.GetAllClasses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading classes")
	}
	settings, err := repo.GetSettings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading settings")
	}
	reports, err := repo.GetCustomReports(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading custom reports")
	}

	env := Envelope{
		Meta: Meta{
			Version: Version,
			Date:    time.Now().UTC(),
			App:     core.Conf.AppName,
		},
		Classes:       make([]classroom.Classroom, 0, len(classes)),
		Settings:      &settings,
		CustomReports: reports,
	}
	for _, c := range classes {
		env.Classes = append(env.Classes, c.Sanitized())
	}
	return json.MarshalIndent(env, "", "  ")
}

// Parse decodes an uploaded backup document. It accepts either the
// structured envelope (current format) or a bare JSON array of classes
// (legacy format); a legacy document populates only the classes collection.
func Parse(data []byte) (Envelope, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return Envelope{}, ErrBadFormat
	}

	if trimmed[0] == '[' {
		var classes []classroom.Classroom
		if err := json.Unmarshal(trimmed, &classes); err != nil {
			return Envelope{}, ErrBadFormat
		}
		return Envelope{Classes: classes}, nil
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Envelope{}, ErrBadFormat
	}
	if env.Classes == nil {
		return Envelope{}, ErrBadFormat
	}
	return env, nil
}
