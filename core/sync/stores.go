package sync

import (
	"context"

	"github.com/dkasongo/darasa/core/classroom"
)

type (
	// ClassHead is the id + last-modification marker of one remote class,
	// all the change detector needs to look at.
	ClassHead struct {
		ID        string
		UpdatedAt int64
	}

	// LocalStore is the subset of the on-device store the orchestrator
	// touches. It mutates the store only through one bulk upsert after all
	// downloads finish.
	LocalStore interface {
		GetAllClasses(ctx context.Context) ([]classroom.Classroom, error)
		PutClasses(ctx context.Context, cs []classroom.Classroom) error
	}

	// RemoteStore is the hosted relational mirror. UploadClass performs the
	// destructive full-replace of one aggregate; DownloadClass is pure.
	RemoteStore interface {
		// Ping is the reachability probe; it must not mutate anything.
		Ping(ctx context.Context) error
		ListClassHeads(ctx context.Context) ([]ClassHead, error)
		UploadClass(ctx context.Context, c classroom.Classroom, progress ProgressFunc) error
		DownloadClass(ctx context.Context, id string) (classroom.Classroom, error)
	}

	// ProgressFunc receives human-readable status strings as phases advance.
	ProgressFunc func(msg string)
)

// Notify calls the func when non-nil.
func (f ProgressFunc) Notify(msg string) {
	if f != nil {
		f(msg)
	}
}
