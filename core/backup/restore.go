package backup

import (
	"context"
	stderrors "errors"
	"fmt"
	gosync "sync"

	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core/classroom"
)

// ErrDeclined is returned when the user declines the mandatory
// confirmation step; no mutation occurs.
var ErrDeclined = stderrors.New("restore declined")

// State is the restorer's externally visible state.
type State string

const (
	StateIdle       State = "idle"
	StateReading    State = "reading"
	StateParsing    State = "parsing"
	StateConfirming State = "confirming"
	StateRestoring  State = "restoring"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// ConfirmFunc is asked for explicit approval before local state is
// replaced. It receives a human-readable description of what the restore
// will do. There is no silent auto-restore.
type ConfirmFunc func(summary string) bool

// Restorer validates an uploaded backup document and, on confirmation,
// wholesale-replaces the local store contents with the parsed data.
type Restorer struct {
	repo classroom.Repository

	mu    gosync.Mutex
	state State
}

func NewRestorer(repo classroom.Repository) *Restorer {
	return &Restorer{repo: repo, state: StateIdle}
}

func (r *Restorer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Restorer) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Restore runs reading -> parsing -> confirming -> restoring. The replace
// is destructive: there is no merge with existing local data. A legacy
// bare-array document replaces only the classes collection, leaving the
// current settings and custom reports untouched.
func (r *Restorer) Restore(ctx context.Context, data []byte, confirm ConfirmFunc) error {
	err := r.restore(ctx, data, confirm)
	if err != nil {
		r.setState(StateError)
		return err
	}
	r.setState(StateSuccess)
	return nil
}

func (r *Restorer) restore(ctx context.Context, data []byte, confirm ConfirmFunc) error {
	r.setState(StateReading)
	if len(data) == 0 {
		return ErrBadFormat
	}

	r.setState(StateParsing)
	env, err := Parse(data)
	if err != nil {
		return err
	}

	r.setState(StateConfirming)
	summary := describeRestore(env)
	if confirm == nil || !confirm(summary) {
		return ErrDeclined
	}

	r.setState(StateRestoring)
	if err := r.repo.ReplaceAll(ctx, env.Classes, env.Settings, env.CustomReports); err != nil {
		return errors.Wrap(err, "replacing local data")
	}
	return nil
}

func describeRestore(env Envelope) string {
	msg := fmt.Sprintf("Replace all local data with %d class(es) from the backup?", len(env.Classes))
	if env.Settings != nil {
		msg += " Settings and custom reports will also be replaced."
	}
	return msg
}
