package sync

import (
	"context"
	stderrors "errors"
	"fmt"
	gosync "sync"

	"github.com/pkg/errors"

	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/classroom"
)

var (
	// ErrOffline is returned when the reachability probe fails; no partial
	// work is attempted.
	ErrOffline = stderrors.New("remote store unreachable")
	// ErrSyncInProgress rejects a second invocation while one is active.
	ErrSyncInProgress = stderrors.New("a sync is already in progress")
)

// Status is the orchestrator's externally visible state.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusDetecting   Status = "detecting"
	StatusUploading   Status = "uploading"
	StatusDownloading Status = "downloading"
	StatusReconciling Status = "reconciling"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
)

// Summary reports the outcome of one orchestration run.
type Summary struct {
	Uploaded   int
	Downloaded int
	UpToDate   bool
}

func (s Summary) String() string {
	if s.UpToDate {
		return "Everything is up to date."
	}
	return fmt.Sprintf("Sync complete: %d uploaded, %d downloaded.", s.Uploaded, s.Downloaded)
}

// Service sequences detector output into upload and download passes.
// Uploads run strictly before downloads, sequentially per class, so that
// progress messages stay ordered and attributable to one class at a time.
type Service struct {
	local  LocalStore
	remote RemoteStore
	log    core.Logger

	mu      gosync.Mutex
	running bool
	status  Status
}

func NewService(local LocalStore, remote RemoteStore, log core.Logger) *Service {
	return &Service{local: local, remote: remote, log: log, status: StatusIdle}
}

// Status returns the state of the current (or last) run.
func (svc *Service) Status() Status {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.status
}

func (svc *Service) setStatus(s Status) {
	svc.mu.Lock()
	svc.status = s
	svc.mu.Unlock()
}

// Run executes one full reconciliation: detect, upload, download, then a
// single bulk upsert into the local store. Classes not touched by the run
// are left untouched locally. There is no automatic retry; the caller may
// re-invoke after a failure.
func (svc *Service) Run(ctx context.Context, progress ProgressFunc) (Summary, error) {
	svc.mu.Lock()
	if svc.running {
		svc.mu.Unlock()
		return Summary{}, ErrSyncInProgress
	}
	svc.running = true
	svc.mu.Unlock()
	defer func() {
		svc.mu.Lock()
		svc.running = false
		svc.mu.Unlock()
	}()

	summary, err := svc.run(ctx, progress)
	if err != nil {
		svc.setStatus(StatusFailed)
		svc.log.Error("sync failed", err)
		return summary, err
	}
	svc.setStatus(StatusDone)
	svc.log.Info(summary.String())
	return summary, nil
}

func (svc *Service) run(ctx context.Context, progress ProgressFunc) (Summary, error) {
	progress.Notify("Checking connection...")
	if err := svc.remote.Ping(ctx); err != nil {
		return Summary{}, errors.Wrap(ErrOffline, err.Error())
	}

	svc.setStatus(StatusDetecting)
	progress.Notify("Comparing local and cloud data...")
	locals, err := svc.local.GetAllClasses(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "reading local classes")
	}
	heads, err := svc.remote.ListClassHeads(ctx)
	if err != nil {
		return Summary{}, errors.Wrap(err, "listing remote classes")
	}
	plan := Detect(locals, heads)

	if plan.Empty() {
		progress.Notify("Everything is up to date.")
		return Summary{UpToDate: true}, nil
	}

	var summary Summary

	svc.setStatus(StatusUploading)
	for i, c := range plan.ToUpload {
		progress.Notify(fmt.Sprintf("Uploading class %q (%d/%d)...", c.Name, i+1, len(plan.ToUpload)))
		if err := svc.remote.UploadClass(ctx, c, progress); err != nil {
			return summary, errors.Wrapf(err, "uploading class %q", c.Name)
		}
		summary.Uploaded++
	}

	svc.setStatus(StatusDownloading)
	downloaded := make([]classroom.Classroom, 0, len(plan.ToDownload))
	for j, h := range plan.ToDownload {
		progress.Notify(fmt.Sprintf("Downloading class %d/%d...", j+1, len(plan.ToDownload)))
		c, err := svc.remote.DownloadClass(ctx, h.ID)
		if err != nil {
			return summary, errors.Wrapf(err, "downloading class %s", h.ID)
		}
		downloaded = append(downloaded, c)
	}

	// The local store is mutated in one bulk upsert only after all
	// downloads finish, avoiding interleaved partial writes.
	svc.setStatus(StatusReconciling)
	if len(downloaded) > 0 {
		progress.Notify("Saving downloaded classes...")
		if err := svc.local.PutClasses(ctx, downloaded); err != nil {
			return summary, errors.Wrap(err, "saving downloaded classes")
		}
		summary.Downloaded = len(downloaded)
	}

	progress.Notify(summary.String())
	return summary, nil
}
