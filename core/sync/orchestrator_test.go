package sync_test

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/classroom"
	"github.com/dkasongo/darasa/core/sync"
	logsvc "github.com/dkasongo/darasa/services/logger"
	dummydb "github.com/dkasongo/darasa/storage/database/dummy"
	dummystore "github.com/dkasongo/darasa/storage/local/dummy"
	testutil "github.com/dkasongo/darasa/tests"
)

var ctx = context.Background()

func newLogger() core.Logger {
	return logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
}

func TestService_Run(t *testing.T) {
	local := dummystore.Open()
	remote := dummydb.Open()
	svc := sync.NewService(local, remote, newLogger())

	// one class only local, one only remote, one in conflict (local wins
	// direction by being newer past tolerance)
	a := testutil.SaveClass(t, local, testutil.NewClass("Grammar", classroom.TypeModular, 2, 10_000))
	b := testutil.NewClass("Reading", classroom.TypeTerm, 3, 20_000)
	remote.Classes[b.ID] = b
	c := testutil.SaveClass(t, local, testutil.NewClass("Writing", classroom.TypeModular, 1, 30_000))
	stale := c
	stale.UpdatedAt = 5_000
	remote.Classes[c.ID] = stale

	var msgs []string
	summary, err := svc.Run(ctx, func(msg string) { msgs = append(msgs, msg) })
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if summary.Uploaded != 2 {
		t.Errorf("Uploaded = %d, want 2", summary.Uploaded)
	}
	if summary.Downloaded != 1 {
		t.Errorf("Downloaded = %d, want 1", summary.Downloaded)
	}
	if summary.UpToDate {
		t.Error("UpToDate = true, want false")
	}
	if svc.Status() != sync.StatusDone {
		t.Errorf("Status() = %s, want %s", svc.Status(), sync.StatusDone)
	}

	// uploads are reported before downloads
	var firstDownload, lastUpload = -1, -1
	for i, m := range msgs {
		if strings.HasPrefix(m, "Uploading class") {
			lastUpload = i
		}
		if strings.HasPrefix(m, "Downloading class") && firstDownload < 0 {
			firstDownload = i
		}
	}
	if lastUpload < 0 || firstDownload < 0 || lastUpload > firstDownload {
		t.Errorf("uploads must precede downloads; got messages %q", msgs)
	}

	// remote got local's A and C; local got remote's B
	if got := remote.Classes[a.ID].UpdatedAt; got != a.UpdatedAt {
		t.Errorf("remote A UpdatedAt = %d, want %d", got, a.UpdatedAt)
	}
	if got := remote.Classes[c.ID].UpdatedAt; got != c.UpdatedAt {
		t.Errorf("remote C UpdatedAt = %d, want %d", got, c.UpdatedAt)
	}
	if _, err := local.GetClass(ctx, b.ID); err != nil {
		t.Errorf("class B not saved locally: %v", err)
	}

	// a second run finds nothing to do
	summary, err = svc.Run(ctx, nil)
	if err != nil {
		t.Fatalf("second Run() failed: %v", err)
	}
	if !summary.UpToDate {
		t.Errorf("second Run() summary = %+v, want up to date", summary)
	}
}

func TestService_Run_offline(t *testing.T) {
	local := dummystore.Open()
	remote := dummydb.Open()
	remote.PingErr = errors.New("connection refused")
	svc := sync.NewService(local, remote, newLogger())

	testutil.SaveClass(t, local, testutil.NewClass("Grammar", classroom.TypeModular, 1, 10_000))

	_, err := svc.Run(ctx, nil)
	if !errors.Is(err, sync.ErrOffline) {
		t.Fatalf("Run() error = %v, want ErrOffline", err)
	}
	if svc.Status() != sync.StatusFailed {
		t.Errorf("Status() = %s, want %s", svc.Status(), sync.StatusFailed)
	}
	if len(remote.Classes) != 0 {
		t.Error("no partial work expected while offline")
	}
}

func TestService_Run_uploadFailure(t *testing.T) {
	local := dummystore.Open()
	remote := dummydb.Open()
	remote.UploadErr = errors.New("boom")
	svc := sync.NewService(local, remote, newLogger())

	testutil.SaveClass(t, local, testutil.NewClass("Grammar", classroom.TypeModular, 1, 10_000))

	summary, err := svc.Run(ctx, nil)
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if summary.Uploaded != 0 {
		t.Errorf("Uploaded = %d, want 0", summary.Uploaded)
	}
	if svc.Status() != sync.StatusFailed {
		t.Errorf("Status() = %s, want %s", svc.Status(), sync.StatusFailed)
	}
}

func TestService_Run_singleSlot(t *testing.T) {
	local := dummystore.Open()
	remote := dummydb.Open()
	svc := sync.NewService(local, remote, newLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	remote.PingFunc = func() error {
		close(started)
		<-release
		return nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(ctx, nil)
		done <- err
	}()

	<-started
	if _, err := svc.Run(ctx, nil); !errors.Is(err, sync.ErrSyncInProgress) {
		t.Errorf("concurrent Run() error = %v, want ErrSyncInProgress", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("first Run() failed: %v", err)
	}
}
