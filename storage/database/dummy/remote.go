package dummydb

import (
	"context"
	gosync "sync"

	"github.com/dkasongo/darasa/core/classroom"
	syncs "github.com/dkasongo/darasa/core/sync"
)

// RemoteStore is an in-memory stand-in for the hosted relational mirror,
// used in tests. Optional error hooks inject failures per operation.
type RemoteStore struct {
	gosync.RWMutex
	Classes map[string]classroom.Classroom

	PingErr     error
	PingFunc    func() error
	UploadErr   error
	DownloadErr error
}

var _ syncs.RemoteStore = (*RemoteStore)(nil)

func Open() *RemoteStore {
	return &RemoteStore{Classes: make(map[string]classroom.Classroom)}
}

func (s *RemoteStore) Ping(_ context.Context) error {
	if s.PingFunc != nil {
		return s.PingFunc()
	}
	return s.PingErr
}

func (s *RemoteStore) ListClassHeads(_ context.Context) ([]syncs.ClassHead, error) {
	s.RLock()
	defer s.RUnlock()
	heads := make([]syncs.ClassHead, 0, len(s.Classes))
	for _, c := range s.Classes {
		heads = append(heads, syncs.ClassHead{ID: c.ID, UpdatedAt: c.UpdatedAt})
	}
	return heads, nil
}

func (s *RemoteStore) UploadClass(_ context.Context, c classroom.Classroom, progress syncs.ProgressFunc) error {
	if s.UploadErr != nil {
		return s.UploadErr
	}
	s.Lock()
	defer s.Unlock()
	progress.Notify("Uploading class " + c.Name + "...")
	s.Classes[c.ID] = c.Sanitized()
	return nil
}

func (s *RemoteStore) DownloadClass(_ context.Context, id string) (classroom.Classroom, error) {
	if s.DownloadErr != nil {
		return classroom.Classroom{}, s.DownloadErr
	}
	s.RLock()
	defer s.RUnlock()
	c, ok := s.Classes[id]
	if !ok {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	return c, nil
}
