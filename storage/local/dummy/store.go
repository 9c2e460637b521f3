package dummystore

import (
	"context"
	"sync"

	"github.com/dkasongo/darasa/core/classroom"
)

// Store is an in-memory stand-in for the on-device object store,
// used in tests.
type Store struct {
	sync.RWMutex
	classes  map[string]classroom.Classroom
	settings *classroom.Settings
	reports  []classroom.CustomReport
}

var _ classroom.Repository = (*Store)(nil)

func Open() *Store {
	return &Store{classes: make(map[string]classroom.Classroom)}
}

func (s *Store) GetAllClasses(_ context.Context) ([]classroom.Classroom, error) {
	s.RLock()
	defer s.RUnlock()
	out := make([]classroom.Classroom, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) GetClass(_ context.Context, id string) (classroom.Classroom, error) {
	s.RLock()
	defer s.RUnlock()
	c, ok := s.classes[id]
	if !ok {
		return classroom.Classroom{}, classroom.ErrNotFound
	}
	return c, nil
}

func (s *Store) PutClass(_ context.Context, c classroom.Classroom) error {
	s.Lock()
	defer s.Unlock()
	s.classes[c.ID] = c
	return nil
}

func (s *Store) PutClasses(_ context.Context, cs []classroom.Classroom) error {
	s.Lock()
	defer s.Unlock()
	for _, c := range cs {
		s.classes[c.ID] = c
	}
	return nil
}

func (s *Store) DeleteClass(_ context.Context, id string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.classes, id)
	return nil
}

func (s *Store) GetSettings(_ context.Context) (classroom.Settings, error) {
	s.RLock()
	defer s.RUnlock()
	if s.settings == nil {
		return classroom.Settings{}, nil
	}
	return *s.settings, nil
}

func (s *Store) PutSettings(_ context.Context, st classroom.Settings) error {
	s.Lock()
	defer s.Unlock()
	s.settings = &st
	return nil
}

func (s *Store) GetCustomReports(_ context.Context) ([]classroom.CustomReport, error) {
	s.RLock()
	defer s.RUnlock()
	return append([]classroom.CustomReport(nil), s.reports...), nil
}

func (s *Store) PutCustomReports(_ context.Context, rs []classroom.CustomReport) error {
	s.Lock()
	defer s.Unlock()
	s.reports = append([]classroom.CustomReport(nil), rs...)
	return nil
}

func (s *Store) ReplaceAll(_ context.Context, cs []classroom.Classroom, st *classroom.Settings, rs []classroom.CustomReport) error {
	s.Lock()
	defer s.Unlock()
	s.classes = make(map[string]classroom.Classroom, len(cs))
	for _, c := range cs {
		s.classes[c.ID] = c
	}
	if st != nil {
		cp := *st
		s.settings = &cp
	}
	if rs != nil {
		s.reports = append([]classroom.CustomReport(nil), rs...)
	}
	return nil
}
