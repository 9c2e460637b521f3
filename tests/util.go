package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dkasongo/darasa/core/classroom"
	"github.com/dkasongo/darasa/core/user"
)

// NewClass returns an unsaved class with n students and one session per
// student recorded PRESENT.
func NewClass(name string, typ classroom.ClassType, n int, updatedAt int64) classroom.Classroom {
	c := classroom.Classroom{
		ID:           uuid.New().String(),
		Name:         name,
		BookName:     name + " Book",
		AcademicYear: "2025-2026",
		Type:         typ,
		UpdatedAt:    updatedAt,
	}
	sess := classroom.Session{
		ID:        uuid.New().String(),
		ClassID:   c.ID,
		Date:      "2026-01-05",
		DayOfWeek: "Monday",
	}
	for i := 0; i < n; i++ {
		s := classroom.Student{
			ID:   uuid.New().String(),
			Name: fmt.Sprintf("Student %d", i+1),
		}
		c.Students = append(c.Students, s)
		sess.Records = append(sess.Records, classroom.Record{
			SessionID:  sess.ID,
			StudentID:  s.ID,
			Attendance: classroom.AttendancePresent,
		})
	}
	c.Sessions = append(c.Sessions, sess)
	return c
}

func SaveClass(t *testing.T, repo classroom.Repository, c classroom.Classroom) classroom.Classroom {
	t.Helper()
	if err := repo.PutClass(context.Background(), c); err != nil {
		t.Fatalf("SaveClass() failed: %v", err)
	}
	return c
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
