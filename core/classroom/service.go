package classroom

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dkasongo/darasa/core"
)

var (
	// errors
	ErrNotFound = errors.New("class not found")
)

type (
	// Repository is the on-device keyed object store. The sync/backup core
	// treats it purely as a keyed collection; no query language required.
	Repository interface {
		GetAllClasses(ctx context.Context) ([]Classroom, error)
		GetClass(ctx context.Context, id string) (Classroom, error)
		// PutClass inserts or replaces a class by id.
		PutClass(ctx context.Context, c Classroom) error
		// PutClasses bulk-upserts classes in one store operation.
		PutClasses(ctx context.Context, cs []Classroom) error
		DeleteClass(ctx context.Context, id string) error

		GetSettings(ctx context.Context) (Settings, error)
		PutSettings(ctx context.Context, s Settings) error
		GetCustomReports(ctx context.Context) ([]CustomReport, error)
		PutCustomReports(ctx context.Context, rs []CustomReport) error

		// ReplaceAll wholesale-replaces the store contents (restore path).
		ReplaceAll(ctx context.Context, cs []Classroom, s *Settings, rs []CustomReport) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create assigns a new id and persists an empty class.
func (svc *Service) Create(ctx context.Context, name, bookName, academicYear string, typ ClassType) (Classroom, error) {
	c := Classroom{
		ID:           uuid.New().String(),
		Name:         core.CleanString(name),
		BookName:     core.CleanString(bookName),
		AcademicYear: core.CleanString(academicYear),
		Type:         typ,
	}
	if err := c.Validate(); err != nil {
		return Classroom{}, err
	}
	return c, svc.Save(ctx, &c)
}

// Save is the single write path for aggregate mutations. It unconditionally
// stamps UpdatedAt before persisting so that no stale timestamp can reach
// the change detector.
func (svc *Service) Save(ctx context.Context, c *Classroom) error {
	c.UpdatedAt = core.NowMillis()
	return svc.repo.PutClass(ctx, *c)
}

func (svc *Service) GetAll(ctx context.Context) ([]Classroom, error) {
	return svc.repo.GetAllClasses(ctx)
}

func (svc *Service) Get(ctx context.Context, id string) (Classroom, error) {
	return svc.repo.GetClass(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteClass(ctx, id)
}

// AddStudent appends a student with a fresh id and saves the class.
func (svc *Service) AddStudent(ctx context.Context, c *Classroom, name, phoneNumber string) (Student, error) {
	s := Student{
		ID:          uuid.New().String(),
		Name:        core.CleanString(name),
		PhoneNumber: core.CleanString(phoneNumber),
	}
	if s.Name == "" {
		return Student{}, core.NewValidationError(nil, core.FieldError{Field: "name", Error: "this field is required"})
	}
	c.Students = append(c.Students, s)
	return s, svc.Save(ctx, c)
}

// AddSession appends a session with a fresh id and one default record per
// student, then saves the class.
func (svc *Service) AddSession(ctx context.Context, c *Classroom, date, dayOfWeek string) (Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		ClassID:   c.ID,
		Date:      date,
		DayOfWeek: dayOfWeek,
	}
	for _, s := range c.Students {
		sess.Records = append(sess.Records, Record{
			SessionID:  sess.ID,
			StudentID:  s.ID,
			Attendance: AttendancePresent,
		})
	}
	c.Sessions = append(c.Sessions, sess)
	return sess, svc.Save(ctx, c)
}

// SetRecord replaces the record matching (rec.SessionID, rec.StudentID),
// appending it when absent, and saves the class.
func (svc *Service) SetRecord(ctx context.Context, c *Classroom, rec Record) error {
	if !rec.Attendance.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "attendance", Error: "invalid attendance status"})
	}
	if rec.PositivePoints < 0 || rec.PositivePoints > 5 {
		return core.NewValidationError(nil, core.FieldError{Field: "positivePoints", Error: "must be between 0 and 5"})
	}
	for i := range c.Sessions {
		if c.Sessions[i].ID != rec.SessionID {
			continue
		}
		sess := &c.Sessions[i]
		replaced := false
		for j := range sess.Records {
			if sess.Records[j].StudentID == rec.StudentID {
				sess.Records[j] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			sess.Records = append(sess.Records, rec)
		}
		return svc.Save(ctx, c)
	}
	return core.NewValidationError(nil, core.FieldError{Field: "sessionId", Error: "session not found"})
}

// SetModuleGrade upserts a student's grade for one module (at most one
// entry per (student, module)) and saves the class.
func (svc *Service) SetModuleGrade(ctx context.Context, c *Classroom, studentID string, g ModuleGrade) error {
	if g.ModuleID < 1 || g.ModuleID > 5 {
		return core.NewValidationError(nil, core.FieldError{Field: "moduleId", Error: "must be between 1 and 5"})
	}
	perf := c.performanceFor(studentID)
	for i := range perf.GradesModular {
		if perf.GradesModular[i].ModuleID == g.ModuleID {
			perf.GradesModular[i] = g
			return svc.Save(ctx, c)
		}
	}
	perf.GradesModular = append(perf.GradesModular, g)
	return svc.Save(ctx, c)
}

// SetTermGrade upserts a student's grade for one term (at most one entry
// per (student, term)) and saves the class.
func (svc *Service) SetTermGrade(ctx context.Context, c *Classroom, studentID string, g TermGrade) error {
	if g.TermID < 1 || g.TermID > 2 {
		return core.NewValidationError(nil, core.FieldError{Field: "termId", Error: "must be 1 or 2"})
	}
	perf := c.performanceFor(studentID)
	for i := range perf.GradesTerm {
		if perf.GradesTerm[i].TermID == g.TermID {
			perf.GradesTerm[i] = g
			return svc.Save(ctx, c)
		}
	}
	perf.GradesTerm = append(perf.GradesTerm, g)
	return svc.Save(ctx, c)
}

func (c *Classroom) performanceFor(studentID string) *Performance {
	for i := range c.Performance {
		if c.Performance[i].StudentID == studentID {
			return &c.Performance[i]
		}
	}
	c.Performance = append(c.Performance, Performance{StudentID: studentID})
	return &c.Performance[len(c.Performance)-1]
}
