package classroom

// ClassType is the grading period structure of a class.
type ClassType string

const (
	// TypeModular grades over 5 fixed modules.
	TypeModular ClassType = "MODULAR"
	// TypeTerm grades over 2 terms with continuous+final sub-scores.
	TypeTerm ClassType = "TERM"
)

func (t ClassType) Valid() bool {
	return t == TypeModular || t == TypeTerm
}

// Attendance is a student's presence status for one session.
type Attendance string

const (
	AttendancePresent Attendance = "PRESENT"
	AttendanceAbsent  Attendance = "ABSENT"
	AttendanceLate    Attendance = "LATE"
)

func (a Attendance) Valid() bool {
	switch a {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// Discipline point penalties.
const (
	SleepPenalty       = 0.5
	BadBehaviorPenalty = 0.5
	ExpelledPenalty    = 1.0
)

// MaxResourceFileSize is the largest encoded attachment carried to the
// remote store or into a backup document. Larger files are elided to avoid
// payload-size failures.
const MaxResourceFileSize = 5 << 20 // 5 MiB

type (
	// Classroom is the aggregate root: the unit of sync and backup.
	Classroom struct {
		ID           string        `json:"id"`
		Name         string        `json:"name"`
		BookName     string        `json:"bookName"`
		AcademicYear string        `json:"academicYear"`
		Type         ClassType     `json:"type"`
		UpdatedAt    int64         `json:"updatedAt"` // epoch millis, last-modification marker
		Students     []Student     `json:"students"`
		Sessions     []Session     `json:"sessions"`
		Performance  []Performance `json:"performance"`
		Resources    *Resources    `json:"resources,omitempty"`
	}

	Student struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber,omitempty"`
		Avatar      string `json:"avatar,omitempty"` // inline image data
	}

	Session struct {
		ID         string      `json:"id"`
		ClassID    string      `json:"classId"`
		Date       string      `json:"date"` // ISO-8601
		DayOfWeek  string      `json:"dayOfWeek"`
		LessonPlan *LessonPlan `json:"lessonPlan,omitempty"`
		Records    []Record    `json:"records"`
	}

	LessonPlan struct {
		Subject    string `json:"subject"`
		Objectives string `json:"objectives"`
		Procedure  string `json:"procedure"`
		Assessment string `json:"assessment"`
	}

	// Record holds one student's attendance and points for one session.
	// Its composite identity is (SessionID, StudentID).
	Record struct {
		SessionID      string     `json:"sessionId"`
		StudentID      string     `json:"studentId"`
		Attendance     Attendance `json:"attendance"`
		Discipline     Discipline `json:"discipline"`
		PositivePoints float64    `json:"positivePoints"` // continuous 0-5
		Note           string     `json:"note,omitempty"`
	}

	Discipline struct {
		Sleep       bool `json:"sleep"`
		BadBehavior bool `json:"badBehavior"`
		Expelled    bool `json:"expelled"`
	}

	// Performance holds one student's grades for the class.
	// At most one grade entry per (student, module) or (student, term).
	Performance struct {
		StudentID     string        `json:"studentId"`
		GradesModular []ModuleGrade `json:"gradesModular,omitempty"`
		GradesTerm    []TermGrade   `json:"gradesTerm,omitempty"`
	}

	ModuleGrade struct {
		ModuleID  int     `json:"moduleId"` // 1-5
		ExamScore float64 `json:"examScore"`
		Score     float64 `json:"score"`
	}

	TermGrade struct {
		TermID     int     `json:"termId"` // 1-2
		Continuous float64 `json:"continuous"`
		Final      float64 `json:"final"`
	}

	// Resources holds an optional attached file and the lesson-plan text
	// list. Both stay local: they are stripped before upload and backup.
	Resources struct {
		File        *ResourceFile `json:"file,omitempty"`
		LessonPlans []string      `json:"lessonPlans,omitempty"`
	}

	ResourceFile struct {
		Name     string `json:"name"`
		MimeType string `json:"mimeType"`
		Data     string `json:"data"` // base64-encoded content
	}

	// Settings is the teacher's global application state.
	Settings struct {
		Theme         string `json:"theme"`
		AcademicYear  string `json:"academicYear"`
		SchoolName    string `json:"schoolName,omitempty"`
		TeacherName   string `json:"teacherName,omitempty"`
		ReportLocale  string `json:"reportLocale,omitempty"`
		LicenseStatus string `json:"licenseStatus,omitempty"`
	}

	// CustomReport is a teacher-defined report layout.
	CustomReport struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Columns []string `json:"columns"`
	}
)

// Penalty sums the fixed point penalties of the set discipline flags.
func (d Discipline) Penalty() float64 {
	var p float64
	if d.Sleep {
		p += SleepPenalty
	}
	if d.BadBehavior {
		p += BadBehaviorPenalty
	}
	if d.Expelled {
		p += ExpelledPenalty
	}
	return p
}

// Score is the student's score for the session: positive points minus
// discipline penalties.
func (r Record) Score() float64 {
	return r.PositivePoints - r.Discipline.Penalty()
}

// UniqueID is the synthetic key `sessionId_studentId` used by the remote
// session_records table.
func (r Record) UniqueID() string {
	return r.SessionID + "_" + r.StudentID
}

// Student returns the student with the given id, if present.
func (c Classroom) Student(id string) (Student, bool) {
	for _, s := range c.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

// Records flattens all session records across all sessions.
func (c Classroom) AllRecords() []Record {
	var recs []Record
	for _, sess := range c.Sessions {
		recs = append(recs, sess.Records...)
	}
	return recs
}

// Sanitized returns a copy of the class fit for upload or backup:
// the lesson-plan text list is cleared and the attached resource file is
// dropped when its encoded size exceeds MaxResourceFileSize.
func (c Classroom) Sanitized() Classroom {
	if c.Resources == nil {
		return c
	}
	res := &Resources{File: c.Resources.File}
	if res.File != nil && len(res.File.Data) > MaxResourceFileSize {
		res.File = nil
	}
	if res.File == nil {
		c.Resources = nil
	} else {
		c.Resources = res
	}
	return c
}
