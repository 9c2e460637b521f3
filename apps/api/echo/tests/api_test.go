package tests

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkasongo/darasa/core/backup"
	"github.com/dkasongo/darasa/core/classroom"
	"github.com/dkasongo/darasa/core/user"
	testutil "github.com/dkasongo/darasa/tests"
)

func Test_home(t *testing.T) {
	rec := do(newRequest(http.MethodGet, "/", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome")
}

func Test_authApi_login(t *testing.T) {
	testutil.CreateUser(t, usrRepo, "Awe", "awe", "awe@test.cd", "s3cr3tPwd", nil, true)
	testutil.CreateUser(t, usrRepo, "Gone", "gone", "gone@test.cd", "s3cr3tPwd", nil, false)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "ok by username", body: `{"username": "awe", "password": "s3cr3tPwd"}`, wantCode: http.StatusOK},
		{name: "ok by email", body: `{"username": "AWE@test.cd", "password": "s3cr3tPwd"}`, wantCode: http.StatusOK},
		{name: "wrong password", body: `{"username": "awe", "password": "nope"}`, wantCode: http.StatusUnauthorized, wantErr: "Invalid username/email or password"},
		{name: "unknown user", body: `{"username": "who", "password": "s3cr3tPwd"}`, wantCode: http.StatusUnauthorized, wantErr: "Invalid username/email or password"},
		{name: "inactive user", body: `{"username": "gone", "password": "s3cr3tPwd"}`, wantCode: http.StatusUnauthorized, wantErr: "Invalid username/email or password"},
		{name: "missing fields", body: `{}`, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newRequest(http.MethodPost, "/v1/auth/login", "", []byte(tt.body)))
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp map[string]interface{}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			if tt.wantCode == http.StatusOK {
				assert.NotEmpty(t, resp["token"])
			} else if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
			}
		})
	}
}

func Test_classApi_authz(t *testing.T) {
	studentToken := newToken(t, "kid", []string{user.RoleStudent})

	rec := do(newRequest(http.MethodGet, "/v1/classes", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code) // missing token

	rec = do(newRequest(http.MethodGet, "/v1/classes", studentToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// teachers may read but not delete
	teacherToken := newToken(t, "prof", []string{user.RoleTeacher})
	rec = do(newRequest(http.MethodGet, "/v1/classes", teacherToken))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(newRequest(http.MethodDelete, "/v1/classes/whatever", teacherToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_classApi_crud(t *testing.T) {
	adminToken := newToken(t, "boss", user.AllRoles)

	body := `{"name": "English", "bookName": "Side by Side", "academicYear": "2025-2026", "type": "MODULAR"}`
	rec := do(newRequest(http.MethodPost, "/v1/classes", adminToken, []byte(body)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created classroom.Classroom
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.NotZero(t, created.UpdatedAt)

	// invalid type rejected with field errors
	rec = do(newRequest(http.MethodPost, "/v1/classes", adminToken, []byte(`{"name": "X", "type": "WEEKLY"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "type")

	rec = do(newRequest(http.MethodGet, "/v1/classes/"+created.ID, adminToken))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(newRequest(http.MethodGet, "/v1/classes/nope", adminToken))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// add a student then a session; the session gets a default record
	rec = do(newRequest(http.MethodPost, "/v1/classes/"+created.ID+"/students", adminToken, []byte(`{"name": "Alice"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	var student classroom.Student
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &student))

	rec = do(newRequest(http.MethodPost, "/v1/classes/"+created.ID+"/sessions", adminToken, []byte(`{"date": "2026-01-05", "dayOfWeek": "Monday"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	var sess classroom.Session
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	if assert.Len(t, sess.Records, 1) {
		assert.Equal(t, classroom.AttendancePresent, sess.Records[0].Attendance)
	}

	recBody := fmt.Sprintf(`{"sessionId": %q, "studentId": %q, "attendance": "LATE", "positivePoints": 3}`, sess.ID, student.ID)
	rec = do(newRequest(http.MethodPut, "/v1/classes/"+created.ID+"/records", adminToken, []byte(recBody)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(newRequest(http.MethodDelete, "/v1/classes/"+created.ID, adminToken))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func Test_syncApi(t *testing.T) {
	adminToken := newToken(t, "chief", user.AllRoles)

	testutil.SaveClass(t, local, testutil.NewClass("Reading", classroom.TypeTerm, 1, 10_000))

	rec := do(newRequest(http.MethodPost, "/v1/sync", adminToken))
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])

	rec = do(newRequest(http.MethodGet, "/v1/sync/status", adminToken))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "done")

	remote.PingErr = errors.New("connection refused")
	defer func() { remote.PingErr = nil }()
	rec = do(newRequest(http.MethodPost, "/v1/sync", adminToken))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func Test_backupApi(t *testing.T) {
	adminToken := newToken(t, "keeper", user.AllRoles)
	teacherToken := newToken(t, "helper", []string{user.RoleTeacher})

	c := testutil.SaveClass(t, local, testutil.NewClass("Science", classroom.TypeModular, 2, 10_000))

	// backup is admin only
	rec := do(newRequest(http.MethodGet, "/v1/backup", teacherToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(newRequest(http.MethodGet, "/v1/backup", adminToken))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "darasa-backup-")

	var env backup.Envelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, backup.Version, env.Meta.Version)
	doc := rec.Body.Bytes()

	// restore asks for confirmation first
	rec = do(newRequest(http.MethodPost, "/v1/backup/restore", adminToken, doc))
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "confirm=true")

	rec = do(newRequest(http.MethodPost, "/v1/backup/restore?confirm=true", adminToken, doc))
	assert.Equal(t, http.StatusOK, rec.Code)
	if _, err := local.GetClass(ctx, c.ID); err != nil {
		t.Errorf("class lost in restore: %v", err)
	}

	rec = do(newRequest(http.MethodPost, "/v1/backup/restore?confirm=true", adminToken, []byte("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
