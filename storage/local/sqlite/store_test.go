package sqlitestore_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dkasongo/darasa/core/classroom"
	sqlitestore "github.com/dkasongo/darasa/storage/local/sqlite"
	testutil "github.com/dkasongo/darasa/tests"
)

var ctx = context.Background()

func setup(t *testing.T) *sqlitestore.Store {
	t.Helper()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "darasa.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_classes(t *testing.T) {
	store := setup(t)

	if _, err := store.GetClass(ctx, "nope"); !errors.Is(err, classroom.ErrNotFound) {
		t.Fatalf("GetClass() error = %v, want ErrNotFound", err)
	}

	c := testutil.NewClass("English", classroom.TypeModular, 2, 10_000)
	if err := store.PutClass(ctx, c); err != nil {
		t.Fatalf("PutClass() failed: %v", err)
	}
	got, err := store.GetClass(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetClass() failed: %v", err)
	}
	if !reflect.DeepEqual(got, c) {
		t.Errorf("GetClass() = %+v, want %+v", got, c)
	}

	// put again replaces, not duplicates
	c.Name = "English II"
	c.UpdatedAt = 20_000
	if err = store.PutClass(ctx, c); err != nil {
		t.Fatalf("PutClass() failed: %v", err)
	}
	classes, err := store.GetAllClasses(ctx)
	if err != nil {
		t.Fatalf("GetAllClasses() failed: %v", err)
	}
	if len(classes) != 1 || classes[0].Name != "English II" {
		t.Errorf("GetAllClasses() = %+v", classes)
	}

	more := []classroom.Classroom{
		c,
		testutil.NewClass("History", classroom.TypeTerm, 1, 30_000),
		testutil.NewClass("Science", classroom.TypeModular, 3, 40_000),
	}
	if err = store.PutClasses(ctx, more); err != nil {
		t.Fatalf("PutClasses() failed: %v", err)
	}
	if classes, err = store.GetAllClasses(ctx); err != nil || len(classes) != 3 {
		t.Fatalf("GetAllClasses() = %d classes, err %v; want 3", len(classes), err)
	}

	if err = store.DeleteClass(ctx, c.ID); err != nil {
		t.Fatalf("DeleteClass() failed: %v", err)
	}
	if _, err = store.GetClass(ctx, c.ID); !errors.Is(err, classroom.ErrNotFound) {
		t.Errorf("GetClass() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_settings(t *testing.T) {
	store := setup(t)

	// empty store yields zero settings, not an error
	settings, err := store.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if settings != (classroom.Settings{}) {
		t.Errorf("GetSettings() = %+v, want zero", settings)
	}

	want := classroom.Settings{Theme: "dark", AcademicYear: "2025-2026", SchoolName: "Hope Academy"}
	if err = store.PutSettings(ctx, want); err != nil {
		t.Fatalf("PutSettings() failed: %v", err)
	}
	want.Theme = "light"
	if err = store.PutSettings(ctx, want); err != nil {
		t.Fatalf("PutSettings() failed: %v", err)
	}
	if settings, err = store.GetSettings(ctx); err != nil || settings != want {
		t.Errorf("GetSettings() = %+v, err %v; want %+v", settings, err, want)
	}
}

func TestStore_customReports(t *testing.T) {
	store := setup(t)

	reports := []classroom.CustomReport{
		{ID: "r1", Name: "Attendance", Columns: []string{"name", "attendance"}},
		{ID: "r2", Name: "Scores", Columns: []string{"name", "score"}},
	}
	if err := store.PutCustomReports(ctx, reports); err != nil {
		t.Fatalf("PutCustomReports() failed: %v", err)
	}
	// a later put replaces the whole set
	if err := store.PutCustomReports(ctx, reports[:1]); err != nil {
		t.Fatalf("PutCustomReports() failed: %v", err)
	}
	got, err := store.GetCustomReports(ctx)
	if err != nil {
		t.Fatalf("GetCustomReports() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Errorf("GetCustomReports() = %+v", got)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	store := setup(t)

	testutil.SaveClass(t, store, testutil.NewClass("Old", classroom.TypeModular, 1, 1_000))
	oldSettings := classroom.Settings{Theme: "dark"}
	if err := store.PutSettings(ctx, oldSettings); err != nil {
		t.Fatal(err)
	}

	newClasses := []classroom.Classroom{
		testutil.NewClass("New One", classroom.TypeModular, 2, 10_000),
		testutil.NewClass("New Two", classroom.TypeTerm, 1, 20_000),
	}

	// legacy shape: classes only, settings survive
	if err := store.ReplaceAll(ctx, newClasses, nil, nil); err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}
	classes, err := store.GetAllClasses(ctx)
	if err != nil || len(classes) != 2 {
		t.Fatalf("GetAllClasses() = %d classes, err %v; want 2", len(classes), err)
	}
	settings, err := store.GetSettings(ctx)
	if err != nil || settings != oldSettings {
		t.Errorf("GetSettings() = %+v, err %v; want untouched %+v", settings, err, oldSettings)
	}

	// full shape replaces settings and reports too
	newSettings := classroom.Settings{Theme: "light", AcademicYear: "2026-2027"}
	reports := []classroom.CustomReport{{ID: "r1", Name: "Attendance", Columns: []string{"name"}}}
	if err = store.ReplaceAll(ctx, newClasses[:1], &newSettings, reports); err != nil {
		t.Fatalf("ReplaceAll() failed: %v", err)
	}
	if classes, err = store.GetAllClasses(ctx); err != nil || len(classes) != 1 {
		t.Fatalf("GetAllClasses() = %d classes, err %v; want 1", len(classes), err)
	}
	if settings, err = store.GetSettings(ctx); err != nil || settings != newSettings {
		t.Errorf("GetSettings() = %+v, err %v; want %+v", settings, err, newSettings)
	}
	got, err := store.GetCustomReports(ctx)
	if err != nil || len(got) != 1 {
		t.Errorf("GetCustomReports() = %+v, err %v", got, err)
	}
}
