package db

import (
	"testing"
	"testing/fstest"
	"time"
)

func sqlFile(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"001_appointment.sql": sqlFile("CREATE TABLE appointment (id BIGSERIAL PRIMARY KEY);"),
		"002_sort_order.sql":  sqlFile("ALTER TABLE appointment ADD COLUMN sort_order INT;"),
	}

	migrations, err := NewMigrator(nil, fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "001_appointment.sql" {
		t.Errorf("unexpected first migration %+v", migrations[0])
	}
	if migrations[0].SQL != "CREATE TABLE appointment (id BIGSERIAL PRIMARY KEY);" {
		t.Errorf("unexpected SQL content: %s", migrations[0].SQL)
	}
	if migrations[1].Version != 2 {
		t.Errorf("expected version 2, got %d", migrations[1].Version)
	}
}

func TestLoadMigrations_SortOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"010_tables.sql": sqlFile("SELECT 10;"),
		"002_second.sql": sqlFile("SELECT 2;"),
		"001_first.sql":  sqlFile("SELECT 1;"),
		"005_middle.sql": sqlFile("SELECT 5;"),
	}

	migrations, err := NewMigrator(nil, fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	expectedVersions := []int{1, 2, 5, 10}
	if len(migrations) != len(expectedVersions) {
		t.Fatalf("expected %d migrations, got %d", len(expectedVersions), len(migrations))
	}
	for i, expected := range expectedVersions {
		if migrations[i].Version != expected {
			t.Errorf("migration[%d]: expected version %d, got %d", i, expected, migrations[i].Version)
		}
	}
}

func TestLoadMigrations_SkipsUnversioned(t *testing.T) {
	fsys := fstest.MapFS{
		"001_valid.sql":      sqlFile("SELECT 1;"),
		"readme.sql":         sqlFile("-- no version prefix"),
		"notes.txt":          sqlFile("not a sql file"),
		"abc_invalid.sql":    sqlFile("-- non-numeric prefix"),
		"002_also_valid.sql": sqlFile("SELECT 2;"),
	}

	migrations, err := NewMigrator(nil, fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 valid migrations, got %d", len(migrations))
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql":  sqlFile("SELECT 1;"),
		"0001_b.sql": sqlFile("SELECT 1;"),
	}
	if _, err := NewMigrator(nil, fsys).LoadMigrations(); err == nil {
		t.Error("expected error for duplicate versions")
	}
}

func TestLoadMigrations_Empty(t *testing.T) {
	migrations, err := NewMigrator(nil, fstest.MapFS{}).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("expected 0 migrations, got %d", len(migrations))
	}
}

func TestPendingAndStatus(t *testing.T) {
	migrations := []Migration{
		{Version: 1, Name: "001_appointment.sql"},
		{Version: 2, Name: "002_index.sql"},
		{Version: 3, Name: "003_seed.sql"},
	}
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	applied := map[int]time.Time{1: at}

	pending := Pending(migrations, applied)
	if len(pending) != 2 || pending[0].Version != 2 || pending[1].Version != 3 {
		t.Errorf("unexpected pending %+v", pending)
	}

	statuses := BuildStatus(migrations, applied)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(at) {
		t.Errorf("expected migration 001 applied at %s, got %+v", at, statuses[0])
	}
	for _, st := range statuses[1:] {
		if st.Applied || st.AppliedAt != nil {
			t.Errorf("expected %s pending, got %+v", st.Name, st)
		}
	}
}
