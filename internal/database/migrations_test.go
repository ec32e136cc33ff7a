package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "nested", "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("migrations recorded = %d, want 1", count)
	}
	if _, err := db.Exec("INSERT INTO kv_store (key, value) VALUES ('a', 'b')"); err != nil {
		t.Errorf("kv_store not usable: %v", err)
	}
}

func TestLoadMigrationsOrdersAndSkips(t *testing.T) {
	files := fstest.MapFS{
		"m/010_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"m/002_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"m/readme.md":      {Data: []byte("ignored")},
		"m/bad_name.sql":   {Data: []byte("ignored")},
	}
	migrations, err := NewMigrationManager(nil, files, "m").LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != 2 || migrations[1].Version != 10 {
		t.Errorf("versions = %d, %d", migrations[0].Version, migrations[1].Version)
	}
	if migrations[0].Name != "002_first" {
		t.Errorf("name = %q", migrations[0].Name)
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	files := fstest.MapFS{
		"m/001_broken.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); NOT SQL AT ALL;")},
	}
	if err := NewMigrationManager(db, files, "m").RunMigrations(); err == nil {
		t.Fatal("RunMigrations succeeded on broken SQL")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 0 {
		t.Errorf("broken migration recorded")
	}
}
