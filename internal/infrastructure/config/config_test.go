package config

import "testing"

func TestDatabaseDriver(t *testing.T) {
	cases := map[string]string{
		"":           "sqlite3",
		"sqlite":     "sqlite3",
		"SQLite3":    "sqlite3",
		"postgresql": "postgres",
		"postgres":   "postgres",
		" pgx ":      "pgx",
	}
	for in, want := range cases {
		cfg := &Config{Database: DatabaseConfig{Driver: in}}
		got, err := cfg.DatabaseDriver()
		if err != nil || got != want {
			t.Fatalf("driver %q -> (%q, %v) want %q", in, got, err, want)
		}
	}

	cfg := &Config{Database: DatabaseConfig{Driver: "mysql"}}
	if _, err := cfg.DatabaseDriver(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "sqlite3", Path: "data/grades.db"}}
	got, err := cfg.DatabaseURL()
	if err != nil || got != "file:data/grades.db?_busy_timeout=5000&_fk=1" {
		t.Fatalf("sqlite dsn = %q, %v", got, err)
	}

	cfg = &Config{Database: DatabaseConfig{
		Driver: "postgres", Host: "db", Port: 5432, Name: "gradenet",
		User: "app", Password: "s3cr3t", SSLMode: "disable",
	}}
	got, err = cfg.DatabaseURL()
	if err != nil || got != "postgres://app:s3cr3t@db:5432/gradenet?sslmode=disable" {
		t.Fatalf("postgres dsn = %q, %v", got, err)
	}

	cfg = &Config{Database: DatabaseConfig{Driver: "pgx", URL: "postgres://x@y/z"}}
	if got, _ := cfg.DatabaseURL(); got != "postgres://x@y/z" {
		t.Fatalf("explicit url not honoured: %q", got)
	}

	cfg = &Config{Database: DatabaseConfig{Driver: "sqlite3"}}
	if _, err := cfg.DatabaseURL(); err == nil {
		t.Fatalf("expected error for missing sqlite path")
	}
}
