package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error: %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Database.Path != "doable.db" {
		t.Errorf("Database.Path = %q, want doable.db", cfg.Database.Path)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Remind.Schedule != "0 8 * * *" {
		t.Errorf("Remind.Schedule = %q, want default morning schedule", cfg.Remind.Schedule)
	}
	if cfg.Remind.Notifier != "stdout" {
		t.Errorf("Remind.Notifier = %q, want stdout", cfg.Remind.Notifier)
	}
}

func TestParse_Full(t *testing.T) {
	data := []byte(`
database:
  driver: mysql
  host: db.example.com
  port: 3307
  name: doable_alice
  user: alice
server:
  port: 9090
remind:
  schedule: "30 7 * * 1-5"
  notifier: slack
  slack:
    bot_token: xoxb-test
    channel: C123
timezone: Europe/Berlin
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Database.Driver != "mysql" {
		t.Errorf("Database.Driver = %q, want mysql", cfg.Database.Driver)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Database.Host = %q", cfg.Database.Host)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want 3307", cfg.Database.Port)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Remind.Schedule != "30 7 * * 1-5" {
		t.Errorf("Remind.Schedule = %q", cfg.Remind.Schedule)
	}
	if cfg.Remind.Slack.Channel != "C123" {
		t.Errorf("Remind.Slack.Channel = %q, want C123", cfg.Remind.Slack.Channel)
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("Location() = %q, want Europe/Berlin", loc)
	}
}

func TestParse_BadDriver(t *testing.T) {
	_, err := Parse([]byte("database:\n  driver: postgres\n"))
	if err == nil {
		t.Fatal("Parse() with unsupported driver: want error, got nil")
	}
	if !strings.Contains(err.Error(), "database.driver") {
		t.Errorf("error %q should mention database.driver", err)
	}
}

func TestParse_SlackNotifierRequiresCredentials(t *testing.T) {
	_, err := Parse([]byte("remind:\n  notifier: slack\n"))
	if err == nil {
		t.Fatal("Parse() with slack notifier and no credentials: want error, got nil")
	}
	for _, want := range []string{"bot_token", "channel"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestParse_UnknownNotifier(t *testing.T) {
	_, err := Parse([]byte("remind:\n  notifier: carrier-pigeon\n"))
	if err == nil {
		t.Fatal("Parse() with unknown notifier: want error, got nil")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("database: [not a map"))
	if err == nil {
		t.Fatal("Parse() with invalid YAML: want error, got nil")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite default", cfg.Database.Driver)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doable.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7777\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("Server.Port = %d, want 7777", cfg.Server.Port)
	}
}

func TestLocation_Default(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	if loc == nil {
		t.Error("Location() = nil, want time.Local")
	}
}

func TestLocation_Invalid(t *testing.T) {
	cfg := &Config{Timezone: "Mars/Olympus_Mons"}
	if _, err := cfg.Location(); err == nil {
		t.Error("Location() with bogus timezone: want error, got nil")
	}
}
