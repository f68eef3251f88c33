package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Locale      string        `default:"en"`
	CallTimeout time.Duration `split_words:"true" default:"10s"`
	Port        int           `default:"8080"`
}

func TestExportEnvironmentKeepsProcessValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "CFGTEST_LOCALE=ru\nCFGTEST_PORT=9090\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("CFGTEST_PORT", "7070")
	t.Setenv("CFGTEST_LOCALE", "")
	os.Unsetenv("CFGTEST_LOCALE")

	if err := exportEnvironment(path); err != nil {
		t.Fatalf("exportEnvironment() error = %v", err)
	}
	if got := os.Getenv("CFGTEST_LOCALE"); got != "ru" {
		t.Fatalf("CFGTEST_LOCALE = %q, want ru", got)
	}
	if got := os.Getenv("CFGTEST_PORT"); got != "7070" {
		t.Fatalf("CFGTEST_PORT = %q, want 7070", got)
	}
}

func TestExportEnvironmentIfExistsMissingFile(t *testing.T) {
	if err := exportEnvironmentIfExists(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("exportEnvironmentIfExists() error = %v", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Setenv("CFGDEF_PORT", "9000")

	conf, err := New[testConfig]("CFGDEF")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Locale != "en" || conf.CallTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", conf)
	}
	if conf.Port != 9000 {
		t.Fatalf("Port = %d, want 9000", conf.Port)
	}
}
