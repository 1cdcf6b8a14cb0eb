package storage_test

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/nikbrunner/dm/internal/storage"
)

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	config, err := storage.LoadConfig(fs, "/cfg/dm/config.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Storage.Backend != storage.BackendJSON {
		t.Errorf("expected json backend, got %q", config.Storage.Backend)
	}
	if config.Quick.Exclusive {
		t.Error("quick flag should not be exclusive by default")
	}

	exists, err := afero.Exists(fs, "/cfg/dm/config.yml")
	if err != nil || !exists {
		t.Error("expected default config to be written")
	}
}

func TestLoadConfig_ReadsValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `storage:
  backend: sqlite
  path: /data/marks.db
quick:
  exclusive: true
logging:
  level: debug
`
	if err := afero.WriteFile(fs, "/config.yml", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := storage.LoadConfig(fs, "/config.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Storage.Backend != storage.BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", config.Storage.Backend)
	}
	if config.StorePath() != "/data/marks.db" {
		t.Errorf("expected configured path, got %q", config.StorePath())
	}
	if !config.Quick.Exclusive {
		t.Error("expected exclusive quick")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", config.Logging.Level)
	}
}

func TestLoadConfig_AppliesDefaultsForMissingFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/config.yml", []byte("quick:\n  exclusive: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := storage.LoadConfig(fs, "/config.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Storage.Backend != storage.BackendJSON {
		t.Errorf("expected default backend, got %q", config.Storage.Backend)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("expected default level, got %q", config.Logging.Level)
	}
	if !strings.HasSuffix(config.StorePath(), "bookmarks.json") {
		t.Errorf("expected default json store path, got %q", config.StorePath())
	}
}

func TestLoadConfig_RejectsUnknownBackend(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/config.yml", []byte("storage:\n  backend: redis\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := storage.LoadConfig(fs, "/config.yml"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/config.yml", []byte("storage: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := storage.LoadConfig(fs, "/config.yml"); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_SQLiteDefaultPath(t *testing.T) {
	config := storage.DefaultConfig()
	config.Storage.Backend = storage.BackendSQLite

	if !strings.HasSuffix(config.StorePath(), "bookmarks.db") {
		t.Errorf("expected sqlite default path, got %q", config.StorePath())
	}
}

func TestOpen_JSON(t *testing.T) {
	config := storage.DefaultConfig()
	config.Storage.Path = "/data/bookmarks.json"

	s, closeFn, err := storage.Open(afero.NewMemMapFs(), &config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	if _, ok := s.(*storage.JSONStorage); !ok {
		t.Errorf("expected JSONStorage, got %T", s)
	}
}

func TestOpen_SQLite(t *testing.T) {
	config := storage.DefaultConfig()
	config.Storage.Backend = storage.BackendSQLite
	config.Storage.Path = t.TempDir() + "/bookmarks.db"

	s, closeFn, err := storage.Open(afero.NewOsFs(), &config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	if _, ok := s.(*storage.SQLiteStorage); !ok {
		t.Errorf("expected SQLiteStorage, got %T", s)
	}
}
