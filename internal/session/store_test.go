package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/picosparking/zonaazul-admin/internal/zonaazul"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	saved := StoredSession{
		Token:        "t",
		RefreshToken: "r",
		User:         &zonaazul.User{ID: "u-1", Email: "admin@example.com", Role: zonaazul.RoleAdmin},
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Token != "t" || loaded.RefreshToken != "r" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.User == nil || loaded.User.Email != "admin@example.com" {
		t.Errorf("loaded user = %+v", loaded.User)
	}
}

func TestStoreMissingFileIsLoggedOut(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Token != "" || loaded.User != nil {
		t.Errorf("loaded = %+v, want zero session", loaded)
	}
}

func TestStoreCorruptFileIsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, sessionFile), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load on corrupt file: %v", err)
	}
	if loaded.Token != "" {
		t.Errorf("loaded = %+v, want zero session", loaded)
	}
}

func TestStoreClearIsIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(StoredSession{Token: "t"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}
}

func TestDefaultDirHonorsEnv(t *testing.T) {
	t.Setenv("ZONAAZUL_HOME", "/tmp/zonaazul-test")
	if got := DefaultDir(); got != "/tmp/zonaazul-test" {
		t.Errorf("DefaultDir = %q", got)
	}
}
