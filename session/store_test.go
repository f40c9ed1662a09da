package session

import (
	"context"
	"path/filepath"
	"testing"
)

func newMemoryStore(t *testing.T) Store {
	t.Helper()

	store, err := NewStore(StoreTypeMemory)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestStoreStartsPristine(t *testing.T) {
	store := newMemoryStore(t)
	defer store.Close()

	sess, err := store.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sess.User != nil || sess.Token != "" || sess.Settings != nil {
		t.Errorf("fresh store not empty: %+v", sess)
	}
	if sess.IsAuthenticated != nil {
		t.Error("authentication flag must start unknown, not resolved")
	}
}

func TestSetUserRecordsIdentityOnly(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	defer store.Close()

	if err := store.SetToken(ctx, "tok"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if err := store.SetUser(ctx, User{"email": "a@b.com"}, true); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	sess, _ := store.Get(ctx)
	if sess.User["email"] != "a@b.com" {
		t.Errorf("user = %v", sess.User)
	}
	if !sess.Authenticated() {
		t.Error("flag not recorded")
	}
	if sess.Token != "tok" {
		t.Error("SetUser must not touch the token")
	}
}

// ClearSession resets identity and token but deliberately leaves the
// authentication flag and settings alone. Callers wanting the pristine
// state use Reset.
func TestClearSessionAsymmetry(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	defer store.Close()

	seedSession(t, store)

	if err := store.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	sess, _ := store.Get(ctx)
	if sess.User != nil {
		t.Errorf("user survives clear: %v", sess.User)
	}
	if sess.Token != "" {
		t.Errorf("token survives clear: %q", sess.Token)
	}
	if sess.IsAuthenticated == nil || !*sess.IsAuthenticated {
		t.Error("ClearSession must NOT reset the authentication flag")
	}
	if sess.Settings == nil {
		t.Error("ClearSession must NOT reset settings")
	}
}

func TestResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	defer store.Close()

	seedSession(t, store)

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	sess, _ := store.Get(ctx)
	if sess.User != nil || sess.Token != "" || sess.Settings != nil || sess.IsAuthenticated != nil {
		t.Errorf("Reset left state behind: %+v", sess)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)
	defer store.Close()

	if err := store.SetUser(ctx, User{"email": "a@b.com"}, true); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	first, _ := store.Get(ctx)
	first.User["email"] = "tampered"
	first.Token = "tampered"

	second, _ := store.Get(ctx)
	if second.User["email"] != "a@b.com" || second.Token != "" {
		t.Error("Get must hand out copies, not shared state")
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewStore(StoreTypeFile, WithFilePath(path))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	seedSession(t, store)
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewStore(StoreTypeFile, WithFilePath(path))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	sess, err := reopened.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if sess.User["email"] != "a@b.com" {
		t.Errorf("user lost across reopen: %v", sess.User)
	}
	if sess.Token != "tok" {
		t.Errorf("token lost across reopen: %q", sess.Token)
	}
	if !sess.Authenticated() {
		t.Error("authentication flag lost across reopen")
	}
	if sess.Settings["theme"] != "dark" {
		t.Errorf("settings lost across reopen: %v", sess.Settings)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore(StoreType("bogus")); err != ErrInvalidStoreType {
		t.Errorf("err = %v, want ErrInvalidStoreType", err)
	}
	if _, err := NewStore(StoreTypeRedis); err != ErrInvalidConfig {
		t.Errorf("redis without client: err = %v, want ErrInvalidConfig", err)
	}
}

func TestSettingsDecode(t *testing.T) {
	s := Settings{
		"site_name":     "Studio",
		"max_upload_mb": "25", // backend serves some numbers as strings
		"tts_enabled":   true,
	}

	var out struct {
		SiteName    string `json:"site_name"`
		MaxUploadMB int    `json:"max_upload_mb"`
		TTSEnabled  bool   `json:"tts_enabled"`
	}
	if err := s.Decode(&out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.SiteName != "Studio" || out.MaxUploadMB != 25 || !out.TTSEnabled {
		t.Errorf("decoded = %+v", out)
	}
}

func seedSession(t *testing.T, store Store) {
	t.Helper()

	ctx := context.Background()
	if err := store.SetUser(ctx, User{"email": "a@b.com"}, true); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}
	if err := store.SetToken(ctx, "tok"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if err := store.SetSetting(ctx, Settings{"theme": "dark"}); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
}
