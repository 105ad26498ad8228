package settings

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "settings.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return st
}

func TestOpen_Defaults(t *testing.T) {
	st := openTemp(t)
	if got := st.Get(); got != DefaultSettings() {
		t.Errorf("Get = %+v, want defaults", got)
	}
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	st, err := Open(path)
	if err == nil {
		t.Error("expected a parse error")
	}
	if st == nil || st.Get() != DefaultSettings() {
		t.Error("corrupt file should still yield a usable store with defaults")
	}
}

func TestSaveCredential_RoundTrip(t *testing.T) {
	st := openTemp(t)

	if err := st.SaveCredential("google", " AIzaSyTEST "); err != nil {
		t.Fatalf("SaveCredential failed: %v", err)
	}
	if err := st.SetAutoTranslate(false); err != nil {
		t.Fatalf("SetAutoTranslate failed: %v", err)
	}

	reopened, err := Open(st.Path())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	want := Settings{Provider: "google", APIKey: "AIzaSyTEST", AutoTranslate: false}
	if got := reopened.Get(); got != want {
		t.Errorf("persisted %+v, want %+v", got, want)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(st.Path())
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("settings file mode %o, want 600", perm)
		}
	}
}

func TestSaveCredential_EmptyRemoves(t *testing.T) {
	st := openTemp(t)
	if err := st.SaveCredential("deepseek", "sk-123"); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveCredential("openai", ""); err != nil {
		t.Fatal(err)
	}

	got := st.Get()
	if got.APIKey != "" {
		t.Errorf("key not removed: %q", got.APIKey)
	}
	if got.Provider != "deepseek" {
		t.Errorf("removing a key changed the provider to %q", got.Provider)
	}
}

func TestCredentialStatus(t *testing.T) {
	st := openTemp(t)
	if err := st.SaveCredential("openrouter", "sk-or-saved"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key  string
		want CredentialStatus
	}{
		{"", CredentialEmpty},
		{"   ", CredentialEmpty},
		{"sk-or-saved", CredentialSaved},
		{"sk-or-other", CredentialUnsaved},
	}
	for _, tt := range tests {
		if got := st.CredentialStatus(tt.key); got != tt.want {
			t.Errorf("CredentialStatus(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestWriteFailureKeepsState(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	// The parent "directory" is a regular file, so writes fail.
	st, _ := Open(filepath.Join(blocker, "settings.json"))

	if err := st.SetAutoTranslate(false); err == nil {
		t.Fatal("expected write error")
	}
	if !st.Get().AutoTranslate {
		t.Error("in-memory settings changed despite the failed write")
	}
}
