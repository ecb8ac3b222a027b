package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFile_RoundTrip(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if _, ok, err := store.Get("cart"); err != nil || ok {
		t.Fatalf("Get on empty store = ok=%v err=%v, want absent", ok, err)
	}

	if err := store.Set("cart", []byte(`[{"productId":1}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := store.Get("cart")
	if err != nil || !ok {
		t.Fatalf("Get after Set = ok=%v err=%v", ok, err)
	}
	if string(value) != `[{"productId":1}]` {
		t.Errorf("Get = %s", value)
	}

	if err := store.Set("cart", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, _, _ = store.Get("cart")
	if string(value) != `[]` {
		t.Errorf("Get after overwrite = %s", value)
	}

	if err := store.Delete("cart"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get("cart"); ok {
		t.Error("Get after Delete should be absent")
	}
	if err := store.Delete("cart"); err != nil {
		t.Errorf("Delete of absent key should be a no-op, got %v", err)
	}
}

func TestFile_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := store.Set("token", []byte("abc")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "token.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("unexpected directory contents: %v", names)
	}
}

func TestFile_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFile(dir)
	if err := store.Set("token", []byte("jwt-value")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	value, ok, err := reopened.Get("token")
	if err != nil || !ok || string(value) != "jwt-value" {
		t.Errorf("Get after reopen = %q ok=%v err=%v", value, ok, err)
	}
}

func TestFile_RequiresDir(t *testing.T) {
	if _, err := NewFile("  "); err == nil {
		t.Error("NewFile with blank dir should fail")
	}
}

func TestFile_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state", "nested")
	if _, err := NewFile(dir); err != nil {
		t.Fatalf("NewFile nested: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("state dir not created: %v", err)
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	store := NewMemory()
	if err := store.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, ok, _ := store.Get("k")
	if !ok || string(value) != "v" {
		t.Fatalf("Get = %q ok=%v", value, ok)
	}

	// Mutating the returned slice must not leak into the store.
	value[0] = 'x'
	again, _, _ := store.Get("k")
	if string(again) != "v" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}

	store.Delete("k")
	if _, ok, _ := store.Get("k"); ok {
		t.Error("Get after Delete should be absent")
	}
}
