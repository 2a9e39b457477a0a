package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	var got map[string]int
	found, err := Load(path, &got)
	if err != nil || found {
		t.Fatalf("Load missing = %v, %v", found, err)
	}

	if err := Save(path, map[string]int{"a": 1}, 0o600); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v", fi.Mode().Perm())
	}

	found, err = Load(path, &got)
	if err != nil || !found || got["a"] != 1 {
		t.Fatalf("Load = %v, %v, %v", got, found, err)
	}

	if err := Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	var v map[string]any
	if _, err := Load(path, &v); err == nil {
		t.Fatal("expected error")
	}
}
