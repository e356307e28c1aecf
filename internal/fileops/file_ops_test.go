package fileops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTempFileForAllocatesFreshPaths(t *testing.T) {
	dir := t.TempDir()

	first, err := TempFileFor(dir, "dklet-tmp", "FROM alpine\n")
	if err != nil {
		t.Fatalf("first temp file: %v", err)
	}
	second, err := TempFileFor(dir, "dklet-tmp", "FROM alpine\n")
	if err != nil {
		t.Fatalf("second temp file: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct paths, got %s twice", first)
	}
	if !strings.HasPrefix(filepath.Base(first), "dklet-tmp-") {
		t.Fatalf("unexpected name: %s", first)
	}
	for _, path := range []string{first, second} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != "FROM alpine\n" {
			t.Fatalf("unexpected content in %s: %q", path, data)
		}
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "spec.yml")
	if err := WriteFile(path, "services: {}\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !IsDir(filepath.Dir(path)) {
		t.Fatalf("parent not created")
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandHome("~/dkstore")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != filepath.Join(home, "dkstore") {
		t.Fatalf("ExpandHome = %s", got)
	}
}
