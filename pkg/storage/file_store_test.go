package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	path, err := fs.Save("../../report.csv", strings.NewReader("id,name\n1,John\n"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != filepath.Join(dir, "report.csv") {
		t.Fatalf("unexpected path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "id,name\n1,John\n" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSafeFilename(t *testing.T) {
	cases := map[string]string{
		"report.csv":     "report.csv",
		"a/b/c.txt":      "c.txt",
		`..\..\evil.exe`: "evil.exe",
		"":               "download",
		"  ":             "download",
		"..":             "download",
		"/":              "download",
	}
	for in, want := range cases {
		if got := SafeFilename(in); got != want {
			t.Fatalf("SafeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
