// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package txtar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	a := Parse([]byte("# comment\n-- foo.txt --\ncontent1\n-- dir/bar.go --\ncontent2\n"))
	if got, want := string(a.Comment), "# comment\n"; got != want {
		t.Errorf("Comment = %q, want %q", got, want)
	}
	if len(a.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(a.Files))
	}
	if a.Files[1].Name != "dir/bar.go" || string(a.Files[1].Data) != "content2\n" {
		t.Errorf("Files[1] = %+v", a.Files[1])
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()

	a := &Archive{
		Files: []File{
			{Name: "file1.txt", Data: []byte("Content of file1\n")},
			{Name: "subdir/file2.txt", Data: []byte("Content of file2\n")},
		},
	}
	if err := Extract(a, dir); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	verifyFile(t, filepath.Join(dir, "file1.txt"), "Content of file1\n")
	verifyFile(t, filepath.Join(dir, "subdir", "file2.txt"), "Content of file2\n")
}

func TestExtractRejectsEscapingNames(t *testing.T) {
	for _, name := range []string{"../evil", "/abs/path", "a/../../b"} {
		t.Run(name, func(t *testing.T) {
			err := Extract(&Archive{Files: []File{{Name: name}}}, t.TempDir())
			if err == nil || !strings.Contains(err.Error(), "refusing to extract") {
				t.Fatalf("Extract(%q) = %v, want refusal", name, err)
			}
		})
	}
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	createFile(t, filepath.Join(dir, "b.txt"), "b\n")
	createFile(t, filepath.Join(dir, "a", "c.txt"), "c\n")

	a, err := FromDir(dir)
	if err != nil {
		t.Fatalf("FromDir failed: %v", err)
	}
	if got, want := string(Format(a)), "-- a/c.txt --\nc\n-- b.txt --\nb\n"; got != want {
		t.Fatalf("FromDir formatted = %q, want %q", got, want)
	}
}

func verifyFile(t *testing.T, path, wantContent string) {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	if string(content) != wantContent {
		t.Errorf("File content mismatch for %s.\nGot: %q, Want: %q", path, content, wantContent)
	}
}

func createFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
}
