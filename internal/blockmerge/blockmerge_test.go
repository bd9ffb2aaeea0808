// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package blockmerge

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/lintitall/testutil"
	"go.astrophena.name/lintitall/txtar"
)

var markers = NewMarkers(DefaultProject)

// Each archive holds a dest and a block file, and either the wanted result
// in want or the wanted error message in error.
func TestMerge(t *testing.T) {
	testutil.Run(t, filepath.Join("testdata", "*.txtar"), func(t *testing.T, match string) {
		ar, err := txtar.ParseFile(match)
		if err != nil {
			t.Fatal(err)
		}
		dest := testutil.ArchiveFile(t, ar, "dest")
		block := testutil.ArchiveFile(t, ar, "block")
		destCopy := bytes.Clone(dest)

		got, err := Merge(dest, block, markers)
		if !bytes.Equal(dest, destCopy) {
			t.Fatal("Merge modified its input")
		}

		if wantErr, ok := archiveFile(ar, "error"); ok {
			if err == nil {
				t.Fatalf("Merge succeeded, want error %q; got:\n%s", wantErr, got)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("error %v does not wrap ErrMalformed", err)
			}
			testutil.AssertEqual(t, err.Error(), strings.TrimSpace(string(wantErr)))
			return
		}
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		want := testutil.ArchiveFile(t, ar, "want")
		if !bytes.Equal(got, want) {
			t.Fatalf("Merge mismatch.\ngot:\n%s\nwant:\n%s", got, want)
		}

		again, err := Merge(got, block, markers)
		if err != nil {
			t.Fatalf("second Merge: %v", err)
		}
		if !bytes.Equal(again, got) {
			t.Fatalf("Merge is not idempotent.\nfirst:\n%s\nsecond:\n%s", got, again)
		}
	})
}

func archiveFile(ar *txtar.Archive, name string) ([]byte, bool) {
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data, true
		}
	}
	return nil, false
}

func TestMergeEdgeCases(t *testing.T) {
	b, e := markers.Begin, markers.End
	cases := map[string]struct {
		dest, block string
		want        string
	}{
		"last line without newline": {
			dest:  "foo",
			block: "bar\n",
			want:  "foo\n\n" + b + "\nbar\n" + e + "\n",
		},
		"block without final newline": {
			dest:  "",
			block: "bar",
			want:  b + "\nbar\n" + e + "\n",
		},
		"end marker at EOF without newline": {
			dest:  "a\n" + b + "\nold\n" + e,
			block: "new\n",
			want:  "a\n" + b + "\nnew\n" + e,
		},
		"CRLF markers are recognised": {
			dest:  "a\r\n" + b + "\r\nold\r\n" + e + "\r\nz\r\n",
			block: "new\n",
			want:  "a\r\n" + b + "\r\nnew\n" + e + "\r\nz\r\n",
		},
		"whitespace-only last line counts as blank": {
			dest:  "foo\n  \n",
			block: "bar\n",
			want:  "foo\n  \n" + b + "\nbar\n" + e + "\n",
		},
		"indented marker is not a marker": {
			dest:  "  " + b + "\n",
			block: "bar\n",
			want:  "  " + b + "\n\n" + b + "\nbar\n" + e + "\n",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Merge([]byte(tc.dest), []byte(tc.block), markers)
			if err != nil {
				t.Fatal(err)
			}
			testutil.AssertEqual(t, string(got), tc.want)
		})
	}
}

func TestMergeInvalidMarkers(t *testing.T) {
	for name, m := range map[string]Markers{
		"empty":     {},
		"identical": {Begin: "#", End: "#"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Merge(nil, nil, m); err == nil {
				t.Fatal("Merge succeeded with invalid markers")
			}
		})
	}
}

func TestScan(t *testing.T) {
	lines := splitLines([]byte("a\n" + markers.Begin + "\nb\n" + markers.End + "\n"))
	l, err := Scan(lines, markers)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, l, Layout{State: Paired, Begin: 1, End: 3})

	l, err = Scan(nil, markers)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, l, Layout{State: NoBlock, Begin: -1, End: -1})

	var me *MalformedError
	l, err = Scan(splitLines([]byte(markers.Begin+"\n"+markers.Begin+"\n"+markers.End+"\n")), markers)
	if !errors.As(err, &me) {
		t.Fatalf("Scan error = %v, want *MalformedError", err)
	}
	testutil.AssertEqual(t, me.Kind, DuplicateBegin)
	testutil.AssertEqual(t, l.State, Malformed)
}

func TestNewMarkers(t *testing.T) {
	m := NewMarkers("proj")
	testutil.AssertEqual(t, m.Begin, "# BEGIN ==================== proj ====================")
	testutil.AssertEqual(t, m.End, "# END ==================== proj ====================")
}

func TestMergeFile(t *testing.T) {
	t.Run("creates missing destination", func(t *testing.T) {
		dir := t.TempDir()
		src := testutil.WriteFile(t, dir, "template/BUILD", "exports_files([\"x\"])\n")
		dest := filepath.Join(dir, "ws", "sub", "BUILD")

		res, err := MergeFile(src, dest, markers)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, res, Result{Path: dest, Before: NoBlock, Created: true, Changed: true})
		testutil.AssertEqual(t, testutil.ReadFile(t, dir, "ws/sub/BUILD"),
			markers.Begin+"\nexports_files([\"x\"])\n"+markers.End+"\n")
	})

	t.Run("second run changes nothing", func(t *testing.T) {
		dir := t.TempDir()
		src := testutil.WriteFile(t, dir, "block", "y\n")
		dest := testutil.WriteFile(t, dir, ".gitignore", "x\n")

		if _, err := MergeFile(src, dest, markers); err != nil {
			t.Fatal(err)
		}
		first := testutil.ReadFile(t, dir, ".gitignore")

		res, err := MergeFile(src, dest, markers)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, res, Result{Path: dest, Before: Paired})
		testutil.AssertEqual(t, testutil.ReadFile(t, dir, ".gitignore"), first)
	})

	t.Run("malformed destination is untouched", func(t *testing.T) {
		dir := t.TempDir()
		src := testutil.WriteFile(t, dir, "block", "y\n")
		content := markers.Begin + "\nx\n"
		dest := testutil.WriteFile(t, dir, "MODULE.bazel", content)

		res, err := MergeFile(src, dest, markers)
		var me *MalformedError
		if !errors.As(err, &me) || me.Kind != Mismatched {
			t.Fatalf("MergeFile error = %v, want mismatched markers", err)
		}
		testutil.AssertEqual(t, res.Before, Malformed)
		testutil.AssertEqual(t, res.Changed, false)
		testutil.AssertEqual(t, testutil.ReadFile(t, dir, "MODULE.bazel"), content)
	})

	t.Run("keeps file mode", func(t *testing.T) {
		dir := t.TempDir()
		src := testutil.WriteFile(t, dir, "block", "y\n")
		dest := testutil.WriteFile(t, dir, "script", "#!/bin/sh\n")
		if err := os.Chmod(dest, 0o755); err != nil {
			t.Fatal(err)
		}
		if _, err := MergeFile(src, dest, markers); err != nil {
			t.Fatal(err)
		}
		fi, err := os.Stat(dest)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, fi.Mode().Perm(), os.FileMode(0o755))
	})

	t.Run("missing source", func(t *testing.T) {
		dir := t.TempDir()
		_, err := MergeFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dest"), markers)
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("MergeFile error = %v, want not exist", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "dest")); !errors.Is(err, os.ErrNotExist) {
			t.Fatal("destination was created although the source is missing")
		}
	})

	t.Run("preview writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		src := testutil.WriteFile(t, dir, "block", "y\n")
		dest := filepath.Join(dir, "BUILD")

		res, err := Preview(src, dest, markers)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, res, Result{Path: dest, Before: NoBlock, Created: true, Changed: true})
		if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
			t.Fatal("Preview created the destination")
		}
	})
}
