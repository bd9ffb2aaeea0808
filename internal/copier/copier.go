// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package copier copies files and directory trees verbatim between two roots.
package copier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
)

// ErrMissingSource is returned when an entry does not exist in the source root.
var ErrMissingSource = errors.New("missing source entry")

// Copied describes one copied entry.
type Copied struct {
	Rel   string // path relative to both roots
	Dir   bool   // the entry is a directory
	Files int    // number of regular files written
}

// Copier copies entries from Src to Dest.
type Copier struct {
	Src  string
	Dest string
	// DryRun counts what would be copied without writing anything.
	DryRun bool
}

// Copy copies the entry at rel. Directories are merged into the destination:
// files present in both trees are overwritten, files only present in the
// destination are kept. Parent directories are created as needed.
func (c *Copier) Copy(rel string) (Copied, error) {
	res := Copied{Rel: rel}
	clean, err := localPath(rel)
	if err != nil {
		return res, err
	}
	src := filepath.Join(c.Src, clean)
	dest := filepath.Join(c.Dest, clean)

	fi, err := os.Lstat(src)
	if errors.Is(err, os.ErrNotExist) {
		return res, fmt.Errorf("%w: %s", ErrMissingSource, src)
	}
	if err != nil {
		return res, err
	}
	res.Dir = fi.IsDir()
	if res.Files, err = countFiles(src); err != nil {
		return res, err
	}
	if c.DryRun {
		return res, nil
	}

	opts := copy.Options{
		OnSymlink:   func(string) copy.SymlinkAction { return copy.Shallow },
		OnDirExists: func(_, _ string) copy.DirExistsAction { return copy.Merge },
	}
	if err := copy.Copy(src, dest, opts); err != nil {
		return res, fmt.Errorf("copying %s: %w", rel, err)
	}
	return res, nil
}

func countFiles(root string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	return n, err
}

// localPath cleans rel and rejects paths that would leave the roots.
func localPath(rel string) (string, error) {
	p := filepath.FromSlash(rel)
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("path %q is not relative to the template root", rel)
	}
	return filepath.Clean(p), nil
}
