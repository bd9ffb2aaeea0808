// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package initrepo installs a template tree into a workspace.
//
// Copy entries of a [Manifest] are copied verbatim; append entries are merged
// into a block of the destination file that the tool owns and rewrites on
// every run. Entries are processed one at a time, in manifest order.
package initrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.astrophena.name/lintitall/internal/blockmerge"
	"go.astrophena.name/lintitall/internal/copier"
	"go.astrophena.name/lintitall/internal/paths"
	"go.astrophena.name/lintitall/logger"
)

// Reporter receives one event per processed entry.
type Reporter interface {
	Copied(c copier.Copied, dryRun bool)
	Merged(rel string, r blockmerge.Result, dryRun bool)
	Skipped(rel string, err error)
}

// Options configure [Run].
type Options struct {
	Roots    paths.Roots
	Manifest *Manifest
	DryRun   bool
	Reporter Reporter
}

// Summary lists the outcome of every entry, by relative path.
type Summary struct {
	Copied    []string
	Updated   []string
	Unchanged []string
	Skipped   []string
}

// Run copies, then merges, the manifest entries from the source root into the
// destination root. A copy failure aborts the run. A destination with
// malformed block markers is reported, left untouched and skipped; the run
// carries on with the remaining entries.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Manifest == nil {
		return nil, errors.New("initrepo: no manifest")
	}
	if err := opts.Manifest.Validate(); err != nil {
		return nil, err
	}
	rep := opts.Reporter
	if rep == nil {
		rep = nopReporter{}
	}

	sum := new(Summary)
	c := &copier.Copier{Src: opts.Roots.Source, Dest: opts.Roots.Dest, DryRun: opts.DryRun}
	for _, rel := range opts.Manifest.Copy {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := c.Copy(rel)
		if err != nil {
			return sum, err
		}
		logger.Debug(ctx, "copied", slog.String("path", rel), slog.Bool("dir", res.Dir), slog.Int("files", res.Files))
		sum.Copied = append(sum.Copied, rel)
		rep.Copied(res, opts.DryRun)
	}

	markers := opts.Manifest.Markers()
	merge := blockmerge.MergeFile
	if opts.DryRun {
		merge = blockmerge.Preview
	}
	for _, rel := range opts.Manifest.Append {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		src := filepath.Join(opts.Roots.Source, filepath.FromSlash(rel))
		dest := filepath.Join(opts.Roots.Dest, filepath.FromSlash(rel))
		res, err := merge(src, dest, markers)
		if errors.Is(err, blockmerge.ErrMalformed) {
			logger.Warn(ctx, "skipping file with malformed markers", slog.String("path", rel), slog.Any("err", err))
			sum.Skipped = append(sum.Skipped, rel)
			rep.Skipped(rel, err)
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("merging %s: %w", rel, err)
		}
		logger.Debug(ctx, "merged", slog.String("path", rel), slog.String("before", res.Before.String()), slog.Bool("changed", res.Changed))
		if res.Changed {
			sum.Updated = append(sum.Updated, rel)
		} else {
			sum.Unchanged = append(sum.Unchanged, rel)
		}
		rep.Merged(rel, res, opts.DryRun)
	}
	return sum, nil
}

type nopReporter struct{}

func (nopReporter) Copied(copier.Copied, bool) {}
func (nopReporter) Merged(string, blockmerge.Result, bool) {}
func (nopReporter) Skipped(string, error) {}
