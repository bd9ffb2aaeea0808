// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package vcs checks that a directory is a clean Git working tree before
// files in it are mutated.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"go.astrophena.name/lintitall/logger"
)

// Errors returned by [Checker.Check].
var (
	ErrGitUnavailable = errors.New("git not present")
	ErrNotWorkTree    = errors.New("not inside git repository")
	ErrDirtyTree      = errors.New("unstaged changes detected")
)

// DirtyTreeError lists the untracked or modified files of a working tree.
type DirtyTreeError struct {
	Files []string
}

func (e *DirtyTreeError) Error() string {
	const limit = 10
	files := e.Files
	more := ""
	if len(files) > limit {
		more = fmt.Sprintf(" and %d more", len(files)-limit)
		files = files[:limit]
	}
	return fmt.Sprintf("%v: %s%s; stage or commit changes to continue", ErrDirtyTree, strings.Join(files, ", "), more)
}

func (e *DirtyTreeError) Unwrap() error { return ErrDirtyTree }

// Runner runs a command in dir and returns its standard output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run implements [Runner].
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// Checker runs Git through a [Runner].
type Checker struct {
	Runner Runner
	// Git is the executable name. Defaults to "git".
	Git string
}

func (c *Checker) git(ctx context.Context, dir string, args ...string) ([]byte, error) {
	name := c.Git
	if name == "" {
		name = "git"
	}
	logger.Debug(ctx, "running git", slog.String("dir", dir), slog.Any("args", args))
	return c.Runner.Run(ctx, dir, name, args...)
}

// Available reports whether the git executable can be run.
func (c *Checker) Available(ctx context.Context) bool {
	_, err := c.git(ctx, "", "--version")
	return err == nil
}

// InWorkTree reports whether dir is inside a Git working tree.
func (c *Checker) InWorkTree(ctx context.Context, dir string) bool {
	out, err := c.git(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.EqualFold(strings.TrimSpace(string(out)), "true")
}

// Dirty returns the untracked and modified files of the working tree at dir,
// honouring ignore rules.
func (c *Checker) Dirty(ctx context.Context, dir string) ([]string, error) {
	out, err := c.git(ctx, dir, "ls-files", "--others", "--modified", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	var files []string
	for line := range strings.Lines(string(out)) {
		if f := strings.TrimSpace(line); f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// Check verifies that git is available, that dir is a working tree and that
// the tree is clean. It returns the first failure.
func (c *Checker) Check(ctx context.Context, dir string) error {
	if !c.Available(ctx) {
		return ErrGitUnavailable
	}
	if !c.InWorkTree(ctx, dir) {
		return fmt.Errorf("%w: %s", ErrNotWorkTree, dir)
	}
	files, err := c.Dirty(ctx, dir)
	if err != nil {
		return fmt.Errorf("listing changed files: %w", err)
	}
	if len(files) > 0 {
		return &DirtyTreeError{Files: files}
	}
	return nil
}
