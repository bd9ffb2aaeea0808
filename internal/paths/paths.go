// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package paths resolves the template source root and the destination
// workspace root of an invocation.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bazelbuild/rules_go/go/runfiles"
)

// WorkspaceEnv is the environment variable Bazel sets to the root of the
// workspace that "bazel run" was invoked from.
const WorkspaceEnv = "BUILD_WORKSPACE_DIRECTORY"

var (
	// ErrLocatorNotFound means the locator could not be resolved to an
	// existing path.
	ErrLocatorNotFound = errors.New("locator not found")
	// ErrMissingEnv means the workspace environment variable is not set.
	ErrMissingEnv = errors.New("missing environment variable")
)

// Locator resolves a logical runtime path to an absolute filesystem path.
type Locator interface {
	Rlocation(path string) (string, error)
}

// Runfiles is a [Locator] backed by the Bazel runfiles of the running binary.
type Runfiles struct {
	r *runfiles.Runfiles
}

// NewRunfiles discovers the runfiles of the running binary from its
// environment.
func NewRunfiles() (*Runfiles, error) {
	r, err := runfiles.New()
	if err != nil {
		return nil, fmt.Errorf("initializing runfiles: %w", err)
	}
	return &Runfiles{r: r}, nil
}

// Rlocation implements [Locator].
func (rf *Runfiles) Rlocation(path string) (string, error) {
	return rf.r.Rlocation(path)
}

// StaticLocator is a [Locator] returning fixed paths.
type StaticLocator map[string]string

// Rlocation implements [Locator].
func (s StaticLocator) Rlocation(path string) (string, error) {
	p, ok := s[path]
	if !ok {
		return "", fmt.Errorf("%q is not in the static locator", path)
	}
	return p, nil
}

// Config describes how to derive the roots.
type Config struct {
	// This is the logical path of a file shipped with the tool, usually the
	// expansion of $(rlocationpath) for the tool's own source.
	This string
	// Levels is how many parent directories to ascend from the resolved
	// file to reach the tool root.
	Levels int
	// TemplateDir is the directory below the tool root that holds the
	// template tree. Empty means the tool root itself.
	TemplateDir string
	// WorkspaceEnv names the variable holding the destination root.
	// Defaults to [WorkspaceEnv].
	WorkspaceEnv string
}

// Roots are the absolute directories an invocation works with.
type Roots struct {
	Source string
	Dest   string
}

// Resolve computes the source and destination roots. Both must exist and be
// directories. Resolve only reads metadata.
func Resolve(cfg Config, loc Locator, getenv func(string) string) (Roots, error) {
	if cfg.Levels < 0 {
		return Roots{}, fmt.Errorf("negative parent levels %d", cfg.Levels)
	}
	envName := cfg.WorkspaceEnv
	if envName == "" {
		envName = WorkspaceEnv
	}

	dest := getenv(envName)
	if dest == "" {
		return Roots{}, fmt.Errorf("%w: %s", ErrMissingEnv, envName)
	}

	p, err := loc.Rlocation(cfg.This)
	if err != nil {
		return Roots{}, fmt.Errorf("%w: %s: %v", ErrLocatorNotFound, cfg.This, err)
	}
	if p == "" {
		return Roots{}, fmt.Errorf("%w: %s", ErrLocatorNotFound, cfg.This)
	}
	if _, err := os.Stat(p); err != nil {
		return Roots{}, fmt.Errorf("%w: %s: %v", ErrLocatorNotFound, cfg.This, err)
	}

	root := p
	for range cfg.Levels {
		root = filepath.Dir(root)
	}
	src := filepath.Join(root, cfg.TemplateDir)

	var roots Roots
	if roots.Source, err = absDir(src); err != nil {
		return Roots{}, fmt.Errorf("template root: %w", err)
	}
	if roots.Dest, err = absDir(dest); err != nil {
		return Roots{}, fmt.Errorf("workspace root from %s: %w", envName, err)
	}
	return roots, nil
}

func absDir(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
