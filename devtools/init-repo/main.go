// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"go.astrophena.name/lintitall/cli"
	"go.astrophena.name/lintitall/internal/initrepo"
	"go.astrophena.name/lintitall/internal/paths"
	"go.astrophena.name/lintitall/internal/vcs"
	"go.astrophena.name/lintitall/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	this        string
	levels      int
	manifest    string
	templateDir optionalString
	project     optionalString
	copyList    listFlag
	appendList  listFlag
	force       bool
	dryRun      bool

	// Replaced in tests.
	locator paths.Locator
	runner  vcs.Runner
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.this, "this", "", "Runfiles `path` of a file shipped with this tool (required).")
	fs.IntVar(&a.levels, "levels", 1, "Number of parent directories to ascend from -this to reach the tool root.")
	fs.StringVar(&a.manifest, "manifest", "", "Read the list of files to install from this JSONC `file` instead of the bundled one.")
	fs.Var(&a.templateDir, "template-dir", "Template `directory` below the tool root. Overrides the manifest.")
	fs.Var(&a.project, "project", "Project `name` embedded in block markers. Overrides the manifest.")
	fs.Var(&a.copyList, "copy", "Relative `path` to copy verbatim. Repeatable. If -copy or -append is given, the manifest lists are ignored.")
	fs.Var(&a.appendList, "append", "Relative `path` to merge as a delimited block. Repeatable. If -copy or -append is given, the manifest lists are ignored.")
	fs.BoolVar(&a.force, "force", false, "Skip the clean Git working tree check.")
	fs.BoolVar(&a.dryRun, "dry-run", false, "Print what would be done without changing any file.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	if a.this == "" {
		return fmt.Errorf("%w: -this is required", cli.ErrInvalidArgs)
	}
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: unexpected arguments %q", cli.ErrInvalidArgs, env.Args)
	}

	m, err := a.loadManifest()
	if err != nil {
		return err
	}

	loc := a.locator
	if loc == nil {
		rf, err := paths.NewRunfiles()
		if err != nil {
			return err
		}
		loc = rf
	}
	roots, err := paths.Resolve(paths.Config{
		This:        a.this,
		Levels:      a.levels,
		TemplateDir: m.TemplateDir,
	}, loc, env.Getenv)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "resolved roots", slog.String("source", roots.Source), slog.String("dest", roots.Dest))

	printer := initrepo.NewPrinter(env.Stdout, env.Colorful(env.Stdout))

	if !a.force && !a.dryRun {
		runner := a.runner
		if runner == nil {
			runner = vcs.ExecRunner{}
		}
		checker := &vcs.Checker{Runner: runner}
		if err := checker.Check(ctx, roots.Dest); err != nil {
			if errors.Is(err, vcs.ErrGitUnavailable) || errors.Is(err, vcs.ErrNotWorkTree) || errors.Is(err, vcs.ErrDirtyTree) {
				printer.Abort(err)
				return cli.Silent(err)
			}
			return err
		}
	}

	sum, err := initrepo.Run(ctx, initrepo.Options{
		Roots:    roots,
		Manifest: m,
		DryRun:   a.dryRun,
		Reporter: printer,
	})
	if err != nil {
		return err
	}
	if len(sum.Skipped) > 0 {
		logger.Warn(ctx, "some files were skipped, fix their markers and run again",
			slog.String("files", strings.Join(sum.Skipped, ", ")))
	}
	return nil
}

func (a *app) loadManifest() (*initrepo.Manifest, error) {
	m := initrepo.DefaultManifest()
	if a.manifest != "" {
		var err error
		if m, err = initrepo.LoadManifest(a.manifest); err != nil {
			return nil, err
		}
	}
	if a.copyList.set || a.appendList.set {
		m.Copy, m.Append = a.copyList.values, a.appendList.values
	}
	if a.templateDir.set {
		m.TemplateDir = a.templateDir.value
	}
	if a.project.set {
		m.Project = a.project.value
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", cli.ErrInvalidArgs, err)
	}
	return m, nil
}

// listFlag collects the values of a repeated flag.
type listFlag struct {
	values []string
	set    bool
}

func (l *listFlag) String() string { return strings.Join(l.values, ",") }

func (l *listFlag) Set(s string) error {
	l.values = append(l.values, s)
	l.set = true
	return nil
}

// optionalString is a string flag that remembers whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value, o.set = s, true
	return nil
}
