// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package initrepo

import (
	"io"

	"github.com/fatih/color"

	"go.astrophena.name/lintitall/internal/blockmerge"
	"go.astrophena.name/lintitall/internal/copier"
)

// Printer is a [Reporter] writing one status line per entry.
type Printer struct {
	w    io.Writer
	info *color.Color
	warn *color.Color
}

// NewPrinter returns a Printer writing to w, with ANSI colors if colorful.
func NewPrinter(w io.Writer, colorful bool) *Printer {
	p := &Printer{
		w:    w,
		info: color.New(color.FgBlue),
		warn: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.info, p.warn} {
		if colorful {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Copied implements [Reporter].
func (p *Printer) Copied(c copier.Copied, dryRun bool) {
	verb := "Copied"
	if dryRun {
		verb = "Would copy"
	}
	p.info.Fprintf(p.w, "%s %s\n", verb, c.Rel)
}

// Merged implements [Reporter].
func (p *Printer) Merged(rel string, r blockmerge.Result, dryRun bool) {
	switch {
	case !r.Changed:
		p.info.Fprintf(p.w, "Template already up to date in %s\n", rel)
	case dryRun:
		p.info.Fprintf(p.w, "Would update template in %s\n", rel)
	default:
		p.info.Fprintf(p.w, "Updated template in %s\n", rel)
	}
}

// Skipped implements [Reporter].
func (p *Printer) Skipped(rel string, err error) {
	p.warn.Fprintf(p.w, "Skipping %s: %v\n", rel, err)
}

// Abort prints a fatal diagnostic.
func (p *Printer) Abort(err error) {
	p.warn.Fprintf(p.w, "%v. Aborting\n", err)
}
