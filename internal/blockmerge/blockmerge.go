// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package blockmerge maintains a marked region inside a text file.
//
// A block is delimited by a begin marker line and an end marker line. Merging
// appends the block when the file has none and replaces its contents when
// both markers are present exactly once, in order. Any other arrangement of
// markers is reported as a [MalformedError] and the file is left alone.
package blockmerge

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultProject is the project identifier embedded in the default markers.
const DefaultProject = "lint_it_all"

// Markers hold the begin and end marker lines, without line terminators.
type Markers struct {
	Begin string
	End   string
}

// NewMarkers returns the markers owned by project.
func NewMarkers(project string) Markers {
	const rule = "===================="
	return Markers{
		Begin: fmt.Sprintf("# BEGIN %s %s %s", rule, project, rule),
		End:   fmt.Sprintf("# END %s %s %s", rule, project, rule),
	}
}

func (m Markers) validate() error {
	if m.Begin == "" || m.End == "" {
		return errors.New("blockmerge: empty marker")
	}
	if m.Begin == m.End {
		return errors.New("blockmerge: begin and end markers are identical")
	}
	return nil
}

// State classifies a file by the markers it contains.
type State int

const (
	NoBlock   State = iota // neither marker present
	Paired                 // one begin marker followed by one end marker
	Malformed              // anything else
)

func (s State) String() string {
	switch s {
	case NoBlock:
		return "no block"
	case Paired:
		return "paired"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Malformation says what is wrong with the markers in a file.
type Malformation int

const (
	DuplicateBegin Malformation = iota + 1
	DuplicateEnd
	Mismatched
)

func (k Malformation) String() string {
	switch k {
	case DuplicateBegin:
		return "duplicate begin marker"
	case DuplicateEnd:
		return "duplicate end marker"
	case Mismatched:
		return "mismatched markers"
	default:
		return fmt.Sprintf("Malformation(%d)", int(k))
	}
}

// ErrMalformed is wrapped by every [MalformedError].
var ErrMalformed = errors.New("malformed block markers")

// MalformedError reports a file whose markers cannot be merged.
type MalformedError struct {
	Kind Malformation
	Line int // 1-based line of the offending marker
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v on line %d", e.Kind, e.Line)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// Layout is the result of scanning a file for markers.
type Layout struct {
	State State
	Begin int // index of the begin marker line, -1 if absent
	End   int // index of the end marker line, -1 if absent
}

// Scan finds the markers in lines with a single top-to-bottom pass. The
// second occurrence of either marker stops the scan. Lines may carry their
// terminators.
func Scan(lines [][]byte, m Markers) (Layout, error) {
	l := Layout{Begin: -1, End: -1}
	for i, line := range lines {
		switch string(trimEOL(line)) {
		case m.Begin:
			if l.Begin >= 0 {
				l.State = Malformed
				return l, &MalformedError{Kind: DuplicateBegin, Line: i + 1}
			}
			l.Begin = i
		case m.End:
			if l.End >= 0 {
				l.State = Malformed
				return l, &MalformedError{Kind: DuplicateEnd, Line: i + 1}
			}
			l.End = i
		}
	}

	switch {
	case l.Begin < 0 && l.End < 0:
		l.State = NoBlock
	case l.Begin >= 0 && l.End >= 0 && l.Begin < l.End:
		l.State = Paired
	default:
		l.State = Malformed
		line := l.Begin
		if line < 0 || (l.End >= 0 && l.End < line) {
			line = l.End
		}
		return l, &MalformedError{Kind: Mismatched, Line: line + 1}
	}
	return l, nil
}

// Merge returns dest with block placed between the markers. dest is not
// modified. If dest is malformed, Merge returns a nil slice and a
// *[MalformedError].
func Merge(dest, block []byte, m Markers) ([]byte, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	lines := splitLines(dest)
	l, err := Scan(lines, m)
	if err != nil {
		return nil, err
	}

	block = terminate(block)
	var buf bytes.Buffer
	buf.Grow(len(dest) + len(block) + len(m.Begin) + len(m.End) + 4)

	switch l.State {
	case NoBlock:
		buf.Write(dest)
		if len(lines) > 0 && !isBlank(lines[len(lines)-1]) {
			if !bytes.HasSuffix(dest, []byte("\n")) {
				buf.WriteByte('\n')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(m.Begin + "\n")
		buf.Write(block)
		buf.WriteString(m.End + "\n")
	case Paired:
		for _, line := range lines[:l.Begin+1] {
			buf.Write(line)
		}
		buf.Write(block)
		for _, line := range lines[l.End:] {
			buf.Write(line)
		}
	}
	return buf.Bytes(), nil
}

// Result describes what [MergeFile] did.
type Result struct {
	Path    string
	Before  State // state of the destination before merging
	Created bool  // destination did not exist
	Changed bool  // destination content differs from before
}

// MergeFile merges the contents of src into the block of dest. A missing
// dest is created empty first. On a [MalformedError] dest is not written.
func MergeFile(src, dest string, m Markers) (Result, error) {
	return mergeFile(src, dest, m, true)
}

// Preview reports what [MergeFile] would do without touching dest.
func Preview(src, dest string, m Markers) (Result, error) {
	return mergeFile(src, dest, m, false)
}

func mergeFile(src, dest string, m Markers, write bool) (Result, error) {
	res := Result{Path: dest}

	block, err := os.ReadFile(src)
	if err != nil {
		return res, err
	}

	mode := os.FileMode(0o644)
	old, err := os.ReadFile(dest)
	switch {
	case errors.Is(err, os.ErrNotExist):
		res.Created = true
		if write {
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return res, err
			}
			if err := os.WriteFile(dest, nil, mode); err != nil {
				return res, err
			}
		}
	case err != nil:
		return res, err
	default:
		if fi, err := os.Stat(dest); err == nil {
			mode = fi.Mode().Perm()
		}
	}

	l, err := Scan(splitLines(old), m)
	res.Before = l.State
	if err != nil {
		return res, err
	}

	merged, err := Merge(old, block, m)
	if err != nil {
		return res, err
	}
	if bytes.Equal(merged, old) {
		return res, nil
	}
	res.Changed = true
	if !write {
		return res, nil
	}
	return res, os.WriteFile(dest, merged, mode)
}

// splitLines splits b after each '\n', keeping terminators. A final line
// without a terminator is kept as is.
func splitLines(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	lines := bytes.SplitAfter(b, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

func isBlank(line []byte) bool { return len(bytes.TrimSpace(line)) == 0 }

func terminate(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return b
	}
	return append(b[:len(b):len(b)], '\n')
}
