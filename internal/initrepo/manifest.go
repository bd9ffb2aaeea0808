// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package initrepo

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"go.astrophena.name/lintitall/internal/blockmerge"
)

//go:embed manifest.jsonc
var defaultManifest []byte

// Manifest lists the template entries to install.
type Manifest struct {
	// Project is embedded in the block markers.
	Project string `json:"project"`
	// TemplateDir is the directory below the tool root holding the template.
	TemplateDir string `json:"template_dir"`
	// Copy entries are copied verbatim.
	Copy []string `json:"copy"`
	// Append entries are merged into a delimited block.
	Append []string `json:"append"`
}

// DefaultManifest returns the manifest bundled with the tool.
func DefaultManifest() *Manifest {
	m, err := ParseManifest(defaultManifest)
	if err != nil {
		panic(fmt.Sprintf("bundled manifest: %v", err))
	}
	return m
}

// ParseManifest parses a JSON manifest that may contain comments and
// trailing commas.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Markers returns the block markers for the manifest's project.
func (m *Manifest) Markers() blockmerge.Markers {
	project := m.Project
	if project == "" {
		project = blockmerge.DefaultProject
	}
	return blockmerge.NewMarkers(project)
}

// Validate checks that every entry is a local path listed once.
func (m *Manifest) Validate() error {
	var errs []error
	seen := make(map[string]string)
	check := func(list string, entries []string) {
		for _, e := range entries {
			if !filepath.IsLocal(filepath.FromSlash(e)) {
				errs = append(errs, fmt.Errorf("%s entry %q is not a relative path inside the template", list, e))
				continue
			}
			key := filepath.ToSlash(filepath.Clean(filepath.FromSlash(e)))
			if prev, ok := seen[key]; ok {
				errs = append(errs, fmt.Errorf("%s entry %q is already listed in %s", list, e, prev))
				continue
			}
			seen[key] = list
		}
	}
	check("copy", m.Copy)
	check("append", m.Append)
	if len(m.Copy) == 0 && len(m.Append) == 0 {
		errs = append(errs, errors.New("manifest lists no entries"))
	}
	return errors.Join(errs...)
}
