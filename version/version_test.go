// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package version

import (
	"testing"

	"go.astrophena.name/lintitall/testutil"
)

func TestInfoString(t *testing.T) {
	cases := map[string]struct {
		in   Info
		want string
	}{
		"devel": {
			in:   Info{Name: "init-repo", Version: "devel", GoVersion: "go1.26.0"},
			want: "init-repo devel built with go1.26.0\n",
		},
		"stamped": {
			in:   Info{Name: "init-repo", Version: "v0.1.0", Commit: "abcdef123456", GoVersion: "go1.26.0"},
			want: "init-repo v0.1.0 (abcdef123456) built with go1.26.0\n",
		},
		"modified": {
			in:   Info{Name: "init-repo", Version: "devel", Commit: "abcdef123456", Modified: true, GoVersion: "go1.26.0"},
			want: "init-repo devel (abcdef123456, modified) built with go1.26.0\n",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, tc.in.String(), tc.want)
		})
	}
}

func TestVersion(t *testing.T) {
	v := Version()
	if v.Name == "" {
		t.Fatal("Version().Name is empty")
	}
	if v.Version == "" {
		t.Fatal("Version().Version is empty")
	}
}
