// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Init-repo installs lint and format configuration into a Bazel workspace.

It is meant to be started with "bazel run", which sets
BUILD_WORKSPACE_DIRECTORY to the workspace the command was invoked from:

	bazel run @lint_it_all//tools:init_repo -- -this=$(rlocationpath :init_repo.go)

The -this flag names a file shipped with the tool. Its runfiles location,
stripped of -levels parent directories, is the tool root; the template tree
lives in the manifest's template directory below it.

Files listed in the manifest's "copy" section are copied verbatim.
Directories are merged: files present in the template overwrite their
counterparts, other files in the workspace are kept. Files listed in the
"append" section (by default .gitignore, BUILD and MODULE.bazel) are not
overwritten. Instead init-repo owns a block delimited by

	# BEGIN ==================== lint_it_all ====================
	# END ==================== lint_it_all ====================

and replaces its contents on every run, or appends it when the file has
none. Files with duplicated or unbalanced markers are reported and left
untouched.

Because files are changed in place, init-repo refuses to run unless the
workspace is a Git working tree without untracked or modified files, so
every change can be reviewed and reverted with Git. Pass -force to skip
this check, or -dry-run to only print what would be done.

The -copy and -append flags replace both manifest lists and
may be repeated. A custom manifest is a JSON file that may contain comments
and trailing commas:

	{
	  "project": "lint_it_all",
	  "template_dir": "template",
	  "copy": [".clang-format", "tools"],
	  "append": [".gitignore", "BUILD"],
	}
*/
package main

import (
	_ "embed"

	"go.astrophena.name/lintitall/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
