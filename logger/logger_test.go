// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package logger

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"go.astrophena.name/lintitall/testutil"
)

func TestLogfWriter(t *testing.T) {
	var (
		logged  bool
		message string
	)
	logf := func(format string, args ...any) {
		logged = true
		message = fmt.Sprintf(format, args...)
	}
	Logf(logf).Write([]byte("hello"))
	testutil.AssertEqual(t, logged, true)
	testutil.AssertEqual(t, message, "hello")
}

func TestGetDefault(t *testing.T) {
	testutil.AssertEqual(t, IsDefault(Get(context.Background())), true)
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{NoColor: true})
	ctx := Put(context.Background(), l)

	Debug(ctx, "hidden")
	Info(ctx, "shown", slog.String("path", "BUILD"))
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug record logged at info level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown path=BUILD") {
		t.Fatalf("info record missing: %q", buf.String())
	}

	buf.Reset()
	l.Level.Set(slog.LevelDebug)
	Debug(ctx, "now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("debug record missing after level change: %q", buf.String())
	}
}
