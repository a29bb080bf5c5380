package streams

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultIOStreams(t *testing.T) {
	s := DefaultIOStreams()
	if s.In() != os.Stdin {
		t.Fatal("DefaultIOStreams.In() should be os.Stdin")
	}
	if s.Out() == nil || s.ErrOut() == nil {
		t.Fatal("DefaultIOStreams Out/ErrOut must be non-nil")
	}
}

func TestWriters(t *testing.T) {
	var out, errOut bytes.Buffer
	s := Writers(&out, &errOut)

	fmt.Fprint(s.Out(), "progress")
	fmt.Fprint(s.ErrOut(), "warning")

	if out.String() != "progress" {
		t.Fatalf("Out captured %q", out.String())
	}
	if errOut.String() != "warning" {
		t.Fatalf("ErrOut captured %q", errOut.String())
	}
}

func TestDiscard(t *testing.T) {
	s := Discard()
	if n, err := s.Out().Write([]byte("dropped")); err != nil || n != 7 {
		t.Fatalf("Discard Out write: n=%d err=%v", n, err)
	}
	if n, err := s.ErrOut().Write([]byte("dropped")); err != nil || n != 7 {
		t.Fatalf("Discard ErrOut write: n=%d err=%v", n, err)
	}
}

func TestBuffers(t *testing.T) {
	b := Buffers()
	fmt.Fprint(b.Out(), "one")
	fmt.Fprint(b.ErrOut(), "two")

	out, errOut := b.Strings()
	if out != "one" || errOut != "two" {
		t.Fatalf("Strings() = %q, %q", out, errOut)
	}

	b.Reset()
	out, errOut = b.Strings()
	if out != "" || errOut != "" {
		t.Fatalf("buffers not cleared: %q, %q", out, errOut)
	}
}

func TestSlog(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := Slog(l, slog.LevelInfo, slog.LevelWarn)

	fmt.Fprintln(s.ErrOut(), "schema problem")

	got := buf.String()
	if !strings.Contains(got, "schema problem") {
		t.Fatalf("log output %q missing message", got)
	}
	if !strings.Contains(got, "level=WARN") {
		t.Fatalf("log output %q missing warn level", got)
	}
	if strings.Contains(got, `schema problem\n`) {
		t.Fatalf("trailing newline not trimmed: %q", got)
	}
}

func TestZerolog(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	s := Zerolog(l)

	fmt.Fprintln(s.ErrOut(), "validation failed")
	fmt.Fprintln(s.Out(), "loaded")

	got := buf.String()
	if !strings.Contains(got, `"level":"warn"`) {
		t.Fatalf("output %q missing warn record", got)
	}
	if !strings.Contains(got, "validation failed") {
		t.Fatalf("output %q missing warning message", got)
	}
	if !strings.Contains(got, `"level":"info"`) {
		t.Fatalf("output %q missing info record", got)
	}
}
