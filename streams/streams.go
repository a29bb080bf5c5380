// Package streams provides IOStreams sinks for the xmlconfig Store. It
// offers ready-to-use implementations that write diagnostics to
// stdout/stderr, discard them, capture them in memory buffers for
// inspection, or forward them to structured loggers (slog, zerolog).
package streams

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// IOStreams is the contract the Store uses for its diagnostics. Progress
// messages go to Out, warnings (missing schema, validation errors) to
// ErrOut. Interfaces are satisfied implicitly, so any type with these three
// methods can be passed to xmlconfig.WithStreams.
type IOStreams interface {
	In() io.Reader
	Out() io.Writer
	ErrOut() io.Writer
}

// BasicIOStreams forwards writes to the supplied io.Writer targets. Use the
// helpers DefaultIOStreams, Writers, Discard, Slog and Zerolog to construct
// values quickly.
type BasicIOStreams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (s BasicIOStreams) In() io.Reader     { return s.in }
func (s BasicIOStreams) Out() io.Writer    { return s.out }
func (s BasicIOStreams) ErrOut() io.Writer { return s.errOut }

// DefaultIOStreams returns a BasicIOStreams backed by os.Stdin, os.Stdout
// and os.Stderr.
func DefaultIOStreams() BasicIOStreams {
	return BasicIOStreams{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// Writers returns a BasicIOStreams that writes Out to `out` and ErrOut to
// `err`. In is set to os.Stdin.
func Writers(out, err io.Writer) BasicIOStreams {
	return BasicIOStreams{in: os.Stdin, out: out, errOut: err}
}

// Discard returns a BasicIOStreams that drops all output (useful for
// "--quiet").
func Discard() BasicIOStreams {
	return Writers(io.Discard, io.Discard)
}

// BuffersStreams captures output into bytes.Buffers. Use it to accumulate
// store diagnostics and inspect them after a Load or SetDocument completes,
// for example in tests. It is not safe for concurrent writers.
type BuffersStreams struct {
	InR    io.Reader
	OutBuf *bytes.Buffer
	ErrBuf *bytes.Buffer
}

// Buffers creates a new BuffersStreams with fresh buffers for Out and
// ErrOut.
func Buffers() *BuffersStreams {
	return &BuffersStreams{
		InR:    os.Stdin,
		OutBuf: &bytes.Buffer{},
		ErrBuf: &bytes.Buffer{},
	}
}

func (b *BuffersStreams) In() io.Reader     { return b.InR }
func (b *BuffersStreams) Out() io.Writer    { return b.OutBuf }
func (b *BuffersStreams) ErrOut() io.Writer { return b.ErrBuf }

// Strings returns the current contents of the Out and ErrOut buffers.
func (b *BuffersStreams) Strings() (out, err string) {
	return b.OutBuf.String(), b.ErrBuf.String()
}

// Reset clears both buffers.
func (b *BuffersStreams) Reset() {
	b.OutBuf.Reset()
	b.ErrBuf.Reset()
}

// slogWriter adapts slog.Logger to io.Writer and trims trailing newlines so
// each Write becomes one log record.
type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	w.l.Log(nil, w.level, string(p))
	return n, nil
}

// Slog returns a BasicIOStreams that writes store messages to a
// slog.Logger. Out messages are logged at `info`, ErrOut messages at `err`.
func Slog(l *slog.Logger, info, err slog.Level) BasicIOStreams {
	return BasicIOStreams{
		in:     os.Stdin,
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: err},
	}
}

// zerologWriter adapts a zerolog.Logger to io.Writer, one record per Write.
type zerologWriter struct {
	l     zerolog.Logger
	level zerolog.Level
}

func (w zerologWriter) Write(p []byte) (int, error) {
	w.l.WithLevel(w.level).Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Zerolog returns a BasicIOStreams that forwards store messages to a
// zerolog.Logger. Out messages log at info level, ErrOut messages at warn
// level.
func Zerolog(l zerolog.Logger) BasicIOStreams {
	return BasicIOStreams{
		in:     os.Stdin,
		out:    zerologWriter{l: l, level: zerolog.InfoLevel},
		errOut: zerologWriter{l: l, level: zerolog.WarnLevel},
	}
}
