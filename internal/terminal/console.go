// Package terminal wraps the process's output streams and answers the
// questions the renderer asks about them: how wide is the terminal, and
// should output be coloured.
package terminal

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sync"
)

// Stream names one of the two output streams.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// Console is the line-printing surface: buffered stdout and stderr with
// explicit flushes, so a line redrawn with a carriage return becomes visible
// exactly when the renderer asks for it.
type Console struct {
	mu      sync.Mutex
	out     *bufio.Writer
	err     *bufio.Writer
	columns func() int
}

// NewConsole wraps arbitrary writers. columns reports the current terminal
// width; nil means "not a terminal".
func NewConsole(stdout, stderr io.Writer, columns func() int) *Console {
	if columns == nil {
		columns = func() int { return 0 }
	}
	return &Console{
		out:     bufio.NewWriter(stdout),
		err:     bufio.NewWriter(stderr),
		columns: columns,
	}
}

// NewStdConsole wraps os.Stdout and os.Stderr and sizes output from stdout.
func NewStdConsole() *Console {
	EnableVirtualTerminal(os.Stdout)
	EnableVirtualTerminal(os.Stderr)
	return NewConsole(os.Stdout, os.Stderr, func() int { return Columns(os.Stdout) })
}

// BufferConsole is a Console writing into memory, used by tests and dry runs.
type BufferConsole struct {
	*Console
	Out *bytes.Buffer
	Err *bytes.Buffer
}

// NewBufferConsole creates an in-memory console with a fixed width.
func NewBufferConsole(cols int) *BufferConsole {
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	return &BufferConsole{
		Console: NewConsole(out, errBuf, func() int { return cols }),
		Out:     out,
		Err:     errBuf,
	}
}

// Columns returns the current terminal width; 0 disables progress bars.
func (c *Console) Columns() int {
	return c.columns()
}

// Write appends text to stream without flushing.
func (c *Console) Write(s Stream, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = c.writer(s).WriteString(text)
}

// Flush pushes buffered text of stream to the underlying writer.
func (c *Console) Flush(s Stream) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.writer(s).Flush()
}

// Writer returns an io.Writer appending to stream. Callers flush through Flush.
func (c *Console) Writer(s Stream) io.Writer {
	return streamWriter{c: c, s: s}
}

func (c *Console) writer(s Stream) *bufio.Writer {
	if s == Stderr {
		return c.err
	}
	return c.out
}

type streamWriter struct {
	c *Console
	s Stream
}

func (w streamWriter) Write(p []byte) (int, error) {
	w.c.mu.Lock()
	defer w.c.mu.Unlock()
	return w.c.writer(w.s).Write(p)
}
