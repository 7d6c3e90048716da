package protocol

import (
	"bufio"
	"io"
)

// FlushWriter buffers writes and flushes on demand so each JSON-RPC
// response reaches the client as a complete line.
type FlushWriter struct {
	w *bufio.Writer
}

func NewFlushWriter(w io.Writer) *FlushWriter {
	return &FlushWriter{w: bufio.NewWriter(w)}
}

func (f *FlushWriter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f *FlushWriter) Flush() error {
	return f.w.Flush()
}
