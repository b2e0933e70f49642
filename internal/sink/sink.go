// Package sink provides the append-only text output for decoded datagrams.
//
// Decoded datagram text goes exclusively through a Sink; run diagnostics go
// to the log. One Emit call carries one complete rendered datagram line.
package sink

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// Sink receives one rendered line per datagram.
type Sink interface {
	Emit(line string) error
	Close() error
}

// Writer is a Sink over an arbitrary io.Writer.
type Writer struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewWriter wraps w in a buffered, line-oriented sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (s *Writer) Emit(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *Writer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// NewConsole returns a sink writing to stdout.
func NewConsole() *Writer {
	return NewWriter(os.Stdout)
}

// File is a sink over a file it owns; Close flushes and closes the file.
type File struct {
	Writer
	f *os.File
}

func NewFile(f *os.File) *File {
	s := &File{f: f}
	s.w = bufio.NewWriter(f)
	return s
}

func (s *File) Close() error {
	if err := s.Writer.Close(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
