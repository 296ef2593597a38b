/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package sink

import (
	"bytes"
	"errors"
	"io"
	"os"

	liberr "github.com/nabbar/golib/errors"
)

// Sink consumes the bytes leaving the bottom of a write stack.
type Sink interface {
	io.Writer

	// Close flushes and releases the sink. Borrowed handles are not
	// closed.
	Close() error
}

// Namer gives a sink a display name for filter introspection.
type Namer interface {
	Name() string
}

// Name returns the display name of a sink, or "none".
func Name(s Sink) string {
	if n, ok := s.(Namer); ok {
		return n.Name()
	}
	return "none"
}

type file struct {
	f     *os.File
	name  string
	owned bool
}

// NewFilename creates or truncates the given path.
func NewFilename(path string) (Sink, liberr.Error) {
	if path == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	f, e := os.Create(path)
	if e != nil {
		return nil, ErrorFileOpen.ErrorParent(e)
	}
	return &file{f: f, name: "filename", owned: true}, nil
}

// NewFd wraps an externally owned descriptor; close never touches it.
func NewFd(fd uintptr) (Sink, liberr.Error) {
	f := os.NewFile(fd, "fd")
	if f == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	return &file{f: f, name: "fd"}, nil
}

func (o *file) Name() string {
	return o.name
}

func (o *file) Write(p []byte) (int, error) {
	n, e := o.f.Write(p)
	if e != nil {
		return n, ErrorFileWrite.ErrorParent(e)
	}
	return n, nil
}

func (o *file) Close() error {
	if !o.owned {
		return nil
	}
	if e := o.f.Close(); e != nil {
		return ErrorFileClose.ErrorParent(e)
	}
	return nil
}

func (o *file) VisitFDs(fn func(fd uintptr) error) error {
	return fn(o.f.Fd())
}

type stream struct {
	w io.Writer
}

// NewStream wraps a borrowed io.Writer.
func NewStream(w io.Writer) (Sink, liberr.Error) {
	if w == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	return &stream{w: w}, nil
}

func (o *stream) Name() string {
	return "stream"
}

func (o *stream) Write(p []byte) (int, error) {
	n, e := o.w.Write(p)
	if e != nil && !errors.Is(e, io.ErrShortWrite) {
		return n, ErrorFileWrite.ErrorParent(e)
	}
	return n, e
}

func (o *stream) Close() error {
	return nil
}

type memory struct {
	b *bytes.Buffer
}

// NewMemory appends everything written to the given buffer.
func NewMemory(b *bytes.Buffer) (Sink, liberr.Error) {
	if b == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	return &memory{b: b}, nil
}

func (o *memory) Name() string {
	return "memory"
}

func (o *memory) Write(p []byte) (int, error) {
	return o.b.Write(p)
}

func (o *memory) Close() error {
	return nil
}
