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

package writer

import (
	"bytes"
	"io"

	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/sink"
	"github.com/sabouaram/transform/types"
)

// DefaultBlockSize is the sink coalescing block used when the caller
// sets nothing else.
const DefaultBlockSize = 10240

// Downstream is the view a write filter has of the stage it forwards
// transformed bytes to, plus the pipeline blocking parameters a
// dynamic padding filter needs at close time.
type Downstream interface {
	Write(p []byte) error
	BytesPerBlock() int
	BytesInLastBlock() int
}

// Filter is one transforming stage on the write side. Open may emit a
// header, Close drains the encoder and emits any trailer; neither
// touches the downstream life-cycle, which belongs to the engine.
type Filter interface {
	Name() string
	Code() types.FilterCode

	Open(dst Downstream) error
	Write(p []byte) error
	Close() error
}

// Optioner receives filter options dispatched by name.
type Optioner interface {
	SetOption(key, value string) types.Status
}

// FDVisitor is implemented by stages holding file descriptors.
type FDVisitor interface {
	VisitFDs(fn func(fd uintptr) error) error
}

// Writer is a write pipeline handle.
type Writer interface {
	io.WriteCloser

	// AppendFilter adds a transforming stage; bytes flow through the
	// filters in append order before reaching the sink. Only legal
	// before open.
	AppendFilter(f Filter) liberr.Error

	SetBytesPerBlock(n int) liberr.Error
	BytesPerBlock() int
	SetBytesInLastBlock(n int)
	BytesInLastBlock() int

	OpenFilename(path string) liberr.Error
	OpenFd(fd uintptr) liberr.Error
	OpenStream(w io.Writer) liberr.Error
	OpenMemory(b *bytes.Buffer) liberr.Error
	OpenSink(s sink.Sink) liberr.Error

	// Free closes the pipeline if needed and drops the stage chain.
	Free() error

	FilterCount() int
	FilterName(n int) string
	FilterCode(n int) types.FilterCode
	FilterBytes(n int) int64

	VisitFDs(fn func(fd uintptr) error) error

	// SetOptions applies a comma-separated option string of the form
	// name:key=value to the appended filters.
	SetOptions(opts string) types.Status

	ErrorCode() int
	ErrorString() string
	ClearError()
	LastError() liberr.Error
}

// New returns an empty write pipeline in the new state.
func New() Writer {
	return &wtr{
		state:            types.StateNew,
		bytesPerBlock:    DefaultBlockSize,
		bytesInLastBlock: -1,
	}
}
