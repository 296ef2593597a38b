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

package source

import (
	"errors"
	"io"
	"os"

	liberr "github.com/nabbar/golib/errors"
)

type file struct {
	f       *os.File
	buf     []byte
	name    string
	canSkip bool
	size    int64
	pos     int64
	owned   bool
	eof     bool
}

// NewFilename opens the given path read-only. Disk-like inputs get an
// optimized seek-based skip and a buffer of at least DefaultBlockSize;
// pipes and tapes read with the suggested block size and let the engine
// discard on skip.
func NewFilename(path string, block int) (Source, liberr.Error) {
	if path == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	f, e := os.Open(path)
	if e != nil {
		return nil, ErrorFileOpen.ErrorParent(e)
	}

	src, err := wrapFile(f, block, "filename")
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	src.(*file).owned = true
	return src, nil
}

// NewFd wraps an externally owned file descriptor. The descriptor is
// borrowed: close never touches it, in particular not fd 0.
func NewFd(fd uintptr, block int) (Source, liberr.Error) {
	f := os.NewFile(fd, "fd")
	if f == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	return wrapFile(f, block, "fd")
}

// NewFile wraps a borrowed file-like handle. Skipping is enabled only
// when the handle is a seekable regular file.
func NewFile(h ReadFile, block int) (Source, liberr.Error) {
	if h == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	if f, ok := h.(*os.File); ok {
		return wrapFile(f, block, "file")
	}
	return NewStream(h, block)
}

func wrapFile(f *os.File, block int, name string) (Source, liberr.Error) {
	st, e := f.Stat()
	if e != nil {
		return nil, ErrorFileStat.ErrorParent(e)
	}

	s := &file{
		f:    f,
		name: name,
	}

	if st.Mode().IsRegular() {
		s.canSkip = true
		s.size = st.Size()
		if block < DefaultBlockSize {
			block = DefaultBlockSize
		}
	} else if block < 1 {
		block = DefaultBlockSize
	}
	s.buf = make([]byte, block)
	return s, nil
}

func (o *file) Name() string {
	return o.name
}

func (o *file) Read() ([]byte, error) {
	if o.eof {
		return nil, io.EOF
	}

	n, e := o.f.Read(o.buf)
	if n > 0 {
		o.pos += int64(n)
		if e != nil {
			o.eof = true
		}
		return o.buf[:n], nil
	}
	if e == nil || errors.Is(e, io.EOF) {
		o.eof = true
		return nil, io.EOF
	}
	return nil, ErrorFileRead.ErrorParent(e)
}

func (o *file) Skip(n int64) (int64, error) {
	if !o.canSkip || n <= 0 {
		return 0, nil
	}

	if rest := o.size - o.pos; n > rest {
		n = rest
	}
	if n <= 0 {
		return 0, nil
	}

	if _, e := o.f.Seek(n, io.SeekCurrent); e != nil {
		// a not-quite-disk-like input: fall back to read-and-discard
		o.canSkip = false
		return 0, nil
	}
	o.pos += n
	return n, nil
}

func (o *file) Close() error {
	if !o.owned || o.f.Fd() == 0 {
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
