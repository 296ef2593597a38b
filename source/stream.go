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

	liberr "github.com/nabbar/golib/errors"
)

type stream struct {
	r   io.Reader
	buf []byte
	eof bool
}

// NewStream wraps a plain io.Reader. The reader is borrowed and no
// optimized skip is available.
func NewStream(r io.Reader, block int) (Source, liberr.Error) {
	if r == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	if block < 1 {
		block = DefaultBlockSize
	}
	return &stream{
		r:   r,
		buf: make([]byte, block),
	}, nil
}

func (o *stream) Name() string {
	return "stream"
}

func (o *stream) Read() ([]byte, error) {
	if o.eof {
		return nil, io.EOF
	}

	n, e := o.r.Read(o.buf)
	if n > 0 {
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

func (o *stream) Skip(n int64) (int64, error) {
	return 0, nil
}

func (o *stream) Close() error {
	return nil
}

// Callbacks bundles client-supplied source functions. Read is
// mandatory; Skip and Close are optional.
type Callbacks struct {
	Read  func() ([]byte, error)
	Skip  func(n int64) (int64, error)
	Close func() error
}

type callback struct {
	cb  Callbacks
	eof bool
}

// NewCallback builds a source from client-supplied callbacks.
func NewCallback(cb Callbacks) (Source, liberr.Error) {
	if cb.Read == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	return &callback{cb: cb}, nil
}

func (o *callback) Name() string {
	return "callback"
}

func (o *callback) Read() ([]byte, error) {
	if o.eof {
		return nil, io.EOF
	}

	b, e := o.cb.Read()
	if e != nil && errors.Is(e, io.EOF) {
		o.eof = true
		if len(b) > 0 {
			return b, nil
		}
		return nil, io.EOF
	}
	return b, e
}

func (o *callback) Skip(n int64) (int64, error) {
	if o.cb.Skip == nil {
		return 0, nil
	}
	return o.cb.Skip(n)
}

func (o *callback) Close() error {
	if o.cb.Close == nil {
		return nil
	}
	return o.cb.Close()
}
