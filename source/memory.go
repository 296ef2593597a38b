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
	"io"

	liberr "github.com/nabbar/golib/errors"
)

type memory struct {
	data     []byte
	pos      int
	readSize int
}

// NewMemory serves the caller's buffer without copying: the buffer is
// the source. The readSize parameter caps the size of each returned
// block and is the rounding unit of Skip; zero or negative means the
// whole buffer at once.
func NewMemory(p []byte, readSize int) (Source, liberr.Error) {
	if p == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}
	if readSize < 1 {
		readSize = len(p)
		if readSize < 1 {
			readSize = 1
		}
	}
	return &memory{
		data:     p,
		readSize: readSize,
	}, nil
}

func (o *memory) Name() string {
	return "memory"
}

func (o *memory) SelfBuffered() bool {
	return true
}

func (o *memory) Read() ([]byte, error) {
	if o.pos >= len(o.data) {
		return nil, io.EOF
	}

	n := len(o.data) - o.pos
	if n > o.readSize {
		n = o.readSize
	}
	b := o.data[o.pos : o.pos+n]
	o.pos += n
	return b, nil
}

// Skip advances the cursor, rounding the request down to the read-size
// so the engine exercises its read-and-discard residue path.
func (o *memory) Skip(n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}

	rest := int64(len(o.data) - o.pos)
	if n > rest {
		n = rest
	}
	n = (n / int64(o.readSize)) * int64(o.readSize)
	o.pos += int(n)
	return n, nil
}

func (o *memory) Close() error {
	return nil
}
