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

package reader

import "io"

// Stream adapts an Upstream to io.Reader and io.ByteReader so that
// codec back-ends can pull from a filter stage. Because it implements
// io.ByteReader, decoders that would otherwise wrap their input in a
// buffered reader consume exactly the bytes of the stream they decode,
// leaving trailers and following members in place.
type Stream struct {
	up Upstream
}

// WrapStream returns a Stream view of the given upstream stage.
func WrapStream(up Upstream) *Stream {
	return &Stream{up: up}
}

// Read copies whatever the upstream has buffered, at most len(p) bytes.
func (o *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b, err := o.up.Ahead(1)
	if len(b) == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	n := copy(p, b)
	if _, e := o.up.Consume(int64(n)); e != nil {
		return 0, e
	}
	return n, nil
}

// ReadByte delivers exactly one byte.
func (o *Stream) ReadByte() (byte, error) {
	b, err := o.up.Ahead(1)
	if len(b) == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	c := b[0]
	if _, e := o.up.Consume(1); e != nil {
		return 0, e
	}
	return c, nil
}
