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

package bzip2

import (
	"bytes"
	"compress/bzip2"
	"errors"
	"io"

	liberr "github.com/nabbar/golib/errors"

	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

var (
	blockMagic = []byte{0x31, 0x41, 0x59, 0x26, 0x53, 0x59}
	endMagic   = []byte{0x17, 0x72, 0x45, 0x38, 0x50, 0x90}
)

type bidder struct{}

// NewBidder returns the bzip2 detection candidate and filter factory.
func NewBidder() tfrdr.Bidder {
	return &bidder{}
}

func (o *bidder) Name() string {
	return types.Bzip2.String()
}

func (o *bidder) Code() types.FilterCode {
	return types.Bzip2
}

// Bid verifies "BZh", the level digit, and the first block magic or
// the end-of-stream magic of an empty file.
func (o *bidder) Bid(up tfrdr.Upstream) int {
	h, _ := up.Ahead(10)
	if len(h) < 10 {
		return 0
	}

	if h[0] != 'B' || h[1] != 'Z' || h[2] != 'h' {
		return 0
	}
	bits := 24
	if h[3] < '1' || h[3] > '9' {
		return 0
	}
	bits += 5

	if !bytes.Equal(h[4:10], blockMagic) && !bytes.Equal(h[4:10], endMagic) {
		return 0
	}
	bits += 48

	return bits
}

func (o *bidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	return &rdFilter{
		dec: bzip2.NewReader(tfrdr.WrapStream(up)),
	}, nil
}

type rdFilter struct {
	dec io.Reader
	eof bool
}

// Read pulls decoded bytes. The decoder re-initializes itself on a
// following member, so concatenated streams come out as one.
func (o *rdFilter) Read(p []byte) (int, []byte, error) {
	if o.eof {
		return 0, nil, io.EOF
	}

	n, e := o.dec.Read(p)
	if e != nil {
		if errors.Is(e, io.EOF) {
			o.eof = true
			if n > 0 {
				return n, nil, nil
			}
			return 0, nil, io.EOF
		}
		if errors.Is(e, io.ErrUnexpectedEOF) {
			return 0, nil, tfrdr.ErrorPrematureEOF.ErrorParent(e)
		}
		return 0, nil, ErrorDecompress.ErrorParent(e)
	}
	return n, nil, nil
}

func (o *rdFilter) Close() error {
	o.dec = nil
	return nil
}
