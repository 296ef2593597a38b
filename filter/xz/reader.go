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

package xz

import (
	"encoding/binary"
	"errors"
	"io"

	liberr "github.com/nabbar/golib/errors"
	libxz "github.com/ulikunitz/xz"

	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

// decoderMemLimit caps the xz stream decoder dictionary.
const decoderMemLimit = 1 << 30

var xzMagic = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}

type xzBidder struct{}

// NewBidder returns the xz detection candidate and filter factory.
func NewBidder() tfrdr.Bidder {
	return &xzBidder{}
}

func (o *xzBidder) Name() string {
	return types.XZ.String()
}

func (o *xzBidder) Code() types.FilterCode {
	return types.XZ
}

// Bid verifies the six xz header magic bytes.
func (o *xzBidder) Bid(up tfrdr.Upstream) int {
	h, _ := up.Ahead(6)
	if len(h) < 6 {
		return 0
	}
	for i := range xzMagic {
		if h[i] != xzMagic[i] {
			return 0
		}
	}
	return 48
}

func (o *xzBidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	dec, e := libxz.ReaderConfig{DictCap: decoderMemLimit}.NewReader(tfrdr.WrapStream(up))
	if e != nil {
		return nil, ErrorDecompress.ErrorParent(e)
	}
	return &decFilter{dec: dec}, nil
}

// decFilter serves xz and lzma: the library decoder handles member
// re-initialization for xz itself.
type decFilter struct {
	dec io.Reader
	eof bool
}

func (o *decFilter) Read(p []byte) (int, []byte, error) {
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

func (o *decFilter) Close() error {
	o.dec = nil
	return nil
}

type lzmaBidder struct{}

// NewLzmaBidder returns the lzma "alone" detection candidate. The bid
// is deliberately conservative because the format's signature is weak;
// register it after the strong-magic candidates.
func NewLzmaBidder() tfrdr.Bidder {
	return &lzmaBidder{}
}

func (o *lzmaBidder) Name() string {
	return types.Lzma.String()
}

func (o *lzmaBidder) Code() types.FilterCode {
	return types.Lzma
}

// Bid scores the 13-byte alone header: a valid properties byte, a
// dictionary size out of the set real encoders produce, and an
// uncompressed size of -1, which earns extra bits. Any other
// uncompressed size value is accepted without a plausibility check.
func (o *lzmaBidder) Bid(up tfrdr.Upstream) int {
	h, _ := up.Ahead(14)
	if len(h) < 14 {
		return 0
	}

	var bits int
	// (pb * 5 + lp) * 9 + lc with pb,lp <= 4 and lc <= 8
	if h[0] > (4*5+4)*9+8 {
		return 0
	}
	// most likely values, 0x5d and the -e variant 0x5e
	if h[0] == 0x5D || h[0] == 0x5E {
		bits += 8
	}

	if binary.LittleEndian.Uint64(h[5:]) == ^uint64(0) {
		bits += 64
	}

	dictSize := binary.LittleEndian.Uint32(h[1:])
	switch {
	case dictSize >= 1<<12 && dictSize <= 1<<27 && dictSize&(dictSize-1) == 0:
		bits += 32
	case dictSize <= 0x03F00000 && dictSize >= 0x00300000 &&
		dictSize&((1<<20)-1) == 0 && bits == 8+64:
		// xz-utils shrinks the dictionary by whole mebibytes when
		// memory is short
		bits += 32
	default:
		return 0
	}

	return bits
}

func (o *lzmaBidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	dec, e := newAloneReader(tfrdr.WrapStream(up))
	if e != nil {
		return nil, ErrorDecompress.ErrorParent(e)
	}
	return &decFilter{dec: dec}, nil
}
