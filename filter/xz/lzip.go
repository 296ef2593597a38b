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
	"hash/crc32"
	"io"

	liberr "github.com/nabbar/golib/errors"
	"github.com/ulikunitz/xz/lzma"

	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

// lzip always encodes with lc=3, lp=0, pb=2.
const lzipProps = 0x5D

var lzipMagic = []byte{'L', 'Z', 'I', 'P'}

func newAloneReader(r io.Reader) (io.Reader, error) {
	return lzma.NewReader(r)
}

type lzipBidder struct{}

// NewLzipBidder returns the lzip detection candidate and filter
// factory.
func NewLzipBidder() tfrdr.Bidder {
	return &lzipBidder{}
}

func (o *lzipBidder) Name() string {
	return types.Lzip.String()
}

func (o *lzipBidder) Code() types.FilterCode {
	return types.Lzip
}

// Bid verifies the magic, the version, and the dictionary power.
func (o *lzipBidder) Bid(up tfrdr.Upstream) int {
	h, _ := up.Ahead(6)
	if len(h) < 6 {
		return 0
	}

	var bits int
	for i := range lzipMagic {
		if h[i] != lzipMagic[i] {
			return 0
		}
	}
	bits += 32

	if h[4] != 0 && h[4] != 1 {
		return 0
	}
	bits += 8

	if p := h[5] & 0x1F; p < 12 || p > 27 {
		return 0
	}
	bits += 8

	return bits
}

func (o *lzipBidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	return &lzipFilter{up: up}, nil
}

// memberReader feeds one lzip member to the alone decoder: the
// synthesized 13-byte header first, then the raw payload byte by byte
// so the decoder stops exactly at the trailer.
type memberReader struct {
	head    []byte
	up      tfrdr.Upstream
	payload int64
}

func (o *memberReader) ReadByte() (byte, error) {
	if len(o.head) > 0 {
		c := o.head[0]
		o.head = o.head[1:]
		return c, nil
	}

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
	o.payload++
	return c, nil
}

func (o *memberReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(o.head) > 0 {
		n := copy(p, o.head)
		o.head = o.head[n:]
		return n, nil
	}
	c, err := o.ReadByte()
	if err != nil {
		return 0, err
	}
	p[0] = c
	return 1, nil
}

type lzipFilter struct {
	up  tfrdr.Upstream
	dec io.Reader
	mr  *memberReader

	version  byte
	crc      uint32
	dataSize uint64
	eof      bool
}

// Read decodes lzip members in sequence, verifying each trailer.
func (o *lzipFilter) Read(p []byte) (int, []byte, error) {
	for {
		if o.eof {
			return 0, nil, io.EOF
		}

		if o.dec == nil {
			if err := o.openMember(); err != nil {
				return 0, nil, err
			}
		}

		n, e := o.dec.Read(p)
		if n > 0 {
			o.crc = crc32.Update(o.crc, crc32.IEEETable, p[:n])
			o.dataSize += uint64(n)
			return n, nil, nil
		}
		if e == nil {
			continue
		}
		if !errors.Is(e, io.EOF) {
			if errors.Is(e, io.ErrUnexpectedEOF) {
				return 0, nil, tfrdr.ErrorPrematureEOF.ErrorParent(e)
			}
			return 0, nil, ErrorDecompress.ErrorParent(e)
		}

		if err := o.checkTrailer(); err != nil {
			return 0, nil, err
		}
		o.dec = nil

		// another member only if the lzip magic follows
		b, _ := o.up.Ahead(4)
		if len(b) < 4 || b[0] != 'L' || b[1] != 'Z' || b[2] != 'I' || b[3] != 'P' {
			o.eof = true
			return 0, nil, io.EOF
		}
	}
}

// openMember parses a 6-byte lzip header and primes the alone decoder
// with the synthesized properties.
func (o *lzipFilter) openMember() error {
	h, err := o.up.Ahead(6)
	if len(h) < 6 {
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return tfrdr.ErrorPrematureEOF.ErrorParent(ErrorLzipTruncated.Error(nil))
	}

	if h[0] != 'L' || h[1] != 'Z' || h[2] != 'I' || h[3] != 'P' {
		return ErrorLzipHeader.Error(nil)
	}
	if h[4] != 0 && h[4] != 1 {
		return ErrorLzipHeader.Error(nil)
	}
	o.version = h[4]

	log2dic := int(h[5] & 0x1F)
	if log2dic < 12 || log2dic > 27 {
		return ErrorLzipDict.Error(nil)
	}
	dictSize := uint32(1) << log2dic
	dictSize -= dictSize / 16 * uint32(h[5]>>5)

	if _, e := o.up.Consume(6); e != nil {
		return e
	}

	head := make([]byte, 13)
	head[0] = lzipProps
	binary.LittleEndian.PutUint32(head[1:], dictSize)
	binary.LittleEndian.PutUint64(head[5:], ^uint64(0))

	o.mr = &memberReader{head: head, up: o.up}
	dec, e := newAloneReader(o.mr)
	if e != nil {
		return ErrorDecompress.ErrorParent(e)
	}
	o.dec = dec
	o.crc = 0
	o.dataSize = 0
	return nil
}

// checkTrailer verifies the 12-byte (v0) or 20-byte (v1) trailer.
func (o *lzipFilter) checkTrailer() error {
	size := 12
	if o.version >= 1 {
		size = 20
	}

	t, err := o.up.Ahead(size)
	if len(t) < size {
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return tfrdr.ErrorPrematureEOF.ErrorParent(ErrorLzipTruncated.Error(nil))
	}

	if binary.LittleEndian.Uint32(t) != o.crc {
		return ErrorLzipCRC.Error(nil)
	}
	if binary.LittleEndian.Uint64(t[4:]) != o.dataSize {
		return ErrorLzipDataSize.Error(nil)
	}
	if o.version >= 1 {
		member := uint64(6) + uint64(o.mr.payload) + uint64(size)
		if binary.LittleEndian.Uint64(t[12:]) != member {
			return ErrorLzipMemberSize.Error(nil)
		}
	}

	_, e := o.up.Consume(int64(size))
	return e
}

func (o *lzipFilter) Close() error {
	o.dec = nil
	o.mr = nil
	return nil
}
