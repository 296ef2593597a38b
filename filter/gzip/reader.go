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

package gzip

import (
	"compress/flate"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"

	liberr "github.com/nabbar/golib/errors"

	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

const (
	flagHeaderCRC = 1 << 1
	flagExtra     = 1 << 2
	flagName      = 1 << 3
	flagComment   = 1 << 4
	flagReserved  = 0xE0
)

type bidder struct {
	strict bool
}

// NewBidder returns the gzip detection candidate and filter factory.
func NewBidder() tfrdr.Bidder {
	return &bidder{}
}

func (o *bidder) Name() string {
	return types.Gzip.String()
}

func (o *bidder) Code() types.FilterCode {
	return types.Gzip
}

// SetOption accepts strict=1 to enable trailer verification.
func (o *bidder) SetOption(key, value string) types.Status {
	if key != "strict" {
		return types.StatusWarn
	}
	o.strict = value == "1"
	return types.StatusOK
}

// Bid counts the bits the header verifies: the magic, the method, the
// reserved flag bits and, when recognized, the deflate-flags byte. The
// optional fields are walked without consuming so a syntactically
// broken header declines instead of winning the round.
func (o *bidder) Bid(up tfrdr.Upstream) int {
	h, _ := up.Ahead(10)
	if len(h) < 10 {
		return 0
	}

	if h[0] != 0x1F || h[1] != 0x8B {
		return 0
	}
	bits := 16
	if h[2] != 8 {
		return 0
	}
	bits += 8
	if h[3]&flagReserved != 0 {
		return 0
	}
	bits += 3

	if _, err := walkHeader(up, h[3]); err != nil {
		return 0
	}

	switch h[8] {
	case 0, 2, 4:
		bits += 8
	}
	return bits
}

// walkHeader computes the full header length, pulling more lookahead
// as the optional fields require, without consuming anything.
func walkHeader(up tfrdr.Upstream, flags byte) (int, error) {
	length := 10

	p, _ := up.Ahead(length)
	if len(p) < length {
		return 0, ErrorHeaderTruncated.Error(nil)
	}

	if flags&flagExtra != 0 {
		if p, _ = up.Ahead(length + 2); len(p) < length+2 {
			return 0, ErrorHeaderTruncated.Error(nil)
		}
		length += int(binary.LittleEndian.Uint16(p[length:])) + 2
	}

	if flags&flagName != 0 {
		var err error
		if length, err = skipString(up, length); err != nil {
			return 0, err
		}
	}

	if flags&flagComment != 0 {
		var err error
		if length, err = skipString(up, length); err != nil {
			return 0, err
		}
	}

	if flags&flagHeaderCRC != 0 {
		// tolerated, not verified
		length += 2
	}

	if p, _ = up.Ahead(length); len(p) < length {
		return 0, ErrorHeaderTruncated.Error(nil)
	}
	return length, nil
}

func skipString(up tfrdr.Upstream, length int) (int, error) {
	for {
		length++
		p, _ := up.Ahead(length)
		if len(p) < length {
			return 0, ErrorHeaderTruncated.Error(nil)
		}
		if p[length-1] == 0 {
			return length, nil
		}
	}
}

func (o *bidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	return &rdFilter{
		up:     up,
		str:    tfrdr.WrapStream(up),
		strict: o.strict,
	}, nil
}

type rdFilter struct {
	up  tfrdr.Upstream
	str *tfrdr.Stream
	fr  io.ReadCloser

	crc    uint32
	isize  uint32
	strict bool
	eof    bool
}

// Read decodes the deflate payload, looping over concatenated members:
// each member is a header, a raw deflate stream, and an 8-byte trailer.
func (o *rdFilter) Read(p []byte) (int, []byte, error) {
	for {
		if o.eof {
			return 0, nil, io.EOF
		}

		if o.fr == nil {
			if err := o.consumeHeader(); err != nil {
				return 0, nil, err
			}
			o.fr = flate.NewReader(o.str)
			o.crc = 0
			o.isize = 0
		}

		n, e := o.fr.Read(p)
		if n > 0 {
			o.crc = crc32.Update(o.crc, crc32.IEEETable, p[:n])
			o.isize += uint32(n)
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

		// member finished
		_ = o.fr.Close()
		o.fr = nil
		if err := o.consumeTrailer(); err != nil {
			return 0, nil, err
		}

		// another member only if the gzip magic follows
		b, _ := o.up.Ahead(2)
		if len(b) < 2 || b[0] != 0x1F || b[1] != 0x8B {
			o.eof = true
			return 0, nil, io.EOF
		}
	}
}

// consumeHeader validates and consumes one member header.
func (o *rdFilter) consumeHeader() error {
	h, err := o.up.Ahead(10)
	if len(h) < 10 {
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return ErrorHeaderTruncated.Error(nil)
	}

	if h[0] != 0x1F || h[1] != 0x8B {
		return ErrorHeaderMagic.Error(nil)
	}
	if h[2] != 8 {
		return ErrorHeaderMethod.Error(nil)
	}
	if h[3]&flagReserved != 0 {
		return ErrorHeaderFlags.Error(nil)
	}

	length, e := walkHeader(o.up, h[3])
	if e != nil {
		return tfrdr.ErrorPrematureEOF.ErrorParent(e)
	}
	if _, e := o.up.Consume(int64(length)); e != nil {
		return e
	}
	return nil
}

// consumeTrailer consumes the 8-byte member trailer. The CRC32 and the
// size are verified only in strict mode; the default keeps the historic
// lax behavior while the CRC of the emitted bytes stays maintained.
func (o *rdFilter) consumeTrailer() error {
	t, err := o.up.Ahead(8)
	if len(t) < 8 {
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return tfrdr.ErrorPrematureEOF.ErrorParent(ErrorTrailerTruncated.Error(nil))
	}

	if o.strict {
		if binary.LittleEndian.Uint32(t) != o.crc {
			return ErrorTrailerCRC.Error(nil)
		}
		if binary.LittleEndian.Uint32(t[4:]) != o.isize {
			return ErrorTrailerSize.Error(nil)
		}
	}

	_, e := o.up.Consume(8)
	return e
}

func (o *rdFilter) Close() error {
	if o.fr != nil {
		e := o.fr.Close()
		o.fr = nil
		return e
	}
	return nil
}
