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

package lzw

import (
	"errors"
	"io"

	liberr "github.com/nabbar/golib/errors"

	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

const (
	resetCode = 256
	tableSize = 65536

	// worst case for the expansion stack: the last dictionary entry can
	// code a run of 65536-256 bytes, so a 65280-byte expansion plus
	// margin must fit.
	stackSize = 65300
)

var bitMask = [17]int{
	0x00, 0x01, 0x03, 0x07, 0x0f, 0x1f, 0x3f, 0x7f, 0xff,
	0x1ff, 0x3ff, 0x7ff, 0xfff, 0x1fff, 0x3fff, 0x7fff, 0xffff,
}

type bidder struct{}

// NewBidder returns the compress (.Z) detection candidate and filter
// factory.
func NewBidder() tfrdr.Bidder {
	return &bidder{}
}

func (o *bidder) Name() string {
	return "compress"
}

func (o *bidder) Code() types.FilterCode {
	return types.Compress
}

// Bid verifies the two signature bytes.
func (o *bidder) Bid(up tfrdr.Upstream) int {
	h, _ := up.Ahead(2)
	if len(h) < 2 {
		return 0
	}
	if h[0] != 0x1F {
		return 0
	}
	if h[1] != 0x9D {
		return 0
	}
	return 16
}

func (o *bidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	return &rdFilter{
		up:    up,
		stack: make([]byte, 0, stackSize),
	}, nil
}

type rdFilter struct {
	up tfrdr.Upstream

	// bit-buffer input
	in             []byte
	unnotified     int64
	bitBuf         int
	bitsAvail      int
	bytesInSection int64

	// decompression state
	useReset    bool
	maxcode     int
	maxcodeBits int
	sectionEnd  int
	bits        int
	oldcode     int
	finbyte     int

	freeEnt int
	prefix  [tableSize]uint16
	suffix  [tableSize]byte

	// expansion stack, drained one byte per requested output byte
	stack []byte

	inited bool
	eof    bool
}

// Read drains the expansion stack into p, decoding further codes as
// the stack runs dry.
func (o *rdFilter) Read(p []byte) (int, []byte, error) {
	if o.eof {
		return 0, nil, io.EOF
	}

	if !o.inited {
		if err := o.streamInit(); err != nil {
			return 0, nil, err
		}
		o.inited = true
	}

	var n int
	for n < len(p) {
		if l := len(o.stack); l > 0 {
			p[n] = o.stack[l-1]
			o.stack = o.stack[:l-1]
			n++
			continue
		}
		err := o.nextCode()
		if err != nil {
			if errors.Is(err, io.EOF) {
				o.eof = true
				break
			}
			return 0, nil, err
		}
	}

	if n == 0 {
		return 0, nil, io.EOF
	}
	return n, nil, nil
}

func (o *rdFilter) Close() error {
	o.stack = nil
	return nil
}

// streamInit parses the three header bytes and primes the dictionary
// with the 256 roots.
func (o *rdFilter) streamInit() error {
	if _, err := o.getbits(8); err != nil {
		return o.truncated(err)
	}
	if _, err := o.getbits(8); err != nil {
		return o.truncated(err)
	}

	code, err := o.getbits(8)
	if err != nil {
		return o.truncated(err)
	}
	o.maxcodeBits = code & 0x1F
	o.maxcode = 1 << o.maxcodeBits
	o.useReset = code&0x80 != 0

	o.freeEnt = 256
	if o.useReset {
		o.freeEnt++
	}
	o.bits = 9
	o.sectionEnd = (1 << o.bits) - 1
	o.oldcode = -1
	for c := 255; c >= 0; c-- {
		o.prefix[c] = 0
		o.suffix[c] = byte(c)
	}
	return o.nextCode()
}

func (o *rdFilter) truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return tfrdr.ErrorPrematureEOF.ErrorParent(ErrorTruncated.Error(nil))
	}
	return err
}

// nextCode processes one code and pushes its expansion onto the stack.
func (o *rdFilter) nextCode() error {
	code, err := o.getbits(o.bits)
	if err != nil {
		return err
	}
	newcode := code

	// a reset code rewinds the dictionary; the historic compress
	// blocked its output so that junk bytes follow every reset, and the
	// number of bytes to skip is a function of the current bit length
	for code == resetCode && o.useReset {
		skip := int(int64(o.bits) - o.bytesInSection%int64(o.bits))
		skip %= o.bits
		o.bitsAvail = 0 // discard the rest of this byte
		o.bitBuf = 0
		for skip > 0 {
			if _, err = o.getbits(8); err != nil {
				return err
			}
			skip--
		}

		o.bytesInSection = 0
		o.bits = 9
		o.sectionEnd = (1 << o.bits) - 1
		o.freeEnt = 257
		o.oldcode = -1

		if code, err = o.getbits(o.bits); err != nil {
			return err
		}
		newcode = code
	}

	if code > o.freeEnt {
		return ErrorInvalidData.Error(nil)
	}

	// the KwKwK string: the code names the entry being defined
	if code >= o.freeEnt {
		o.stack = append(o.stack, byte(o.finbyte))
		code = o.oldcode
	}

	// expand in reverse order
	for code >= 256 {
		o.stack = append(o.stack, o.suffix[code])
		code = int(o.prefix[code])
	}
	o.stack = append(o.stack, byte(code))
	o.finbyte = code

	if next := o.freeEnt; next < o.maxcode && o.oldcode >= 0 {
		o.prefix[next] = uint16(o.oldcode)
		o.suffix[next] = byte(o.finbyte)
		o.freeEnt++
	}
	if o.freeEnt > o.sectionEnd {
		o.bits++
		o.bytesInSection = 0
		if o.bits == o.maxcodeBits {
			o.sectionEnd = o.maxcode
		} else {
			o.sectionEnd = (1 << o.bits) - 1
		}
	}

	o.oldcode = newcode
	return nil
}

// getbits returns the next n bits of the stream, pulling upstream
// lookahead one block at a time and consuming it lazily.
func (o *rdFilter) getbits(n int) (int, error) {
	for o.bitsAvail < n {
		if len(o.in) == 0 {
			if o.unnotified > 0 {
				if _, err := o.up.Consume(o.unnotified); err != nil {
					return -1, err
				}
				o.unnotified = 0
			}
			b, err := o.up.Ahead(1)
			if len(b) == 0 {
				if err == nil || errors.Is(err, io.EOF) {
					return -1, io.EOF
				}
				return -1, err
			}
			o.in = b
			o.unnotified = int64(len(b))
		}
		o.bitBuf |= int(o.in[0]) << o.bitsAvail
		o.in = o.in[1:]
		o.bitsAvail += 8
		o.bytesInSection++
	}

	code := o.bitBuf
	o.bitBuf >>= n
	o.bitsAvail -= n
	return code & bitMask[n], nil
}
