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
	libwrt "github.com/sabouaram/transform/writer"

	"github.com/sabouaram/transform/types"
)

const (
	// 95% occupancy hash table
	hashSize  = 69001
	hashShift = 8

	// ratio check interval
	checkGap = 10000

	// these two codes must not lie within the contiguous general code
	// space
	clearEnt = 256
	firstEnt = 257

	outSize = 65536
)

var byteMask = [9]byte{0x00, 0x01, 0x03, 0x07, 0x0f, 0x1f, 0x3f, 0x7f, 0xff}

type wrFilter struct {
	dst libwrt.Downstream

	inCount    int64
	outCount   int64
	checkpoint int64

	codeLen    int
	curMaxcode int
	maxMaxcode int

	hashtab [hashSize]int
	codetab [hashSize]uint16

	firstFree int
	ratio     int64

	curCode  int
	curFcode int

	bitOffset int
	bitBuf    byte

	out     []byte
	outUsed int
}

// NewWriter returns a compress (.Z) write filter emitting block-mode
// 16-bit streams.
func NewWriter() libwrt.Filter {
	return &wrFilter{
		out: make([]byte, outSize),
	}
}

func (o *wrFilter) Name() string {
	return "compress"
}

func (o *wrFilter) Code() types.FilterCode {
	return types.Compress
}

// Open primes the output with the three header bytes: the signature
// and block mode with a 16-bit maximum code.
func (o *wrFilter) Open(dst libwrt.Downstream) error {
	o.dst = dst

	o.maxMaxcode = 0x10000
	o.inCount = 0
	o.bitBuf = 0
	o.bitOffset = 0
	o.outCount = 3
	o.ratio = 0
	o.checkpoint = checkGap
	o.codeLen = 9
	o.curMaxcode = (1 << o.codeLen) - 1
	o.firstFree = firstEnt

	for i := range o.hashtab {
		o.hashtab[i] = -1
	}

	o.out[0] = 0x1F
	o.out[1] = 0x9D
	o.out[2] = 0x90
	o.outUsed = 3
	return nil
}

func (o *wrFilter) outputByte(c byte) error {
	o.out[o.outUsed] = c
	o.outUsed++
	o.outCount++

	if o.outUsed == len(o.out) {
		if e := o.dst.Write(o.out); e != nil {
			return e
		}
		o.outUsed = 0
	}
	return nil
}

// outputCode packs one code of the current length into the bit buffer.
// After a clear, or when the next entry no longer fits the length, the
// partially filled code group is flushed whole because the input side
// only discovers the size increase after it has read the group.
func (o *wrFilter) outputCode(ocode int) error {
	clearFlag := ocode == clearEnt

	off := o.bitOffset % 8
	o.bitBuf |= byte(ocode<<off) & 0xff
	if e := o.outputByte(o.bitBuf); e != nil {
		return e
	}

	bits := o.codeLen - (8 - off)
	ocode >>= 8 - off
	if bits >= 8 {
		if e := o.outputByte(byte(ocode)); e != nil {
			return e
		}
		ocode >>= 8
		bits -= 8
	}
	o.bitOffset += o.codeLen
	o.bitBuf = byte(ocode) & byteMask[bits]
	if o.bitOffset == o.codeLen*8 {
		o.bitOffset = 0
	}

	if clearFlag || o.firstFree > o.curMaxcode {
		if o.bitOffset > 0 {
			for o.bitOffset < o.codeLen*8 {
				if e := o.outputByte(o.bitBuf); e != nil {
					return e
				}
				o.bitOffset += 8
				o.bitBuf = 0
			}
		}
		o.bitBuf = 0
		o.bitOffset = 0

		if clearFlag {
			o.codeLen = 9
			o.curMaxcode = (1 << o.codeLen) - 1
		} else {
			o.codeLen++
			if o.codeLen == 16 {
				o.curMaxcode = o.maxMaxcode
			} else {
				o.curMaxcode = (1 << o.codeLen) - 1
			}
		}
	}
	return nil
}

func (o *wrFilter) outputFlush() error {
	if o.bitOffset%8 != 0 {
		o.codeLen = (o.bitOffset%8 + 7) / 8
		if e := o.outputByte(o.bitBuf); e != nil {
			return e
		}
	}
	return nil
}

// Write feeds input through the hash-chained dictionary, emitting a
// code per missed pair. When the dictionary is full, the compression
// ratio is sampled every checkGap input bytes and a falling ratio
// clears the table.
func (o *wrFilter) Write(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	if o.inCount == 0 {
		o.curCode = int(p[0])
		p = p[1:]
		o.inCount++
	}

	for _, b := range p {
		c := int(b)
		o.inCount++
		o.curFcode = c<<16 + o.curCode
		i := (c << hashShift) ^ o.curCode

		if o.hashtab[i] == o.curFcode {
			o.curCode = int(o.codetab[i])
			continue
		}
		if o.hashtab[i] >= 0 {
			// secondary hash, after G. Knott
			disp := hashSize - i
			if i == 0 {
				disp = 1
			}
			found := false
			for {
				i -= disp
				if i < 0 {
					i += hashSize
				}
				if o.hashtab[i] == o.curFcode {
					o.curCode = int(o.codetab[i])
					found = true
					break
				}
				if o.hashtab[i] < 0 {
					break
				}
			}
			if found {
				continue
			}
		}

		if e := o.outputCode(o.curCode); e != nil {
			return e
		}
		o.curCode = c
		if o.firstFree < o.maxMaxcode {
			o.codetab[i] = uint16(o.firstFree)
			o.firstFree++
			o.hashtab[i] = o.curFcode
			continue
		}
		if o.inCount < o.checkpoint {
			continue
		}

		o.checkpoint = o.inCount + checkGap

		var ratio int64
		if o.inCount <= 0x007fffff {
			ratio = o.inCount * 256 / o.outCount
		} else if ratio = o.outCount / 256; ratio == 0 {
			ratio = 0x7fffffff
		} else {
			ratio = o.inCount / ratio
		}

		if ratio > o.ratio {
			o.ratio = ratio
		} else {
			o.ratio = 0
			for j := range o.hashtab {
				o.hashtab[j] = -1
			}
			o.firstFree = firstEnt
			if e := o.outputCode(clearEnt); e != nil {
				return e
			}
		}
	}
	return nil
}

// Close emits the pending code, pads the bit buffer to the current
// width, and flushes the last output block.
func (o *wrFilter) Close() error {
	if o.dst == nil {
		return nil
	}

	if o.inCount > 0 {
		if e := o.outputCode(o.curCode); e != nil {
			return e
		}
	}
	if e := o.outputFlush(); e != nil {
		return e
	}
	if o.outUsed > 0 {
		if e := o.dst.Write(o.out[:o.outUsed]); e != nil {
			return e
		}
		o.outUsed = 0
	}
	o.dst = nil
	return nil
}
