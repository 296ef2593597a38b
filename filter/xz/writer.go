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
	"hash/crc32"
	"io"

	libxz "github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	libwrt "github.com/sabouaram/transform/writer"

	"github.com/sabouaram/transform/types"
)

// presets maps a compression level to the encoder dictionary size; the
// level option is clamped to 0..6.
var presets = [10]int{
	1 << 18,
	1 << 20,
	1 << 21,
	1 << 22,
	1 << 22,
	1 << 23,
	1 << 23,
	1 << 24,
	1 << 25,
	1 << 26,
}

const (
	defaultLevel = 6
	maxLevel     = 6
)

func levelDict(level int) int {
	if level < 0 {
		level = 0
	}
	if level > maxLevel {
		level = maxLevel
	}
	return presets[level]
}

type wrKind uint8

const (
	kindXZ wrKind = iota
	kindLzma
	kindLzip
)

type wrFilter struct {
	kind wrKind
	dst  libwrt.Downstream

	enc   io.WriteCloser
	level int

	// lzip member accounting
	strip    *headerStrip
	crc      uint32
	dataSize uint64
}

// NewWriter returns an xz write filter.
func NewWriter() libwrt.Filter {
	return &wrFilter{kind: kindXZ, level: defaultLevel}
}

// NewLzmaWriter returns an lzma "alone" write filter.
func NewLzmaWriter() libwrt.Filter {
	return &wrFilter{kind: kindLzma, level: defaultLevel}
}

// NewLzipWriter returns an lzip write filter: lzip header, raw LZMA1
// payload, and the 20-byte version 1 trailer.
func NewLzipWriter() libwrt.Filter {
	return &wrFilter{kind: kindLzip, level: defaultLevel}
}

func (o *wrFilter) Name() string {
	switch o.kind {
	case kindLzma:
		return types.Lzma.String()
	case kindLzip:
		return types.Lzip.String()
	default:
		return types.XZ.String()
	}
}

func (o *wrFilter) Code() types.FilterCode {
	switch o.kind {
	case kindLzma:
		return types.Lzma
	case kindLzip:
		return types.Lzip
	default:
		return types.XZ
	}
}

func (o *wrFilter) SetOption(key, value string) types.Status {
	if key != "compression-level" {
		return types.StatusWarn
	}
	if len(value) != 1 || value[0] < '0' || value[0] > '9' {
		return types.StatusWarn
	}
	o.level = int(value[0] - '0')
	if o.level > maxLevel {
		o.level = maxLevel
	}
	return types.StatusOK
}

func (o *wrFilter) Open(dst libwrt.Downstream) error {
	o.dst = dst
	o.crc = 0
	o.dataSize = 0

	dict := levelDict(o.level)
	out := libwrt.WrapStream(dst)

	switch o.kind {
	case kindXZ:
		enc, e := libxz.WriterConfig{DictCap: dict}.NewWriter(out)
		if e != nil {
			return ErrorCompressInit.ErrorParent(e)
		}
		o.enc = enc

	case kindLzma:
		enc, e := lzma.WriterConfig{DictCap: dict}.NewWriter(out)
		if e != nil {
			return ErrorCompressInit.ErrorParent(e)
		}
		o.enc = enc

	case kindLzip:
		log2dic := log2(dict)
		if log2dic < 12 || log2dic > 27 {
			return ErrorLzipDict.Error(nil)
		}

		var h [6]byte
		copy(h[:], lzipMagic)
		h[4] = 1
		h[5] = byte(log2dic)
		if e := dst.Write(h[:]); e != nil {
			return e
		}

		// the alone encoder emits a 13-byte header the lzip container
		// replaces, so strip it before forwarding
		o.strip = &headerStrip{dst: out, remaining: 13}
		enc, e := lzma.WriterConfig{DictCap: dict}.NewWriter(o.strip)
		if e != nil {
			return ErrorCompressInit.ErrorParent(e)
		}
		o.enc = enc
	}
	return nil
}

func (o *wrFilter) Write(p []byte) error {
	if o.kind == kindLzip {
		o.crc = crc32.Update(o.crc, crc32.IEEETable, p)
		o.dataSize += uint64(len(p))
	}
	if _, e := o.enc.Write(p); e != nil {
		return ErrorCompress.ErrorParent(e)
	}
	return nil
}

func (o *wrFilter) Close() error {
	if o.enc == nil {
		return nil
	}
	if e := o.enc.Close(); e != nil {
		return ErrorCompress.ErrorParent(e)
	}
	o.enc = nil

	if o.kind != kindLzip {
		return nil
	}

	// 20-byte trailer: CRC32, data size, member size including the
	// header and the trailer itself
	var t [20]byte
	binary.LittleEndian.PutUint32(t[:], o.crc)
	binary.LittleEndian.PutUint64(t[4:], o.dataSize)
	binary.LittleEndian.PutUint64(t[12:], uint64(6)+uint64(o.strip.written)+20)
	return o.dst.Write(t[:])
}

func log2(n int) int {
	var l int
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

// headerStrip drops the first bytes of the alone encoder's output and
// counts what it forwards.
type headerStrip struct {
	dst       io.Writer
	remaining int
	written   int64
}

func (o *headerStrip) Write(p []byte) (int, error) {
	total := len(p)

	if o.remaining > 0 {
		n := o.remaining
		if n > len(p) {
			n = len(p)
		}
		o.remaining -= n
		p = p[n:]
	}

	if len(p) > 0 {
		if _, e := o.dst.Write(p); e != nil {
			return 0, e
		}
		o.written += int64(len(p))
	}
	return total, nil
}
