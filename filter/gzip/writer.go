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
	"hash/crc32"
	"time"

	libwrt "github.com/sabouaram/transform/writer"

	"github.com/sabouaram/transform/types"
)

const osUnix = 3

type wrFilter struct {
	dst libwrt.Downstream
	fw  *flate.Writer

	crc   uint32
	isize uint32
	level int
}

// NewWriter returns a gzip write filter at the default compression
// level; the compression-level option accepts a single digit 0 to 9.
func NewWriter() libwrt.Filter {
	return &wrFilter{level: flate.DefaultCompression}
}

func (o *wrFilter) Name() string {
	return types.Gzip.String()
}

func (o *wrFilter) Code() types.FilterCode {
	return types.Gzip
}

func (o *wrFilter) SetOption(key, value string) types.Status {
	if key != "compression-level" {
		return types.StatusWarn
	}
	if len(value) != 1 || value[0] < '0' || value[0] > '9' {
		return types.StatusWarn
	}
	o.level = int(value[0] - '0')
	return types.StatusOK
}

// Open emits the fixed 10-byte header: magic, deflate, no flags, the
// wall-clock mtime, no deflate flags, OS unix.
func (o *wrFilter) Open(dst libwrt.Downstream) error {
	o.dst = dst
	o.crc = 0
	o.isize = 0

	var h [10]byte
	h[0] = 0x1F
	h[1] = 0x8B
	h[2] = 8
	binary.LittleEndian.PutUint32(h[4:], uint32(time.Now().Unix()))
	h[9] = osUnix
	if e := dst.Write(h[:]); e != nil {
		return e
	}

	fw, e := flate.NewWriter(libwrt.WrapStream(dst), o.level)
	if e != nil {
		return ErrorCompress.ErrorParent(e)
	}
	o.fw = fw
	return nil
}

func (o *wrFilter) Write(p []byte) error {
	o.crc = crc32.Update(o.crc, crc32.IEEETable, p)
	o.isize += uint32(len(p))
	if _, e := o.fw.Write(p); e != nil {
		return ErrorCompress.ErrorParent(e)
	}
	return nil
}

// Close drains the encoder and emits the 8-byte trailer carrying the
// CRC32 of the uncompressed input and its length modulo 2^32.
func (o *wrFilter) Close() error {
	if o.fw == nil {
		return nil
	}
	if e := o.fw.Close(); e != nil {
		return ErrorCompress.ErrorParent(e)
	}
	o.fw = nil

	var t [8]byte
	binary.LittleEndian.PutUint32(t[:], o.crc)
	binary.LittleEndian.PutUint32(t[4:], o.isize)
	return o.dst.Write(t[:])
}
