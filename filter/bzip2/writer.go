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
	bz2 "github.com/dsnet/compress/bzip2"

	libwrt "github.com/sabouaram/transform/writer"

	"github.com/sabouaram/transform/types"
)

type wrFilter struct {
	enc   *bz2.Writer
	level int
}

// NewWriter returns a bzip2 write filter driving the block-sort
// encoder at level 9. The compression-level option accepts a single
// digit; 0 is promoted to 1.
func NewWriter() libwrt.Filter {
	return &wrFilter{level: bz2.BestCompression}
}

func (o *wrFilter) Name() string {
	return types.Bzip2.String()
}

func (o *wrFilter) Code() types.FilterCode {
	return types.Bzip2
}

func (o *wrFilter) SetOption(key, value string) types.Status {
	if key != "compression-level" {
		return types.StatusWarn
	}
	if len(value) != 1 || value[0] < '0' || value[0] > '9' {
		return types.StatusWarn
	}
	o.level = int(value[0] - '0')
	if o.level == 0 {
		o.level = 1
	}
	return types.StatusOK
}

func (o *wrFilter) Open(dst libwrt.Downstream) error {
	enc, e := bz2.NewWriter(libwrt.WrapStream(dst), &bz2.WriterConfig{Level: o.level})
	if e != nil {
		return ErrorCompressInit.ErrorParent(e)
	}
	o.enc = enc
	return nil
}

func (o *wrFilter) Write(p []byte) error {
	if _, e := o.enc.Write(p); e != nil {
		return ErrorCompress.ErrorParent(e)
	}
	return nil
}

func (o *wrFilter) Close() error {
	if o.enc == nil {
		return nil
	}
	e := o.enc.Close()
	o.enc = nil
	if e != nil {
		return ErrorCompress.ErrorParent(e)
	}
	return nil
}
