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

// Package padding provides the write-side padding filter: on close it
// appends zero bytes until the written total is a multiple of the
// block size. The block size is either fixed at construction or, in
// dynamic mode, fetched from the pipeline at close time, where a
// bytes-in-last-block setting of 1 disables padding entirely.
package padding

import (
	libwrt "github.com/sabouaram/transform/writer"

	"github.com/sabouaram/transform/types"
)

type filter struct {
	dst     libwrt.Downstream
	block   int
	dynamic bool
	written int64
}

// New returns a padding filter with a fixed block size.
func New(blockSize int) libwrt.Filter {
	if blockSize < 1 {
		blockSize = 1
	}
	return &filter{block: blockSize}
}

// NewDynamic returns a padding filter resolving the block size and the
// bytes-in-last-block rule from the pipeline when it closes.
func NewDynamic() libwrt.Filter {
	return &filter{dynamic: true}
}

func (o *filter) Name() string {
	return types.Padding.String()
}

func (o *filter) Code() types.FilterCode {
	return types.Padding
}

func (o *filter) Open(dst libwrt.Downstream) error {
	o.dst = dst
	o.written = 0
	return nil
}

func (o *filter) Write(p []byte) error {
	o.written += int64(len(p))
	return o.dst.Write(p)
}

func (o *filter) Close() error {
	if o.dst == nil {
		return nil
	}

	block := o.block
	if o.dynamic {
		block = o.dst.BytesPerBlock()
		if o.dst.BytesInLastBlock() == 1 {
			block = 0
		}
	}

	if block > 1 {
		if r := int(o.written % int64(block)); r != 0 {
			pad := make([]byte, block-r)
			if e := o.dst.Write(pad); e != nil {
				return e
			}
		}
	}
	o.dst = nil
	return nil
}
