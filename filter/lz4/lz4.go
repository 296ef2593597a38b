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

// Package lz4 provides the lz4 frame read and write filters. The frame
// format carries a strong 32-bit magic, so the bidder sits with the
// other strong-magic candidates in the detection chain.
package lz4

import (
	"errors"
	"fmt"
	"io"

	liberr "github.com/nabbar/golib/errors"
	"github.com/pierrec/lz4/v4"

	tfrdr "github.com/sabouaram/transform/reader"
	libwrt "github.com/sabouaram/transform/writer"

	"github.com/sabouaram/transform/types"
)

const (
	ErrorDecompress liberr.CodeError = iota + types.MinPkgFilterLZ4
	ErrorCompress
)

func init() {
	if liberr.ExistInMapMessage(ErrorDecompress) {
		panic(fmt.Errorf("error code collision transform/filter/lz4"))
	}
	liberr.RegisterIdFctMessage(ErrorDecompress, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorDecompress:
		return "lz4 decompression failed"
	case ErrorCompress:
		return "lz4 compression failed"
	}

	return liberr.NullMessage
}

var frameMagic = []byte{0x04, 0x22, 0x4D, 0x18}

type bidder struct{}

// NewBidder returns the lz4 detection candidate and filter factory.
func NewBidder() tfrdr.Bidder {
	return &bidder{}
}

func (o *bidder) Name() string {
	return types.LZ4.String()
}

func (o *bidder) Code() types.FilterCode {
	return types.LZ4
}

func (o *bidder) Bid(up tfrdr.Upstream) int {
	h, _ := up.Ahead(4)
	if len(h) < 4 {
		return 0
	}
	for i := range frameMagic {
		if h[i] != frameMagic[i] {
			return 0
		}
	}
	return 32
}

func (o *bidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	return &rdFilter{
		dec: lz4.NewReader(tfrdr.WrapStream(up)),
	}, nil
}

type rdFilter struct {
	dec *lz4.Reader
	eof bool
}

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

type wrFilter struct {
	enc *lz4.Writer
}

// NewWriter returns an lz4 frame write filter.
func NewWriter() libwrt.Filter {
	return &wrFilter{}
}

func (o *wrFilter) Name() string {
	return types.LZ4.String()
}

func (o *wrFilter) Code() types.FilterCode {
	return types.LZ4
}

func (o *wrFilter) Open(dst libwrt.Downstream) error {
	o.enc = lz4.NewWriter(libwrt.WrapStream(dst))
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
