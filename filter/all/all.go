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

// Package all registers every built-in detection candidate on a read
// pipeline in one call.
//
// The registration order is fixed and documented because it is part of
// the detection behavior: the strong-magic formats come first and the
// lzma candidate stays behind them, since its bid is a heuristic known
// to over-trigger on plain file contents.
package all

import (
	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/filter/bzip2"
	"github.com/sabouaram/transform/filter/gzip"
	"github.com/sabouaram/transform/filter/lz4"
	"github.com/sabouaram/transform/filter/lzw"
	"github.com/sabouaram/transform/filter/rpm"
	"github.com/sabouaram/transform/filter/uu"
	"github.com/sabouaram/transform/filter/xz"
	"github.com/sabouaram/transform/reader"
)

// Register adds the full candidate chain, in order: bzip2, compress,
// gzip, lz4, lzip, lzma, xz, uu, rpm.
func Register(r reader.Reader) liberr.Error {
	for _, b := range []reader.Bidder{
		bzip2.NewBidder(),
		lzw.NewBidder(),
		gzip.NewBidder(),
		lz4.NewBidder(),
		xz.NewLzipBidder(),
		xz.NewLzmaBidder(),
		xz.NewBidder(),
		uu.NewBidder(),
		rpm.NewBidder(),
	} {
		if err := r.RegisterBidder(b); err != nil {
			return err
		}
	}
	return nil
}
