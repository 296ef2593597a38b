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
	"fmt"

	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/types"
)

const (
	ErrorHeaderMagic liberr.CodeError = iota + types.MinPkgFilterGzip
	ErrorHeaderMethod
	ErrorHeaderFlags
	ErrorHeaderTruncated
	ErrorTrailerTruncated
	ErrorTrailerCRC
	ErrorTrailerSize
	ErrorDecompress
	ErrorCompress
)

func init() {
	if liberr.ExistInMapMessage(ErrorHeaderMagic) {
		panic(fmt.Errorf("error code collision transform/filter/gzip"))
	}
	liberr.RegisterIdFctMessage(ErrorHeaderMagic, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorHeaderMagic:
		return "gzip header does not start with the gzip magic"
	case ErrorHeaderMethod:
		return "gzip header declares an unsupported compression method"
	case ErrorHeaderFlags:
		return "gzip header has reserved flag bits set"
	case ErrorHeaderTruncated:
		return "truncated gzip header"
	case ErrorTrailerTruncated:
		return "truncated gzip trailer"
	case ErrorTrailerCRC:
		return "gzip trailer CRC32 mismatch"
	case ErrorTrailerSize:
		return "gzip trailer size mismatch"
	case ErrorDecompress:
		return "gzip decompression failed"
	case ErrorCompress:
		return "gzip compression failed"
	}

	return liberr.NullMessage
}
