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

package transform

import (
	arcbz2 "github.com/sabouaram/transform/filter/bzip2"
	arcgzp "github.com/sabouaram/transform/filter/gzip"
	arclz4 "github.com/sabouaram/transform/filter/lz4"
	arclzw "github.com/sabouaram/transform/filter/lzw"
	arcxzz "github.com/sabouaram/transform/filter/xz"
	libwrt "github.com/sabouaram/transform/writer"

	"github.com/sabouaram/transform/types"
)

func writerFor(code types.FilterCode) libwrt.Filter {
	switch code {
	case types.Gzip:
		return arcgzp.NewWriter()
	case types.Bzip2:
		return arcbz2.NewWriter()
	case types.Compress:
		return arclzw.NewWriter()
	case types.XZ:
		return arcxzz.NewWriter()
	case types.Lzma:
		return arcxzz.NewLzmaWriter()
	case types.Lzip:
		return arcxzz.NewLzipWriter()
	case types.LZ4:
		return arclz4.NewWriter()
	default:
		return nil
	}
}
