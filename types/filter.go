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

package types

// FilterCode is the small integer tag identifying a filter kind.
// The values for the historic formats are frozen.
type FilterCode uint8

const (
	None FilterCode = iota
	Gzip
	Bzip2
	Compress
	Program
	Lzma
	XZ
	UU
	Rpm
	Lzip
	LZ4
	Window
	Padding
)

func List() []FilterCode {
	return []FilterCode{
		None,
		Gzip,
		Bzip2,
		Compress,
		Program,
		Lzma,
		XZ,
		UU,
		Rpm,
		Lzip,
		LZ4,
		Window,
		Padding,
	}
}

func ListString() []string {
	var (
		lst = List()
		res = make([]string, len(lst))
	)
	for i := range lst {
		res[i] = lst[i].String()
	}
	return res
}

func (c FilterCode) IsNone() bool {
	return c == None
}

func (c FilterCode) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case Compress:
		return "compress (.Z)"
	case Program:
		return "program"
	case Lzma:
		return "lzma"
	case XZ:
		return "xz"
	case UU:
		return "uu"
	case Rpm:
		return "rpm"
	case Lzip:
		return "lzip"
	case LZ4:
		return "lz4"
	case Window:
		return "window"
	case Padding:
		return "padding"
	default:
		return "none"
	}
}

func (c FilterCode) Extension() string {
	switch c {
	case Gzip:
		return ".gz"
	case Bzip2:
		return ".bz2"
	case Compress:
		return ".Z"
	case Lzma:
		return ".lzma"
	case XZ:
		return ".xz"
	case Lzip:
		return ".lz"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}
