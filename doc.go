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

// Package transform provides a composable streaming byte-transformation
// pipeline: a stack of filters performing compression, decompression,
// framing and format auto-detection over a read or write stream.
//
// The package has no knowledge of archive formats; archivers sit on
// top of the filter engine it provides.
//
// # Overview
//
// Three layers make up the library:
//
//   - reader and writer: the pipeline engines, with zero-copy
//     lookahead, forward skip, blocking and life-cycle management
//   - source and sink: the terminal stages (file, descriptor, memory,
//     stream, callbacks)
//   - filter/...: one package per codec (gzip, bzip2, compress, xz,
//     lzma, lzip, lz4, uu, rpm), plus the windowing, padding and
//     child-process filters and the filter/all detection chain
//
// The root package offers the convenience entry points mirroring the
// common uses: auto-detected decompression over an io.Reader, and
// compression of a stream with a chosen filter.
//
// # Basic Usage
//
// Decompress with auto-detection:
//
//	codes, rc, err := transform.Decompress(file)
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
//	// codes lists the detected filter stack, e.g. [rpm gzip]
//
// Build a pipeline explicitly:
//
//	r := reader.New()
//	_ = all.Register(r)
//	if err := r.OpenFilename("archive.tar.xz"); err != nil {
//	    return err
//	}
//	defer r.Close()
package transform
