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
	"io"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	"github.com/sabouaram/transform/filter/all"
	"github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
	"github.com/sabouaram/transform/writer"
)

// ParseFilter is a convenience function to parse a string and return
// the corresponding FilterCode.
func ParseFilter(s string) types.FilterCode {
	return types.Parse(s)
}

// Decompress runs the full auto-detection chain over the given reader
// and returns the detected filter stack, top first, with a read closer
// producing the decoded bytes.
func Decompress(r io.Reader) ([]types.FilterCode, io.ReadCloser, liberr.Error) {
	if r == nil {
		return nil, nil, ErrorParamEmpty.Error(nil)
	}

	rdr := reader.New()
	if err := all.Register(rdr); err != nil {
		return nil, nil, err
	}

	liblog.DebugLevel.Log("bidding on stream...")
	if err := rdr.OpenStream(r); err != nil {
		liblog.DebugLevel.Logf("bidding failed: %v", err)
		return nil, nil, ErrorPipelineOpen.ErrorParent(err)
	}

	var codes []types.FilterCode
	for i := 0; i < rdr.FilterCount()-1; i++ {
		codes = append(codes, rdr.FilterCode(i))
	}
	liblog.DebugLevel.Logf("detected filter stack: %v", codes)

	return codes, &pipeReadCloser{r: rdr}, nil
}

type pipeReadCloser struct {
	r reader.Reader
}

func (o *pipeReadCloser) Read(p []byte) (int, error) {
	return o.r.Read(p)
}

func (o *pipeReadCloser) Close() error {
	if e := o.r.Close(); e != nil {
		return ErrorPipelineClose.ErrorParent(e)
	}
	return o.r.Free()
}

// Compress wraps the given writer with the named compression filter
// and returns a write closer feeding it.
func Compress(code types.FilterCode, w io.Writer) (io.WriteCloser, liberr.Error) {
	if w == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	f := writerFor(code)
	if f == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	wtr := writer.New()
	if err := wtr.AppendFilter(f); err != nil {
		return nil, err
	}
	if err := wtr.OpenStream(w); err != nil {
		return nil, ErrorPipelineOpen.ErrorParent(err)
	}
	return wtr, nil
}
