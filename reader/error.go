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

package reader

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/types"
)

const (
	ErrorParamEmpty liberr.CodeError = iota + types.MinPkgReader
	ErrorPipelineState
	ErrorPipelineFatal
	ErrorSourceExists
	ErrorSourceMissing
	ErrorFilterNew
	ErrorConsumeBound
	ErrorTruncatedInput
	ErrorPrematureEOF
	ErrorPassthruShort
	ErrorBufferAlloc
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamEmpty) {
		panic(fmt.Errorf("error code collision transform/reader"))
	}
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorPipelineState:
		return "operation not allowed in the pipeline's current state"
	case ErrorPipelineFatal:
		return "pipeline is in fatal state"
	case ErrorSourceExists:
		return "pipeline already has a source stage"
	case ErrorSourceMissing:
		return "pipeline has no source stage"
	case ErrorFilterNew:
		return "cannot create filter stage"
	case ErrorConsumeBound:
		return "consume request exceeds the last returned lookahead"
	case ErrorTruncatedInput:
		return "truncated input"
	case ErrorPrematureEOF:
		return "premature end of stream"
	case ErrorPassthruShort:
		return "pass-through filter returned short without reporting end of stream"
	case ErrorBufferAlloc:
		return "cannot allocate filter buffer"
	}

	return liberr.NullMessage
}
