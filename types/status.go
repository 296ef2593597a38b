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

// Status is the engine return sentinel. The numeric values are stable:
// callers layered above the pipelines compare against them directly.
type Status int

const (
	// StatusOK reports a fully successful operation.
	StatusOK Status = 0
	// StatusEOF reports the end of the transformed stream.
	StatusEOF Status = -1
	// StatusWarn reports partial success; the operation may be retried.
	StatusWarn Status = -200
	// StatusFailed reports that the current operation cannot complete,
	// but the pipeline may still be usable.
	StatusFailed Status = -250
	// StatusFatal reports an unusable pipeline; only Close and Free
	// remain legal.
	StatusFatal Status = -300
)

func (s Status) IsOK() bool {
	return s == StatusOK
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEOF:
		return "eof"
	case StatusWarn:
		return "warn"
	case StatusFailed:
		return "failed"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// State is the life-cycle marker shared by pipelines and stages.
// A stage that reached StateClosed or StateFatal never transitions back.
type State uint8

const (
	StateNew State = iota + 1
	StateData
	StateClosed
	StateFatal
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateData:
		return "data"
	case StateClosed:
		return "closed"
	case StateFatal:
		return "fatal"
	default:
		return "invalid"
	}
}
