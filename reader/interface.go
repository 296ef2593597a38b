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
	"io"

	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/source"
	"github.com/sabouaram/transform/types"
)

// Upstream is the view a filter or a bidder has of the stage it reads
// from. Spans returned by Ahead are borrowed until the next mutating
// call on the same stage.
type Upstream interface {
	// Ahead returns a contiguous span of at least min buffered bytes
	// without consuming them. On success the span length reports the
	// true amount available, which may exceed min. At end of stream it
	// returns the residual bytes together with io.EOF.
	Ahead(min int) ([]byte, error)

	// Consume advances the stream position by n. Requesting more than
	// the last returned lookahead is a programmer error and turns the
	// stage fatal.
	Consume(n int64) (int64, error)

	// Skip advances the stream position by up to n bytes, forward only,
	// and returns the amount actually skipped, which may be less than n
	// at end of stream.
	Skip(n int64) (int64, error)

	// BytesConsumed reports the monotone count of bytes consumed from
	// this stage.
	BytesConsumed() int64
}

// Filter is one transforming stage implementation. The engine owns the
// surrounding buffering; the implementation only produces bytes.
type Filter interface {
	// Read produces the next decoded bytes. An implementation either
	// fills p, returning n > 0 and a nil block, or returns its own
	// block for zero-copy delivery. Data may be returned together with
	// io.EOF on the final call.
	Read(p []byte) (n int, block []byte, err error)

	// Close releases the filter's resources. Unconsumed decoded bytes
	// are discarded.
	Close() error
}

// Peeker is implemented by pass-through filters: it returns a borrowed
// view of at least min upstream bytes without consuming them.
type Peeker interface {
	Peek(min int) ([]byte, error)
}

// Skipper is an optional optimized forward skip. For a pass-through
// stage it doubles as the consume notification.
type Skipper interface {
	Skip(request int64) (int64, error)
}

// Flagger declares stage capabilities; absent, the stage has no flags.
type Flagger interface {
	Flags() types.Flag
}

// Aligner declares the minimum chunk size the stage prefers to see from
// upstream; absent, the alignment is 1.
type Aligner interface {
	Alignment() int
}

// Optioner receives filter options dispatched by name.
type Optioner interface {
	SetOption(key, value string) types.Status
}

// FDVisitor is implemented by stages holding file descriptors.
type FDVisitor interface {
	VisitFDs(fn func(fd uintptr) error) error
}

// Factory creates a filter stage over a given upstream. A factory may
// return a nil Filter with a nil error to elide a pointless stage.
type Factory interface {
	Name() string
	Code() types.FilterCode
	NewFilter(up Upstream) (Filter, liberr.Error)
}

// Bidder is a detection candidate: Bid inspects the leading bytes of
// the given upstream, without consuming, and returns a confidence score
// of roughly the number of bits verified. Zero declines.
type Bidder interface {
	Factory
	Bid(up Upstream) int
}

// Reader is a read pipeline handle.
type Reader interface {
	io.Reader

	// RegisterBidder adds a detection candidate. Only legal before open.
	RegisterBidder(b Bidder) liberr.Error

	// AppendFilter adds an unconditional filter stage, stacked at open
	// time in registration order before the bidding rounds run.
	AppendFilter(f Factory) liberr.Error

	// SetBlockSize suggests the source block size; the engine rounds it
	// up to its defaults where needed. Only legal before open.
	SetBlockSize(size int) liberr.Error

	OpenFilename(path string) liberr.Error
	OpenFd(fd uintptr) liberr.Error
	OpenFile(f source.ReadFile) liberr.Error
	OpenMemory(p []byte, readSize int) liberr.Error
	OpenStream(r io.Reader) liberr.Error
	OpenSource(src source.Source) liberr.Error

	Ahead(min int) ([]byte, error)
	Consume(n int64) (int64, error)
	Skip(n int64) (int64, error)

	// BytesConsumed reports the bytes consumed from the top stage,
	// making the handle usable wherever an Upstream is expected.
	BytesConsumed() int64

	Close() error
	// Free closes the pipeline if needed and drops the stage chain.
	// Stage close callbacks already run by Close are not invoked again.
	Free() error

	FilterCount() int
	FilterName(n int) string
	FilterCode(n int) types.FilterCode
	FilterBytes(n int) int64

	VisitFDs(fn func(fd uintptr) error) error

	// SetFilterOptions applies a comma-separated option string of the
	// form name:key=value to the registered filters.
	SetFilterOptions(opts string) types.Status

	ErrorCode() int
	ErrorString() string
	ClearError()
	LastError() liberr.Error
}

// New returns an empty read pipeline in the new state.
func New() Reader {
	return &rdr{
		state:     types.StateNew,
		blockSize: defaultBlockSize,
	}
}
