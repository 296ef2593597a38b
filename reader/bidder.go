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
	"errors"
	"io"

	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/buffer"
	"github.com/sabouaram/transform/types"
)

func newResize(alignment int) *buffer.Window {
	return buffer.New(alignment)
}

// push creates a stage for the given factory over the current top of
// the stack. A factory returning a nil filter elides the stage.
func (o *rdr) push(f Factory) liberr.Error {
	up := o.top

	impl, err := f.NewFilter(up)
	if err != nil {
		return err
	}
	if impl == nil {
		return nil
	}

	s := &stage{
		owner:     o,
		up:        up,
		impl:      impl,
		name:      f.Name(),
		code:      f.Code(),
		state:     types.StateData,
		alignment: 1,
	}
	if fl, ok := impl.(Flagger); ok {
		s.flags = fl.Flags()
	}
	if al, ok := impl.(Aligner); ok {
		if a := al.Alignment(); a > 1 {
			s.alignment = a
		}
	}
	s.managedSize = roundUpTo(o.blockSize, s.alignment)
	s.resize = newResize(s.alignment)

	o.top = s
	return nil
}

// buildStream stacks the unconditional filters in registration order,
// then runs bidding rounds: every candidate inspects the current
// leading bytes, the highest non-zero bid wins with ties resolving to
// registration order, the winner is stacked, and the rounds repeat
// until nobody bids. A final one-byte probe confirms that the detected
// stream is readable, possibly empty.
func (o *rdr) buildStream() liberr.Error {
	for _, f := range o.factories {
		if err := o.push(f); err != nil {
			return err
		}
	}

	for {
		var (
			best  Bidder
			score int
		)
		for _, b := range o.bidders {
			if n := b.Bid(o.top); n > score {
				best = b
				score = n
			}
		}
		if best == nil {
			break
		}
		if err := o.push(best); err != nil {
			return err
		}
	}

	if _, err := o.top.Ahead(1); err != nil && !errors.Is(err, io.EOF) {
		if le, ok := err.(liberr.Error); ok {
			return le
		}
		return ErrorPipelineFatal.ErrorParent(err)
	}
	return nil
}
