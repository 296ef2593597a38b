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

package writer

import (
	"bytes"
	"io"

	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/option"
	"github.com/sabouaram/transform/sink"
	"github.com/sabouaram/transform/types"
)

type wtr struct {
	first *wstage
	snk   *wstage

	filters []Filter

	state            types.State
	bytesPerBlock    int
	bytesInLastBlock int

	errno int
	err   liberr.Error
}

// wstage is one node of the write chain. The sink node has a nil impl
// and coalesces bytes into blocks.
type wstage struct {
	owner *wtr
	down  *wstage

	impl Filter
	snk  sink.Sink

	name  string
	code  types.FilterCode
	state types.State

	written int64
	block   []byte
	used    int
}

// Write implements Downstream for the filter above this stage.
func (s *wstage) Write(p []byte) error {
	if s.state != types.StateData {
		return ErrorPipelineState.Error(nil)
	}
	s.written += int64(len(p))

	if s.impl != nil {
		if e := s.impl.Write(p); e != nil {
			return s.owner.fail(types.ErrnoMisc, e)
		}
		return nil
	}

	// sink stage: coalesce into bytes-per-block chunks
	for len(p) > 0 {
		if s.used == 0 && len(p) >= len(s.block) {
			if _, e := s.snk.Write(p[:len(s.block)]); e != nil {
				return s.owner.fail(types.ErrnoIO, ErrorSinkWrite.ErrorParent(e))
			}
			p = p[len(s.block):]
			continue
		}
		n := copy(s.block[s.used:], p)
		s.used += n
		p = p[n:]
		if s.used == len(s.block) {
			if _, e := s.snk.Write(s.block); e != nil {
				return s.owner.fail(types.ErrnoIO, ErrorSinkWrite.ErrorParent(e))
			}
			s.used = 0
		}
	}
	return nil
}

func (s *wstage) BytesPerBlock() int {
	return s.owner.bytesPerBlock
}

func (s *wstage) BytesInLastBlock() int {
	return s.owner.bytesInLastBlock
}

// flush writes the final partial block of the sink stage.
func (s *wstage) flush() error {
	if s.snk == nil || s.used == 0 {
		return nil
	}
	if _, e := s.snk.Write(s.block[:s.used]); e != nil {
		return s.owner.fail(types.ErrnoIO, ErrorSinkWrite.ErrorParent(e))
	}
	s.used = 0
	return nil
}

func (o *wtr) AppendFilter(f Filter) liberr.Error {
	if f == nil {
		return ErrorParamEmpty.Error(nil)
	}
	if o.state != types.StateNew {
		return ErrorPipelineState.Error(nil)
	}
	o.filters = append(o.filters, f)
	return nil
}

func (o *wtr) SetBytesPerBlock(n int) liberr.Error {
	if o.state != types.StateNew {
		return ErrorPipelineState.Error(nil)
	}
	if n < 1 {
		return ErrorParamEmpty.Error(nil)
	}
	o.bytesPerBlock = n
	return nil
}

func (o *wtr) BytesPerBlock() int {
	return o.bytesPerBlock
}

func (o *wtr) SetBytesInLastBlock(n int) {
	o.bytesInLastBlock = n
}

func (o *wtr) BytesInLastBlock() int {
	return o.bytesInLastBlock
}

func (o *wtr) OpenFilename(path string) liberr.Error {
	s, err := sink.NewFilename(path)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(s)
}

func (o *wtr) OpenFd(fd uintptr) liberr.Error {
	s, err := sink.NewFd(fd)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(s)
}

func (o *wtr) OpenStream(w io.Writer) liberr.Error {
	s, err := sink.NewStream(w)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(s)
}

func (o *wtr) OpenMemory(b *bytes.Buffer) liberr.Error {
	s, err := sink.NewMemory(b)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(s)
}

func (o *wtr) OpenSink(s sink.Sink) liberr.Error {
	if s == nil {
		return ErrorParamEmpty.Error(nil)
	}
	return o.open(s)
}

// open wires the chain sink-first and walks it bottom-up calling every
// filter's Open so headers are emitted outermost-last.
func (o *wtr) open(s sink.Sink) liberr.Error {
	if o.state != types.StateNew {
		return ErrorPipelineState.Error(nil)
	}

	o.snk = &wstage{
		owner: o,
		snk:   s,
		name:  sink.Name(s),
		code:  types.None,
		state: types.StateData,
		block: make([]byte, o.bytesPerBlock),
	}

	down := o.snk
	for i := len(o.filters) - 1; i >= 0; i-- {
		down = &wstage{
			owner: o,
			down:  down,
			impl:  o.filters[i],
			name:  o.filters[i].Name(),
			code:  o.filters[i].Code(),
			state: types.StateData,
		}
	}
	o.first = down
	o.state = types.StateData

	for s := lastFilter(o.first); s != nil; s = prevFilter(o.first, s) {
		if s.impl == nil {
			continue
		}
		if e := s.impl.Open(s.down); e != nil {
			_ = o.Close()
			o.state = types.StateFatal
			le, ok := e.(liberr.Error)
			if !ok {
				le = ErrorFilterWrite.ErrorParent(e)
			}
			o.setError(types.ErrnoMisc, le)
			return le
		}
	}
	return nil
}

func lastFilter(first *wstage) *wstage {
	var last *wstage
	for s := first; s != nil; s = s.down {
		if s.impl != nil {
			last = s
		}
	}
	return last
}

func prevFilter(first, cur *wstage) *wstage {
	var prev *wstage
	for s := first; s != nil && s != cur; s = s.down {
		if s.impl != nil {
			prev = s
		}
	}
	return prev
}

// Write delivers caller bytes to the top of the chain.
func (o *wtr) Write(p []byte) (int, error) {
	if o.state == types.StateFatal {
		return 0, o.fatalError()
	}
	if o.state != types.StateData {
		return 0, ErrorPipelineState.Error(nil)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if e := o.first.Write(p); e != nil {
		return 0, e
	}
	return len(p), nil
}

// Close drains the chain in order, invoking every filter's close, then
// flushes the sink. The first non-OK result is recorded; closing twice
// is a no-op.
func (o *wtr) Close() error {
	if o.state == types.StateClosed {
		return nil
	}

	wasFatal := o.state == types.StateFatal
	if !wasFatal {
		o.ClearError()
		o.state = types.StateClosed
	}

	var first error
	for s := o.first; s != nil; s = s.down {
		if s.state != types.StateData {
			continue
		}
		if s.impl != nil && !wasFatal {
			if e := s.impl.Close(); e != nil && first == nil {
				first = e
			}
		}
		if s.snk != nil {
			if !wasFatal {
				if e := s.flush(); e != nil && first == nil {
					first = e
				}
			}
			if e := s.snk.Close(); e != nil && first == nil {
				first = e
			}
		}
		s.state = types.StateClosed
	}
	return first
}

func (o *wtr) Free() error {
	var err error
	if o.state != types.StateClosed && o.state != types.StateFatal {
		err = o.Close()
	}
	o.first = nil
	o.snk = nil
	o.filters = nil
	return err
}

func (o *wtr) stageAt(n int) *wstage {
	f := o.first
	if f == nil {
		return nil
	}
	for (n > 0 && f != nil) || (n <= -1 && f.down != nil) {
		f = f.down
		n--
	}
	return f
}

func (o *wtr) FilterCount() int {
	var c int
	for s := o.first; s != nil; s = s.down {
		c++
	}
	return c
}

func (o *wtr) FilterName(n int) string {
	if f := o.stageAt(n); f != nil {
		return f.name
	}
	return ""
}

func (o *wtr) FilterCode(n int) types.FilterCode {
	if f := o.stageAt(n); f != nil {
		return f.code
	}
	return types.None
}

func (o *wtr) FilterBytes(n int) int64 {
	if f := o.stageAt(n); f != nil {
		return f.written
	}
	return -1
}

func (o *wtr) VisitFDs(fn func(fd uintptr) error) error {
	if fn == nil {
		return ErrorParamEmpty.Error(nil)
	}
	for s := o.first; s != nil; s = s.down {
		if s.snk != nil {
			if v, ok := s.snk.(FDVisitor); ok {
				if e := v.VisitFDs(fn); e != nil {
					return e
				}
			}
		}
		if s.impl != nil {
			if v, ok := s.impl.(FDVisitor); ok {
				if e := v.VisitFDs(fn); e != nil {
					return e
				}
			}
		}
	}
	return nil
}

func (o *wtr) SetOptions(opts string) types.Status {
	lst, st := option.Parse(opts)
	if !st.IsOK() {
		return st
	}

	res := types.StatusWarn
	for _, e := range lst {
		for _, f := range o.filters {
			if e.Filter != "" && e.Filter != f.Name() {
				continue
			}
			if op, ok := f.(Optioner); ok {
				if op.SetOption(e.Key, e.Value).IsOK() {
					res = types.StatusOK
				}
			}
		}
	}
	return res
}

func (o *wtr) fail(errno int, e error) error {
	le, ok := e.(liberr.Error)
	if !ok {
		le = ErrorFilterWrite.ErrorParent(e)
	}
	o.state = types.StateFatal
	o.setError(errno, le)
	return le
}

func (o *wtr) setError(errno int, err liberr.Error) {
	o.errno = errno
	o.err = err
}

func (o *wtr) fatalError() error {
	if o.err != nil {
		return o.err
	}
	return ErrorPipelineFatal.Error(nil)
}

func (o *wtr) ErrorCode() int {
	return o.errno
}

func (o *wtr) ErrorString() string {
	if o.err == nil {
		return ""
	}
	return o.err.Error()
}

func (o *wtr) ClearError() {
	o.errno = 0
	o.err = nil
}

func (o *wtr) LastError() liberr.Error {
	return o.err
}
