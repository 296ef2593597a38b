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

	"github.com/sabouaram/transform/option"
	"github.com/sabouaram/transform/source"
	"github.com/sabouaram/transform/types"
)

type rdr struct {
	top *stage

	bidders   []Bidder
	factories []Factory

	state     types.State
	blockSize int

	errno int
	err   liberr.Error
}

func (o *rdr) RegisterBidder(b Bidder) liberr.Error {
	if b == nil {
		return ErrorParamEmpty.Error(nil)
	}
	if o.state != types.StateNew {
		return ErrorPipelineState.Error(nil)
	}
	o.bidders = append(o.bidders, b)
	return nil
}

func (o *rdr) AppendFilter(f Factory) liberr.Error {
	if f == nil {
		return ErrorParamEmpty.Error(nil)
	}
	if o.state != types.StateNew {
		return ErrorPipelineState.Error(nil)
	}
	o.factories = append(o.factories, f)
	return nil
}

func (o *rdr) SetBlockSize(size int) liberr.Error {
	if o.state != types.StateNew {
		return ErrorPipelineState.Error(nil)
	}
	if size < 1 {
		return ErrorParamEmpty.Error(nil)
	}
	o.blockSize = size
	return nil
}

func (o *rdr) OpenFilename(path string) liberr.Error {
	src, err := source.NewFilename(path, o.blockSize)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(src)
}

func (o *rdr) OpenFd(fd uintptr) liberr.Error {
	src, err := source.NewFd(fd, o.blockSize)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(src)
}

func (o *rdr) OpenFile(f source.ReadFile) liberr.Error {
	src, err := source.NewFile(f, o.blockSize)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(src)
}

func (o *rdr) OpenMemory(p []byte, readSize int) liberr.Error {
	src, err := source.NewMemory(p, readSize)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(src)
}

func (o *rdr) OpenStream(r io.Reader) liberr.Error {
	src, err := source.NewStream(r, o.blockSize)
	if err != nil {
		o.setError(types.ErrnoIO, err)
		return err
	}
	return o.open(src)
}

func (o *rdr) OpenSource(src source.Source) liberr.Error {
	if src == nil {
		return ErrorParamEmpty.Error(nil)
	}
	return o.open(src)
}

func (o *rdr) open(src source.Source) liberr.Error {
	if o.state != types.StateNew {
		return ErrorPipelineState.Error(nil)
	}
	if o.top != nil {
		return ErrorSourceExists.Error(nil)
	}

	flags := types.FlagSource
	if sb, ok := src.(source.SelfBuffered); ok && sb.SelfBuffered() {
		flags |= types.FlagSelfBuffering
	}

	bottom := &stage{
		owner:       o,
		src:         src,
		name:        source.Name(src),
		code:        types.None,
		flags:       flags,
		state:       types.StateData,
		alignment:   1,
		managedSize: roundUpTo(o.blockSize, 1),
	}
	bottom.resize = newResize(1)
	o.top = bottom
	o.state = types.StateData

	if err := o.buildStream(); err != nil {
		o.unwind()
		o.state = types.StateFatal
		return err
	}
	return nil
}

// unwind closes every opened stage in reverse order after a failed open.
func (o *rdr) unwind() {
	for s := o.top; s != nil; s = s.up {
		if s.state == types.StateData {
			_ = s.close()
		}
		if s.state != types.StateFatal {
			s.state = types.StateClosed
		}
	}
}

// Read produces decoded bytes from the top of the stack. It returns 0
// and io.EOF at end of stream, and the carrier error once fatal.
func (o *rdr) Read(p []byte) (int, error) {
	if o.state == types.StateFatal {
		return 0, o.fatalError()
	}
	if o.state != types.StateData {
		return 0, ErrorPipelineState.Error(nil)
	}
	if len(p) == 0 {
		return 0, nil
	}

	t := o.top
	if t.fatal {
		return 0, t.fatalError()
	}

	n, err := t.fill(p, false)
	if err != nil {
		return 0, err
	}
	t.consumed += int64(n)
	t.lastAvail = 0
	if n == 0 {
		return 0, t.eofError()
	}
	return n, nil
}

func (o *rdr) Ahead(min int) ([]byte, error) {
	if o.state == types.StateFatal {
		return nil, o.fatalError()
	}
	if o.state != types.StateData {
		return nil, ErrorPipelineState.Error(nil)
	}
	return o.top.Ahead(min)
}

func (o *rdr) Consume(n int64) (int64, error) {
	if o.state == types.StateFatal {
		return int64(types.StatusFatal), o.fatalError()
	}
	if o.state != types.StateData {
		return int64(types.StatusFatal), ErrorPipelineState.Error(nil)
	}
	return o.top.Consume(n)
}

func (o *rdr) Skip(n int64) (int64, error) {
	if o.state == types.StateFatal {
		return int64(types.StatusFatal), o.fatalError()
	}
	if o.state != types.StateData {
		return int64(types.StatusFatal), ErrorPipelineState.Error(nil)
	}
	return o.top.Skip(n)
}

func (o *rdr) BytesConsumed() int64 {
	if o.top == nil {
		return 0
	}
	return o.top.consumed
}

// Close shuts the pipeline down, walking the stack in order and closing
// every stage still carrying data. Closing twice is a no-op.
func (o *rdr) Close() error {
	if o.state == types.StateClosed {
		return nil
	}

	o.ClearError()
	if o.state != types.StateFatal {
		o.state = types.StateClosed
	}

	var first error
	for s := o.top; s != nil; s = s.up {
		if s.state == types.StateData {
			if e := s.close(); e != nil && first == nil {
				first = e
			}
		}
		if s.state != types.StateFatal {
			s.state = types.StateClosed
		}
	}
	return first
}

func (o *rdr) Free() error {
	var err error
	if o.state != types.StateClosed && o.state != types.StateFatal {
		err = o.Close()
	}
	o.top = nil
	o.bidders = nil
	o.factories = nil
	return err
}

func (o *rdr) filterAt(n int) *stage {
	f := o.top
	if f == nil {
		return nil
	}
	for (n > 0 && f != nil) || (n <= -1 && f.up != nil) {
		f = f.up
		n--
	}
	return f
}

func (o *rdr) FilterCount() int {
	var c int
	for s := o.top; s != nil; s = s.up {
		c++
	}
	return c
}

func (o *rdr) FilterName(n int) string {
	if f := o.filterAt(n); f != nil {
		return f.name
	}
	return ""
}

func (o *rdr) FilterCode(n int) types.FilterCode {
	if f := o.filterAt(n); f != nil {
		return f.code
	}
	return types.None
}

func (o *rdr) FilterBytes(n int) int64 {
	if f := o.filterAt(n); f != nil {
		return f.consumed
	}
	return -1
}

func (o *rdr) VisitFDs(fn func(fd uintptr) error) error {
	if fn == nil {
		return ErrorParamEmpty.Error(nil)
	}
	for s := o.top; s != nil; s = s.up {
		if s.src != nil {
			if v, ok := s.src.(FDVisitor); ok {
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

// SetFilterOptions applies a name:key=value option string to the
// registered bidders and factories, dispatching by filter name. Unknown
// names or keys yield a warning status; malformed strings yield a
// warning and leave the configuration unchanged.
func (o *rdr) SetFilterOptions(opts string) types.Status {
	lst, st := option.Parse(opts)
	if !st.IsOK() {
		return st
	}

	res := types.StatusWarn
	for _, e := range lst {
		for _, b := range o.bidders {
			if applyOption(b, e) {
				res = types.StatusOK
			}
		}
		for _, f := range o.factories {
			if applyOption(f, e) {
				res = types.StatusOK
			}
		}
	}
	return res
}

func applyOption(f Factory, e option.Entry) bool {
	if e.Filter != "" && e.Filter != f.Name() {
		return false
	}
	if op, ok := f.(Optioner); ok {
		return op.SetOption(e.Key, e.Value).IsOK()
	}
	return false
}

func (o *rdr) setError(errno int, err liberr.Error) {
	o.errno = errno
	o.err = err
}

func (o *rdr) fatalError() error {
	if o.err != nil {
		return o.err
	}
	return ErrorPipelineFatal.Error(nil)
}

func (o *rdr) ErrorCode() int {
	return o.errno
}

func (o *rdr) ErrorString() string {
	if o.err == nil {
		return ""
	}
	return o.err.Error()
}

func (o *rdr) ClearError() {
	o.errno = 0
	o.err = nil
}

func (o *rdr) LastError() liberr.Error {
	return o.err
}
