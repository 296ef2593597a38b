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
	"fmt"
	"io"

	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/buffer"
	"github.com/sabouaram/transform/source"
	"github.com/sabouaram/transform/types"
)

const defaultBlockSize = 64 * 1024

// stage is one node of the read stack. It owns the reblocking state:
// a borrowed client view over the bytes the implementation handed out,
// and a resize buffer coalescing data when a lookahead spans blocks.
type stage struct {
	owner *rdr
	up    *stage

	impl Filter
	src  source.Source

	name  string
	code  types.FilterCode
	flags types.Flag
	state types.State

	alignment   int
	managedSize int
	managed     []byte

	// client is the undrained remainder of the last block returned by
	// the implementation; it may alias the managed buffer or a block
	// owned by the implementation.
	client []byte
	resize *buffer.Window

	consumed  int64
	lastAvail int64

	eof       bool
	premature bool
	fatal     bool
}

func (s *stage) isPassthru() bool {
	return s.flags.Has(types.FlagPassthru)
}

func (s *stage) scratch() []byte {
	if s.flags.Has(types.FlagSelfBuffering) {
		return nil
	}
	if s.managed == nil {
		s.managed = make([]byte, s.managedSize)
	}
	return s.managed
}

func (s *stage) skipper() Skipper {
	if s.src != nil {
		return s.src
	}
	if sk, ok := s.impl.(Skipper); ok {
		return sk
	}
	return nil
}

func (s *stage) setFatal(errno int, err liberr.Error) error {
	s.fatal = true
	s.state = types.StateFatal
	s.owner.setError(errno, err)
	return err
}

// clientDrain drops n bytes from the client view and, for a stage with
// the notify-all-consume capability, forwards the count to the stage's
// skip function so the pass-through can consume its upstream.
func (s *stage) clientDrain(n int) {
	if n <= 0 {
		return
	}
	if n > len(s.client) {
		n = len(s.client)
	}
	s.client = s.client[n:]
	if s.flags.Has(types.FlagNotifyAllConsume) {
		if sk, ok := s.impl.(Skipper); ok {
			_, _ = sk.Skip(int64(n))
		}
	}
}

// readBlock pulls the next block from the implementation or the source.
// An end of stream, premature or not, is sticky.
func (s *stage) readBlock(dst []byte) ([]byte, error) {
	if s.eof {
		if s.premature {
			return nil, ErrorPrematureEOF.Error(nil)
		}
		return nil, io.EOF
	}

	var (
		n int
		b []byte
		e error
	)

	if s.src != nil {
		b, e = s.src.Read()
	} else {
		n, b, e = s.impl.Read(dst)
		if b == nil && n > 0 {
			b = dst[:n]
		}
	}

	if e == nil {
		return b, nil
	}

	if errors.Is(e, io.EOF) {
		s.eof = true
		return b, nil
	}

	if le, ok := e.(liberr.Error); ok && le.IsCodeError(ErrorPrematureEOF) {
		s.eof = true
		s.premature = true
		s.owner.setError(types.ErrnoPrematureEOF, le)
		return b, nil
	}

	le, ok := e.(liberr.Error)
	if !ok {
		le = ErrorPipelineFatal.ErrorParent(e)
	}
	return nil, s.setFatal(types.ErrnoMisc, le)
}

// refillClient replaces the client view of a pass-through stage with a
// fresh borrowed window of at least min upstream bytes.
func (s *stage) refillClient(min int) error {
	if s.eof {
		return nil
	}

	p, ok := s.impl.(Peeker)
	if !ok {
		return s.setFatal(types.ErrnoProgrammer,
			ErrorPassthruShort.ErrorParent(fmt.Errorf("pass thru filter %s cannot peek", s.name)))
	}

	b, e := p.Peek(min)
	if e != nil {
		if errors.Is(e, io.EOF) {
			s.eof = true
			s.client = b
			return nil
		}
		if le, ok := e.(liberr.Error); ok && le.IsCodeError(ErrorPrematureEOF) {
			s.eof = true
			s.premature = true
			s.client = b
			s.owner.setError(types.ErrnoPrematureEOF, le)
			return nil
		}
		s.client = nil
		le, ok := e.(liberr.Error)
		if !ok {
			le = ErrorPipelineFatal.ErrorParent(e)
		}
		return s.setFatal(types.ErrnoMisc, le)
	}

	s.client = b
	return nil
}

// fill drains the resize buffer, then the client view, then pulls from
// the implementation directly into dst. It returns the number of bytes
// written to dst; a short count means end of stream unless an error is
// returned.
func (s *stage) fill(dst []byte, isResize bool) (int, error) {
	var filled int

	if len(dst) == 0 {
		return 0, nil
	}

	if !isResize {
		if a := s.resize.Avail(); a > 0 {
			n := copy(dst, s.resize.Bytes())
			s.resize.DropPrefix(n)
			filled += n
			if filled == len(dst) {
				return filled, nil
			}
		}
	}

	if len(s.client) > 0 {
		n := copy(dst[filled:], s.client)
		s.clientDrain(n)
		filled += n
		if filled == len(dst) {
			return filled, nil
		}
	}

	if s.isPassthru() {
		for filled < len(dst) {
			if err := s.refillClient(1); err != nil {
				return filled, err
			}
			if len(s.client) == 0 {
				break
			}
			n := copy(dst[filled:], s.client)
			s.clientDrain(n)
			filled += n
		}
		return filled, nil
	}

	for filled < len(dst) {
		remaining := dst[filled:]
		block, err := s.readBlock(remaining)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if le, ok := err.(liberr.Error); ok && le.IsCodeError(ErrorPrematureEOF) {
				break
			}
			return filled, err
		}
		if len(block) == 0 {
			if s.eof {
				break
			}
			continue
		}
		if sameSpan(block, remaining) {
			filled += len(block)
			continue
		}
		// self-managed block: copy what fits, stash the excess as the
		// client view for the next call
		if len(block) >= len(remaining) {
			copy(remaining, block)
			s.client = block[len(remaining):]
			filled = len(dst)
			break
		}
		copy(remaining, block)
		filled += len(block)
		if s.eof {
			break
		}
	}

	return filled, nil
}

func sameSpan(b, dst []byte) bool {
	return len(b) > 0 && len(dst) > 0 && &b[0] == &dst[0]
}

// Ahead implements the lookahead contract of Upstream.
func (s *stage) Ahead(min int) ([]byte, error) {
	if s.fatal {
		return nil, s.fatalError()
	}
	if s.state != types.StateData {
		return nil, ErrorPipelineState.Error(nil)
	}
	if min <= 0 {
		min = 1
	}

	if s.isPassthru() {
		if len(s.client) >= min {
			s.lastAvail = int64(len(s.client))
			return s.client, nil
		}
		if s.eof {
			s.lastAvail = int64(len(s.client))
			return s.client, s.eofError()
		}
		if err := s.refillClient(min); err != nil {
			return nil, err
		}
		s.lastAvail = int64(len(s.client))
		if len(s.client) < min {
			if !s.eof {
				return nil, s.setFatal(types.ErrnoProgrammer,
					ErrorPassthruShort.ErrorParent(fmt.Errorf(
						"pass thru filter %s was asked for %d, returned %d, but didn't set EOF",
						s.name, min, len(s.client))))
			}
			return s.client, s.eofError()
		}
		return s.client, nil
	}

	if a := s.resize.Avail(); a > 0 {
		if a >= min {
			s.lastAvail = int64(a)
			return s.resize.Bytes(), nil
		}
	} else if len(s.client) >= min {
		s.lastAvail = int64(len(s.client))
		return s.client, nil
	}

	// the request spans blocks: coalesce into the resize buffer
	s.resize.Compact()
	s.resize.EnsureCapacity(roundUpTo(min, s.resizeQuanta()))

	n, err := s.fill(s.resize.Tail(), true)
	s.resize.Extend(n)
	if err != nil {
		return nil, err
	}

	s.lastAvail = int64(s.resize.Avail())
	if s.resize.Avail() < min {
		return s.resize.Bytes(), s.eofError()
	}
	return s.resize.Bytes(), nil
}

func (s *stage) resizeQuanta() int {
	if s.managedSize > 0 {
		return s.managedSize
	}
	return s.alignment
}

func (s *stage) eofError() error {
	if s.premature {
		return ErrorPrematureEOF.Error(nil)
	}
	return io.EOF
}

func (s *stage) fatalError() error {
	if e := s.owner.LastError(); e != nil {
		return e
	}
	return ErrorPipelineFatal.Error(nil)
}

// Consume advances the stream position. The request must not exceed the
// most recently returned lookahead.
func (s *stage) Consume(n int64) (int64, error) {
	if s.fatal {
		return int64(types.StatusFatal), s.fatalError()
	}
	if n == 0 {
		return 0, nil
	}
	if n < 0 || n > s.lastAvail {
		return int64(types.StatusFatal), s.setFatal(types.ErrnoProgrammer,
			ErrorConsumeBound.ErrorParent(fmt.Errorf(
				"consume of %d bytes exceeds the last lookahead of %d bytes", n, s.lastAvail)))
	}

	skipped, err := s.Skip(n)
	if err != nil {
		return skipped, err
	}
	if skipped != n {
		return int64(types.StatusFatal), s.setFatal(types.ErrnoMisc,
			ErrorTruncatedInput.ErrorParent(fmt.Errorf(
				"truncated input (needed %d bytes, only %d available)", n, skipped)))
	}
	return skipped, nil
}

// Skip advances the stream position by up to request bytes: buffered
// data first, then the optimized skip for the aligned remainder, then
// read-and-discard for the residue.
func (s *stage) Skip(request int64) (int64, error) {
	if s.fatal {
		return int64(types.StatusFatal), s.fatalError()
	}
	if request <= 0 {
		return 0, nil
	}

	var total int64

	if a := int64(s.resize.Avail()); a > 0 {
		m := request
		if m > a {
			m = a
		}
		s.resize.DropPrefix(int(m))
		s.consumed += m
		total += m
		request -= m
	}

	if a := int64(len(s.client)); request > 0 && a > 0 {
		m := request
		if m > a {
			m = a
		}
		s.clientDrain(int(m))
		s.consumed += m
		total += m
		request -= m
	}

	if request == 0 || s.eof {
		s.lastAvail = 0
		return total, nil
	}

	if sk := s.skipper(); sk != nil && !s.isPassthru() {
		aligned := (request / int64(s.alignment)) * int64(s.alignment)
		if aligned > 0 {
			n, err := sk.Skip(aligned)
			if err != nil {
				le, ok := err.(liberr.Error)
				if !ok {
					le = ErrorPipelineFatal.ErrorParent(err)
				}
				return total, s.setFatal(types.ErrnoIO, le)
			}
			s.consumed += n
			total += n
			request -= n
			if request == 0 {
				s.lastAvail = 0
				return total, nil
			}
		}
	} else if sk, ok := s.impl.(Skipper); ok && s.isPassthru() {
		n, err := sk.Skip(request)
		if err != nil {
			le, ok := err.(liberr.Error)
			if !ok {
				le = ErrorPipelineFatal.ErrorParent(err)
			}
			return total, s.setFatal(types.ErrnoIO, le)
		}
		s.consumed += n
		total += n
		request -= n
		if request == 0 {
			s.lastAvail = 0
			return total, nil
		}
	}

	if s.eof || s.fatal {
		s.lastAvail = 0
		return total, nil
	}

	// ordinary reads to complete the request
	for request > 0 {
		if s.isPassthru() {
			if err := s.refillClient(1); err != nil {
				return total, err
			}
			if len(s.client) == 0 {
				break
			}
			m := request
			if a := int64(len(s.client)); m > a {
				m = a
			}
			s.clientDrain(int(m))
			s.consumed += m
			total += m
			request -= m
			continue
		}

		block, err := s.readBlock(s.scratch())
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if le, ok := err.(liberr.Error); ok && le.IsCodeError(ErrorPrematureEOF) {
				break
			}
			return total, err
		}
		if len(block) == 0 {
			if s.eof {
				break
			}
			continue
		}
		if int64(len(block)) >= request {
			s.client = block[request:]
			s.consumed += request
			total += request
			request = 0
			break
		}
		s.consumed += int64(len(block))
		total += int64(len(block))
		request -= int64(len(block))
	}

	s.lastAvail = 0
	return total, nil
}

// BytesConsumed reports the bytes consumed from this stage.
func (s *stage) BytesConsumed() int64 {
	return s.consumed
}

func (s *stage) close() error {
	var err error
	if s.impl != nil {
		err = s.impl.Close()
	}
	if s.src != nil {
		if e := s.src.Close(); err == nil {
			err = e
		}
	}
	return err
}

func roundUpTo(n, quanta int) int {
	if quanta < 2 {
		return n
	}
	if r := n % quanta; r != 0 {
		n += quanta - r
	}
	return n
}
