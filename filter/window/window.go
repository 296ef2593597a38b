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

// Package window provides the windowing read filter: it exposes only
// the bytes [start, start+length) of its upstream to downstream
// consumers, as a pass-through stage whose consumption is forwarded
// upstream by the engine's notify machinery.
package window

import (
	"errors"
	"fmt"
	"io"

	liberr "github.com/nabbar/golib/errors"

	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

const (
	ErrorBeyondStream liberr.CodeError = iota + types.MinPkgFilterWindow
	ErrorBeyondWindow
)

func init() {
	if liberr.ExistInMapMessage(ErrorBeyondStream) {
		panic(fmt.Errorf("error code collision transform/filter/window"))
	}
	liberr.RegisterIdFctMessage(ErrorBeyondStream, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorBeyondStream:
		return "window start offset lies beyond the end of the stream"
	case ErrorBeyondWindow:
		return "skip request lies beyond the window length"
	}

	return liberr.NullMessage
}

// Unbounded makes the window run to the end of the upstream.
const Unbounded = int64(-1)

type factory struct {
	start  int64
	length int64
}

// New returns a windowing filter factory exposing the byte range
// [start, start+length) of the upstream; a length of Unbounded runs to
// the end. The pointless window (0, Unbounded) is elided at build
// time.
func New(start, length int64) tfrdr.Factory {
	return &factory{start: start, length: length}
}

func (o *factory) Name() string {
	return types.Window.String()
}

func (o *factory) Code() types.FilterCode {
	return types.Window
}

func (o *factory) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	if o.start == 0 && o.length == Unbounded {
		return nil, nil
	}
	return &filter{
		up:      up,
		start:   o.start,
		allowed: o.length,
	}, nil
}

type filter struct {
	up      tfrdr.Upstream
	start   int64
	allowed int64
}

func (o *filter) Flags() types.Flag {
	return types.FlagPassthru | types.FlagNotifyAllConsume
}

// Peek serves the engine's pass-through lookahead: a borrowed upstream
// span capped to the remaining window, not consumed here. The engine
// forwards every consumed byte back through Skip.
func (o *filter) Peek(min int) ([]byte, error) {
	if o.allowed == 0 {
		return nil, io.EOF
	}

	if err := o.dropStart(); err != nil {
		return nil, err
	}

	b, err := o.up.Ahead(min)
	if len(b) == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if o.allowed != Unbounded && o.allowed < int64(len(b)) {
		return b[:o.allowed], io.EOF
	}
	if err != nil {
		return b, err
	}
	return b, nil
}

// Read is unused for a pass-through stage; the engine peeks instead.
func (o *filter) Read(p []byte) (int, []byte, error) {
	b, err := o.Peek(1)
	if err != nil && len(b) == 0 {
		return 0, nil, err
	}
	if _, e := o.Skip(int64(len(b))); e != nil {
		return 0, nil, e
	}
	return 0, b, nil
}

// Skip consumes upstream bytes on behalf of downstream, decrementing
// the window budget. A request beyond the window is an error.
func (o *filter) Skip(request int64) (int64, error) {
	if o.allowed != Unbounded && request > o.allowed {
		return int64(types.StatusFatal), ErrorBeyondWindow.Error(nil)
	}

	if err := o.dropStart(); err != nil {
		return 0, err
	}

	skipped, err := o.up.Skip(request)
	if err != nil {
		return skipped, err
	}
	if o.allowed != Unbounded && skipped > 0 {
		o.allowed -= skipped
	}
	return skipped, nil
}

// dropStart consumes the configured start offset, looping because a
// single skip may be partially honored. Hitting end of stream first is
// a configuration error.
func (o *filter) dropStart() error {
	for o.start > 0 {
		skipped, err := o.up.Skip(o.start)
		if err != nil {
			return err
		}
		if skipped == 0 {
			return ErrorBeyondStream.Error(nil)
		}
		o.start -= skipped
	}
	return nil
}

func (o *filter) Close() error {
	return nil
}
