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

package program

import (
	"errors"
	"io"
	"os/exec"
	"syscall"

	liberr "github.com/nabbar/golib/errors"

	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

type factory struct {
	cmd       string
	signature []byte
}

// New returns a read filter factory piping upstream bytes through the
// given shell command; add it to a pipeline as an unconditional stage.
func New(cmd string) tfrdr.Factory {
	return &factory{cmd: cmd}
}

// NewBidder returns a detection candidate that bids when the stream
// starts with the given signature and then pipes it through cmd.
func NewBidder(cmd string, signature []byte) tfrdr.Bidder {
	return &factory{cmd: cmd, signature: signature}
}

func (o *factory) Name() string {
	return types.Program.String()
}

func (o *factory) Code() types.FilterCode {
	return types.Program
}

func (o *factory) Bid(up tfrdr.Upstream) int {
	if len(o.signature) == 0 {
		return 0
	}

	h, _ := up.Ahead(len(o.signature))
	if len(h) < len(o.signature) {
		return 0
	}
	for i := range o.signature {
		if h[i] != o.signature[i] {
			return 0
		}
	}
	return len(o.signature) * 8
}

func (o *factory) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	if o.cmd == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	cmd := exec.Command("sh", "-c", o.cmd)

	stdin, e := cmd.StdinPipe()
	if e != nil {
		return nil, ErrorPipe.ErrorParent(e)
	}
	stdout, e := cmd.StdoutPipe()
	if e != nil {
		return nil, ErrorPipe.ErrorParent(e)
	}
	if e = cmd.Start(); e != nil {
		return nil, ErrorSpawn.ErrorParent(e)
	}

	f := &rdFilter{
		cmd:    cmd,
		stdout: stdout,
		feed:   make(chan error, 1),
	}

	// feed the child from upstream; back-pressure is the pipe's
	go func() {
		_, e := io.Copy(stdin, tfrdr.WrapStream(up))
		_ = stdin.Close()
		f.feed <- e
	}()

	return f, nil
}

type rdFilter struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	feed   chan error
	done   bool
	eof    bool
}

func (o *rdFilter) Read(p []byte) (int, []byte, error) {
	if o.eof {
		return 0, nil, io.EOF
	}

	n, e := o.stdout.Read(p)
	if n > 0 {
		return n, nil, nil
	}
	if e != nil && !errors.Is(e, io.EOF) {
		return 0, nil, ErrorPipe.ErrorParent(e)
	}

	o.eof = true
	if err := o.reap(); err != nil {
		return 0, nil, err
	}
	return 0, nil, io.EOF
}

// reap waits for the feeder and the child, reporting a non-zero exit
// except a death by SIGPIPE.
func (o *rdFilter) reap() error {
	if o.done {
		return nil
	}
	o.done = true

	if e := <-o.feed; e != nil && !isEPIPE(e) {
		_ = o.cmd.Wait()
		return ErrorPipe.ErrorParent(e)
	}
	if e := o.cmd.Wait(); e != nil && !benignExit(e) {
		return ErrorExit.ErrorParent(e)
	}
	return nil
}

func (o *rdFilter) Close() error {
	if o.done {
		return nil
	}
	_ = o.stdout.Close()
	return o.reap()
}

func benignExit(err error) bool {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok {
			return ws.Signaled() && ws.Signal() == syscall.SIGPIPE
		}
	}
	return false
}

func isEPIPE(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
