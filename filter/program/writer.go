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
	"io"
	"os/exec"

	libwrt "github.com/sabouaram/transform/writer"

	"github.com/sabouaram/transform/types"
)

type wrFilter struct {
	cmdline string

	cmd   *exec.Cmd
	stdin io.WriteCloser
	drain chan error
}

// NewWriter returns a write filter piping the pipeline's bytes through
// the given shell command before they reach the next stage.
func NewWriter(cmd string) libwrt.Filter {
	return &wrFilter{cmdline: cmd}
}

func (o *wrFilter) Name() string {
	return types.Program.String()
}

func (o *wrFilter) Code() types.FilterCode {
	return types.Program
}

func (o *wrFilter) Open(dst libwrt.Downstream) error {
	if o.cmdline == "" {
		return ErrorParamEmpty.Error(nil)
	}

	cmd := exec.Command("sh", "-c", o.cmdline)

	stdin, e := cmd.StdinPipe()
	if e != nil {
		return ErrorPipe.ErrorParent(e)
	}
	stdout, e := cmd.StdoutPipe()
	if e != nil {
		return ErrorPipe.ErrorParent(e)
	}
	if e = cmd.Start(); e != nil {
		return ErrorSpawn.ErrorParent(e)
	}

	o.cmd = cmd
	o.stdin = stdin
	o.drain = make(chan error, 1)

	// drain the child's stdout into the next stage so the child never
	// stalls on back-pressure while the caller writes
	go func() {
		_, e := io.Copy(libwrt.WrapStream(dst), stdout)
		o.drain <- e
	}()
	return nil
}

func (o *wrFilter) Write(p []byte) error {
	if _, e := o.stdin.Write(p); e != nil {
		return ErrorPipe.ErrorParent(e)
	}
	return nil
}

// Close shuts the child's stdin, drains its stdout to EOF, reaps it,
// and reports a non-zero exit status, except a death by SIGPIPE.
func (o *wrFilter) Close() error {
	if o.cmd == nil {
		return nil
	}

	_ = o.stdin.Close()
	drainErr := <-o.drain

	e := o.cmd.Wait()
	o.cmd = nil

	if drainErr != nil {
		return ErrorPipe.ErrorParent(drainErr)
	}
	if e != nil && !benignExit(e) {
		return ErrorExit.ErrorParent(e)
	}
	return nil
}
