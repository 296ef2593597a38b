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

package uu

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"

	liberr "github.com/nabbar/golib/errors"

	"github.com/sabouaram/transform/buffer"
	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

const (
	headUU     = "begin "
	headBase64 = "begin-base64 "

	// the preview window a bid is willing to scan for the head line
	bidPreview = 2048
)

type uuState uint8

const (
	stateFindHead uuState = iota
	stateReadUU
	stateUUEnd
	stateReadBase64
)

func uudec(c byte) byte {
	return (c - 0x20) & 0x3F
}

type bidder struct{}

// NewBidder returns the uu/base64 detection candidate and filter
// factory.
func NewBidder() tfrdr.Bidder {
	return &bidder{}
}

func (o *bidder) Name() string {
	return types.UU.String()
}

func (o *bidder) Code() types.FilterCode {
	return types.UU
}

// Bid scans the leading lines for a plausible head line followed by at
// least one plausible data line.
func (o *bidder) Bid(up tfrdr.Upstream) int {
	b, _ := up.Ahead(len(headBase64))
	if len(b) < len(headUU) {
		return 0
	}

	// widen the preview: the head line may sit behind leading noise
	for len(b) < bidPreview {
		nb, err := up.Ahead(len(b) + 256)
		if len(nb) <= len(b) {
			b = nb
			break
		}
		b = nb
		if err != nil {
			break
		}
	}

	lines := bytes.SplitAfter(b, []byte{'\n'})
	for i, l := range lines {
		var b64 bool
		switch {
		case bytes.HasPrefix(l, []byte(headUU)):
		case bytes.HasPrefix(l, []byte(headBase64)):
			b64 = true
		default:
			continue
		}
		if !plausibleHead(l, b64) {
			continue
		}
		if i+1 >= len(lines) {
			return 0
		}
		if plausibleData(lines[i+1], b64) {
			return 64
		}
		return 0
	}
	return 0
}

// plausibleHead requires the mode digits and a non-empty name.
func plausibleHead(l []byte, b64 bool) bool {
	h := headUU
	if b64 {
		h = headBase64
	}
	rest := bytes.TrimSuffix(bytes.TrimSuffix(l[len(h):], []byte{'\n'}), []byte{'\r'})

	var digits int
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '7' {
		digits++
	}
	if digits == 0 || digits >= len(rest) || rest[digits] != ' ' {
		return false
	}
	return len(rest) > digits+1
}

func plausibleData(l []byte, b64 bool) bool {
	l = bytes.TrimSuffix(bytes.TrimSuffix(l, []byte{'\n'}), []byte{'\r'})
	if len(l) == 0 {
		return false
	}

	if b64 {
		for _, c := range l {
			if c != '=' && !isBase64(c) {
				return false
			}
		}
		return true
	}

	n := int(uudec(l[0]))
	return (len(l)-1+2)/4*3 >= n
}

func isBase64(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+' || c == '/':
		return true
	default:
		return false
	}
}

func (o *bidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	return &rdFilter{
		up:      up,
		scratch: buffer.New(1),
		out:     buffer.New(1),
	}, nil
}

type rdFilter struct {
	up    tfrdr.Upstream
	state uuState

	// scratch holds the line being assembled across read boundaries;
	// out holds decoded bytes awaiting delivery
	scratch *buffer.Window
	out     *buffer.Window

	eof bool
}

func (o *rdFilter) Read(p []byte) (int, []byte, error) {
	for o.out.Avail() == 0 {
		if o.eof {
			return 0, nil, io.EOF
		}
		if err := o.step(); err != nil {
			return 0, nil, err
		}
	}

	n := copy(p, o.out.Bytes())
	o.out.DropPrefix(n)
	return n, nil, nil
}

func (o *rdFilter) Close() error {
	o.scratch = nil
	o.out = nil
	return nil
}

// step consumes one input line and advances the state machine.
func (o *rdFilter) step() error {
	line, err := o.readLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if o.state == stateReadUU || o.state == stateReadBase64 || o.state == stateUUEnd {
				return tfrdr.ErrorPrematureEOF.ErrorParent(ErrorMissingEnd.Error(nil))
			}
			o.eof = true
			return nil
		}
		return err
	}

	line = bytes.TrimSuffix(bytes.TrimSuffix(line, []byte{'\n'}), []byte{'\r'})

	switch o.state {
	case stateFindHead:
		switch {
		case bytes.HasPrefix(line, []byte(headUU)) && plausibleHead(append(line, '\n'), false):
			o.state = stateReadUU
		case bytes.HasPrefix(line, []byte(headBase64)) && plausibleHead(append(line, '\n'), true):
			o.state = stateReadBase64
		}

	case stateReadUU:
		if len(line) == 0 || uudec(line[0]) == 0 {
			o.state = stateUUEnd
			return nil
		}
		return o.decodeUU(line)

	case stateUUEnd:
		if !bytes.Equal(line, []byte("end")) {
			return ErrorMissingEnd.Error(nil)
		}
		o.state = stateFindHead

	case stateReadBase64:
		if bytes.Equal(line, []byte("====")) {
			o.state = stateFindHead
			return nil
		}
		return o.decodeBase64(line)
	}
	return nil
}

// decodeUU expands one uu data line: a length byte, then 4-character
// groups coding 3 bytes, trimmed to the length; a trailing checksum
// character is tolerated.
func (o *rdFilter) decodeUU(line []byte) error {
	want := int(uudec(line[0]))
	data := line[1:]

	var dec []byte
	for len(dec) < want {
		if len(data) < 1 {
			return ErrorInvalidData.Error(nil)
		}
		var g [4]byte
		n := copy(g[:], data)
		if n < 4 {
			// short final group: missing characters decode as zero
			for i := n; i < 4; i++ {
				g[i] = 0x20
			}
		}
		data = data[n:]

		dec = append(dec,
			uudec(g[0])<<2|uudec(g[1])>>4,
			uudec(g[1])<<4|uudec(g[2])>>2,
			uudec(g[2])<<6|uudec(g[3]))
	}

	o.out.Append(dec[:want])
	return nil
}

func (o *rdFilter) decodeBase64(line []byte) error {
	dec := make([]byte, base64.StdEncoding.DecodedLen(len(line)))
	n, e := base64.StdEncoding.Decode(dec, line)
	if e != nil {
		return ErrorInvalidData.ErrorParent(e)
	}
	o.out.Append(dec[:n])
	return nil
}

// readLine assembles one input line, newline included, into the
// scratch buffer, pulling and consuming upstream lookahead as needed.
func (o *rdFilter) readLine() ([]byte, error) {
	o.scratch.Reset()

	min := 1
	for {
		b, err := o.up.Ahead(min)
		if len(b) == 0 {
			if err == nil {
				err = io.EOF
			}
			return nil, err
		}

		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			o.scratch.Append(b[:i+1])
			if _, e := o.up.Consume(int64(i + 1)); e != nil {
				return nil, e
			}
			return o.scratch.Bytes(), nil
		}

		if err != nil && errors.Is(err, io.EOF) {
			// final line without a newline
			o.scratch.Append(b)
			if _, e := o.up.Consume(int64(len(b))); e != nil {
				return nil, e
			}
			return o.scratch.Bytes(), nil
		}
		min = len(b) + 1
	}
}
