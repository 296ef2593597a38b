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

// Package rpm provides the rpm lead-and-header skipper: not a
// decompressor, it discards the 96-byte lead and the header records of
// an rpm package so the detection chain can keep bidding on the
// payload that follows.
package rpm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	liberr "github.com/nabbar/golib/errors"

	tfrdr "github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

const (
	ErrorTruncated liberr.CodeError = iota + types.MinPkgFilterRpm
)

func init() {
	if liberr.ExistInMapMessage(ErrorTruncated) {
		panic(fmt.Errorf("error code collision transform/filter/rpm"))
	}
	liberr.RegisterIdFctMessage(ErrorTruncated, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorTruncated:
		return "truncated rpm lead or header"
	}

	return liberr.NullMessage
}

const leadSize = 96

var (
	leadMagic   = []byte{0xED, 0xAB, 0xEE, 0xDB}
	headerMagic = []byte{0x8E, 0xAD, 0xE8, 0x01}
)

type rpmState uint8

const (
	stateLead rpmState = iota
	stateHeader
	statePadding
	stateArchive
)

type bidder struct{}

// NewBidder returns the rpm detection candidate and filter factory.
func NewBidder() tfrdr.Bidder {
	return &bidder{}
}

func (o *bidder) Name() string {
	return types.Rpm.String()
}

func (o *bidder) Code() types.FilterCode {
	return types.Rpm
}

// Bid verifies the lead magic, the major version and the package type.
func (o *bidder) Bid(up tfrdr.Upstream) int {
	h, _ := up.Ahead(8)
	if len(h) < 8 {
		return 0
	}

	var bits int
	for i := range leadMagic {
		if h[i] != leadMagic[i] {
			return 0
		}
	}
	bits += 32

	if h[4] != 3 && h[4] != 4 {
		return 0
	}
	bits += 8

	if t := binary.BigEndian.Uint16(h[6:]); t > 1 {
		return 0
	}
	bits += 8

	return bits
}

func (o *bidder) NewFilter(up tfrdr.Upstream) (tfrdr.Filter, liberr.Error) {
	return &rdFilter{up: up}, nil
}

type rdFilter struct {
	up    tfrdr.Upstream
	state rpmState
}

// Read walks the lead, the header records and their padding, then
// passes the archive payload through unchanged, zero copy.
func (o *rdFilter) Read(p []byte) (int, []byte, error) {
	for {
		switch o.state {
		case stateLead:
			if err := o.discard(leadSize); err != nil {
				return 0, nil, err
			}
			o.state = stateHeader

		case stateHeader:
			h, err := o.ahead(16)
			if err != nil {
				return 0, nil, err
			}
			// record: magic, reserved, section count, data bytes
			sections := int64(binary.BigEndian.Uint32(h[8:]))
			data := int64(binary.BigEndian.Uint32(h[12:]))
			if err = o.discard(16 + sections*16 + data); err != nil {
				return 0, nil, err
			}
			o.state = statePadding

		case statePadding:
			b, err := o.up.Ahead(1)
			if len(b) == 0 {
				if err == nil || errors.Is(err, io.EOF) {
					return 0, nil, io.EOF
				}
				return 0, nil, err
			}

			var zeros int64
			for zeros < int64(len(b)) && b[zeros] == 0 {
				zeros++
			}
			if zeros > 0 {
				if _, e := o.up.Consume(zeros); e != nil {
					return 0, nil, e
				}
				continue
			}

			m, _ := o.up.Ahead(4)
			if len(m) >= 4 && m[0] == headerMagic[0] && m[1] == headerMagic[1] &&
				m[2] == headerMagic[2] && m[3] == headerMagic[3] {
				o.state = stateHeader
				continue
			}
			o.state = stateArchive

		case stateArchive:
			b, err := o.up.Ahead(1)
			if len(b) == 0 {
				if err == nil || errors.Is(err, io.EOF) {
					return 0, nil, io.EOF
				}
				return 0, nil, err
			}
			if _, e := o.up.Consume(int64(len(b))); e != nil {
				return 0, nil, e
			}
			return 0, b, nil
		}
	}
}

func (o *rdFilter) Close() error {
	return nil
}

func (o *rdFilter) ahead(min int) ([]byte, error) {
	b, err := o.up.Ahead(min)
	if len(b) < min {
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, tfrdr.ErrorPrematureEOF.ErrorParent(ErrorTruncated.Error(nil))
	}
	return b, nil
}

func (o *rdFilter) discard(n int64) error {
	skipped, err := o.up.Skip(n)
	if err != nil {
		return err
	}
	if skipped < n {
		return tfrdr.ErrorPrematureEOF.ErrorParent(ErrorTruncated.Error(nil))
	}
	return nil
}
