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

package reader_test

import (
	"bytes"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/transform/reader"
)

func openMemory(data []byte, readSize int) reader.Reader {
	r := reader.New()
	Expect(r.OpenMemory(data, readSize)).To(BeNil())
	return r
}

var _ = Describe("TC-RD-001: Read pipeline engine", func() {
	payload := []byte("the quick brown fox jumps over the lazy dog")

	Context("TC-RD-010: Lookahead contract", func() {
		It("TC-RD-011: should return at least the requested bytes without consuming", func() {
			r := openMemory(payload, 8)
			defer func() { _ = r.Free() }()

			b, err := r.Ahead(10)
			Expect(err).ToNot(HaveOccurred())
			Expect(len(b)).To(BeNumerically(">=", 10))
			Expect(b[:10]).To(Equal(payload[:10]))

			// not consumed: a second lookahead sees the same bytes
			b2, err := r.Ahead(4)
			Expect(err).ToNot(HaveOccurred())
			Expect(b2[:4]).To(Equal(payload[:4]))
		})

		It("TC-RD-012: should match a byte-wise consume walk", func() {
			r := openMemory(payload, 7)
			defer func() { _ = r.Free() }()

			b, err := r.Ahead(16)
			Expect(err).ToNot(HaveOccurred())
			peeked := append([]byte{}, b[:16]...)

			var walked []byte
			for i := 0; i < 16; i++ {
				s, err := r.Ahead(1)
				Expect(err).ToNot(HaveOccurred())
				walked = append(walked, s[0])
				_, err = r.Consume(1)
				Expect(err).ToNot(HaveOccurred())
			}
			Expect(walked).To(Equal(peeked))
		})

		It("TC-RD-013: should report the residue at end of stream", func() {
			r := openMemory([]byte("abc"), 0)
			defer func() { _ = r.Free() }()

			b, err := r.Ahead(10)
			Expect(err).To(MatchError(io.EOF))
			Expect(b).To(Equal([]byte("abc")))
		})
	})

	Context("TC-RD-020: Consume bound", func() {
		It("TC-RD-021: should turn fatal when consuming past the lookahead", func() {
			r := openMemory(payload, 0)
			defer func() { _ = r.Free() }()

			b, err := r.Ahead(4)
			Expect(err).ToNot(HaveOccurred())

			_, err = r.Consume(int64(len(b)) + 1)
			Expect(err).To(HaveOccurred())

			_, err = r.Read(make([]byte, 4))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("TC-RD-030: Skip", func() {
		It("TC-RD-031: should be equivalent to reading and discarding", func() {
			skipSide := openMemory(payload, 5)
			readSide := openMemory(payload, 5)
			defer func() { _ = skipSide.Free() }()
			defer func() { _ = readSide.Free() }()

			n, err := skipSide.Skip(17)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(int64(17)))

			buf := make([]byte, 17)
			_, err = io.ReadFull(readSide, buf)
			Expect(err).ToNot(HaveOccurred())

			a, _ := io.ReadAll(skipSide)
			b, _ := io.ReadAll(readSide)
			Expect(a).To(Equal(b))
			Expect(a).To(Equal(payload[17:]))
		})

		It("TC-RD-032: should report a short count at end of stream", func() {
			r := openMemory([]byte("abc"), 0)
			defer func() { _ = r.Free() }()

			n, err := r.Skip(10)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(int64(3)))
		})

		It("TC-RD-033: should skip through a non-seekable stream source", func() {
			r := reader.New()
			Expect(r.OpenStream(bytes.NewReader(payload))).To(BeNil())
			defer func() { _ = r.Free() }()

			n, err := r.Skip(10)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(int64(10)))

			rest, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(rest).To(Equal(payload[10:]))
		})
	})

	Context("TC-RD-040: Counters", func() {
		It("TC-RD-041: should keep bytes consumed monotone", func() {
			r := openMemory(payload, 6)
			defer func() { _ = r.Free() }()

			var last int64
			for {
				buf := make([]byte, 5)
				n, err := r.Read(buf)
				c := r.FilterBytes(0)
				Expect(c).To(BeNumerically(">=", last))
				last = c
				if err != nil || n == 0 {
					break
				}
			}
			Expect(last).To(Equal(int64(len(payload))))
		})
	})

	Context("TC-RD-050: Bidder stability", func() {
		It("TC-RD-051: should pass raw bytes through when nothing bids", func() {
			r := openMemory(payload, 0)
			defer func() { _ = r.Free() }()

			Expect(r.FilterCount()).To(Equal(1))
			out, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal(payload))
		})
	})

	Context("TC-RD-060: Life cycle", func() {
		It("TC-RD-061: should make close idempotent", func() {
			r := openMemory(payload, 0)
			Expect(r.Close()).ToNot(HaveOccurred())
			Expect(r.Close()).ToNot(HaveOccurred())
			Expect(r.Free()).ToNot(HaveOccurred())
		})

		It("TC-RD-062: should refuse a block size change after open", func() {
			r := openMemory(payload, 0)
			defer func() { _ = r.Free() }()
			Expect(r.SetBlockSize(512)).To(HaveOccurred())
		})
	})

	Context("TC-RD-070: Memory source alignment", func() {
		It("TC-RD-071: should round a source skip down to the read size", func() {
			r := openMemory(payload, 8)
			defer func() { _ = r.Free() }()

			// the engine completes the residue with read-and-discard
			n, err := r.Skip(13)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(int64(13)))

			rest, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(rest).To(Equal(payload[13:]))
		})
	})
})
