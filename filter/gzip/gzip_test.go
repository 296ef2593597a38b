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

package gzip_test

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"hash/crc32"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	arcgzp "github.com/sabouaram/transform/filter/gzip"
	"github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
	"github.com/sabouaram/transform/writer"
)

// member builds one gzip member by hand: a fixed header, a raw deflate
// payload, and the 8-byte trailer.
func member(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x1F, 0x8B, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03})

	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	Expect(err).ToNot(HaveOccurred())
	_, err = fw.Write(payload)
	Expect(err).ToNot(HaveOccurred())
	Expect(fw.Close()).ToNot(HaveOccurred())

	var t [8]byte
	binary.LittleEndian.PutUint32(t[:], crc32.ChecksumIEEE(payload))
	binary.LittleEndian.PutUint32(t[4:], uint32(len(payload)))
	buf.Write(t[:])
	return buf.Bytes()
}

func openDetect(data []byte) reader.Reader {
	r := reader.New()
	Expect(r.RegisterBidder(arcgzp.NewBidder())).To(BeNil())
	Expect(r.OpenMemory(data, 0)).To(BeNil())
	return r
}

var _ = Describe("TC-GZ-001: Gzip filter", func() {
	Context("TC-GZ-010: Decoding", func() {
		It("TC-GZ-011: should decode a canonical member", func() {
			r := openDetect(member([]byte("hello\n")))
			defer func() { _ = r.Free() }()

			out, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("hello\n")))

			Expect(r.FilterCount()).To(Equal(2))
			Expect(r.FilterCode(0)).To(Equal(types.Gzip))
			Expect(int(r.FilterCode(0))).To(Equal(1))
		})

		It("TC-GZ-012: should walk concatenated members", func() {
			data := append(member([]byte("foo")), member([]byte("bar"))...)
			r := openDetect(data)
			defer func() { _ = r.Free() }()

			out, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("foobar")))
		})

		It("TC-GZ-013: should tolerate a wrong trailer by default", func() {
			data := member([]byte("lenient"))
			data[len(data)-8] ^= 0xFF // corrupt the stored CRC32
			r := openDetect(data)
			defer func() { _ = r.Free() }()

			out, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("lenient")))
		})

		It("TC-GZ-014: should verify the trailer in strict mode", func() {
			data := member([]byte("strict"))
			data[len(data)-8] ^= 0xFF

			b := arcgzp.NewBidder()
			r := reader.New()
			Expect(r.RegisterBidder(b)).To(BeNil())
			Expect(r.SetFilterOptions("gzip:strict=1")).To(Equal(types.StatusOK))

			err := r.OpenMemory(data, 0)
			if err == nil {
				_, e := io.ReadAll(r)
				Expect(e).To(HaveOccurred())
			}
			_ = r.Free()
		})
	})

	Context("TC-GZ-020: Bidding", func() {
		It("TC-GZ-021: should decline on reserved flag bits", func() {
			data := member([]byte("x"))
			data[3] = 0xFF

			r := reader.New()
			Expect(r.RegisterBidder(arcgzp.NewBidder())).To(BeNil())
			Expect(r.OpenMemory(data, 0)).To(BeNil())
			defer func() { _ = r.Free() }()

			// nothing bids: raw pass-through of the corrupt bytes
			Expect(r.FilterCount()).To(Equal(1))
		})
	})

	Context("TC-GZ-030: Round trip", func() {
		It("TC-GZ-031: should read back its own writer's output", func() {
			payload := []byte("the quick brown fox")
			var sink bytes.Buffer

			w := writer.New()
			f := arcgzp.NewWriter()
			Expect(w.AppendFilter(f)).To(BeNil())
			Expect(w.SetOptions("gzip:compression-level=9")).To(Equal(types.StatusOK))
			Expect(w.OpenMemory(&sink)).To(BeNil())
			_, err := w.Write(payload)
			Expect(err).ToNot(HaveOccurred())
			Expect(w.Close()).ToNot(HaveOccurred())

			// the bid must clear the confidence floor of the header walk
			probe := reader.New()
			Expect(probe.OpenMemory(sink.Bytes(), 0)).To(BeNil())
			score := arcgzp.NewBidder().Bid(probe)
			Expect(score).To(BeNumerically(">=", 32))
			_ = probe.Free()

			r := openDetect(sink.Bytes())
			defer func() { _ = r.Free() }()
			out, e := io.ReadAll(r)
			Expect(e).ToNot(HaveOccurred())
			Expect(out).To(Equal(payload))
		})
	})

	Context("TC-GZ-040: Fatal stickiness", func() {
		It("TC-GZ-041: should stay fatal after a broken header", func() {
			data := member([]byte("x"))
			data[3] = 0xFF // reserved flag bits

			r := reader.New()
			Expect(r.AppendFilter(arcgzp.NewBidder())).To(BeNil())
			err := r.OpenMemory(data, 0)
			Expect(err).To(HaveOccurred())

			buf := make([]byte, 8)
			_, e1 := r.Read(buf)
			Expect(e1).To(HaveOccurred())
			_, e2 := r.Read(buf)
			Expect(e2).To(HaveOccurred())

			Expect(func() { _ = r.Close() }).ToNot(Panic())
			Expect(r.Free()).ToNot(HaveOccurred())
		})
	})
})
