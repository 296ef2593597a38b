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

package transform_test

import (
	"bytes"
	"encoding/binary"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libtrf "github.com/sabouaram/transform"
	"github.com/sabouaram/transform/types"
)

// wrapRpm wraps data as a minimal rpm package: lead, one header
// record, padding, then the payload.
func wrapRpm(data []byte) []byte {
	lead := make([]byte, 96)
	copy(lead, []byte{0xED, 0xAB, 0xEE, 0xDB, 0x03, 0x00, 0x00, 0x00})

	header := make([]byte, 16)
	copy(header, []byte{0x8E, 0xAD, 0xE8, 0x01})
	binary.BigEndian.PutUint32(header[8:], 1)
	binary.BigEndian.PutUint32(header[12:], 16)

	out := append([]byte{}, lead...)
	out = append(out, header...)
	out = append(out, make([]byte, 32)...)
	out = append(out, make([]byte, 4)...)
	return append(out, data...)
}

func compressed(code types.FilterCode, payload []byte) []byte {
	var sink bytes.Buffer
	wc, err := libtrf.Compress(code, &sink)
	Expect(err).To(BeNil())
	_, e := wc.Write(payload)
	Expect(e).ToNot(HaveOccurred())
	Expect(wc.Close()).ToNot(HaveOccurred())
	return sink.Bytes()
}

var _ = Describe("TC-TR-001: Top-level convenience", func() {
	payload := bytes.Repeat([]byte("stream transformation "), 512)

	Context("TC-TR-010: Compress and detect", func() {
		It("TC-TR-011: should round-trip every compressor through detection", func() {
			for _, code := range []types.FilterCode{
				types.Gzip,
				types.Bzip2,
				types.Compress,
				types.XZ,
				types.Lzma,
				types.Lzip,
				types.LZ4,
			} {
				codes, rc, err := libtrf.Decompress(bytes.NewReader(compressed(code, payload)))
				Expect(err).To(BeNil())
				Expect(codes).To(Equal([]types.FilterCode{code}))

				out, e := io.ReadAll(rc)
				Expect(e).ToNot(HaveOccurred())
				Expect(out).To(Equal(payload))
				Expect(rc.Close()).ToNot(HaveOccurred())
			}
		})

		It("TC-TR-012: should report an empty stack for plain data", func() {
			codes, rc, err := libtrf.Decompress(bytes.NewReader(payload))
			Expect(err).To(BeNil())
			Expect(codes).To(BeEmpty())

			out, e := io.ReadAll(rc)
			Expect(e).ToNot(HaveOccurred())
			Expect(out).To(Equal(payload))
			Expect(rc.Close()).ToNot(HaveOccurred())
		})
	})

	Context("TC-TR-020: Stacked detection", func() {
		It("TC-TR-021: should stack the rpm skipper under gzip", func() {
			data := wrapRpm(compressed(types.Gzip, payload))

			codes, rc, err := libtrf.Decompress(bytes.NewReader(data))
			Expect(err).To(BeNil())
			Expect(codes).To(Equal([]types.FilterCode{types.Gzip, types.Rpm}))

			out, e := io.ReadAll(rc)
			Expect(e).ToNot(HaveOccurred())
			Expect(out).To(Equal(payload))
			Expect(rc.Close()).ToNot(HaveOccurred())
		})
	})

	Context("TC-TR-030: Parse", func() {
		It("TC-TR-031: should map names to codes", func() {
			Expect(libtrf.ParseFilter("xz")).To(Equal(types.XZ))
			Expect(libtrf.ParseFilter("nope")).To(Equal(types.None))
		})
	})
})
