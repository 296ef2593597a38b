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

package lz4_test

import (
	"bytes"
	"io"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	arclz4 "github.com/sabouaram/transform/filter/lz4"
	"github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
	"github.com/sabouaram/transform/writer"
)

func TestTransformFilterLZ4(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transform Filter LZ4 Suite")
}

var _ = Describe("TC-L4-001: LZ4 frame filter", func() {
	It("TC-L4-011: should round-trip and be detected by its magic", func() {
		payload := bytes.Repeat([]byte("fast frames "), 4096)
		var sink bytes.Buffer

		w := writer.New()
		Expect(w.AppendFilter(arclz4.NewWriter())).To(BeNil())
		Expect(w.OpenMemory(&sink)).To(BeNil())
		_, err := w.Write(payload)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Close()).ToNot(HaveOccurred())

		Expect(sink.Bytes()[:4]).To(Equal([]byte{0x04, 0x22, 0x4D, 0x18}))

		r := reader.New()
		Expect(r.RegisterBidder(arclz4.NewBidder())).To(BeNil())
		Expect(r.OpenMemory(sink.Bytes(), 0)).To(BeNil())
		defer func() { _ = r.Free() }()

		Expect(r.FilterCode(0)).To(Equal(types.LZ4))
		out, e := io.ReadAll(r)
		Expect(e).ToNot(HaveOccurred())
		Expect(out).To(Equal(payload))
	})
})
