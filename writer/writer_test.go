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

package writer_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/transform/types"
	"github.com/sabouaram/transform/writer"
)

// upperFilter is a trivial transforming stage for engine tests.
type upperFilter struct {
	dst writer.Downstream
	opt string
}

func (o *upperFilter) Name() string               { return "upper" }
func (o *upperFilter) Code() types.FilterCode     { return types.None }
func (o *upperFilter) Open(d writer.Downstream) error { o.dst = d; return nil }
func (o *upperFilter) Close() error               { return nil }

func (o *upperFilter) Write(p []byte) error {
	return o.dst.Write(bytes.ToUpper(p))
}

func (o *upperFilter) SetOption(key, value string) types.Status {
	if key != "mode" {
		return types.StatusWarn
	}
	o.opt = value
	return types.StatusOK
}

var _ = Describe("TC-WR-001: Write pipeline engine", func() {
	Context("TC-WR-010: Plain sink", func() {
		It("TC-WR-011: should deliver caller bytes in order", func() {
			var out bytes.Buffer

			w := writer.New()
			Expect(w.OpenMemory(&out)).To(BeNil())

			_, err := w.Write([]byte("hello "))
			Expect(err).ToNot(HaveOccurred())
			_, err = w.Write([]byte("world"))
			Expect(err).ToNot(HaveOccurred())
			Expect(w.Close()).ToNot(HaveOccurred())

			Expect(out.String()).To(Equal("hello world"))
		})

		It("TC-WR-012: should coalesce into blocks and flush the residue", func() {
			var out bytes.Buffer

			w := writer.New()
			Expect(w.SetBytesPerBlock(8)).To(BeNil())
			Expect(w.BytesPerBlock()).To(Equal(8))
			Expect(w.OpenMemory(&out)).To(BeNil())

			payload := bytes.Repeat([]byte{'x'}, 21)
			_, err := w.Write(payload)
			Expect(err).ToNot(HaveOccurred())
			Expect(w.Close()).ToNot(HaveOccurred())
			Expect(out.Bytes()).To(Equal(payload))
		})
	})

	Context("TC-WR-020: Filter chain", func() {
		It("TC-WR-021: should route bytes through appended filters", func() {
			var out bytes.Buffer

			w := writer.New()
			Expect(w.AppendFilter(&upperFilter{})).To(BeNil())
			Expect(w.OpenMemory(&out)).To(BeNil())

			_, err := w.Write([]byte("hello"))
			Expect(err).ToNot(HaveOccurred())
			Expect(w.Close()).ToNot(HaveOccurred())
			Expect(out.String()).To(Equal("HELLO"))

			Expect(w.FilterCount()).To(Equal(2))
			Expect(w.FilterName(0)).To(Equal("upper"))
			Expect(w.FilterBytes(0)).To(Equal(int64(5)))
		})

		It("TC-WR-022: should dispatch options by filter name", func() {
			f := &upperFilter{}
			w := writer.New()
			Expect(w.AppendFilter(f)).To(BeNil())

			Expect(w.SetOptions("upper:mode=loud")).To(Equal(types.StatusOK))
			Expect(f.opt).To(Equal("loud"))

			Expect(w.SetOptions("upper:unknown=1")).To(Equal(types.StatusWarn))
			Expect(w.SetOptions("other:mode=x")).To(Equal(types.StatusWarn))
		})

		It("TC-WR-023: should refuse appending after open", func() {
			var out bytes.Buffer

			w := writer.New()
			Expect(w.OpenMemory(&out)).To(BeNil())
			Expect(w.AppendFilter(&upperFilter{})).To(HaveOccurred())
			Expect(w.Close()).ToNot(HaveOccurred())
		})
	})

	Context("TC-WR-030: Life cycle", func() {
		It("TC-WR-031: should make close idempotent", func() {
			var out bytes.Buffer

			w := writer.New()
			Expect(w.OpenMemory(&out)).To(BeNil())
			Expect(w.Close()).ToNot(HaveOccurred())
			Expect(w.Close()).ToNot(HaveOccurred())
			Expect(w.Free()).ToNot(HaveOccurred())
		})
	})
})
