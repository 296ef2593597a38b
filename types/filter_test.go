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

package types_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/transform/types"
)

var _ = Describe("TC-TY-001: Filter codes and status", func() {
	Context("TC-TY-010: Frozen numeric values", func() {
		It("TC-TY-011: should keep the historic filter tags", func() {
			Expect(int(types.None)).To(Equal(0))
			Expect(int(types.Gzip)).To(Equal(1))
			Expect(int(types.Bzip2)).To(Equal(2))
			Expect(int(types.Compress)).To(Equal(3))
			Expect(int(types.Program)).To(Equal(4))
			Expect(int(types.Lzma)).To(Equal(5))
			Expect(int(types.XZ)).To(Equal(6))
			Expect(int(types.UU)).To(Equal(7))
			Expect(int(types.Rpm)).To(Equal(8))
			Expect(int(types.Lzip)).To(Equal(9))
		})

		It("TC-TY-012: should keep the status sentinels", func() {
			Expect(int(types.StatusOK)).To(Equal(0))
			Expect(int(types.StatusEOF)).To(Equal(-1))
			Expect(int(types.StatusWarn)).To(Equal(-200))
			Expect(int(types.StatusFailed)).To(Equal(-250))
			Expect(int(types.StatusFatal)).To(Equal(-300))
		})
	})

	Context("TC-TY-020: String and Parse", func() {
		It("TC-TY-021: should round-trip names", func() {
			Expect(types.Parse("gzip")).To(Equal(types.Gzip))
			Expect(types.Parse("lzip")).To(Equal(types.Lzip))
			Expect(types.Parse("compress")).To(Equal(types.Compress))
			Expect(types.Parse("unknown")).To(Equal(types.None))
			Expect(types.Gzip.Extension()).To(Equal(".gz"))
			Expect(types.Compress.Extension()).To(Equal(".Z"))
		})

		It("TC-TY-022: should marshal None as JSON null", func() {
			b, err := types.None.MarshalJSON()
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal([]byte("null")))

			var c types.FilterCode
			Expect(c.UnmarshalJSON([]byte("\"xz\""))).ToNot(HaveOccurred())
			Expect(c).To(Equal(types.XZ))
		})
	})
})
