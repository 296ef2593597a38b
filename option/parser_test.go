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

package option_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/transform/option"
	"github.com/sabouaram/transform/types"
)

var _ = Describe("TC-OP-001: Option string lexer", func() {
	Context("TC-OP-010: Valid strings", func() {
		It("TC-OP-011: should split filter, key and value", func() {
			lst, st := option.Parse("gzip:compression-level=9,uu:mode")
			Expect(st).To(Equal(types.StatusOK))
			Expect(lst).To(HaveLen(2))
			Expect(lst[0]).To(Equal(option.Entry{Filter: "gzip", Key: "compression-level", Value: "9"}))
			Expect(lst[1]).To(Equal(option.Entry{Filter: "uu", Key: "mode"}))
		})

		It("TC-OP-012: should accept a bare key addressing every filter", func() {
			lst, st := option.Parse("compression-level=1")
			Expect(st).To(Equal(types.StatusOK))
			Expect(lst).To(HaveLen(1))
			Expect(lst[0].Filter).To(BeEmpty())
		})

		It("TC-OP-013: should yield no entries for an empty string", func() {
			lst, st := option.Parse("   ")
			Expect(st).To(Equal(types.StatusOK))
			Expect(lst).To(BeEmpty())
		})
	})

	Context("TC-OP-020: Malformed strings", func() {
		It("TC-OP-021: should warn on an empty key", func() {
			_, st := option.Parse("gzip:=9")
			Expect(st).To(Equal(types.StatusWarn))
		})

		It("TC-OP-022: should warn on non-ASCII keys", func() {
			_, st := option.Parse("gzip:l\xc3\xa9vel=9")
			Expect(st).To(Equal(types.StatusWarn))
		})

		It("TC-OP-023: should discard every entry of a partly broken string", func() {
			lst, st := option.Parse("gzip:compression-level=9,=broken")
			Expect(st).To(Equal(types.StatusWarn))
			Expect(lst).To(BeEmpty())
		})
	})
})
