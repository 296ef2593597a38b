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

package buffer_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/transform/buffer"
)

var _ = Describe("TC-BW-001: Scoped byte buffer", func() {
	Context("TC-BW-010: Append and drain", func() {
		It("TC-BW-011: should expose appended bytes", func() {
			w := buffer.New(1)
			w.Append([]byte("hello"))
			Expect(w.Avail()).To(Equal(5))
			Expect(w.Bytes()).To(Equal([]byte("hello")))
		})

		It("TC-BW-012: should drop a prefix and snap back when drained", func() {
			w := buffer.New(1)
			w.Append([]byte("hello"))
			Expect(w.DropPrefix(2)).To(Equal(2))
			Expect(w.Bytes()).To(Equal([]byte("llo")))
			Expect(w.DropPrefix(10)).To(Equal(3))
			Expect(w.Avail()).To(Equal(0))
			Expect(w.Len()).To(Equal(0))
		})

		It("TC-BW-013: should keep contents across growth", func() {
			w := buffer.New(1)
			w.Append([]byte("abc"))
			w.EnsureCapacity(1024)
			Expect(w.Cap()).To(BeNumerically(">=", 1024))
			Expect(w.Bytes()).To(Equal([]byte("abc")))
		})
	})

	Context("TC-BW-020: Alignment rounding", func() {
		It("TC-BW-021: should round large growth to the alignment", func() {
			w := buffer.New(512)
			w.EnsureCapacity(70000)
			Expect(w.Cap() % 512).To(Equal(0))
			Expect(w.Cap()).To(BeNumerically(">=", 70000))
		})

		It("TC-BW-022: should double while small", func() {
			w := buffer.New(1)
			w.Append(bytes.Repeat([]byte{'x'}, 100))
			c := w.Cap()
			w.EnsureCapacity(c + 1)
			Expect(w.Cap()).To(BeNumerically(">=", 2*c))
		})
	})

	Context("TC-BW-030: Tail fills and compaction", func() {
		It("TC-BW-031: should extend after a direct tail fill", func() {
			w := buffer.New(1)
			w.EnsureCapacity(16)
			n := copy(w.Tail(), "abcd")
			w.Extend(n)
			Expect(w.Bytes()).To(Equal([]byte("abcd")))
		})

		It("TC-BW-032: should compact the undrained span to the origin", func() {
			w := buffer.New(1)
			w.Append([]byte("abcdef"))
			w.DropPrefix(4)
			w.Compact()
			Expect(w.Len()).To(Equal(2))
			Expect(w.Bytes()).To(Equal([]byte("ef")))
		})
	})
})
