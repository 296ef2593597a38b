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

package uu_test

import (
	"io"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	arcuud "github.com/sabouaram/transform/filter/uu"
	"github.com/sabouaram/transform/reader"
	"github.com/sabouaram/transform/types"
)

func TestTransformFilterUU(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transform Filter UU Suite")
}

func openUU(data []byte, readSize int) reader.Reader {
	r := reader.New()
	Expect(r.RegisterBidder(arcuud.NewBidder())).To(BeNil())
	Expect(r.OpenMemory(data, readSize)).To(BeNil())
	return r
}

var _ = Describe("TC-UU-001: uu and base64 filter", func() {
	// uuencoded "hello": length '%' then ":&5L" ";&\`"
	uuDoc := []byte("begin 644 greeting\n%:&5L;&\\`\n`\nend\n")
	b64Doc := []byte("begin-base64 644 greeting\naGVsbG8=\n====\n")

	Context("TC-UU-010: uuencoded data", func() {
		It("TC-UU-011: should decode the canonical document", func() {
			r := openUU(uuDoc, 0)
			defer func() { _ = r.Free() }()

			Expect(r.FilterCode(0)).To(Equal(types.UU))
			out, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("hello")))
		})

		It("TC-UU-012: should assemble lines split across read boundaries", func() {
			r := openUU(uuDoc, 3)
			defer func() { _ = r.Free() }()

			out, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("hello")))
		})

		It("TC-UU-013: should skip leading noise before the head line", func() {
			doc := append([]byte("From: someone\nSubject: a file\n\n"), uuDoc...)
			r := openUU(doc, 0)
			defer func() { _ = r.Free() }()

			out, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("hello")))
		})
	})

	Context("TC-UU-020: base64 data", func() {
		It("TC-UU-021: should decode a begin-base64 document", func() {
			r := openUU(b64Doc, 0)
			defer func() { _ = r.Free() }()

			out, err := io.ReadAll(r)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(Equal([]byte("hello")))
		})
	})

	Context("TC-UU-030: Bidding", func() {
		It("TC-UU-031: should decline without a plausible data line", func() {
			r := openUU([]byte("begin not followed by data"), 0)
			defer func() { _ = r.Free() }()
			Expect(r.FilterCount()).To(Equal(1))
		})
	})
})
