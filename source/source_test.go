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

package source_test

import (
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/transform/source"
)

func drain(s source.Source) []byte {
	var out []byte
	for {
		b, err := s.Read()
		if len(b) > 0 {
			out = append(out, b...)
		}
		if err != nil {
			return out
		}
	}
}

var _ = Describe("TC-SR-001: Read sources", func() {
	payload := []byte("abcdefghijklmnopqrstuvwxyz")

	Context("TC-SR-010: Filename source", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(GinkgoT().TempDir(), "input.bin")
			Expect(os.WriteFile(path, payload, 0600)).ToNot(HaveOccurred())
		})

		It("TC-SR-011: should read the whole file", func() {
			s, err := source.NewFilename(path, 0)
			Expect(err).To(BeNil())
			defer func() { _ = s.Close() }()
			Expect(drain(s)).To(Equal(payload))
		})

		It("TC-SR-012: should skip by seeking on a regular file", func() {
			s, err := source.NewFilename(path, 0)
			Expect(err).To(BeNil())
			defer func() { _ = s.Close() }()

			n, e := s.Skip(10)
			Expect(e).ToNot(HaveOccurred())
			Expect(n).To(Equal(int64(10)))
			Expect(drain(s)).To(Equal(payload[10:]))
		})

		It("TC-SR-013: should clamp a skip at the end of the file", func() {
			s, err := source.NewFilename(path, 0)
			Expect(err).To(BeNil())
			defer func() { _ = s.Close() }()

			n, e := s.Skip(1000)
			Expect(e).ToNot(HaveOccurred())
			Expect(n).To(Equal(int64(len(payload))))
		})

		It("TC-SR-014: should visit its descriptor", func() {
			s, err := source.NewFilename(path, 0)
			Expect(err).To(BeNil())
			defer func() { _ = s.Close() }()

			var seen int
			v := s.(interface {
				VisitFDs(fn func(fd uintptr) error) error
			})
			Expect(v.VisitFDs(func(fd uintptr) error {
				seen++
				return nil
			})).ToNot(HaveOccurred())
			Expect(seen).To(Equal(1))
		})
	})

	Context("TC-SR-020: Memory source", func() {
		It("TC-SR-021: should serve caller storage in read-size blocks", func() {
			s, err := source.NewMemory(payload, 10)
			Expect(err).To(BeNil())

			b, e := s.Read()
			Expect(e).ToNot(HaveOccurred())
			Expect(b).To(Equal(payload[:10]))
			Expect(drain(s)).To(Equal(payload[10:]))
		})

		It("TC-SR-022: should round a skip down to the read size", func() {
			s, err := source.NewMemory(payload, 10)
			Expect(err).To(BeNil())

			n, e := s.Skip(15)
			Expect(e).ToNot(HaveOccurred())
			Expect(n).To(Equal(int64(10)))
		})
	})

	Context("TC-SR-030: Callback source", func() {
		It("TC-SR-031: should drive the supplied callbacks", func() {
			var closed bool
			served := false

			s, err := source.NewCallback(source.Callbacks{
				Read: func() ([]byte, error) {
					if served {
						return nil, io.EOF
					}
					served = true
					return payload, nil
				},
				Close: func() error {
					closed = true
					return nil
				},
			})
			Expect(err).To(BeNil())
			Expect(drain(s)).To(Equal(payload))
			Expect(s.Close()).ToNot(HaveOccurred())
			Expect(closed).To(BeTrue())
		})
	})
})
