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

package source

import (
	"io"
	"os"
)

// DefaultBlockSize is the buffer used on disk-like inputs; a smaller
// caller suggestion is rounded up to it.
const DefaultBlockSize = 64 * 1024

// Source supplies raw blocks to the bottom of a read stack. Returned
// blocks are borrowed until the next call.
type Source interface {
	// Read returns the next block, or io.EOF when exhausted.
	Read() ([]byte, error)

	// Skip advances by up to n bytes and returns the amount actually
	// skipped. A source without an optimized skip returns 0 and lets
	// the engine fall back to read-and-discard.
	Skip(n int64) (int64, error)

	// Close releases the source. Borrowed handles are not closed.
	Close() error
}

// SelfBuffered marks a source serving slices of caller-owned storage;
// the engine skips its own buffering for such a source.
type SelfBuffered interface {
	SelfBuffered() bool
}

// Namer gives a source a display name for filter introspection.
type Namer interface {
	Name() string
}

// ReadFile is the file-like handle accepted by NewFile; *os.File
// satisfies it.
type ReadFile interface {
	io.Reader
	Stat() (os.FileInfo, error)
}

// Name returns the display name of a source, or "none" when it has
// no name of its own.
func Name(src Source) string {
	if n, ok := src.(Namer); ok {
		return n.Name()
	}
	return "none"
}
