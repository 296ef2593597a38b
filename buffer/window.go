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

package buffer

// doubleBelow is the capacity under which growth doubles instead of
// rounding up to the alignment multiple.
const doubleBelow = 64 * 1024

// Window is a fixed-capacity contiguous buffer with a fill length and a
// read cursor. The zero value is not usable; use New.
type Window struct {
	base      []byte
	length    int
	cursor    int
	alignment int
}

// New returns an empty Window whose growth is rounded to multiples of
// the given alignment. An alignment below 1 is treated as 1.
func New(alignment int) *Window {
	if alignment < 1 {
		alignment = 1
	}
	return &Window{alignment: alignment}
}

// SetAlignment changes the rounding unit for future growth.
func (w *Window) SetAlignment(alignment int) {
	if alignment < 1 {
		alignment = 1
	}
	w.alignment = alignment
}

func (w *Window) Alignment() int {
	return w.alignment
}

// Avail returns the number of bytes between the cursor and the length.
func (w *Window) Avail() int {
	return w.length - w.cursor
}

// Len returns the number of valid bytes held, drained or not.
func (w *Window) Len() int {
	return w.length
}

// Cap returns the current capacity.
func (w *Window) Cap() int {
	return cap(w.base)
}

// Bytes returns the undrained span. The slice is borrowed: it is valid
// until the next mutating call.
func (w *Window) Bytes() []byte {
	return w.base[w.cursor:w.length]
}

// Reset empties the buffer without releasing storage.
func (w *Window) Reset() {
	w.cursor = 0
	w.length = 0
}

// DropPrefix advances the read cursor by n, clamped to the available
// bytes, and returns the number of bytes actually dropped. When the
// buffer drains completely the cursor snaps back to the origin.
func (w *Window) DropPrefix(n int) int {
	if n < 0 {
		return 0
	}
	if a := w.Avail(); n > a {
		n = a
	}
	w.cursor += n
	if w.cursor == w.length {
		w.Reset()
	}
	return n
}

// Append copies p behind the current length, growing as needed.
func (w *Window) Append(p []byte) {
	w.EnsureCapacity(w.length + len(p))
	w.base = w.base[:cap(w.base)]
	copy(w.base[w.length:], p)
	w.length += len(p)
}

// Tail returns the unused storage behind the length, for direct fills.
// Bytes written there become valid only after Extend.
func (w *Window) Tail() []byte {
	return w.base[w.length:cap(w.base)]
}

// Extend marks n more bytes, previously written into Tail, as valid.
func (w *Window) Extend(n int) {
	if n < 0 {
		return
	}
	if w.length+n > cap(w.base) {
		n = cap(w.base) - w.length
	}
	w.length += n
}

// Compact moves the undrained span to the origin so that Tail exposes
// the full remaining capacity.
func (w *Window) Compact() {
	if w.cursor == 0 {
		return
	}
	copy(w.base, w.base[w.cursor:w.length])
	w.length -= w.cursor
	w.cursor = 0
}

// EnsureCapacity grows the storage to hold at least n bytes. Contents
// are preserved and the capacity never shrinks below the current
// length. Growth doubles while small, then rounds up to the alignment.
func (w *Window) EnsureCapacity(n int) {
	if n <= cap(w.base) {
		if w.base == nil && n > 0 {
			w.base = make([]byte, 0)
		}
		return
	}

	size := n
	if size < doubleBelow {
		if c := cap(w.base) * 2; c > size {
			size = c
		}
	}
	size = roundUp(size, w.alignment)

	data := make([]byte, w.length, size)
	copy(data, w.base[:w.length])
	w.base = data
}

func roundUp(n, quanta int) int {
	if quanta < 2 {
		return n
	}
	if r := n % quanta; r != 0 {
		n += quanta - r
	}
	return n
}
