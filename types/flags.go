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

package types

// Flag declares stage capabilities to the pipeline engine.
type Flag uint8

const (
	// FlagSource marks the terminal stage supplying raw bytes. A source
	// has no upstream and must be the bottom of the read stack.
	FlagSource Flag = 1 << iota
	// FlagSelfBuffering marks a stage serving blocks out of its own
	// storage; the engine does not allocate a managed buffer for it.
	FlagSelfBuffering
	// FlagPassthru marks a stage forwarding upstream bytes unchanged;
	// lookahead is served straight from the client buffer.
	FlagPassthru
	// FlagNotifyAllConsume makes the engine forward every consumed byte
	// count of a pass-through stage to the stage's skip function.
	FlagNotifyAllConsume
)

func (f Flag) Has(o Flag) bool {
	return f&o != 0
}
