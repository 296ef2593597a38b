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

// Package reader implements the read side of the transform pipeline: an
// ordered stack of filter stages terminated by a source stage, with
// zero-copy lookahead, forward skip and bid-based auto-detection.
//
// The two key operations are Ahead, which returns a borrowed contiguous
// span of at least the requested size without consuming it, and Consume,
// which advances the stream position. Filters generate blocks of data
// and Ahead returns spans directly into those blocks; a copy buffer is
// used only when a request spans blocks.
//
// Useful idioms, inherited from the stacked-filter design:
//
//   - "I just want some data": ask Ahead for 1 byte and use however much
//     of the returned span is needed, then Consume what was used.
//   - "I want to peek far ahead": ask for 4k or so, then double and
//     repeat; the copy buffer grows to fit, so use with care.
//
// Auto-detection runs rounds over the registered bidders: every bidder
// inspects the current leading bytes through the top stage, the highest
// non-zero bid wins (ties resolve to registration order), the winner's
// filter is stacked, and the rounds repeat until nobody bids.
package reader
