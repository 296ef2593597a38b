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

package option

import (
	"strings"

	"github.com/sabouaram/transform/types"
)

// Entry is one parsed option tuple. An empty Filter addresses every
// filter; an empty Value means the key is a boolean toggle.
type Entry struct {
	Filter string
	Key    string
	Value  string
}

// Parse lexes the option string. An empty string yields no entries and
// an OK status; any malformed entry discards the whole result and
// yields a warning status so the caller leaves its state unchanged.
func Parse(s string) ([]Entry, types.Status) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, types.StatusOK
	}

	var res []Entry
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		var e Entry
		if i := strings.IndexByte(raw, ':'); i >= 0 {
			e.Filter = raw[:i]
			raw = raw[i+1:]
		}
		if i := strings.IndexByte(raw, '='); i >= 0 {
			e.Key = raw[:i]
			e.Value = raw[i+1:]
		} else {
			e.Key = raw
		}

		if e.Key == "" || !asciiKey(e.Key) || (e.Filter != "" && !asciiKey(e.Filter)) {
			return nil, types.StatusWarn
		}
		res = append(res, e)
	}

	if len(res) == 0 {
		return nil, types.StatusWarn
	}
	return res, types.StatusOK
}

func asciiKey(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}
