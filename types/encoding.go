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

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Parse returns the FilterCode matching the given string, or None.
func Parse(s string) FilterCode {
	var c = None
	if e := c.UnmarshalText([]byte(s)); e != nil {
		return None
	} else {
		return c
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c FilterCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The parsing is case-insensitive and trims whitespace, quotes, and
// apostrophes. Unknown or invalid values result in None being set.
func (c *FilterCode) UnmarshalText(b []byte) error {
	*c = None

	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, "\"")
	s = strings.Trim(s, "'")
	s = strings.TrimSpace(s)

	for _, k := range List() {
		if k == None {
			continue
		}
		if strings.EqualFold(s, k.String()) {
			*c = k
			return nil
		}
	}

	// short aliases used by option strings
	switch {
	case strings.EqualFold(s, "compress"):
		*c = Compress
	case strings.EqualFold(s, "uudecode"):
		*c = UU
	}

	return nil
}

// MarshalJSON implements json.Marshaler.
// The None code is marshaled as JSON null.
func (c FilterCode) MarshalJSON() ([]byte, error) {
	if c.IsNone() {
		return []byte("null"), nil
	}
	return append(append([]byte{'"'}, []byte(c.String())...), '"'), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *FilterCode) UnmarshalJSON(b []byte) error {
	var s string

	if n := []byte("null"); bytes.Equal(b, n) {
		*c = None
		return nil
	} else if err := json.Unmarshal(b, &s); err != nil {
		return err
	} else {
		return c.UnmarshalText([]byte(s))
	}
}
