// This file is part of ijvm - https://github.com/db47h/ijvm
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ParseLiteral converts the text of an integer literal to a Cell.
//
// Accepted forms are decimal (42, -7), hexadecimal with a 0x prefix (0x2A),
// octal with an o or 0o prefix (o52, 0o52), Go character literals between
// single quotes ('*', '\n') and a single non-digit character which stands for
// its own code point. Hexadecimal and octal values up to 32 bits wrap to
// negative values the same way they would in a 32 bits register.
func ParseLiteral(s string) (Cell, error) {
	if len(s) >= 3 && s[0] == '\'' && s[len(s)-1] == '\'' {
		r, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
		if err != nil || tail != "" {
			return 0, errors.Errorf("invalid character literal %s", s)
		}
		return Cell(r), nil
	}
	if r, sz := utf8.DecodeRuneInString(s); sz == len(s) && sz > 0 && r != utf8.RuneError && (r < '0' || r > '9') && r != '-' && r != '+' {
		return Cell(r), nil
	}

	t := s
	neg := false
	if len(t) > 0 && (t[0] == '-' || t[0] == '+') {
		neg = t[0] == '-'
		t = t[1:]
	}
	base := 10
	switch {
	case len(t) > 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X'):
		base, t = 16, t[2:]
	case len(t) > 2 && t[0] == '0' && (t[1] == 'o' || t[1] == 'O'):
		base, t = 8, t[2:]
	case len(t) > 1 && (t[0] == 'o' || t[0] == 'O'):
		base, t = 8, t[1:]
	}
	n, err := strconv.ParseUint(t, base, 32)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, errors.Errorf("literal %s out of range", s)
		}
		return 0, errors.Errorf("invalid literal %s", s)
	}
	if base == 10 {
		if (!neg && n > math.MaxInt32) || (neg && n > -math.MinInt32) {
			return 0, errors.Errorf("literal %s out of range", s)
		}
	}
	v := Cell(int32(uint32(n)))
	if neg {
		v = -v
	}
	return v, nil
}
