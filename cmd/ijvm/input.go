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

package main

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/peterh/liner"
)

const maxPartial = 256

// lineTracker is the program output. It remembers the last unterminated line
// so that the line editor can redraw it as its prompt.
type lineTracker struct {
	w       *bufio.Writer
	partial []byte
}

func newLineTracker(w io.Writer) *lineTracker {
	return &lineTracker{w: bufio.NewWriter(w)}
}

func (t *lineTracker) Write(p []byte) (int, error) {
	if i := bytes.LastIndexByte(p, '\n'); i >= 0 {
		t.partial = append(t.partial[:0], p[i+1:]...)
	} else {
		t.partial = append(t.partial, p...)
	}
	if n := len(t.partial) - maxPartial; n > 0 {
		for n < len(t.partial) && !utf8.RuneStart(t.partial[n]) {
			n++
		}
		t.partial = append(t.partial[:0], t.partial[n:]...)
	}
	return t.w.Write(p)
}

func (t *lineTracker) Flush() error {
	return t.w.Flush()
}

// prompt returns the pending partial line, with control characters dropped.
func (t *lineTracker) prompt() string {
	return strings.Map(func(r rune) rune {
		if r < ' ' || r == 0x7f {
			return -1
		}
		return r
	}, string(t.partial))
}

// linerInput reads lines for the IN instruction from a terminal, with line
// editing and history.
type linerInput struct {
	ln  *liner.State
	out *lineTracker
}

func newLinerInput(out *lineTracker) *linerInput {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	return &linerInput{ln, out}
}

func (li *linerInput) ReadLine() (string, error) {
	if err := li.out.Flush(); err != nil {
		return "", err
	}
	s, err := li.ln.Prompt(li.out.prompt())
	if err != nil {
		return "", err
	}
	li.out.partial = li.out.partial[:0]
	if s != "" {
		li.ln.AppendHistory(s)
	}
	return s, nil
}

func (li *linerInput) Close() error {
	return li.ln.Close()
}
