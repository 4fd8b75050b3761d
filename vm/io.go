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
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

type flusher interface {
	Flush() error
}

type runeWriter interface {
	WriteRune(r rune) (size int, err error)
}

type runeWriterWrapper struct {
	io.Writer
}

func (w *runeWriterWrapper) WriteRune(r rune) (size int, err error) {
	b := [utf8.UTFMax]byte{}
	if r < utf8.RuneSelf {
		b[0] = byte(r)
		return w.Writer.Write(b[:1])
	}
	l := utf8.EncodeRune(b[:], r)
	return w.Writer.Write(b[0:l])
}

func (w *runeWriterWrapper) Flush() error {
	if f, ok := w.Writer.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// newWriter returns either w if it implements runeWriter or wraps it up into
// a runeWriterWrapper
func newWriter(w io.Writer) runeWriter {
	switch ww := w.(type) {
	case nil:
		return nil
	case runeWriter:
		return ww
	default:
		return &runeWriterWrapper{w}
	}
}

// LineReader is the interface used by the IN instruction to read input. The
// line terminator must not be included in the returned string. At end of
// input, ReadLine must return io.EOF.
type LineReader interface {
	ReadLine() (string, error)
}

type bufLineReader struct {
	r *bufio.Reader
}

func (l *bufLineReader) ReadLine() (string, error) {
	s, err := l.r.ReadString('\n')
	if len(s) > 0 {
		return strings.TrimRight(s, "\r\n"), nil
	}
	return "", err
}

// NewLineReader returns a LineReader reading from r. Line terminators (LF or
// CRLF) are stripped, and a last line without terminator is returned as is. If
// r already implements LineReader, it is returned unchanged.
func NewLineReader(r io.Reader) LineReader {
	switch rr := r.(type) {
	case nil:
		return nil
	case LineReader:
		return rr
	case *bufio.Reader:
		return &bufLineReader{rr}
	default:
		return &bufLineReader{bufio.NewReader(r)}
	}
}

type multiLineReader struct {
	readers []LineReader
}

func (mr *multiLineReader) ReadLine() (string, error) {
	for len(mr.readers) > 0 {
		s, err := mr.readers[0].ReadLine()
		if err != io.EOF {
			return s, err
		}
		mr.readers = mr.readers[1:]
	}
	return "", io.EOF
}

// PushInput sets r as the current input for the IN instruction. When this
// reader reaches EOF, the previously pushed reader will be used.
func (i *Instance) PushInput(r io.Reader) {
	i.pushLineReader(NewLineReader(r))
}

func (i *Instance) pushLineReader(lr LineReader) {
	if lr == nil {
		return
	}
	// dont use a multi reader unless necessary
	switch in := i.input.(type) {
	case nil:
		i.input = lr
	case *multiLineReader:
		in.readers = append([]LineReader{lr}, in.readers...)
	default:
		i.input = &multiLineReader{[]LineReader{lr, i.input}}
	}
}

// readChar reads a line of input and returns the code point of its first
// character, or 0 for an empty line or at end of input.
func (i *Instance) readChar() (Cell, error) {
	if i.input == nil {
		return 0, nil
	}
	s, err := i.input.ReadLine()
	if err != nil && err != io.EOF {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	return Cell(r), nil
}

func (i *Instance) writeChar(v Cell) error {
	if i.output == nil {
		return nil
	}
	_, err := i.output.WriteRune(rune(v))
	return err
}

func (i *Instance) flush() error {
	if f, ok := i.output.(flusher); ok {
		return f.Flush()
	}
	return nil
}
