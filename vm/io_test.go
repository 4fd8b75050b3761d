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

package vm_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/db47h/ijvm/vm"
	"github.com/pkg/errors"
)

var echo = program(blueprint(vm.MainName, nil, nil, "IN", "IN", "IN", "IN"))

func TestIn(t *testing.T) {
	i, err := run(echo, vm.Input(strings.NewReader("hello\n\nxyz")))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// empty lines and EOF read as 0
	checkStack(t, "in", i.Main().Stack(), C{'h', 0, 'x', 0})

	i, err = run(echo)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	checkStack(t, "no input", i.Main().Stack(), C{0, 0, 0, 0})
}

func TestIn_pushInput(t *testing.T) {
	i, err := run(echo,
		vm.Input(strings.NewReader("a\n")),
		vm.Input(strings.NewReader("b\r\n")),
		vm.LineInput(&lines{"é"}))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	checkStack(t, "pushInput", i.Main().Stack(), C{'é', 'b', 'a', 0})
}

type lines []string

func (l *lines) ReadLine() (string, error) {
	if len(*l) == 0 {
		return "", io.EOF
	}
	s := (*l)[0]
	*l = (*l)[1:]
	return s, nil
}

type failReader struct{}

func (failReader) ReadLine() (string, error) { return "", errors.New("boom") }

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("boom") }

func TestNewLineReader(t *testing.T) {
	in := vm.NewLineReader(strings.NewReader("a\r\n\nlast"))
	for _, want := range []string{"a", "", "last"} {
		if s, err := in.ReadLine(); err != nil || s != want {
			t.Errorf("ReadLine() = %q, %v; expected %q", s, err, want)
		}
	}
	if _, err := in.ReadLine(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestIO_errors(t *testing.T) {
	_, err := run(echo, vm.LineInput(failReader{}))
	if f, ok := errors.Cause(err).(*vm.Fault); !ok || f.Kind != vm.InputError || f.Err == nil {
		t.Errorf("unexpected error %v", err)
	}
	p := program(blueprint(vm.MainName, nil, nil, "BIPUSH 1", "OUT"))
	_, err = run(p, vm.Output(failWriter{}))
	if f, ok := errors.Cause(err).(*vm.Fault); !ok || f.Kind != vm.OutputError {
		t.Errorf("unexpected error %v", err)
	}
}

func TestOut(t *testing.T) {
	p := program(blueprint(vm.MainName, nil, nil,
		"BIPUSH 'H'", "OUT", "BIPUSH 0x69", "OUT", "BIPUSH 0x263A", "OUT", "BIPUSH '\\n'", "OUT"))
	var b bytes.Buffer
	if _, err := run(p, vm.Output(&b)); err != nil {
		t.Fatalf("%+v", err)
	}
	if s := b.String(); s != "Hi☺\n" {
		t.Errorf("got output %q", s)
	}

	// no output configured
	if _, err := run(p); err != nil {
		t.Fatalf("%+v", err)
	}
}
