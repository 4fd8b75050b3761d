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
	"fmt"
	"io"
	"os"

	"github.com/db47h/ijvm/lang/ijvm"
	"github.com/db47h/ijvm/vm"
	"github.com/pkg/errors"
)

// debugger pauses before each instruction, prints the interpreter state and
// waits for a command.
type debugger struct {
	w     io.Writer
	out   *lineTracker
	in    vm.LineReader // used when raw is false
	raw   bool
	cont  bool
	steps int
}

func (d *debugger) step(i *vm.Instance) error {
	if d.cont {
		return nil
	}
	d.steps++
	if err := d.out.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(d.w, "\n--- step %d\n", d.steps)
	if err := ijvm.Dump(i, d.w); err != nil {
		return err
	}
	fmt.Fprint(d.w, "[space/s] step  [c] continue  [q] quit: ")
	key, err := d.readKey()
	fmt.Fprintln(d.w)
	if errors.Cause(err) == io.EOF {
		return vm.ErrStopped
	}
	if err != nil {
		return err
	}
	switch key {
	case 'c', 'C':
		d.cont = true
	case 'q', 'Q', 4:
		return vm.ErrStopped
	}
	return nil
}

func (d *debugger) readKey() (byte, error) {
	if !d.raw {
		s, err := d.in.ReadLine()
		if err != nil || s == "" {
			return ' ', err
		}
		return s[0], nil
	}
	tearDown, err := setRawIO()
	if err != nil {
		return 0, err
	}
	defer tearDown()
	var b [1]byte
	if _, err = os.Stdin.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "read key")
	}
	return b[0], nil
}
