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

package asm

import (
	"io"
	"sort"
	"strings"

	"github.com/db47h/ijvm/internal/ngi"
	"github.com/db47h/ijvm/vm"
)

// Parse parses IJVM source read from the supplied io.Reader and returns the
// resulting parse tree and error if any.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to 10 entries. The returned tree is never nil but should not
// be used for anything else than diagnostics if there is an error.
func Parse(name string, r io.Reader) (*File, error) {
	return newParser(name).Parse(r)
}

// Disassemble writes a disassembly of the instruction at position pc in the
// given blueprint to the specified io.Writer and returns the position of the
// next instruction and any write error.
func Disassemble(b *vm.Blueprint, pc int, w io.Writer) (next int, err error) {
	ew := ngi.NewErrWriter(w)
	ins := &b.Instructions[pc]
	if ins.Op == vm.OpLabel {
		return pc + 1, ew.Printf("% 6d  %s", pc, ins)
	}
	return pc + 1, ew.Printf("% 6d  \t%s", pc, ins)
}

// DisassembleAll writes a listing of the program p to the specified
// io.Writer: the constant pool, then every blueprint with its parameters,
// local variables and instructions. It will return any write error.
func DisassembleAll(p *vm.Program, w io.Writer) error {
	ew := ngi.NewErrWriter(w)
	if len(p.Constants) > 0 {
		names := make([]string, 0, len(p.Constants))
		for n := range p.Constants {
			names = append(names, n)
		}
		sort.Strings(names)
		ew.WriteString(".constant\n")
		for _, n := range names {
			ew.Printf("\t%s %d\n", n, p.Constants[n])
		}
		ew.WriteString(".end-constant\n")
	}
	for k, b := range p.Blueprints {
		end := ".end-method\n"
		if k == 0 {
			ew.WriteString(".main\n")
			end = ".end-main\n"
		} else {
			ew.Printf(".method %s(%s)\n", b.Name, strings.Join(b.Params, ", "))
		}
		if len(b.Vars) > 0 {
			ew.WriteString(".var\n")
			for _, v := range b.Vars {
				ew.Printf("\t%s\n", v)
			}
			ew.WriteString(".end-var\n")
		}
		for pc := 0; pc < len(b.Instructions); {
			pc, _ = Disassemble(b, pc, ew)
			ew.Write([]byte{'\n'})
		}
		ew.WriteString(end)
		if ew.Err != nil {
			return ew.Err
		}
	}
	return ew.Err
}
