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

package asm_test

import (
	"strings"
	"testing"

	"github.com/db47h/ijvm/asm"
	"github.com/db47h/ijvm/vm"
)

const source = `
// full program
.constant
	OBJREF 0xCAFE   ; comment
	nl '\n'
.end-constant

.main
.var
	x, y
.end-var
.var
	z
.end-var
start:	BIPUSH 'a'
	ISTORE x
	IINC x -1
	LDC_W objref
	ILOAD x
	invokevirtual print
	GOTO start
.end-main

.method print(c)
	ILOAD c
	OUT
	BIPUSH 0
	IRETURN
.end-method

.method nop()
	BIPUSH 0
	IRETURN
.end-method
`

func TestParse(t *testing.T) {
	f, err := asm.Parse("source", strings.NewReader(source))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Constants) != 2 || f.Constants[1].Name != "nl" || f.Constants[1].Value != `'\n'` {
		t.Errorf("bad constants: %+v", f.Constants)
	}
	m := f.Main
	if m == nil || !m.Main || m.Name != vm.MainName {
		t.Fatalf("bad main block: %+v", m)
	}
	if len(m.Vars) != 2 || len(m.Vars[0].Names) != 2 || m.Vars[1].Names[0].Name != "z" {
		t.Errorf("bad var blocks: %+v", m.Vars)
	}
	if len(m.Stmts) != 8 {
		t.Fatalf("expected 8 statements, got %d", len(m.Stmts))
	}
	if l, ok := m.Stmts[0].(*asm.Label); !ok || l.Name != "start" || l.Pos.Line != 15 {
		t.Errorf("bad label: %+v", m.Stmts[0])
	}
	ins, ok := m.Stmts[3].(*asm.Instr)
	if !ok || ins.Op != vm.OpIinc || ins.Arg(0) != "x" || ins.Arg(1) != "-1" || ins.Arg(2) != "" {
		t.Errorf("bad IINC: %+v", m.Stmts[3])
	}
	if ins, ok = m.Stmts[6].(*asm.Instr); !ok || ins.Op != vm.OpInvokevirtual {
		t.Errorf("bad INVOKEVIRTUAL: %+v", m.Stmts[6])
	}
	if len(f.Methods) != 2 || f.Methods[0].Name != "print" || len(f.Methods[0].Params) != 1 || len(f.Methods[1].Params) != 0 {
		t.Errorf("bad methods: %+v", f.Methods)
	}
	if b := f.Blocks(); len(b) != 3 || b[0] != m {
		t.Errorf("bad blocks: %+v", b)
	}
}

// check some errors. We're not checking the whole messages, rather that they
// point at the correct line.
func TestParse_errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"no_main", ".constant\n.end-constant\n", 3, "missing .main block"},
		{"dup_main", ".main\n.end-main\n.main\n.end-main\n", 3, "duplicate .main block"},
		{"dup_const_block", ".constant\n.end-constant\n.constant\n.end-constant\n.main\n.end-main\n", 3, "duplicate .constant block"},
		{"outside", "BIPUSH 1\n.main\n.end-main\n", 1, "outside of a block"},
		{"unknown", ".main\n\tFOO 1\n.end-main\n", 2, "unknown instruction FOO"},
		{"args", ".main\n\tBIPUSH\n.end-main\n", 2, "BIPUSH expects 1 argument(s), got 0"},
		{"too_many", ".main\n\tPOP 1\n.end-main\n", 2, "POP expects 0 argument(s), got 1"},
		{"bad_name", ".main\n\tILOAD 1x\n.end-main\n", 2, "ILOAD: invalid name 1x"},
		{"bad_literal", ".main\n\tBIPUSH .x\n.end-main\n", 2, "expected literal"},
		{"end_mismatch", ".main\n.end-method\n.end-main\n", 2, "unexpected .end-method"},
		{"no_end_main", ".main\n\tNOP\n", 1, "missing .end-main"},
		{"no_end_method", ".main\n.end-main\n.method f\n", 3, "missing .end-method for method f"},
		{"no_end_var", ".main\n.var\nx\n", 2, "missing .end-var"},
		{"no_end_const", ".constant\nX 1\n", 3, "missing .end-constant"},
		{"const_value", ".constant\nX\n.end-constant\n.main\n.end-main\n", 2, "missing value for constant X"},
		{"const_name", ".constant\n1X 1\n.end-constant\n.main\n.end-main\n", 2, "invalid constant name 1X"},
		{"method_name", ".main\n.end-main\n.method\n.end-method\n", 3, "expected method name"},
		{"method_paren", ".main\n.end-main\n.method f(a b)\n.end-method\n", 3, "expected ',' or ')'"},
		{"method_close", ".main\n.end-main\n.method f(a\n.end-method\n", 3, "missing ')'"},
		{"var_name", ".main\n.var\n1x\n.end-var\n.end-main\n", 3, "invalid variable name 1x"},
		{"label_name", ".main\n1x: NOP\n.end-main\n", 2, "invalid label name 1x"},
		{"directive", ".main\n.constant\n.end-main\n", 2, "unexpected .constant"},
	}
	for _, tt := range tests {
		_, err := asm.Parse(tt.name, strings.NewReader(tt.src))
		errs, ok := err.(asm.ErrAsm)
		if !ok {
			t.Errorf("%s: expected asm.ErrAsm, got %v", tt.name, err)
			continue
		}
		found := false
		for _, e := range errs {
			if e.Pos.Line == tt.line && strings.Contains(e.Msg, tt.msg) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: expected %q at line %d, got:\n%v", tt.name, tt.msg, tt.line, err)
		}
	}
}

func TestParse_maxErrors(t *testing.T) {
	src := ".main\n" + strings.Repeat("FOO\n", 20) + ".end-main\n"
	_, err := asm.Parse("max", strings.NewReader(src))
	if errs, ok := err.(asm.ErrAsm); !ok || len(errs) != 10 {
		t.Errorf("expected 10 errors, got %v", err)
	}
}
