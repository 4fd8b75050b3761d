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
	"strings"
	"testing"

	"github.com/db47h/ijvm/vm"
)

type C []vm.Cell

var constants = map[string]vm.Cell{"objref": 0xCAFE, "answer": 42}

// code builds an instruction list from lines like "BIPUSH 5" or "loop:".
func code(lines ...string) []vm.Instruction {
	c := make([]vm.Instruction, 0, len(lines))
	for n, l := range lines {
		f := strings.Fields(l)
		if len(f) == 1 && strings.HasSuffix(f[0], ":") {
			c = append(c, vm.Instruction{Op: vm.OpLabel, Args: []string{strings.TrimSuffix(f[0], ":")}, Line: n + 1})
			continue
		}
		op, ok := vm.LookupOpcode(f[0])
		if !ok {
			panic("unknown opcode " + f[0])
		}
		c = append(c, vm.Instruction{Op: op, Args: f[1:], Line: n + 1})
	}
	return c
}

func blueprint(name string, params, vars []string, lines ...string) *vm.Blueprint {
	b, err := vm.NewBlueprint(name, params, vars, code(lines...))
	if err != nil {
		panic(err)
	}
	return b
}

func program(bps ...*vm.Blueprint) *vm.Program {
	p, err := vm.NewProgram(constants, bps)
	if err != nil {
		panic(err)
	}
	return p
}

func run(p *vm.Program, opts ...vm.Option) (*vm.Instance, error) {
	i, err := vm.New(p, opts...)
	if err != nil {
		return nil, err
	}
	return i, i.Run()
}

func checkStack(t *testing.T, testName string, got []vm.Cell, want C) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: stack %v, expected %v", testName, got, want)
		return
	}
	for k := range want {
		if got[k] != want[k] {
			t.Errorf("%s: stack %v, expected %v", testName, got, want)
			return
		}
	}
}

var opTests = []struct {
	name  string
	vars  []string
	code  []string
	stack C
}{
	{"iadd", nil, []string{"BIPUSH 3", "BIPUSH 4", "IADD"}, C{7}},
	{"literals", nil, []string{"BIPUSH 0x10", "BIPUSH o17", "BIPUSH 0o17", "BIPUSH -5", "BIPUSH 'A'", "BIPUSH a", "BIPUSH 0xFFFFFFFF"}, C{16, 15, 15, -5, 65, 97, -1}},
	{"isub", nil, []string{"BIPUSH 10", "BIPUSH 3", "ISUB"}, C{7}},
	{"iand", nil, []string{"BIPUSH 12", "BIPUSH 10", "IAND"}, C{8}},
	{"ior", nil, []string{"BIPUSH 12", "BIPUSH 3", "IOR"}, C{15}},
	{"dup", nil, []string{"BIPUSH 5", "DUP"}, C{5, 5}},
	{"swap", nil, []string{"BIPUSH 1", "BIPUSH 2", "SWAP"}, C{2, 1}},
	{"pop", nil, []string{"BIPUSH 1", "BIPUSH 2", "POP"}, C{1}},
	{"store_load", []string{"x"}, []string{"BIPUSH -42", "ISTORE x", "ILOAD X"}, C{-42}},
	{"double", []string{"x"}, []string{"BIPUSH 5", "ISTORE x", "ILOAD x", "ILOAD x", "IADD"}, C{10}},
	{"iinc", []string{"x"}, []string{"BIPUSH 5", "ISTORE x", "IINC x -3", "ILOAD x"}, C{2}},
	{"goto", nil, []string{"GOTO End", "BIPUSH 1", "end:", "BIPUSH 2"}, C{2}},
	{"ifeq", nil, []string{"BIPUSH 5", "BIPUSH 0", "IFEQ L", "BIPUSH 100", "L:"}, C{5}},
	{"ifeq_not", nil, []string{"BIPUSH 5", "BIPUSH 1", "IFEQ L", "BIPUSH 100", "L:"}, C{5, 100}},
	{"iflt", nil, []string{"BIPUSH -1", "IFLT L", "BIPUSH 1", "L:", "BIPUSH 2"}, C{2}},
	{"iflt_not", nil, []string{"BIPUSH 0", "IFLT L", "BIPUSH 1", "L:"}, C{1}},
	{"if_icmpeq", nil, []string{"BIPUSH 3", "BIPUSH 3", "IF_ICMPEQ L", "BIPUSH 1", "L:"}, nil},
	{"if_icmpeq_not", nil, []string{"BIPUSH 3", "BIPUSH 4", "IF_ICMPEQ L", "BIPUSH 1", "L:"}, C{1}},
	{"ldc_w", nil, []string{"LDC_W answer", "LDC_W ANSWER"}, C{42, 42}},
	{"nop", nil, []string{"NOP"}, nil},
	{"halt", nil, []string{"BIPUSH 1", "HALT", "BIPUSH 2"}, C{1}},
	{"loop", []string{"i"}, []string{
		"BIPUSH 3", "ISTORE i",
		"loop:", "ILOAD i", "IFEQ done", "IINC i -1", "BIPUSH 1", "GOTO loop",
		"done:"}, C{1, 1, 1}},
}

func TestOpcodes(t *testing.T) {
	for _, tt := range opTests {
		i, err := run(program(blueprint(vm.MainName, nil, tt.vars, tt.code...)))
		if err != nil {
			t.Errorf("%s: %+v", tt.name, err)
			continue
		}
		checkStack(t, tt.name, i.Main().Stack(), tt.stack)
		if len(i.Frames()) != 0 && !i.Halted() {
			t.Errorf("%s: call stack not empty", tt.name)
		}
	}
}

func TestHalt(t *testing.T) {
	i, err := run(program(blueprint(vm.MainName, nil, nil, "BIPUSH 1", "HALT", "BIPUSH 2")))
	if err != nil {
		t.Fatal(err)
	}
	if !i.Halted() {
		t.Error("not halted")
	}
	if n := i.InstructionCount(); n != 2 {
		t.Errorf("expected 2 instructions, got %d", n)
	}
}

func TestLookupOpcode(t *testing.T) {
	for _, n := range []string{"bipush", "If_IcmpEq", "LDC_W", "invokevirtual"} {
		op, ok := vm.LookupOpcode(n)
		if !ok || !strings.EqualFold(op.String(), n) {
			t.Errorf("LookupOpcode(%q) = %v, %v", n, op, ok)
		}
	}
	for _, n := range []string{"label", "IMUL", ""} {
		if op, ok := vm.LookupOpcode(n); ok {
			t.Errorf("LookupOpcode(%q) = %v", n, op)
		}
	}
	if !vm.OpGoto.IsJump() || !vm.OpIfIcmpeq.IsJump() || vm.OpInvokevirtual.IsJump() {
		t.Error("IsJump")
	}
	if n := vm.OpIinc.Operands().Count(); n != 2 {
		t.Errorf("IINC operand count = %d", n)
	}
}

func TestParseLiteral(t *testing.T) {
	good := []struct {
		s string
		v vm.Cell
	}{
		{"0", 0}, {"+7", 7}, {"-2147483648", -2147483648}, {"2147483647", 2147483647},
		{"0x7f", 127}, {"-0x10", -16}, {"o777", 511}, {"'\\n'", 10}, {"'é'", 233}, {"z", 'z'},
	}
	for _, tt := range good {
		v, err := vm.ParseLiteral(tt.s)
		if err != nil || v != tt.v {
			t.Errorf("ParseLiteral(%q) = %d, %v; expected %d", tt.s, v, err, tt.v)
		}
	}
	for _, s := range []string{"", "2147483648", "0x100000000", "0xG", "o8", "12a", "'ab'", "-"} {
		if v, err := vm.ParseLiteral(s); err == nil {
			t.Errorf("ParseLiteral(%q) = %d, expected error", s, v)
		}
	}
}

func TestNewBlueprint_errors(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		vars   []string
		code   []vm.Instruction
	}{
		{"dup_local", []string{"a"}, []string{"A"}, nil},
		{"dup_label", nil, nil, code("l:", "L:")},
		{"bad_literal", nil, nil, code("BIPUSH 99999999999")},
		{"arg_count", nil, nil, []vm.Instruction{{Op: vm.OpIload}}},
		{"bad_opcode", nil, nil, []vm.Instruction{{Op: vm.Opcode(200)}}},
	}
	for _, tt := range tests {
		if _, err := vm.NewBlueprint(tt.name, tt.params, tt.vars, tt.code); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
	if _, err := vm.NewProgram(nil, nil); err == nil {
		t.Error("expected error for empty program")
	}
	m := blueprint("m", nil, nil, "BIPUSH 0", "IRETURN")
	if _, err := vm.NewProgram(nil, []*vm.Blueprint{blueprint(vm.MainName, nil, nil), m, m}); err == nil {
		t.Error("expected error for duplicate method")
	}
}
