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
	"strconv"
	"strings"
)

// Opcode identifies an IJVM instruction.
type Opcode uint8

// IJVM opcodes. OpLabel is a pseudo instruction marking a jump target; it
// carries the label name as its only argument and does nothing when executed.
const (
	OpLabel Opcode = iota
	OpBipush
	OpDup
	OpGoto
	OpHalt
	OpIadd
	OpIand
	OpIfeq
	OpIflt
	OpIfIcmpeq
	OpIinc
	OpIload
	OpIn
	OpInvokevirtual
	OpIor
	OpIreturn
	OpIstore
	OpIsub
	OpLdcW
	OpNop
	OpOut
	OpPop
	OpSwap
	opCount
)

// Operands describes the arguments an instruction expects.
type Operands uint8

// Operand kinds.
const (
	NoArgs     Operands = iota // no argument
	Literal                    // integer or character literal
	Variable                   // local variable name
	VarLiteral                 // local variable name, then a literal
	Constant                   // constant pool name
	Method                     // method name
	Target                     // label name
)

// Count returns the number of arguments for the operand kind.
func (o Operands) Count() int {
	switch o {
	case NoArgs:
		return 0
	case VarLiteral:
		return 2
	}
	return 1
}

var opcodes = [...]struct {
	name string
	args Operands
}{
	OpLabel:         {"label", Target},
	OpBipush:        {"BIPUSH", Literal},
	OpDup:           {"DUP", NoArgs},
	OpGoto:          {"GOTO", Target},
	OpHalt:          {"HALT", NoArgs},
	OpIadd:          {"IADD", NoArgs},
	OpIand:          {"IAND", NoArgs},
	OpIfeq:          {"IFEQ", Target},
	OpIflt:          {"IFLT", Target},
	OpIfIcmpeq:      {"IF_ICMPEQ", Target},
	OpIinc:          {"IINC", VarLiteral},
	OpIload:         {"ILOAD", Variable},
	OpIn:            {"IN", NoArgs},
	OpInvokevirtual: {"INVOKEVIRTUAL", Method},
	OpIor:           {"IOR", NoArgs},
	OpIreturn:       {"IRETURN", NoArgs},
	OpIstore:        {"ISTORE", Variable},
	OpIsub:          {"ISUB", NoArgs},
	OpLdcW:          {"LDC_W", Constant},
	OpNop:           {"NOP", NoArgs},
	OpOut:           {"OUT", NoArgs},
	OpPop:           {"POP", NoArgs},
	OpSwap:          {"SWAP", NoArgs},
}

var opcodeIndex = make(map[string]Opcode)

func init() {
	for i := OpLabel + 1; i < opCount; i++ {
		opcodeIndex[opcodes[i].name] = i
	}
}

// LookupOpcode returns the opcode for the given mnemonic. The lookup is case
// insensitive. The label pseudo instruction has no mnemonic.
func LookupOpcode(mnemonic string) (Opcode, bool) {
	op, ok := opcodeIndex[strings.ToUpper(mnemonic)]
	return op, ok
}

// Valid reports whether op is a known opcode.
func (op Opcode) Valid() bool {
	return op < opCount
}

func (op Opcode) String() string {
	if op.Valid() {
		return opcodes[op].name
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Operands returns the kind of arguments op expects.
func (op Opcode) Operands() Operands {
	if op.Valid() {
		return opcodes[op].args
	}
	return NoArgs
}

// IsJump returns true for control transfer instructions taking a label.
func (op Opcode) IsJump() bool {
	switch op {
	case OpGoto, OpIfeq, OpIflt, OpIfIcmpeq:
		return true
	}
	return false
}
