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
	"strings"

	"github.com/pkg/errors"
)

// MainName is the blueprint name of the main block.
const MainName = "main"

// Instruction is a single IJVM instruction. Args holds the instruction
// arguments as written in the source; their meaning depends on Op.
type Instruction struct {
	Op   Opcode
	Args []string
	Line int // source line, 0 if unknown
}

// Arg returns the n-th argument or an empty string.
func (ins *Instruction) Arg(n int) string {
	if n < len(ins.Args) {
		return ins.Args[n]
	}
	return ""
}

func (ins *Instruction) String() string {
	if ins.Op == OpLabel {
		return ins.Arg(0) + ":"
	}
	if len(ins.Args) == 0 {
		return ins.Op.String()
	}
	return ins.Op.String() + " " + strings.Join(ins.Args, " ")
}

// Blueprint is the immutable template of a method (or of the main block).
// Frames are instantiated from it on each invocation.
type Blueprint struct {
	Name         string
	Params       []string // in call binding order
	Vars         []string // declared variables, in declaration order
	Instructions []Instruction

	labels map[string]int
	slots  map[string]int
	imm    []Cell
}

func foldName(s string) string { return strings.ToUpper(s) }

// NewBlueprint creates a new blueprint and precomputes its label and local
// variable indices. Literal arguments are decoded once here.
//
// Local variable slots are allocated parameters first, then variables.
func NewBlueprint(name string, params, vars []string, code []Instruction) (*Blueprint, error) {
	b := &Blueprint{
		Name:         name,
		Params:       params,
		Vars:         vars,
		Instructions: code,
		labels:       make(map[string]int),
		slots:        make(map[string]int, len(params)+len(vars)),
		imm:          make([]Cell, len(code)),
	}
	for _, n := range b.Locals() {
		k := foldName(n)
		if _, ok := b.slots[k]; ok {
			return nil, errors.Errorf("%s: duplicate local %s", name, n)
		}
		b.slots[k] = len(b.slots)
	}
	for pc := range code {
		ins := &code[pc]
		if !ins.Op.Valid() {
			return nil, errors.Errorf("%s:%d: invalid opcode %d", name, pc, ins.Op)
		}
		if n := ins.Op.Operands().Count(); len(ins.Args) != n {
			return nil, errors.Errorf("%s:%d: %v expects %d arguments, got %d", name, pc, ins.Op, n, len(ins.Args))
		}
		switch ins.Op {
		case OpLabel:
			k := foldName(ins.Args[0])
			if _, ok := b.labels[k]; ok {
				return nil, errors.Errorf("%s:%d: duplicate label %s", name, pc, ins.Args[0])
			}
			b.labels[k] = pc
		case OpBipush, OpIinc:
			lit := ins.Args[len(ins.Args)-1]
			v, err := ParseLiteral(lit)
			if err != nil {
				return nil, errors.Wrapf(err, "%s:%d", name, pc)
			}
			b.imm[pc] = v
		}
	}
	return b, nil
}

// Locals returns the names of all local variable slots: parameters first,
// then declared variables.
func (b *Blueprint) Locals() []string {
	l := make([]string, 0, len(b.Params)+len(b.Vars))
	l = append(l, b.Params...)
	return append(l, b.Vars...)
}

// Label returns the index of the label instruction with the given name.
func (b *Blueprint) Label(name string) (pc int, ok bool) {
	pc, ok = b.labels[foldName(name)]
	return pc, ok
}

// Slot returns the local variable slot for the given name.
func (b *Blueprint) Slot(name string) (slot int, ok bool) {
	slot, ok = b.slots[foldName(name)]
	return slot, ok
}

// Program is a built IJVM program: a constant pool and a list of blueprints,
// the first one being the main block.
type Program struct {
	Constants  map[string]Cell
	Blueprints []*Blueprint

	methods map[string]*Blueprint
}

// NewProgram returns a new program. Constant names are case insensitive. The
// first blueprint is the entry point.
func NewProgram(constants map[string]Cell, bps []*Blueprint) (*Program, error) {
	if len(bps) == 0 || bps[0] == nil {
		return nil, errors.New("program has no main block")
	}
	p := &Program{
		Constants:  make(map[string]Cell, len(constants)),
		Blueprints: bps,
		methods:    make(map[string]*Blueprint, len(bps)-1),
	}
	for n, v := range constants {
		p.Constants[foldName(n)] = v
	}
	for _, b := range bps[1:] {
		k := foldName(b.Name)
		if _, ok := p.methods[k]; ok {
			return nil, errors.Errorf("duplicate method %s", b.Name)
		}
		p.methods[k] = b
	}
	return p, nil
}

// Main returns the main blueprint.
func (p *Program) Main() *Blueprint {
	return p.Blueprints[0]
}

// Method returns the blueprint of the named method.
func (p *Program) Method(name string) (*Blueprint, bool) {
	b, ok := p.methods[foldName(name)]
	return b, ok
}

// Constant returns the value of the named constant.
func (p *Program) Constant(name string) (Cell, bool) {
	v, ok := p.Constants[foldName(name)]
	return v, ok
}
