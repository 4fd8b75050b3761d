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

// Frame is an activation record: one live instantiation of a Blueprint with
// its own operand stack and copy of the local variables.
type Frame struct {
	bp       *Blueprint
	pc       int
	returnPC int
	stack    []Cell
	locals   []Cell
	set      []bool
}

func newFrame(bp *Blueprint, returnPC int) *Frame {
	n := len(bp.Params) + len(bp.Vars)
	return &Frame{
		bp:       bp,
		pc:       -1,
		returnPC: returnPC,
		locals:   make([]Cell, n),
		set:      make([]bool, n),
	}
}

// Blueprint returns the blueprint f was instantiated from.
func (f *Frame) Blueprint() *Blueprint { return f.bp }

// PC returns the index of the instruction being (or last) executed. It is -1
// before the first instruction.
func (f *Frame) PC() int { return f.pc }

// ReturnPC returns the caller's PC saved at call time.
func (f *Frame) ReturnPC() int { return f.returnPC }

// Stack returns the operand stack, bottom first. Note that value changes will
// be reflected in the frame's stack, but re-slicing will not affect it.
func (f *Frame) Stack() []Cell { return f.stack }

// Local returns the value of the named local variable. ok is false if the
// variable does not exist or has never been assigned.
func (f *Frame) Local(name string) (v Cell, ok bool) {
	s, ok := f.bp.Slot(name)
	if !ok || !f.set[s] {
		return 0, false
	}
	return f.locals[s], true
}

// Push pushes v on top of the operand stack.
func (f *Frame) Push(v Cell) {
	f.stack = append(f.stack, v)
}

// Pop pops the value on top of the operand stack and returns it. Popping an
// empty stack panics with a *Fault, which Run recovers.
func (f *Frame) Pop() Cell {
	sp := len(f.stack) - 1
	if sp < 0 {
		panic(f.fault(StackUnderflow, ""))
	}
	v := f.stack[sp]
	f.stack = f.stack[:sp]
	return v
}

func (f *Frame) tos() *Cell {
	if len(f.stack) == 0 {
		panic(f.fault(StackUnderflow, ""))
	}
	return &f.stack[len(f.stack)-1]
}

func (f *Frame) slot(name string) int {
	s, ok := f.bp.Slot(name)
	if !ok {
		panic(f.fault(MissingLocal, name))
	}
	return s
}

func (f *Frame) load(name string) Cell {
	s := f.slot(name)
	if !f.set[s] {
		panic(f.fault(UnsetLocal, name))
	}
	return f.locals[s]
}

func (f *Frame) store(name string, v Cell) {
	s := f.slot(name)
	f.locals[s], f.set[s] = v, true
}

func (f *Frame) fault(k FaultKind, msg string) *Fault {
	return &Fault{Kind: k, Scope: f.bp.Name, PC: f.pc, Msg: msg}
}
