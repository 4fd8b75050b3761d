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

// Snapshot is a copy of the interpreter state, suitable for display.
type Snapshot struct {
	Frames        []FrameState `yaml:"frames"`
	PendingReturn *Cell        `yaml:"pending_return,omitempty"`
	Instructions  int64        `yaml:"instructions"`
	Halted        bool         `yaml:"halted,omitempty"`
}

// FrameState describes a single frame in a Snapshot.
type FrameState struct {
	Scope    string       `yaml:"scope"`
	PC       int          `yaml:"pc"`
	ReturnPC int          `yaml:"return_pc"`
	Next     string       `yaml:"instruction,omitempty"`
	Stack    []Cell       `yaml:"stack,flow"`
	Locals   []LocalState `yaml:"locals,omitempty"`
	Done     bool         `yaml:"done,omitempty"`
}

// LocalState is the value of a local variable. Value is nil if the variable
// has not been assigned yet.
type LocalState struct {
	Name  string `yaml:"name"`
	Value *Cell  `yaml:"value"`
}

// State returns a snapshot of the frame.
func (f *Frame) State() FrameState {
	s := FrameState{
		Scope:    f.bp.Name,
		PC:       f.PC(),
		ReturnPC: f.ReturnPC(),
		Stack:    append([]Cell{}, f.Stack()...),
	}
	if f.pc >= 0 && f.pc < len(f.bp.Instructions) {
		s.Next = f.bp.Instructions[f.pc].String()
	}
	for k, n := range f.bp.Locals() {
		l := LocalState{Name: n}
		if f.set[k] {
			v := f.locals[k]
			l.Value = &v
		}
		s.Locals = append(s.Locals, l)
	}
	return s
}

// Snapshot returns a copy of the current state. Once the program has
// terminated normally, the call stack is empty and the snapshot only contains
// the final state of the main frame, marked as done.
func (i *Instance) Snapshot() *Snapshot {
	s := &Snapshot{
		Instructions: i.insCount,
		Halted:       i.halted,
	}
	for _, f := range i.frames {
		s.Frames = append(s.Frames, f.State())
	}
	if len(i.frames) == 0 && i.main != nil {
		fs := i.main.State()
		fs.Done = true
		s.Frames = append(s.Frames, fs)
	}
	if i.hasRet {
		v := i.ret
		s.PendingReturn = &v
	}
	return s
}
