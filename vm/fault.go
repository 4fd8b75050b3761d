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

import "strconv"

// FaultKind classifies runtime faults.
type FaultKind int

// Fault kinds. Apart from InputError and OutputError, faults signal an
// inconsistency that static analysis should have rejected.
const (
	MissingLabel FaultKind = iota
	MissingLocal
	UnsetLocal
	MissingConstant
	MissingMethod
	UnknownOpcode
	StackUnderflow
	StackOverflow
	InputError
	OutputError
)

var faultNames = [...]string{
	MissingLabel:    "missing label",
	MissingLocal:    "missing local variable",
	UnsetLocal:      "unset local variable",
	MissingConstant: "missing constant",
	MissingMethod:   "missing method",
	UnknownOpcode:   "unknown opcode",
	StackUnderflow:  "stack underflow",
	StackOverflow:   "call stack overflow",
	InputError:      "input error",
	OutputError:     "output error",
}

func (k FaultKind) String() string {
	if k >= 0 && int(k) < len(faultNames) {
		return faultNames[k]
	}
	return "fault " + strconv.Itoa(int(k))
}

// Fault is the error returned by Run when execution aborts. Scope and PC
// locate the faulting instruction.
type Fault struct {
	Kind  FaultKind
	Scope string
	PC    int
	Msg   string
	Err   error // underlying I/O error, if any
}

func (f *Fault) Error() string {
	s := f.Scope + ":" + strconv.Itoa(f.PC) + ": " + f.Kind.String()
	if f.Msg != "" {
		s += " " + f.Msg
	}
	if f.Err != nil {
		s += ": " + f.Err.Error()
	}
	return s
}

// Unwrap returns the underlying I/O error, if any.
func (f *Fault) Unwrap() error { return f.Err }
