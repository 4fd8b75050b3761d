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

// Package vm implements an IJVM interpreter.
//
// A Program is made of a constant pool and a list of Blueprints, one for the
// main block and one per method. Blueprints are immutable templates built
// once; each method invocation instantiates a new Frame (activation record)
// with its own operand stack and its own copy of the local variables, so that
// recursive calls cannot corrupt each other's state.
//
// Programs are usually built from source by the github.com/db47h/ijvm/lang/ijvm
// package, which refuses to build programs that did not pass static analysis.
// The interpreter still checks its invariants at run time: a missing label,
// local variable, constant or method aborts execution with a *Fault.
//
// Calling convention: INVOKEVIRTUAL pops the method arguments, the deepest
// value being bound to the first parameter, then pops an object reference
// which is otherwise ignored. IRETURN pops the return value into a single slot
// register, overwriting any previous value. Execution of the frame continues
// until it runs past its last instruction; the pending value is then pushed on
// the caller's stack.
//
// For performance reasons, jump targets and literal arguments are resolved
// once when a Blueprint is created.
package vm
