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

// Package sema implements semantic analysis of IJVM programs.
//
// The analyzer works on the parse tree produced by package asm and builds a
// scoped symbol table: constants and methods live in the global scope, while
// the main block and each method get their own scope for variables, parameters
// and labels. Symbol names are case insensitive.
//
// Errors (undefined or duplicate symbols, wrong symbol kinds, reads of
// uninitialized variables, misplaced .var blocks, methods that never return)
// prevent a program from being built. Warnings (possible stack underflows,
// unreachable code after IRETURN) are informational only: they come from a
// simulation of the operand stack depth over the flat instruction list, which
// ignores branches.
package sema
