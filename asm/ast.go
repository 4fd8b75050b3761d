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
	"text/scanner"

	"github.com/db47h/ijvm/vm"
)

// File is the parse tree of an IJVM source file.
type File struct {
	Name      string
	Constants []*Constant // contents of the .constant block, if any
	Main      *Block
	Methods   []*Block
}

// Blocks returns the main block followed by the methods.
func (f *File) Blocks() []*Block {
	if f.Main == nil {
		return f.Methods
	}
	return append([]*Block{f.Main}, f.Methods...)
}

// Constant is a constant declaration.
type Constant struct {
	Pos   scanner.Position
	Name  string
	Value string // literal text
}

// Ident is an identifier along with its position in the source.
type Ident struct {
	Pos  scanner.Position
	Name string
}

// Block is the main block or a method. Vars and Stmts are kept separately, in
// source order.
type Block struct {
	Pos    scanner.Position
	Name   string
	Main   bool
	Params []Ident
	Vars   []*VarBlock
	Stmts  []Stmt
}

// VarBlock is a .var block.
type VarBlock struct {
	Pos   scanner.Position
	Names []Ident
}

// Stmt is either a *Label or an *Instr.
type Stmt interface {
	Position() scanner.Position
}

// Label is a label definition.
type Label struct {
	Pos  scanner.Position
	Name string
}

// Position returns the label position.
func (l *Label) Position() scanner.Position { return l.Pos }

// Instr is an instruction. The number of arguments always matches the
// opcode's operands.
type Instr struct {
	Pos  scanner.Position
	Op   vm.Opcode
	Args []Ident
}

// Position returns the instruction position.
func (i *Instr) Position() scanner.Position { return i.Pos }

// Arg returns the text of the n-th argument, or an empty string.
func (i *Instr) Arg(n int) string {
	if n < len(i.Args) {
		return i.Args[n].Name
	}
	return ""
}
