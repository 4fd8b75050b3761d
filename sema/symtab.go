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

package sema

import (
	"strings"
	"text/scanner"

	"github.com/db47h/ijvm/vm"
)

// Kind is the kind of a symbol.
type Kind int

// Symbol kinds.
const (
	ConstantSym Kind = iota
	VariableSym
	MethodSym
	LabelSym
)

func (k Kind) String() string {
	switch k {
	case ConstantSym:
		return "constant"
	case VariableSym:
		return "variable"
	case MethodSym:
		return "method"
	case LabelSym:
		return "label"
	}
	return "unknown"
}

// Global is the name of the global scope.
const Global = ""

// MainScope is the scope name of the main block. It cannot clash with a method
// name.
const MainScope = ".main"

// Symbol is a symbol table entry. Only variables carry a meaningful
// Initialized flag, other symbols are defined when created.
type Symbol struct {
	Name        string
	Kind        Kind
	Scope       string
	Pos         scanner.Position
	Value       vm.Cell  // constants
	Params      []string // methods
	Param       bool     // variables: true for method parameters
	Initialized bool     // variables
}

// Table is a scoped symbol table. Names are case insensitive. Lookups in a
// scope fall back to the global scope.
type Table struct {
	scopes  map[string]map[string]*Symbol
	current string
}

// NewTable returns a new empty symbol table with the global scope active.
func NewTable() *Table {
	return &Table{
		scopes: map[string]map[string]*Symbol{Global: make(map[string]*Symbol)},
	}
}

func fold(name string) string { return strings.ToUpper(name) }

// ScopeName returns the scope name of a method.
func ScopeName(method string) string { return fold(method) }

// EnterScope makes the named scope active, creating it if needed.
func (t *Table) EnterScope(name string) {
	if t.scopes[name] == nil {
		t.scopes[name] = make(map[string]*Symbol)
	}
	t.current = name
}

// ExitScope makes the global scope active.
func (t *Table) ExitScope() {
	t.current = Global
}

// Scope returns the name of the active scope.
func (t *Table) Scope() string {
	return t.current
}

// add stores s in the active scope, replacing any existing entry.
func (t *Table) add(s *Symbol) *Symbol {
	s.Scope = t.current
	t.scopes[t.current][fold(s.Name)] = s
	return s
}

// AddConstant adds a constant to the active scope.
func (t *Table) AddConstant(name string, v vm.Cell, pos scanner.Position) *Symbol {
	return t.add(&Symbol{Name: name, Kind: ConstantSym, Value: v, Pos: pos})
}

// AddVariable adds a variable to the active scope.
func (t *Table) AddVariable(name string, pos scanner.Position) *Symbol {
	return t.add(&Symbol{Name: name, Kind: VariableSym, Pos: pos})
}

// AddParameter adds a method parameter to the active scope. Parameters are
// variables initialized from the start.
func (t *Table) AddParameter(name string, pos scanner.Position) *Symbol {
	return t.add(&Symbol{Name: name, Kind: VariableSym, Pos: pos, Param: true, Initialized: true})
}

// AddMethod adds a method to the active scope.
func (t *Table) AddMethod(name string, params []string, pos scanner.Position) *Symbol {
	return t.add(&Symbol{Name: name, Kind: MethodSym, Params: params, Pos: pos})
}

// AddLabel adds a label to the active scope.
func (t *Table) AddLabel(name string, pos scanner.Position) *Symbol {
	return t.add(&Symbol{Name: name, Kind: LabelSym, Pos: pos})
}

// Lookup looks up a symbol in the active scope, then in the global scope.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	k := fold(name)
	if s, ok := t.scopes[t.current][k]; ok {
		return s, true
	}
	s, ok := t.scopes[Global][k]
	return s, ok
}

// LookupLocal looks up a symbol in the active scope only.
func (t *Table) LookupLocal(name string) (*Symbol, bool) {
	s, ok := t.scopes[t.current][fold(name)]
	return s, ok
}

// MarkInitialized marks the named variable as initialized. It returns false if
// no such variable is visible from the active scope.
func (t *Table) MarkInitialized(name string) bool {
	s, ok := t.Lookup(name)
	if !ok || s.Kind != VariableSym {
		return false
	}
	s.Initialized = true
	return true
}

// MethodExists returns true if a method with the given name has been declared.
func (t *Table) MethodExists(name string) bool {
	s, ok := t.scopes[Global][fold(name)]
	return ok && s.Kind == MethodSym
}

// MethodParamCount returns the number of parameters of the named method.
func (t *Table) MethodParamCount(name string) (int, bool) {
	s, ok := t.scopes[Global][fold(name)]
	if !ok || s.Kind != MethodSym {
		return 0, false
	}
	return len(s.Params), true
}
