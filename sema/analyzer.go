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
	"fmt"
	"text/scanner"

	"github.com/db47h/ijvm/asm"
	"github.com/db47h/ijvm/vm"
	"github.com/tliron/commonlog"
)

// Config configures an Analyzer.
type Config struct {
	// Log receives progress messages at debug level. May be nil.
	Log commonlog.Logger
	// Trace logs the simulated stack depth after each instruction.
	Trace bool
}

type pass int

const (
	passDeclare pass = iota + 1
	passLabels
	passAnalyze
)

func (p pass) String() string {
	switch p {
	case passDeclare:
		return "declarations"
	case passLabels:
		return "labels"
	case passAnalyze:
		return "analysis"
	}
	return "none"
}

// Analyzer is a three pass semantic analyzer.
//
// The first pass collects constants and method signatures, the second one
// collects the labels of each block, and the third one checks every block: var
// block placement, variable declarations, symbol references, initialization
// of variables before use, stack depth and method termination.
//
// Stack depth is simulated on the flat instruction list, ignoring branches,
// so underflows are only reported as warnings. After an underflow the
// simulated depth restarts at zero rather than going negative, so one missing
// value is reported once instead of on every following instruction.
type Analyzer struct {
	cfg    Config
	table  *Table
	pass   pass
	labels map[string]map[string]bool
	skip   map[*asm.Block]bool
	errs   Errors
	warns  Warnings
}

// New returns a new Analyzer.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze runs semantic analysis on f and returns the errors and warnings
// found. f must be free of syntax errors.
func Analyze(f *asm.File, cfg Config) (Errors, Warnings) {
	return New(cfg).Analyze(f)
}

// Analyze runs all three passes on f. It can be called several times; each
// call starts with a new symbol table.
func (a *Analyzer) Analyze(f *asm.File) (Errors, Warnings) {
	a.table = NewTable()
	a.labels = make(map[string]map[string]bool)
	a.skip = make(map[*asm.Block]bool)
	a.errs, a.warns = nil, nil
	for a.pass = passDeclare; a.pass <= passAnalyze; a.pass++ {
		a.debugf("%s: pass %d (%v)", f.Name, a.pass, a.pass)
		a.visitFile(f)
	}
	a.debugf("%s: %d error(s), %d warning(s)", f.Name, len(a.errs), len(a.warns))
	return a.errs, a.warns
}

// Table returns the symbol table built by the last call to Analyze.
func (a *Analyzer) Table() *Table {
	return a.table
}

func (a *Analyzer) debugf(format string, args ...interface{}) {
	if a.cfg.Log != nil {
		a.cfg.Log.Debugf(format, args...)
	}
}

func (a *Analyzer) errorAt(pos scanner.Position, format string, args ...interface{}) {
	a.errs = append(a.errs, Diagnostic{pos, Error, fmt.Sprintf(format, args...)})
}

func (a *Analyzer) warnAt(pos scanner.Position, format string, args ...interface{}) {
	a.warns = append(a.warns, Diagnostic{pos, Warning, fmt.Sprintf(format, args...)})
}

func scopeOf(b *asm.Block) string {
	if b.Main {
		return MainScope
	}
	return ScopeName(b.Name)
}

func (a *Analyzer) visitFile(f *asm.File) {
	if a.pass == passDeclare {
		a.visitConstants(f.Constants)
	}
	for _, b := range f.Blocks() {
		if !a.skip[b] {
			a.visitBlock(b)
		}
	}
}

func (a *Analyzer) visitConstants(cs []*asm.Constant) {
	for _, c := range cs {
		v, err := vm.ParseLiteral(c.Value)
		if err != nil {
			a.errorAt(c.Pos, "constant %s: %v", c.Name, err)
			continue
		}
		if s, ok := a.table.LookupLocal(c.Name); ok {
			a.errorAt(c.Pos, "constant %s already defined as %v here: %s", c.Name, s.Kind, s.Pos)
			continue
		}
		a.table.AddConstant(c.Name, v, c.Pos)
	}
}

func (a *Analyzer) visitBlock(b *asm.Block) {
	switch a.pass {
	case passDeclare:
		if !b.Main {
			a.declareMethod(b)
		}
	case passLabels:
		a.table.EnterScope(scopeOf(b))
		a.collectLabels(b)
		a.table.ExitScope()
	case passAnalyze:
		a.table.EnterScope(scopeOf(b))
		for _, p := range b.Params {
			if s, ok := a.table.LookupLocal(p.Name); !ok || s.Kind != VariableSym {
				a.table.AddParameter(p.Name, p.Pos)
			}
		}
		a.checkVarPlacement(b)
		a.declareVars(b)
		a.checkStatements(b)
		a.checkTermination(b)
		a.table.ExitScope()
	}
}

func (a *Analyzer) declareMethod(b *asm.Block) {
	if s, ok := a.table.LookupLocal(b.Name); ok {
		a.errorAt(b.Pos, "method %s already defined as %v here: %s", b.Name, s.Kind, s.Pos)
		a.skip[b] = true
		return
	}
	var params []string
	seen := make(map[string]bool)
	for _, p := range b.Params {
		k := fold(p.Name)
		if seen[k] {
			a.errorAt(p.Pos, "duplicate parameter %s in method %s", p.Name, b.Name)
			continue
		}
		seen[k] = true
		params = append(params, p.Name)
	}
	a.table.AddMethod(b.Name, params, b.Pos)
}

func (a *Analyzer) collectLabels(b *asm.Block) {
	set := make(map[string]bool)
	for _, st := range b.Stmts {
		l, ok := st.(*asm.Label)
		if !ok {
			continue
		}
		if s, ok := a.table.LookupLocal(l.Name); ok && s.Kind == LabelSym {
			a.errorAt(l.Pos, "label %s already defined here: %s", l.Name, s.Pos)
			continue
		}
		a.table.AddLabel(l.Name, l.Pos)
		set[fold(l.Name)] = true
	}
	a.labels[scopeOf(b)] = set
}

// checkVarPlacement flags all var blocks of b if any instruction precedes any
// of them.
func (a *Analyzer) checkVarPlacement(b *asm.Block) {
	if len(b.Vars) == 0 || len(b.Stmts) == 0 {
		return
	}
	first := b.Stmts[0].Position().Line
	for _, st := range b.Stmts[1:] {
		if l := st.Position().Line; l < first {
			first = l
		}
	}
	misplaced := false
	for _, vb := range b.Vars {
		if first < vb.Pos.Line {
			misplaced = true
			break
		}
	}
	if !misplaced {
		return
	}
	for _, vb := range b.Vars {
		a.errorAt(vb.Pos, ".var block must precede all instructions in %s", b.Name)
	}
}

func (a *Analyzer) declareVars(b *asm.Block) {
	for _, vb := range b.Vars {
		for _, v := range vb.Names {
			if s, ok := a.table.LookupLocal(v.Name); ok && s.Kind == VariableSym {
				if s.Param {
					a.errorAt(v.Pos, "variable %s conflicts with a parameter of method %s", v.Name, b.Name)
				} else {
					a.errorAt(v.Pos, "variable %s already defined here: %s", v.Name, s.Pos)
				}
				continue
			}
			a.table.AddVariable(v.Name, v.Pos)
		}
	}
}

// stack depth simulation
type depth struct {
	a *Analyzer
	n int
}

// need warns if fewer than n values are on the stack.
func (d *depth) need(ins *asm.Instr, n int) {
	if d.n < n {
		d.a.warnAt(ins.Pos, "possible stack underflow: %v needs %d value(s), stack may hold %d", ins.Op, n, d.n)
	}
}

func (d *depth) add(delta int) {
	d.n += delta
	if d.n < 0 {
		d.n = 0
	}
}

func (a *Analyzer) checkStatements(b *asm.Block) {
	d := depth{a: a}
	for _, st := range b.Stmts {
		ins, ok := st.(*asm.Instr)
		if !ok {
			continue
		}
		a.checkInstr(b, ins, &d)
		if a.cfg.Trace {
			a.debugf("%s: %v: depth %d", ins.Pos, ins.Op, d.n)
		}
	}
}

func (a *Analyzer) checkInstr(b *asm.Block, ins *asm.Instr, d *depth) {
	switch ins.Op {
	case vm.OpBipush:
		a.checkLiteral(ins, ins.Args[0])
		d.add(1)
	case vm.OpLdcW:
		a.checkSymbol(ins.Args[0], ConstantSym)
		d.add(1)
	case vm.OpIn:
		d.add(1)
	case vm.OpIload:
		if a.checkVariable(ins.Args[0], true) {
			d.add(1)
		}
	case vm.OpIstore:
		d.need(ins, 1)
		d.add(-1)
		if a.checkVariable(ins.Args[0], false) {
			a.table.MarkInitialized(ins.Args[0].Name)
		}
	case vm.OpIinc:
		a.checkVariable(ins.Args[0], true)
		a.checkLiteral(ins, ins.Args[1])
	case vm.OpPop, vm.OpOut:
		d.need(ins, 1)
		d.add(-1)
	case vm.OpIadd, vm.OpIsub, vm.OpIand, vm.OpIor:
		d.need(ins, 2)
		d.add(-1)
	case vm.OpDup:
		d.need(ins, 1)
		d.add(1)
	case vm.OpSwap:
		d.need(ins, 2)
	case vm.OpIfeq, vm.OpIflt:
		d.need(ins, 1)
		d.add(-1)
		a.checkLabel(b, ins.Args[0])
	case vm.OpIfIcmpeq:
		d.need(ins, 2)
		d.add(-2)
		a.checkLabel(b, ins.Args[0])
	case vm.OpGoto:
		a.checkLabel(b, ins.Args[0])
	case vm.OpInvokevirtual:
		k := 0
		if a.checkSymbol(ins.Args[0], MethodSym) {
			k, _ = a.table.MethodParamCount(ins.Args[0].Name)
		}
		d.need(ins, k+1)
		d.add(-k)
	case vm.OpIreturn:
		d.need(ins, 1)
		d.n = 0
	case vm.OpHalt, vm.OpNop:
	default:
		a.errorAt(ins.Pos, "unsupported instruction %v", ins.Op)
	}
}

func (a *Analyzer) checkLiteral(ins *asm.Instr, lit asm.Ident) {
	if _, err := vm.ParseLiteral(lit.Name); err != nil {
		a.errorAt(lit.Pos, "%v: %v", ins.Op, err)
	}
}

// checkSymbol checks that id refers to a symbol of the given kind.
func (a *Analyzer) checkSymbol(id asm.Ident, k Kind) bool {
	s, ok := a.lookup(id.Name)
	if !ok {
		a.errorAt(id.Pos, "undefined %v %s", k, id.Name)
		return false
	}
	if s.Kind != k {
		a.errorAt(id.Pos, "%s is a %v, not a %v", id.Name, s.Kind, k)
		return false
	}
	return true
}

// lookup looks up a constant, variable or method. Labels live in their own
// namespace.
func (a *Analyzer) lookup(name string) (*Symbol, bool) {
	s, ok := a.table.Lookup(name)
	if ok && s.Kind == LabelSym {
		s, ok = a.table.scopes[Global][fold(name)]
	}
	return s, ok
}

func (a *Analyzer) checkVariable(id asm.Ident, needInit bool) bool {
	if !a.checkSymbol(id, VariableSym) {
		return false
	}
	if s, _ := a.lookup(id.Name); needInit && !s.Initialized {
		a.errorAt(id.Pos, "variable %s used before being initialized", id.Name)
		return false
	}
	return true
}

func (a *Analyzer) checkLabel(b *asm.Block, id asm.Ident) {
	if a.labels[scopeOf(b)][fold(id.Name)] {
		return
	}
	for scope, set := range a.labels {
		if set[fold(id.Name)] {
			a.errorAt(id.Pos, "undefined label %s in %s (labels are local, found one in %s)", id.Name, b.Name, scopeDisplay(scope))
			return
		}
	}
	a.errorAt(id.Pos, "undefined label %s in %s", id.Name, b.Name)
}

func scopeDisplay(scope string) string {
	if scope == MainScope {
		return vm.MainName
	}
	return "method " + scope
}

// checkTermination warns about instructions following an IRETURN and checks
// that methods end with IRETURN. This works on the flat instruction list, not
// on actual control flow.
func (a *Analyzer) checkTermination(b *asm.Block) {
	var code []*asm.Instr
	for _, st := range b.Stmts {
		if ins, ok := st.(*asm.Instr); ok {
			code = append(code, ins)
		}
	}
	ret := false
	for i, ins := range code {
		if ins.Op != vm.OpIreturn {
			continue
		}
		ret = true
		if i+1 < len(code) {
			a.warnAt(code[i+1].Pos, "unreachable code after IRETURN at %s", ins.Pos)
		}
	}
	if b.Main || len(code) > 0 && code[len(code)-1].Op == vm.OpIreturn {
		return
	}
	if ret {
		a.warnAt(b.Pos, "method %s does not end with IRETURN on its primary path but has one elsewhere", b.Name)
		return
	}
	a.errorAt(b.Pos, "method %s must end with IRETURN", b.Name)
}
