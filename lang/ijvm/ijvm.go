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

// Package ijvm ties together the IJVM parser, semantic analyzer and virtual
// machine: it parses and checks source files, builds vm programs from checked
// parse trees and dumps interpreter state.
package ijvm

import (
	"io"
	"os"

	"github.com/db47h/ijvm/asm"
	"github.com/db47h/ijvm/internal/ngi"
	"github.com/db47h/ijvm/sema"
	"github.com/db47h/ijvm/vm"
	"github.com/pkg/errors"
)

// Result bundles a parse tree with the diagnostics produced while parsing and
// analyzing it. Errors and Warnings are empty if ParseErrors is not.
type Result struct {
	File        *asm.File
	ParseErrors asm.ErrAsm
	Errors      sema.Errors
	Warnings    sema.Warnings
}

// OK returns true if there are neither syntax nor semantic errors.
func (r *Result) OK() bool {
	return len(r.ParseErrors) == 0 && len(r.Errors) == 0
}

// Err returns the syntax errors if any, then the semantic errors if any, or
// nil.
func (r *Result) Err() error {
	if len(r.ParseErrors) > 0 {
		return r.ParseErrors
	}
	if len(r.Errors) > 0 {
		return r.Errors
	}
	return nil
}

// Report writes all diagnostics to w, one per line, in the form
//
//	file:line:col: error|warning: message
func (r *Result) Report(w io.Writer) error {
	ew := ngi.NewErrWriter(w)
	for i := range r.ParseErrors {
		e := &r.ParseErrors[i]
		ew.Printf("%s: %s: %s\n", e.Pos, sema.Error, e.Msg)
	}
	for i := range r.Errors {
		ew.Printf("%s\n", r.Errors[i].Error())
	}
	for i := range r.Warnings {
		ew.Printf("%s\n", r.Warnings[i].Error())
	}
	return ew.Err
}

// Parse parses and analyzes IJVM source code read from r. Syntax errors skip
// semantic analysis. The returned error is only non-nil for I/O errors;
// diagnostics are reported in the Result.
func Parse(name string, r io.Reader, cfg sema.Config) (*Result, error) {
	f, err := asm.Parse(name, r)
	res := &Result{File: f}
	if err != nil {
		ea, ok := err.(asm.ErrAsm)
		if !ok {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		res.ParseErrors = ea
		if cfg.Log != nil {
			cfg.Log.Infof("%s: %d syntax error(s), skipping analysis", name, len(ea))
		}
		return res, nil
	}
	res.Errors, res.Warnings = sema.Analyze(f, cfg)
	return res, nil
}

// ParseFile calls Parse on the named file.
func ParseFile(fileName string, cfg sema.Config) (*Result, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open source file")
	}
	defer f.Close()
	return Parse(fileName, f, cfg)
}

// Build builds a program from a parse result. It refuses to build programs with
// syntax or semantic errors.
func Build(res *Result) (*vm.Program, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}
	return BuildFile(res.File)
}

// BuildFile builds a program from a parse tree. The tree is expected to have
// passed semantic analysis.
func BuildFile(f *asm.File) (*vm.Program, error) {
	if f.Main == nil {
		return nil, errors.New("missing main block")
	}
	constants := make(map[string]vm.Cell, len(f.Constants))
	for _, c := range f.Constants {
		v, err := vm.ParseLiteral(c.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: constant %s", c.Pos, c.Name)
		}
		constants[c.Name] = v
	}
	bps := make([]*vm.Blueprint, 0, len(f.Methods)+1)
	for _, b := range f.Blocks() {
		bp, err := blueprint(b)
		if err != nil {
			return nil, err
		}
		bps = append(bps, bp)
	}
	return vm.NewProgram(constants, bps)
}

func blueprint(b *asm.Block) (*vm.Blueprint, error) {
	var params, vars []string
	for _, p := range b.Params {
		params = append(params, p.Name)
	}
	for _, vb := range b.Vars {
		for _, v := range vb.Names {
			vars = append(vars, v.Name)
		}
	}
	code := make([]vm.Instruction, 0, len(b.Stmts))
	for _, st := range b.Stmts {
		switch st := st.(type) {
		case *asm.Label:
			code = append(code, vm.Instruction{Op: vm.OpLabel, Args: []string{st.Name}, Line: st.Pos.Line})
		case *asm.Instr:
			args := make([]string, len(st.Args))
			for i := range st.Args {
				args[i] = st.Args[i].Name
			}
			code = append(code, vm.Instruction{Op: st.Op, Args: args, Line: st.Pos.Line})
		}
	}
	bp, err := vm.NewBlueprint(b.Name, params, vars, code)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", b.Pos)
	}
	return bp, nil
}

// Compile parses, analyzes and builds IJVM source code read from r. The Result
// is returned even if building fails, so that callers can report diagnostics.
func Compile(name string, r io.Reader, cfg sema.Config) (*vm.Program, *Result, error) {
	res, err := Parse(name, r, cfg)
	if err != nil {
		return nil, nil, err
	}
	p, err := Build(res)
	return p, res, err
}
