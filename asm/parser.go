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
	"fmt"
	"io"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/db47h/ijvm/vm"
)

func isIdentRune(ch rune, i int) bool {
	return ch == '_' || ch == '.' || ch == '-' || ch == '+' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// isName returns true if s is a valid symbol name.
func isName(s string) bool {
	for i, ch := range s {
		if ch == '_' || unicode.IsLetter(ch) || i > 0 && unicode.IsDigit(ch) {
			continue
		}
		return false
	}
	return s != ""
}

type token struct {
	tok  rune
	text string
	pos  scanner.Position
}

// parser states
const (
	stTop = iota
	stConst
	stBlock
	stVar
)

type parser struct {
	s      scanner.Scanner
	f      *File
	errs   ErrAsm
	line   []token
	eof    bool
	state  int
	consts bool
	block  *Block
	vars   *VarBlock
}

func newParser(name string) *parser {
	return &parser{f: &File{Name: name}}
}

func (p *parser) errorAt(pos scanner.Position, format string, args ...interface{}) {
	if len(p.errs) >= maxErrors {
		return
	}
	p.errs = append(p.errs, Error{pos, fmt.Sprintf(format, args...)})
}

// readLine reads the tokens of the next non-empty line into p.line.
func (p *parser) readLine() bool {
	p.line = p.line[:0]
	for !p.eof {
		tok := p.s.Scan()
		switch tok {
		case scanner.EOF:
			p.eof = true
		case '\n':
			if len(p.line) > 0 {
				return true
			}
		case ';':
			// line comment
			for ch := p.s.Peek(); ch != '\n' && ch != scanner.EOF; ch = p.s.Peek() {
				p.s.Next()
			}
		default:
			p.line = append(p.line, token{tok, p.s.TokenText(), p.s.Position})
		}
	}
	return len(p.line) > 0
}

// Parse does the parsing.
func (p *parser) Parse(r io.Reader) (*File, error) {
	p.s.Init(r)
	p.s.Filename = p.f.Name
	p.s.Error = func(s *scanner.Scanner, msg string) {
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		p.errorAt(pos, "%s", msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents | scanner.ScanChars | scanner.ScanComments | scanner.SkipComments
	p.s.Whitespace = 1<<'\t' | 1<<'\r' | 1<<' '

	for p.readLine() {
		switch p.state {
		case stTop:
			p.parseTop()
		case stConst:
			p.parseConstant()
		case stBlock:
			p.parseStatement(p.line)
		case stVar:
			p.parseVar()
		}
	}

	eofPos := p.s.Pos()
	switch p.state {
	case stConst:
		p.errorAt(eofPos, "missing .end-constant")
	case stVar:
		p.errorAt(p.vars.Pos, "missing .end-var")
		fallthrough
	case stBlock:
		if p.block.Main {
			p.errorAt(p.block.Pos, "missing .end-main")
		} else {
			p.errorAt(p.block.Pos, "missing .end-method for method %s", p.block.Name)
		}
	}
	if p.f.Main == nil && p.state == stTop {
		p.errorAt(eofPos, "missing .main block")
	}
	if len(p.errs) > 0 {
		return p.f, p.errs
	}
	return p.f, nil
}

func directive(t token) string {
	if t.tok == scanner.Ident && strings.HasPrefix(t.text, ".") {
		return strings.ToLower(t.text)
	}
	return ""
}

// noMore reports an error if there are extra tokens after l[n-1].
func (p *parser) noMore(l []token, n int) bool {
	if len(l) > n {
		p.errorAt(l[n].pos, "unexpected %s", l[n].text)
		return false
	}
	return true
}

func (p *parser) parseTop() {
	l := p.line
	switch d := directive(l[0]); d {
	case ".constant":
		if p.consts {
			p.errorAt(l[0].pos, "duplicate .constant block")
		}
		p.consts = true
		p.noMore(l, 1)
		p.state = stConst
	case ".main":
		if p.f.Main != nil {
			p.errorAt(l[0].pos, "duplicate .main block, previous definition here: %s", p.f.Main.Pos)
		}
		p.noMore(l, 1)
		p.block = &Block{Pos: l[0].pos, Name: vm.MainName, Main: true}
		p.state = stBlock
	case ".method":
		p.block = p.parseMethodDecl(l)
		p.state = stBlock
	default:
		p.errorAt(l[0].pos, "unexpected %s outside of a block", l[0].text)
	}
}

// parseMethodDecl parses ".method NAME", ".method NAME()" or
// ".method NAME(p1, p2, ...)".
func (p *parser) parseMethodDecl(l []token) *Block {
	b := &Block{Pos: l[0].pos}
	if len(l) < 2 || !isName(l[1].text) {
		p.errorAt(l[0].pos, ".method: expected method name")
		return b
	}
	b.Name = l[1].text
	if len(l) == 2 {
		return b
	}
	if l[2].tok != '(' {
		p.errorAt(l[2].pos, ".method: expected '(', got %s", l[2].text)
		return b
	}
	n := 3
	for n < len(l) && l[n].tok != ')' {
		if len(b.Params) > 0 {
			if l[n].tok != ',' {
				p.errorAt(l[n].pos, ".method: expected ',' or ')', got %s", l[n].text)
				return b
			}
			n++
			if n >= len(l) {
				break
			}
		}
		if l[n].tok != scanner.Ident || !isName(l[n].text) {
			p.errorAt(l[n].pos, ".method: invalid parameter name %s", l[n].text)
			return b
		}
		b.Params = append(b.Params, Ident{l[n].pos, l[n].text})
		n++
	}
	if n >= len(l) {
		p.errorAt(l[len(l)-1].pos, ".method: missing ')'")
		return b
	}
	p.noMore(l, n+1)
	return b
}

func (p *parser) parseConstant() {
	l := p.line
	if d := directive(l[0]); d != "" {
		if d != ".end-constant" {
			p.errorAt(l[0].pos, "unexpected %s in .constant block", l[0].text)
			return
		}
		p.noMore(l, 1)
		p.state = stTop
		return
	}
	if !isName(l[0].text) {
		p.errorAt(l[0].pos, "invalid constant name %s", l[0].text)
		return
	}
	if len(l) < 2 {
		p.errorAt(l[0].pos, "missing value for constant %s", l[0].text)
		return
	}
	if !isLiteral(l[1]) {
		p.errorAt(l[1].pos, "expected integer value, got %s", l[1].text)
		return
	}
	if p.noMore(l, 2) {
		p.f.Constants = append(p.f.Constants, &Constant{l[0].pos, l[0].text, l[1].text})
	}
}

func (p *parser) parseVar() {
	for _, t := range p.line {
		if d := directive(t); d != "" {
			if d != ".end-var" {
				p.errorAt(t.pos, "unexpected %s in .var block", t.text)
				continue
			}
			p.block.Vars = append(p.block.Vars, p.vars)
			p.state = stBlock
			p.noMore(p.line, 1)
			return
		}
		if t.tok == ',' {
			continue
		}
		if t.tok != scanner.Ident || !isName(t.text) {
			p.errorAt(t.pos, "invalid variable name %s", t.text)
			continue
		}
		p.vars.Names = append(p.vars.Names, Ident{t.pos, t.text})
	}
}

func (p *parser) parseStatement(l []token) {
	b := p.block
	switch d := directive(l[0]); d {
	case "":
	case ".var":
		p.noMore(l, 1)
		p.vars = &VarBlock{Pos: l[0].pos}
		p.state = stVar
		return
	case ".end-main", ".end-method":
		if b.Main != (d == ".end-main") {
			p.errorAt(l[0].pos, "unexpected %s", l[0].text)
			return
		}
		p.noMore(l, 1)
		if b.Main {
			if p.f.Main == nil {
				p.f.Main = b
			}
		} else {
			p.f.Methods = append(p.f.Methods, b)
		}
		p.block = nil
		p.state = stTop
		return
	default:
		p.errorAt(l[0].pos, "unexpected %s", l[0].text)
		return
	}

	// label
	if len(l) >= 2 && l[1].tok == ':' {
		if !isName(l[0].text) {
			p.errorAt(l[0].pos, "invalid label name %s", l[0].text)
			return
		}
		b.Stmts = append(b.Stmts, &Label{l[0].pos, l[0].text})
		if len(l) > 2 {
			p.parseStatement(l[2:])
		}
		return
	}

	if l[0].tok != scanner.Ident {
		p.errorAt(l[0].pos, "unexpected %s", l[0].text)
		return
	}
	op, ok := vm.LookupOpcode(l[0].text)
	if !ok {
		p.errorAt(l[0].pos, "unknown instruction %s", l[0].text)
		return
	}
	ins := &Instr{Pos: l[0].pos, Op: op}
	args := l[1:]
	if n := op.Operands().Count(); len(args) != n {
		p.errorAt(l[0].pos, "%v expects %d argument(s), got %d", op, n, len(args))
		return
	}
	for k, a := range args {
		kind := op.Operands()
		if kind == vm.VarLiteral {
			kind = vm.Variable
			if k == 1 {
				kind = vm.Literal
			}
		}
		if kind == vm.Literal {
			if !isLiteral(a) {
				p.errorAt(a.pos, "%v: expected literal, got %s", op, a.text)
				return
			}
		} else if a.tok != scanner.Ident || !isName(a.text) {
			p.errorAt(a.pos, "%v: invalid name %s", op, a.text)
			return
		}
		ins.Args = append(ins.Args, Ident{a.pos, a.text})
	}
	b.Stmts = append(b.Stmts, ins)
}

// isLiteral checks that t looks like a literal. The actual value is checked
// during semantic analysis.
func isLiteral(t token) bool {
	return t.tok == scanner.Char || t.tok == scanner.Ident && !strings.HasPrefix(t.text, ".")
}
