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

package ijvm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/db47h/ijvm/lang/ijvm"
	"github.com/db47h/ijvm/sema"
	"github.com/db47h/ijvm/vm"
	"gopkg.in/yaml.v3"
)

func compile(t *testing.T, name, src string) *vm.Program {
	t.Helper()
	p, res, err := ijvm.Compile(name, strings.NewReader(src), sema.Config{})
	if err != nil {
		var b bytes.Buffer
		if res != nil {
			res.Report(&b)
		}
		t.Fatalf("%s: %v\n%s", name, err, b.String())
	}
	return p
}

func runSource(t *testing.T, name, src, input string) (*vm.Instance, string) {
	t.Helper()
	var out bytes.Buffer
	i, err := vm.New(compile(t, name, src), vm.Input(strings.NewReader(input)), vm.Output(&out))
	if err != nil {
		t.Fatal(err)
	}
	if err = i.Run(); err != nil {
		t.Fatalf("%s: %+v", name, err)
	}
	return i, out.String()
}

func stackEqual(a []vm.Cell, b ...vm.Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}

var runTests = []struct {
	name  string
	src   string
	stack []vm.Cell
}{
	{"constants", `
.constant
answer 42
.end-constant
.main
	LDC_W answer
	LDC_W ANSWER
.end-main
`, []vm.Cell{42, 42}},
	{"iadd", ".main\nBIPUSH 3\nBIPUSH 4\nIADD\n.end-main\n", []vm.Cell{7}},
	{"store_load", ".main\n.var\nx\n.end-var\nBIPUSH -17\nISTORE x\nILOAD x\n.end-main\n", []vm.Cell{-17}},
	{"double", `
.main
.var
x
.end-var
	BIPUSH 5
	ISTORE x
	ILOAD x
	ILOAD x
	IADD
.end-main
`, []vm.Cell{10}},
	// The object reference goes first: INVOKEVIRTUAL pops the arguments,
	// then the object reference below them.
	{"invoke", `
.constant
OBJREF 0xCAFE
.end-constant

.main
	LDC_W OBJREF
	BIPUSH 3
	BIPUSH 4
	INVOKEVIRTUAL add
.end-main

.method add(a, b)
	ILOAD a
	ILOAD b
	IADD
	IRETURN
.end-method
`, []vm.Cell{7}},
	{"branch", ".main\nBIPUSH 5\nBIPUSH 0\nIFEQ L\nBIPUSH 100\nL:\n.end-main\n", []vm.Cell{5}},
	{"recursion", `
// fib(n) computed the slow way
.constant
objref 0
.end-constant

.main
	LDC_W objref
	BIPUSH 10
	INVOKEVIRTUAL fib
.end-main

.method fib(n)
.var
	a
.end-var
	ILOAD n
	BIPUSH 2
	ISUB
	IFLT small
	LDC_W objref
	ILOAD n
	BIPUSH 1
	ISUB
	INVOKEVIRTUAL fib
	ISTORE a          ; must survive the next call
	LDC_W objref
	ILOAD n
	BIPUSH 2
	ISUB
	INVOKEVIRTUAL fib
	ILOAD a
	IADD
	GOTO done
small:
	ILOAD n
done:
	IRETURN
.end-method
`, []vm.Cell{55}},
}

func TestRun(t *testing.T) {
	for _, tt := range runTests {
		i, _ := runSource(t, tt.name, tt.src, "")
		if s := i.Main().Stack(); !stackEqual(s, tt.stack...) {
			t.Errorf("%s: stack %v, expected %v", tt.name, s, tt.stack)
		}
	}
}

const echo = `
.main
.var
	c
.end-var
loop:
	IN
	DUP
	ISTORE c
	IFEQ done
	ILOAD c
	OUT
	GOTO loop
done:
	BIPUSH '!'
	OUT
	HALT
	BIPUSH 'x'
	OUT
.end-main
`

func TestRun_io(t *testing.T) {
	i, out := runSource(t, "echo", echo, "hello\nworld\n")
	if out != "hw!" {
		t.Errorf("got output %q", out)
	}
	if !i.Halted() {
		t.Error("not halted")
	}
}

func TestParse_errors(t *testing.T) {
	res, err := ijvm.Parse("syntax", strings.NewReader(".main\nFOO\n.end-main\n"), sema.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ParseErrors) != 1 || res.Errors != nil || res.OK() {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err = ijvm.Build(res); err == nil {
		t.Error("built a program with syntax errors")
	}

	res, err = ijvm.Parse("jump", strings.NewReader(".main\nGOTO nowhere\n.end-main\n"), sema.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ParseErrors) != 0 || len(res.Errors) != 1 || res.OK() {
		t.Fatalf("unexpected result %+v", res)
	}
	if p, err := ijvm.Build(res); err == nil || p != nil {
		t.Error("built a program with semantic errors")
	}
	var b bytes.Buffer
	if err = res.Report(&b); err != nil {
		t.Fatal(err)
	}
	if s := b.String(); s != "jump:2:6: error: undefined label nowhere in main\n" {
		t.Errorf("got report %q", s)
	}
}

func TestParse_warnings(t *testing.T) {
	src := `
.main
.end-main
.method f
	BIPUSH 1
	IRETURN
	POP
.end-method
`
	res, err := ijvm.Parse("warn", strings.NewReader(src), sema.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || len(res.Warnings) != 3 {
		t.Fatalf("unexpected result:\n%v\n%v", res.Err(), res.Warnings)
	}
	if _, err = ijvm.Build(res); err != nil {
		t.Errorf("warnings must not prevent building: %v", err)
	}
}

func TestDump(t *testing.T) {
	i, _ := runSource(t, "dump", ".main\n.var\nx\ny\n.end-var\nBIPUSH 1\nISTORE x\nBIPUSH 2\n.end-main\n", "")
	var b bytes.Buffer
	if err := ijvm.Dump(i, &b); err != nil {
		t.Fatal(err)
	}
	var s vm.Snapshot
	if err := yaml.Unmarshal(b.Bytes(), &s); err != nil {
		t.Fatalf("%v\n%s", err, b.String())
	}
	if len(s.Frames) != 1 || !s.Frames[0].Done || !stackEqual(s.Frames[0].Stack, 2) {
		t.Fatalf("bad snapshot:\n%s", b.String())
	}
	l := s.Frames[0].Locals
	if len(l) != 2 || l[0].Name != "x" || l[0].Value == nil || *l[0].Value != 1 || l[1].Value != nil {
		t.Errorf("bad locals:\n%s", b.String())
	}
}
