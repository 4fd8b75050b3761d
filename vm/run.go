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

import "github.com/pkg/errors"

// Run executes the program from the start of the main block.
//
// Run returns nil when the main frame runs past its last instruction or when a
// HALT instruction is executed. Any inconsistency in the program aborts
// execution with an error wrapping a *Fault (use errors.Cause to retrieve it).
// In that case, the call stack is left as it was when the fault occurred.
func (i *Instance) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case *Fault:
				err = errors.Wrapf(e, "fault after %d instructions, call depth %d", i.insCount, len(i.frames))
			case error:
				err = errors.Wrapf(e, "recovered error after %d instructions, call depth %d", i.insCount, len(i.frames))
			default:
				panic(e)
			}
		}
		if ferr := i.flush(); err == nil && ferr != nil {
			err = errors.Wrap(ferr, "output flush failed")
		}
	}()

	i.main = newFrame(i.prog.Main(), -1)
	i.frames = append(i.frames[:0], i.main)
	i.ret, i.hasRet, i.halted = 0, false, false
	i.insCount = 0

	for len(i.frames) > 0 && !i.halted {
		f := i.frames[len(i.frames)-1]
		pc := f.pc + 1
		if pc >= len(f.bp.Instructions) {
			i.frames = i.frames[:len(i.frames)-1]
			if len(i.frames) == 0 {
				break
			}
			caller := i.frames[len(i.frames)-1]
			if i.hasRet {
				caller.Push(i.ret)
				i.ret, i.hasRet = 0, false
			}
			caller.pc = f.returnPC
			if i.log != nil {
				i.log.Debugf("return from %s to %s:%d", f.bp.Name, caller.bp.Name, caller.pc)
			}
			continue
		}
		f.pc = pc
		if i.step != nil {
			if err = i.step(i); err != nil {
				return err
			}
		}
		i.exec(f, &f.bp.Instructions[pc])
		i.insCount++
	}
	return nil
}

func (i *Instance) exec(f *Frame, ins *Instruction) {
	if i.trace && i.log != nil {
		i.log.Debugf("%s:%d\t%v\t%v", f.bp.Name, f.pc, ins, f.stack)
	}
	switch ins.Op {
	case OpLabel, OpNop:
	case OpBipush:
		f.Push(f.bp.imm[f.pc])
	case OpDup:
		f.Push(*f.tos())
	case OpPop:
		f.Pop()
	case OpSwap:
		b := f.Pop()
		a := f.Pop()
		f.Push(b)
		f.Push(a)
	case OpIadd:
		b := f.Pop()
		*f.tos() += b
	case OpIsub:
		b := f.Pop()
		*f.tos() -= b
	case OpIand:
		b := f.Pop()
		*f.tos() &= b
	case OpIor:
		b := f.Pop()
		*f.tos() |= b
	case OpIload:
		f.Push(f.load(ins.Args[0]))
	case OpIstore:
		f.store(ins.Args[0], f.Pop())
	case OpIinc:
		f.store(ins.Args[0], f.load(ins.Args[0])+f.bp.imm[f.pc])
	case OpLdcW:
		v, ok := i.prog.Constant(ins.Args[0])
		if !ok {
			panic(f.fault(MissingConstant, ins.Args[0]))
		}
		f.Push(v)
	case OpGoto:
		i.jump(f, ins.Args[0])
	case OpIfeq:
		if f.Pop() == 0 {
			i.jump(f, ins.Args[0])
		}
	case OpIflt:
		if f.Pop() < 0 {
			i.jump(f, ins.Args[0])
		}
	case OpIfIcmpeq:
		b := f.Pop()
		if f.Pop() == b {
			i.jump(f, ins.Args[0])
		}
	case OpInvokevirtual:
		i.invoke(f, ins.Args[0])
	case OpIreturn:
		i.ret, i.hasRet = f.Pop(), true
	case OpIn:
		v, err := i.readChar()
		if err != nil {
			ft := f.fault(InputError, "")
			ft.Err = err
			panic(ft)
		}
		f.Push(v)
	case OpOut:
		if err := i.writeChar(f.Pop()); err != nil {
			ft := f.fault(OutputError, "")
			ft.Err = err
			panic(ft)
		}
	case OpHalt:
		i.halted = true
		if i.log != nil {
			i.log.Debugf("halt in %s:%d", f.bp.Name, f.pc)
		}
	default:
		panic(f.fault(UnknownOpcode, ins.Op.String()))
	}
}

func (i *Instance) jump(f *Frame, label string) {
	pc, ok := f.bp.Label(label)
	if !ok {
		panic(f.fault(MissingLabel, label))
	}
	f.pc = pc
}

// invoke pops the arguments and the object reference from the caller's stack
// and pushes a new frame for the named method.
func (i *Instance) invoke(f *Frame, name string) {
	bp, ok := i.prog.Method(name)
	if !ok {
		panic(f.fault(MissingMethod, name))
	}
	if len(i.frames) >= i.maxDepth {
		panic(f.fault(StackOverflow, name))
	}
	nf := newFrame(bp, f.pc)
	// the deepest value binds to the first parameter
	for k := len(bp.Params) - 1; k >= 0; k-- {
		nf.locals[k], nf.set[k] = f.Pop(), true
	}
	f.Pop() // object reference
	i.frames = append(i.frames, nf)
	if i.log != nil {
		i.log.Debugf("call %s from %s:%d, depth %d", bp.Name, f.bp.Name, f.pc, len(i.frames))
	}
}
