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

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// Cell is the raw type stored on operand stacks and in local variables.
type Cell int32

// DefaultMaxCallDepth is the default limit on the number of live frames.
const DefaultMaxCallDepth = 10000

// ErrStopped is returned by step hooks to stop execution on user request. Run
// returns it as is.
var ErrStopped = errors.New("execution stopped")

// Instance represents an IJVM interpreter instance running a single Program.
type Instance struct {
	prog     *Program
	frames   []*Frame
	main     *Frame
	ret      Cell
	hasRet   bool
	halted   bool
	insCount int64
	maxDepth int
	input    LineReader
	output   runeWriter
	log      commonlog.Logger
	trace    bool
	step     func(*Instance) error
}

// Option interface
type Option func(*Instance) error

// Input pushes the given reader on top of the input stack. Any io.Reader can
// be used; readers implementing LineReader are used directly.
func Input(r io.Reader) Option {
	return func(i *Instance) error { i.PushInput(r); return nil }
}

// LineInput pushes the given LineReader on top of the input stack.
func LineInput(lr LineReader) Option {
	return func(i *Instance) error { i.pushLineReader(lr); return nil }
}

// Output configures the writer used by the OUT instruction. If w implements
// Flush() error, it will be flushed when Run returns.
func Output(w io.Writer) Option {
	return func(i *Instance) error {
		i.output = newWriter(w)
		return nil
	}
}

// Logger sets the logger used to report calls and returns. A nil logger
// disables logging.
func Logger(log commonlog.Logger) Option {
	return func(i *Instance) error {
		i.log = log
		return nil
	}
}

// Trace enables logging of every executed instruction at debug level. It has
// no effect without a Logger.
func Trace(trace bool) Option {
	return func(i *Instance) error {
		i.trace = trace
		return nil
	}
}

// StepHook sets a function called before each instruction is executed. The
// current frame's PC points to the instruction about to run. If the hook
// returns an error, Run stops and returns that error.
//
// This is the only place where the VM state can be safely inspected while a
// program is running.
func StepHook(fn func(i *Instance) error) Option {
	return func(i *Instance) error {
		i.step = fn
		return nil
	}
}

// MaxCallDepth sets the maximum number of live frames. The default is
// DefaultMaxCallDepth.
func MaxCallDepth(n int) Option {
	return func(i *Instance) error {
		if n <= 0 {
			return errors.Errorf("invalid call depth %d", n)
		}
		i.maxDepth = n
		return nil
	}
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new IJVM interpreter instance for the given program.
//
// Options will be set by calling SetOptions.
func New(p *Program, opts ...Option) (*Instance, error) {
	if p == nil || len(p.Blueprints) == 0 {
		return nil, errors.New("no program")
	}
	i := &Instance{
		prog:     p,
		maxDepth: DefaultMaxCallDepth,
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// Program returns the program being run.
func (i *Instance) Program() *Program {
	return i.prog
}

// Frames returns the call stack, bottom (main) first.
func (i *Instance) Frames() []*Frame {
	return i.frames
}

// Current returns the frame on top of the call stack, or nil if the call stack
// is empty.
func (i *Instance) Current() *Frame {
	if len(i.frames) == 0 {
		return nil
	}
	return i.frames[len(i.frames)-1]
}

// Main returns the frame of the main block. It stays available after the
// program terminates so that its final state can be inspected.
func (i *Instance) Main() *Frame {
	return i.main
}

// PendingReturn returns the value handed from a returning method to its
// caller, if any.
func (i *Instance) PendingReturn() (Cell, bool) {
	return i.ret, i.hasRet
}

// Halted returns true if the program was stopped by a HALT instruction.
func (i *Instance) Halted() bool {
	return i.halted
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}
