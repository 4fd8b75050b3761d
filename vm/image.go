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
	"bufio"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

const (
	imageMagic   = "IJVM"
	imageVersion = 1
)

type image struct {
	Magic      string           `cbor:"magic"`
	Version    int              `cbor:"version"`
	Constants  map[string]Cell  `cbor:"constants"`
	Blueprints []blueprintImage `cbor:"blueprints"`
}

type blueprintImage struct {
	Name   string             `cbor:"name"`
	Params []string           `cbor:"params,omitempty"`
	Vars   []string           `cbor:"vars,omitempty"`
	Code   []instructionImage `cbor:"code"`
}

// opcodes are stored as mnemonics so that images do not depend on the
// numbering of opcodes.
type instructionImage struct {
	Op   string   `cbor:"op"`
	Args []string `cbor:"args,omitempty"`
	Line int      `cbor:"line,omitempty"`
}

// Encode writes the program p to w in CBOR format.
func Encode(w io.Writer, p *Program) error {
	img := image{
		Magic:     imageMagic,
		Version:   imageVersion,
		Constants: p.Constants,
	}
	for _, b := range p.Blueprints {
		bi := blueprintImage{Name: b.Name, Params: b.Params, Vars: b.Vars}
		for _, ins := range b.Instructions {
			bi.Code = append(bi.Code, instructionImage{ins.Op.String(), ins.Args, ins.Line})
		}
		img.Blueprints = append(img.Blueprints, bi)
	}
	return errors.Wrap(cbor.NewEncoder(w).Encode(&img), "encode failed")
}

// Decode reads a program in CBOR format from r.
func Decode(r io.Reader) (*Program, error) {
	var img image
	if err := cbor.NewDecoder(r).Decode(&img); err != nil {
		return nil, errors.Wrap(err, "decode failed")
	}
	if img.Magic != imageMagic {
		return nil, errors.New("not an IJVM image")
	}
	if img.Version != imageVersion {
		return nil, errors.Errorf("unsupported image version %d", img.Version)
	}
	bps := make([]*Blueprint, 0, len(img.Blueprints))
	for _, bi := range img.Blueprints {
		code := make([]Instruction, 0, len(bi.Code))
		for pc, ii := range bi.Code {
			op, ok := LookupOpcode(ii.Op)
			if !ok && ii.Op == OpLabel.String() {
				op, ok = OpLabel, true
			}
			if !ok {
				return nil, errors.Errorf("%s:%d: unknown opcode %s", bi.Name, pc, ii.Op)
			}
			code = append(code, Instruction{op, ii.Args, ii.Line})
		}
		b, err := NewBlueprint(bi.Name, bi.Params, bi.Vars, code)
		if err != nil {
			return nil, errors.Wrap(err, "invalid image")
		}
		bps = append(bps, b)
	}
	p, err := NewProgram(img.Constants, bps)
	return p, errors.Wrap(err, "invalid image")
}

// Load loads a program image from file fileName.
func Load(fileName string) (*Program, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer f.Close()
	p, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", fileName)
	}
	return p, nil
}

// Save saves the program p to an image file.
func Save(fileName string, p *Program) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create failed")
	}
	w := bufio.NewWriter(f)
	defer func() {
		if ferr := w.Flush(); err == nil && ferr != nil {
			err = errors.Wrap(ferr, "write failed")
		}
		f.Close()
		// delete file on error
		if err != nil {
			os.Remove(fileName)
		}
	}()
	return Encode(w, p)
}
