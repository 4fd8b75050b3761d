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
	"strings"
	"text/scanner"
)

// Severity of a diagnostic.
type Severity int

// Diagnostic severities. Errors block execution, warnings are informational.
const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a semantic error or warning.
type Diagnostic struct {
	Pos      scanner.Position
	Severity Severity
	Msg      string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Msg)
}

// Errors is a list of semantic errors.
type Errors []Diagnostic

func (e Errors) Error() string { return join(e) }

// Warnings is a list of semantic warnings.
type Warnings []Diagnostic

func (w Warnings) String() string { return join(w) }

func join(d []Diagnostic) string {
	s := make([]string, len(d))
	for i := range d {
		s[i] = d[i].Error()
	}
	return strings.Join(s, "\n")
}
