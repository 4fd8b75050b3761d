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

package ijvm

import (
	"io"

	"github.com/db47h/ijvm/vm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Dump writes a YAML snapshot of the interpreter state to w.
func Dump(i *vm.Instance, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(i.Snapshot()); err != nil {
		return errors.Wrap(err, "dump")
	}
	return errors.Wrap(enc.Close(), "dump")
}
