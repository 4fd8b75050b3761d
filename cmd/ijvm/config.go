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

package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/db47h/ijvm/vm"
	"github.com/pkg/errors"
)

const configFileName = "ijvm.toml"

// config holds the settings read from an ijvm.toml file. Command line flags
// override them.
type config struct {
	Lang         string `toml:"lang"`
	Debug        bool   `toml:"debug"`
	Trace        bool   `toml:"trace"`
	Verbosity    int    `toml:"verbosity"`
	LogFile      string `toml:"log-file"`
	MaxCallDepth int    `toml:"max-call-depth"`
	RawTTY       *bool  `toml:"raw-tty"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
}

func defaultConfig() *config {
	return &config{
		Lang:         "ijvm",
		MaxCallDepth: vm.DefaultMaxCallDepth,
	}
}

// loadConfig loads the named config file on top of the defaults. Unknown keys
// are reported as errors.
func loadConfig(path string) (*config, error) {
	c := defaultConfig()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errors.Wrapf(err, "parse error in %s", path)
	}
	if u := md.Undecoded(); len(u) > 0 {
		return nil, errors.Errorf("%s: unknown key %s", path, u[0])
	}
	if c.MaxCallDepth <= 0 {
		return nil, errors.Errorf("%s: max-call-depth must be positive", path)
	}
	c.Path = path
	return c, nil
}

// findConfig walks up from startDir to find an ijvm.toml file and loads it.
// It returns the default config if none is found.
func findConfig(startDir string) (*config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot resolve config search path")
	}
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return loadConfig(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return defaultConfig(), nil
		}
		dir = parent
	}
}
