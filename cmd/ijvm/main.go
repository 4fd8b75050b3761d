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
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/db47h/ijvm/asm"
	"github.com/db47h/ijvm/lang/ijvm"
	"github.com/db47h/ijvm/sema"
	"github.com/db47h/ijvm/vm"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var (
	parseOnly   bool
	interpret   bool
	lang        string
	fileName    string
	imageName   string
	outFileName string
	configFile  string
	logFile     string
	verbosity   int
	maxDepth    int
	debug       bool
	trace       bool
	list        bool
	dump        bool
	noRawIO     bool
)

var log commonlog.Logger

func atExit(err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	os.Exit(1)
}

// applyConfig copies config values for flags not set on the command line.
func applyConfig(c *config) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["lang"] && c.Lang != "" {
		lang = c.Lang
	}
	if !set["debug"] {
		debug = c.Debug
	}
	if !set["trace"] {
		trace = c.Trace
	}
	if !set["v"] {
		verbosity = c.Verbosity
	}
	if !set["log-file"] {
		logFile = c.LogFile
	}
	if !set["depth"] {
		maxDepth = c.MaxCallDepth
	}
	if !set["noraw"] && c.RawTTY != nil {
		noRawIO = !*c.RawTTY
	}
}

func setupLog() {
	if logFile != "" {
		commonlog.Configure(verbosity, &logFile)
	} else {
		commonlog.Configure(verbosity, nil)
	}
}

// compile parses, checks and builds the source file. Diagnostics are printed
// to stderr.
func compile() (*vm.Program, error) {
	res, err := ijvm.ParseFile(fileName, sema.Config{Log: commonlog.GetLogger("ijvm.sema"), Trace: trace})
	if err != nil {
		return nil, err
	}
	if err = res.Report(os.Stderr); err != nil {
		return nil, err
	}
	if n := len(res.ParseErrors) + len(res.Errors); n > 0 {
		return nil, errors.Errorf("%s: %d error(s)", fileName, n)
	}
	log.Infof("%s: analysis complete, %d warning(s)", fileName, len(res.Warnings))
	return ijvm.Build(res)
}

func run(p *vm.Program) (err error) {
	output := newLineTracker(os.Stdout)
	opts := []vm.Option{
		vm.Output(output),
		vm.Logger(commonlog.GetLogger("ijvm.vm")),
		vm.Trace(trace),
		vm.MaxCallDepth(maxDepth),
	}

	tty := !noRawIO && isTerminal(0)
	var in vm.LineReader
	if tty {
		li := newLinerInput(output)
		defer li.Close()
		in = li
	} else {
		// shared between the program and the debugger
		in = vm.NewLineReader(os.Stdin)
	}
	opts = append(opts, vm.LineInput(in))
	if debug {
		d := &debugger{w: os.Stderr, out: output, in: in, raw: tty}
		opts = append(opts, vm.StepHook(d.step))
	}

	i, err := vm.New(p, opts...)
	if err != nil {
		return err
	}
	err = i.Run()
	if err == vm.ErrStopped {
		log.Noticef("stopped after %d instructions", i.InstructionCount())
		err = nil
	}
	if ferr := output.Flush(); err == nil {
		err = ferr
	}
	if err == nil && dump {
		err = ijvm.Dump(i, os.Stdout)
	}
	return err
}

func main() {
	var err error
	defer func() { atExit(err) }()

	flag.BoolVar(&parseOnly, "parse", false, "parse and analyze only, do not run")
	flag.BoolVar(&interpret, "interpret", true, "parse, analyze and run (default)")
	flag.StringVar(&lang, "lang", "ijvm", "source `language`: ijvm or 8088")
	flag.StringVar(&fileName, "file", "", "source `filename`")
	flag.StringVar(&imageName, "image", "", "run the program image `filename` instead of a source file")
	flag.StringVar(&outFileName, "o", "", "save the built program to image `filename`")
	flag.StringVar(&configFile, "config", "", "load config from `filename` instead of searching for "+configFileName)
	flag.StringVar(&logFile, "log-file", "", "write log to `filename` instead of stderr")
	flag.IntVar(&verbosity, "v", 0, "log verbosity")
	flag.IntVar(&maxDepth, "depth", vm.DefaultMaxCallDepth, "maximum call depth")
	flag.BoolVar(&debug, "debug", false, "step through the program and print full error stack traces")
	flag.BoolVar(&trace, "trace", false, "log every executed instruction (needs -v 4)")
	flag.BoolVar(&list, "list", false, "print a listing of the built program")
	flag.BoolVar(&dump, "dump", false, "dump the interpreter state as YAML upon exit")
	flag.BoolVar(&noRawIO, "noraw", false, "disable line editing and raw terminal IO")
	flag.Parse()

	var c *config
	if configFile != "" {
		c, err = loadConfig(configFile)
	} else {
		c, err = findConfig(".")
	}
	if err != nil {
		return
	}
	applyConfig(c)
	setupLog()
	log = commonlog.GetLogger("ijvm")
	if c.Path != "" {
		log.Infof("using config %s", c.Path)
	}

	switch strings.ToLower(lang) {
	case "ijvm":
	case "8088":
		err = errors.New("language 8088 is not supported by this build")
		return
	default:
		err = errors.Errorf("unknown language %q", lang)
		return
	}

	if fileName == "" && flag.NArg() > 0 {
		fileName = flag.Arg(0)
	}

	var p *vm.Program
	switch {
	case imageName != "":
		p, err = vm.Load(imageName)
	case fileName != "":
		p, err = compile()
	default:
		err = errors.New("no source file or image specified")
	}
	if err != nil {
		return
	}

	if outFileName != "" {
		if err = vm.Save(outFileName, p); err != nil {
			return
		}
		log.Infof("program saved to %s", outFileName)
	}
	if list {
		w := bufio.NewWriter(os.Stdout)
		err = asm.DisassembleAll(p, w)
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
		if err != nil {
			return
		}
	}
	if parseOnly || !interpret {
		return
	}
	err = run(p)
}
