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

// The ijvm command line tool checks and runs IJVM assembly programs.
//
// Usage:
//
//	ijvm [flags] [file]
//
//	-config filename
//		  load config from filename instead of searching for ijvm.toml
//	-debug
//		  step through the program and print full error stack traces
//	-depth int
//		  maximum call depth (default 10000)
//	-dump
//		  dump the interpreter state as YAML upon exit
//	-file filename
//		  source filename
//	-image filename
//		  run the program image filename instead of a source file
//	-interpret
//		  parse, analyze and run (default true)
//	-lang language
//		  source language: ijvm or 8088 (default "ijvm")
//	-list
//		  print a listing of the built program
//	-log-file filename
//		  write log to filename instead of stderr
//	-noraw
//		  disable line editing and raw terminal IO
//	-o filename
//		  save the built program to image filename
//	-parse
//		  parse and analyze only, do not run
//	-trace
//		  log every executed instruction (needs -v 4)
//	-v int
//		  log verbosity
//
// The source file can be given with -file or as the first argument. Syntax
// errors, semantic errors and warnings are printed to stderr as
//
//	file:line:col: error: message
//	file:line:col: warning: message
//
// Any error prevents the program from running and makes ijvm exit with status
// 1. Warnings do not.
//
// -parse: stop after semantic analysis. Combined with -o or -list, the program
// is still built.
//
// -o, -image: a built program can be saved to a binary image file and run
// later without going through the parser again.
//
// -debug: before each instruction, the call stack is printed to stderr as
// YAML and ijvm waits for a key: space or s executes the next instruction, c
// continues without stopping, q stops the program. Should the program fault,
// the full error stack trace is printed.
//
// -noraw: when stdin is a terminal, the IN instruction reads lines with line
// editing and history, and the debugger reads single key presses. This flag
// disables both behaviors.
//
// -lang: 8088 programs are recognized but not supported by this build.
//
// Settings can also be read from an ijvm.toml file, searched for in the
// current directory and its parents. Command line flags take precedence.
//
//	lang = "ijvm"
//	debug = false
//	trace = false
//	verbosity = 2
//	log-file = "ijvm.log"
//	max-call-depth = 1000
//	raw-tty = true
package main
