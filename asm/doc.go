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

// Package asm provides the IJVM source parser and a program listing
// function.
//
// Supported mnemonics:
//
//	TOS is the value on top of the operand stack. NOS is the next value on the
//	operand stack.
//
//	asm		args		stack	description
//	-------------	-------------	-----	----------------------------------------------------
//	BIPUSH		literal		-n	push literal
//	DUP				n-nn	duplicate TOS
//	POP				n-	drop TOS
//	SWAP				xy-yx	swap TOS and NOS
//	IADD				xy-z	z = x + y
//	ISUB				xy-z	z = x - y
//	IAND				xy-z	z = x & y
//	IOR				xy-z	z = x | y
//	ILOAD		var		-n	push the value of a local variable
//	ISTORE		var		n-	pop into a local variable
//	IINC		var literal		add literal to a local variable
//	LDC_W		constant	-n	push a value from the constant pool
//	GOTO		label			jump to label
//	IFEQ		label		n-	jump to label if TOS == 0
//	IFLT		label		n-	jump to label if TOS < 0
//	IF_ICMPEQ	label		xy-	jump to label if NOS == TOS
//	INVOKEVIRTUAL	method		ra*-n	call method (see below)
//	IRETURN				n-	return TOS to the caller
//	IN				-c	read a line, push its first character (0 if none)
//	OUT				c-	write TOS as a character
//	HALT					stop the program
//	NOP					no-op
//
// Mnemonics, directives and names are case insensitive.
//
// Program structure:
//
//	.constant
//		OBJREF 0x40		// NAME VALUE, one per line
//	.end-constant
//
//	.main
//	.var
//		x			// one or more variable names per line
//	.end-var
//		BIPUSH 'a'
//	loop:	ISTORE x		// a label may precede an instruction
//		...
//	.end-main
//
//	.method add(a, b)		// parameters are optional: .method foo, .method foo()
//		ILOAD a
//		ILOAD b
//		IADD
//		IRETURN
//	.end-method
//
// Exactly one .main block is required. The .constant block and methods are
// optional. Labels are local to the block where they are defined. Calling a
// method with n parameters requires pushing an object reference, then the n
// arguments:
//
//	LDC_W OBJREF
//	BIPUSH 3
//	BIPUSH 4
//	INVOKEVIRTUAL add	// replaces the three values with the result
//
// Comments start with // or ; and extend to the end of the line.
//
// Literals are decimal (-42), hexadecimal (0x2a), octal (o52 or 0o52),
// character literals in Go syntax ('*', '\n') or a single non-digit character.
// The parser only checks the general shape of literals; actual values are
// checked by semantic analysis.
package asm
