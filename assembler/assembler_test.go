// This file is part of Sysdarft.
//
// Sysdarft is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sysdarft is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sysdarft.  If not, see <https://www.gnu.org/licenses/>.

package assembler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sysdarft/sysdarft/assembler"
	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/disassembly"
	"github.com/sysdarft/sysdarft/test"
)

func TestExactEncodings(t *testing.T) {
	// nop assembles to opcode zero, width zero
	b, err := assembler.AssembleInstruction("nop")
	test.DemandSuccess(t, err)
	test.Equate(t, len(b), 2)
	test.Equate(t, uint64(b[0]), 0)
	test.Equate(t, uint64(b[1]), 0)

	// add .8bit <%R0>, <$(0x02)>
	b, err = assembler.AssembleInstruction("add .8bit <%R0>, <$(0x02)>")
	test.DemandSuccess(t, err)
	test.Equate(t, uint64(b[0]), 0x01) // opcode
	test.Equate(t, uint64(b[1]), 0x08) // width
	test.Equate(t, uint64(b[2]), 0x01) // register prefix
	test.Equate(t, uint64(b[3]), 0x08) // register width
	test.Equate(t, uint64(b[4]), 0x00) // register index
	test.Equate(t, uint64(b[5]), 0x02) // constant prefix
	test.Equate(t, uint64(b[6]), 0x00) // sign byte
	test.Equate(t, uint64(b[7]), 0x02) // value, little-endian
	for i := 8; i < 15; i++ {
		test.Equate(t, uint64(b[i]), 0)
	}

	// negative constants set the sign byte
	b, err = assembler.AssembleInstruction("mov .16bit <%EXR0>, <$(-32)>")
	test.DemandSuccess(t, err)
	test.Equate(t, uint64(b[6]), 0x01)

	// memory ratio 16 encodes as packed BCD 0x16
	b, err = assembler.AssembleInstruction("mov .64bit <*16($(0), $(0), $(0))>, <%FER0>")
	test.DemandSuccess(t, err)
	test.Equate(t, uint64(b[3]), 0x16)
}

func TestExpressionEvaluation(t *testing.T) {
	// (2^64-1)-0xFF+0x12 must evaluate exactly
	b, err := assembler.AssembleInstruction("push .64bit <$((2^64-1)-0xFF+0x12)>")
	test.DemandSuccess(t, err)

	var v uint64
	for i := 11; i >= 4; i-- {
		v = (v << 8) | uint64(b[i])
	}
	test.Equate(t, v, uint64(18446744073709551615-255+18))

	// division in the mini-language
	b, err = assembler.AssembleInstruction("push .64bit <$(234 / 2)>")
	test.DemandSuccess(t, err)
	test.Equate(t, uint64(b[4]), 117)
}

func TestWhitespaceAndCase(t *testing.T) {
	a, err := assembler.AssembleInstruction("ADD .64bit   <%fer14>,<$( 114514 )>")
	test.DemandSuccess(t, err)
	b, err := assembler.AssembleInstruction("add .64bit <%FER14>, <$(114514)>")
	test.DemandSuccess(t, err)
	test.Equate(t, bytes.Equal(a, b), true)
}

func TestGrammarErrors(t *testing.T) {
	// unknown mnemonic
	_, err := assembler.AssembleInstruction("frob .8bit <%R0>")
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Has(err, assembler.AssemblyError), true)

	// missing width
	_, err = assembler.AssembleInstruction("add <%R0>, <%R1>")
	test.ExpectedFailure(t, err)

	// surplus width
	_, err = assembler.AssembleInstruction("nop .8bit")
	test.ExpectedFailure(t, err)

	// wrong operand count
	_, err = assembler.AssembleInstruction("add .8bit <%R0>")
	test.ExpectedFailure(t, err)

	// malformed operand
	_, err = assembler.AssembleInstruction("push .64bit <%NOSUCH>")
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Has(err, assembler.ExpressionError), true)

	// non 64-bit register inside a memory operand
	_, err = assembler.AssembleInstruction("mov .64bit <*2(%R0, $(0), $(0))>, <$(0)>")
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Has(err, assembler.ExpressionError), true)

	// memory access width must agree with the instruction width
	_, err = assembler.AssembleInstruction("mov .64bit <*2&32($(0), $(0), $(0))>, <$(0)>")
	test.ExpectedFailure(t, err)
}

// the instruction list of the decoder regression vector. every line must
// survive an assemble/disassemble round trip: disassembling the
// assembled bytes and assembling the result again must reproduce both
// the bytes and the literal.
var regressionVector = []string{
	"add .64bit <*2&64($(255), %FER14, $(4))>, <$(114514)>",
	"add .64bit <%FER14>, <*2&64($(255), %FER14, $(4))>",
	"add .8bit <%R2>, <$(0xFF)>",
	"add .8bit <%R3>, <$(0xA0)>",
	"add .8bit <%R0>, <$(0x02)>",
	"add .8bit <%R1>, <$(0x30)>",
	"add .8bit <%R0>, <%R2>",
	"adc .8bit <%R1>, <%R3>",
	"sub .16bit <%EXR0>, <$(0xFFFF)>",
	"mov .16bit <%EXR0>, <$(-32)>",
	"imul .16bit <$(-2)>",
	"mov .32bit <%HER0>, <$(65536)>",
	"mov .32bit <%HER2>, <$(0x02)>",
	"mul .32bit <%HER2>",
	"mov .64bit <%FER0>, <$(-65536)>",
	"mov .64bit <%FER1>, <$(-2)>",
	"idiv .64bit <%FER1>",
	"div .64bit <$(3)>",
	"neg .64bit <%FER0>",
	"cmp .16bit <%EXR0>, <%EXR1>",
	"nop",
	"mov .64bit <*2&64($(255), %FER14, $(4))>, <$(114514)>",
	"mov .64bit <*2&64($(255), %FER14, $(6))>, <$(0xFFF)>",
	"mov .64bit <%FER0>, <*2&64($(255), %FER14, $(6))>",
	"mov .64bit <%FER1>, <*2&64($(255), %FER14, $(4))>",
	"xchg .64bit <%FER0>, <%FER1>",
	"mov .64bit <%SP>, <$(0xFFFF)>",
	"push .64bit <%FER0>",
	"pop .64bit <%FER2>",
	"pushall",
	"div .64bit <%FER1>",
	"popall",
	"enter .64bit <$(0xFF)>",
	"leave",
	"mov .64bit <%FER0>, <$(0x00)>",
	"mov .64bit <%FER1>, <$(0xC1800)>",
	"mov .64bit <%FER2>, <$(0xFFF)>",
	"movs",
	"and .64bit <*2&64($(255), %FER14, $(4))>, <*2&64($(255), %FER14, $(6))>",
	"or .32bit <%HER1>, <%HER0>",
	"xor .64bit <%FER0>, <%FER0>",
	"mov .8bit <%R0>, <$(0x34)>",
	"not .64bit <%FER0>",
	"shl .8bit <%R0>, <$(4)>",
	"shr .8bit <%R0>, <$(6)>",
	"rol .8bit <%R0>, <$(2)>",
	"ror .8bit <%R0>, <$(1)>",
	"rcl .8bit <%R0>, <$(1)>",
	"rcr .8bit <%R0>, <$(1)>",
	"fadd <%XMM2>, <$(3.141592653589793)>",
	"fdiv <$(3.141592653589793)>",
	"mov .64bit <%SB>, <$(0xFF)>",
	"mov .64bit <%CB>, <$(0xFF)>",
	"mov .64bit <%DB>, <$(0xFF)>",
	"mov .64bit <%DP>, <$(0xFF)>",
	"mov .64bit <%EB>, <$(0xFF)>",
	"mov .64bit <%EP>, <$(0xFF)>",
	"int <$(0x10)>",
	"jmp <$(0xC1800)>",
	"call <*1&64($(0xC1900), %FER0, $(0))>",
	"ret",
	"iret",
	"hlt",
}

func TestRoundTrip(t *testing.T) {
	for _, line := range regressionVector {
		b1, err := assembler.AssembleInstruction(line)
		if err != nil {
			t.Fatalf("%s: %v", line, err)
		}

		dsm, err := disassembly.FromBytes(b1, 0)
		if err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		if len(dsm.Entries) != 1 {
			t.Fatalf("%s: disassembled to %d entries", line, len(dsm.Entries))
		}

		lit := dsm.Entries[0].Literal
		b2, err := assembler.AssembleInstruction(lit)
		if err != nil {
			t.Fatalf("%s -> %s: %v", line, lit, err)
		}

		if !bytes.Equal(b1, b2) {
			t.Errorf("%s: bytes changed across round trip (%v != %v)", line, b1, b2)
		}

		// the canonical literal is a fixed point
		dsm2, err := disassembly.FromBytes(b2, 0)
		if err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		test.Equate(t, dsm2.Entries[0].Literal, lit)
	}
}

func TestRoundTripProgram(t *testing.T) {
	src := strings.Join(regressionVector, "\n")
	b, err := assembler.Assemble(strings.NewReader(src))
	test.DemandSuccess(t, err)

	dsm, err := disassembly.FromBytes(b, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, len(dsm.Entries), len(regressionVector))
}

func TestKnownLiterals(t *testing.T) {
	// a few spot checks that the disassembler prints the canonical form
	for _, tc := range []struct {
		in  string
		out string
	}{
		{"nop", "nop"},
		{"add .8bit <%r0>, <%r2>", "add .8bit <%R0>, <%R2>"},
		{"mov .64bit <%fer0>, <$(-65536)>", "mov .64bit <%FER0>, <$(-65536)>"},
		{"mov .64bit <%FER2>, <$(0xFFF)>", "mov .64bit <%FER2>, <$(0xFFF)>"},
		{"mov .64bit <*2($(255), %FER14, $(4))>, <$(114514)>",
			"mov .64bit <*2&64($(0xFF), %FER14, $(0x4))>, <$(0x1BF52)>"},
		{"fadd <%XMM2>, <$(3.141592653589793)>",
			"fadd <%XMM2>, <$(0x400921FB54442D18)>"},
	} {
		b, err := assembler.AssembleInstruction(tc.in)
		test.DemandSuccess(t, err)
		dsm, err := disassembly.FromBytes(b, 0)
		test.DemandSuccess(t, err)
		test.Equate(t, dsm.Entries[0].Literal, tc.out)
	}
}
