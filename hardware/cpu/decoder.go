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

package cpu

import (
	"fmt"
	"strings"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
	"github.com/sysdarft/sysdarft/hardware/cpu/target"
	"github.com/sysdarft/sysdarft/hardware/memory"
	"github.com/sysdarft/sysdarft/hardware/registers"
)

// Instruction is a decoded instruction: the definition of its opcode,
// its width byte, its operands and the literal form reconstructed from
// the byte stream. Instructions are ephemeral unless cached by the
// disassembler.
type Instruction struct {
	Defn     *instructions.Definition
	Width    uint8
	Operands []*target.Target
	Literal  string
}

// DecodeInstruction decodes one instruction from the stream:
//
//	<opcode> <width> <operand 0> ... <operand k-1>
//
// where the opcode fixes the operand count k. Memory targets compute
// their effective address from the register values current at decode
// time. The same function serves the executor (streaming from the
// address space at IP) and the disassembler (streaming from a byte
// slice).
func DecodeInstruction(s target.Stream, regs *registers.File, mem *memory.Memory) (*Instruction, error) {
	opcode, err := s.Pop8()
	if err != nil {
		return nil, err
	}

	defn, ok := instructions.Lookup(instructions.Opcode(opcode))
	if !ok {
		return nil, curated.Errorf(instructions.IllegalInstruction,
			fmt.Sprintf("unknown opcode %#02x", opcode))
	}

	width, err := s.Pop8()
	if err != nil {
		return nil, err
	}
	if !defn.ValidWidth(width) {
		return nil, curated.Errorf(instructions.IllegalInstruction,
			fmt.Sprintf("width %#02x not valid for %s", width, defn.Mnemonic))
	}

	// the width used to decode operands. unsized instructions read their
	// operands as 64-bit values.
	opWidth := width
	if defn.Width == instructions.Unsized {
		opWidth = instructions.Width64
	}

	ins := &Instruction{
		Defn:     defn,
		Width:    width,
		Operands: make([]*target.Target, 0, defn.Operands),
	}

	for i := 0; i < defn.Operands; i++ {
		trg, err := target.Decode(s, opWidth, regs, mem)
		if err != nil {
			return nil, err
		}
		ins.Operands = append(ins.Operands, trg)
	}

	ins.Literal = ins.literal()

	return ins, nil
}

// literal reconstructs the assembly text of the instruction.
func (ins *Instruction) literal() string {
	s := strings.Builder{}
	s.WriteString(ins.Defn.Mnemonic)

	if ins.Defn.Width == instructions.Sized {
		s.WriteString(fmt.Sprintf(" .%dbit", instructions.WidthBits(ins.Width)))
	}

	for i, trg := range ins.Operands {
		if i == 0 {
			s.WriteString(" <")
		} else {
			s.WriteString(", <")
		}
		s.WriteString(trg.Literal())
		s.WriteString(">")
	}

	return s.String()
}
