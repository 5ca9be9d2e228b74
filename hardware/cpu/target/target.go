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

package target

import (
	"fmt"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
	"github.com/sysdarft/sysdarft/hardware/memory"
	"github.com/sysdarft/sysdarft/hardware/registers"
)

// The operand prefix bytes. The first byte of every encoded operand is
// one of these.
const (
	PrefixRegister = uint8(0x01)
	PrefixConstant = uint8(0x02)
	PrefixMemory   = uint8(0x03)
)

// Stream is the source of operand bytes. The executor implements it over
// the address space at the instruction pointer; the disassembler
// implements it over a byte slice.
type Stream interface {
	Pop8() (uint8, error)

	// Pop64 reads eight bytes, little-endian.
	Pop64() (uint64, error)
}

// Type distinguishes the three operand variants.
type Type int

// The operand variants.
const (
	TypeRegister Type = iota
	TypeConstant
	TypeMemory
)

// Target is a decoded operand: a register reference, an immediate
// constant, or a computed memory address. Targets are ephemeral - they
// are constructed during instruction decode and discarded when the
// instruction retires.
type Target struct {
	typ   Type
	width uint8

	// register operands
	kind registers.Kind
	idx  int

	// constant operands
	val    uint64
	signed bool

	// memory operands
	addr  uint64
	ratio uint64

	literal string

	regs *registers.File
	mem  *memory.Memory
}

// Type of the operand.
func (trg *Target) Type() Type {
	return trg.typ
}

// Width byte of the operand.
func (trg *Target) Width() uint8 {
	return trg.width
}

// Literal returns the human readable form of the operand, reconstructed
// during decode. Used by the disassembler, traces and tests.
func (trg *Target) Literal() string {
	return trg.literal
}

// EffectiveAddress of a memory operand. Meaningless for the other
// variants.
func (trg *Target) EffectiveAddress() uint64 {
	return trg.addr
}

// Register bank and index of a register operand. Meaningless for the
// other variants.
func (trg *Target) Register() (registers.Kind, int) {
	return trg.kind, trg.idx
}

// Decode one operand from the stream. The width argument is the width
// byte of the enclosing instruction; it fixes the access width of memory
// operands. Register and constant operands carry their own width.
func Decode(s Stream, width uint8, regs *registers.File, mem *memory.Memory) (*Target, error) {
	prefix, err := s.Pop8()
	if err != nil {
		return nil, err
	}
	return decodePrefix(prefix, s, width, regs, mem)
}

func decodePrefix(prefix uint8, s Stream, width uint8, regs *registers.File, mem *memory.Memory) (*Target, error) {
	switch prefix {
	case PrefixRegister:
		return decodeRegister(s, regs, mem)
	case PrefixConstant:
		return decodeConstant(s, regs, mem)
	case PrefixMemory:
		return decodeMemory(s, width, regs, mem)
	}
	return nil, curated.Errorf(instructions.IllegalInstruction,
		fmt.Sprintf("unknown target prefix %#02x", prefix))
}

func decodeRegister(s Stream, regs *registers.File, mem *memory.Memory) (*Target, error) {
	width, err := s.Pop8()
	if err != nil {
		return nil, err
	}

	idx, err := s.Pop8()
	if err != nil {
		return nil, err
	}

	var kind registers.Kind
	switch width {
	case instructions.Width8:
		kind = registers.R8
	case instructions.Width16:
		kind = registers.R16
	case instructions.Width32:
		kind = registers.R32
	case instructions.Width64:
		kind = registers.R64
	case instructions.WidthFloat:
		kind = registers.XMM
	default:
		return nil, curated.Errorf(instructions.IllegalInstruction,
			fmt.Sprintf("unknown register width %#02x", width))
	}

	// validate the index against the width's register bank
	if _, err := regs.Get(kind, int(idx)); err != nil {
		return nil, curated.Errorf(instructions.IllegalInstruction, err)
	}

	return &Target{
		typ:     TypeRegister,
		width:   width,
		kind:    kind,
		idx:     int(idx),
		literal: "%" + registers.Name(kind, int(idx)),
		regs:    regs,
		mem:     mem,
	}, nil
}

func decodeConstant(s Stream, regs *registers.File, mem *memory.Memory) (*Target, error) {
	sign, err := s.Pop8()
	if err != nil {
		return nil, err
	}
	if sign != 0x00 && sign != 0x01 {
		return nil, curated.Errorf(instructions.IllegalInstruction,
			fmt.Sprintf("unknown constant sign byte %#02x", sign))
	}

	val, err := s.Pop64()
	if err != nil {
		return nil, err
	}

	trg := &Target{
		typ:    TypeConstant,
		width:  instructions.Width64,
		val:    val,
		signed: sign == 0x01,
		regs:   regs,
		mem:    mem,
	}

	if trg.signed {
		trg.literal = fmt.Sprintf("$(%d)", int64(val))
	} else {
		trg.literal = fmt.Sprintf("$(0x%X)", val)
	}

	return trg, nil
}

func decodeMemory(s Stream, width uint8, regs *registers.File, mem *memory.Memory) (*Target, error) {
	ratioBCD, err := s.Pop8()
	if err != nil {
		return nil, err
	}

	var ratio uint64
	switch ratioBCD {
	case 0x01:
		ratio = 1
	case 0x02:
		ratio = 2
	case 0x04:
		ratio = 4
	case 0x08:
		ratio = 8
	case 0x16:
		ratio = 16
	default:
		return nil, curated.Errorf(instructions.IllegalInstruction,
			fmt.Sprintf("unknown memory ratio %#02x", ratioBCD))
	}

	// the three sub-operands must each decode as a 64-bit register or a
	// constant. nested memory operands are not allowed.
	part := func() (uint64, string, error) {
		prefix, err := s.Pop8()
		if err != nil {
			return 0, "", err
		}
		if prefix != PrefixRegister && prefix != PrefixConstant {
			return 0, "", curated.Errorf(instructions.IllegalInstruction,
				fmt.Sprintf("bad prefix %#02x inside memory target", prefix))
		}

		sub, err := decodePrefix(prefix, s, width, regs, mem)
		if err != nil {
			return 0, "", err
		}
		if sub.typ == TypeRegister && sub.width != instructions.Width64 {
			return 0, "", curated.Errorf(instructions.IllegalInstruction,
				fmt.Sprintf("register %s inside memory target is not 64-bit", sub.literal))
		}

		v, err := sub.Value()
		if err != nil {
			return 0, "", err
		}
		return v, sub.literal, nil
	}

	base, litBase, err := part()
	if err != nil {
		return nil, err
	}
	off1, litOff1, err := part()
	if err != nil {
		return nil, err
	}
	off2, litOff2, err := part()
	if err != nil {
		return nil, err
	}

	return &Target{
		typ:   TypeMemory,
		width: width,
		addr:  (base + off1 + off2) * ratio,
		ratio: ratio,
		literal: fmt.Sprintf("*%d&%d(%s, %s, %s)",
			ratio, instructions.WidthBits(width), litBase, litOff1, litOff2),
		regs: regs,
		mem:  mem,
	}, nil
}
