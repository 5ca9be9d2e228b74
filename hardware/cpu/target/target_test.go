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

package target_test

import (
	"testing"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
	"github.com/sysdarft/sysdarft/hardware/cpu/target"
	"github.com/sysdarft/sysdarft/hardware/memory"
	"github.com/sysdarft/sysdarft/hardware/registers"
	"github.com/sysdarft/sysdarft/test"
)

// byteStream implements target.Stream over a byte slice.
type byteStream struct {
	data []uint8
	pos  int
}

func (s *byteStream) Pop8() (uint8, error) {
	if s.pos >= len(s.data) {
		return 0, curated.Errorf(instructions.IllegalInstruction, "stream exhausted")
	}
	v := s.data[s.pos]
	s.pos++
	return v, nil
}

func (s *byteStream) Pop64() (uint64, error) {
	var v uint64
	for i := 0; i < 8; i++ {
		b, err := s.Pop8()
		if err != nil {
			return 0, err
		}
		v |= uint64(b) << (8 * i)
	}
	return v, nil
}

func newTestRig() (*registers.File, *memory.Memory) {
	return registers.NewFile(), memory.NewMemory(0x1000)
}

func TestDecodeRegister(t *testing.T) {
	regs, mem := newTestRig()
	test.DemandSuccess(t, regs.Set(registers.R64, 14, 0x1234))

	b := target.AppendRegister(nil, registers.R64, 14)
	trg, err := target.Decode(&byteStream{data: b}, instructions.Width64, regs, mem)
	test.DemandSuccess(t, err)

	test.Equate(t, int(trg.Type()), int(target.TypeRegister))
	test.Equate(t, trg.Literal(), "%FER14")

	v, err := trg.Value()
	test.DemandSuccess(t, err)
	test.Equate(t, v, 0x1234)

	// writes truncate to the register width
	b = target.AppendRegister(nil, registers.R8, 2)
	trg, err = target.Decode(&byteStream{data: b}, instructions.Width8, regs, mem)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, trg.SetValue(0x1ff))
	v, _ = regs.Get(registers.R8, 2)
	test.Equate(t, v, 0xff)
}

func TestDecodeConstant(t *testing.T) {
	regs, mem := newTestRig()

	b := target.AppendConstant(nil, 114514, false)
	trg, err := target.Decode(&byteStream{data: b}, instructions.Width64, regs, mem)
	test.DemandSuccess(t, err)
	test.Equate(t, trg.Literal(), "$(0x1BF52)")

	v, err := trg.Value()
	test.DemandSuccess(t, err)
	test.Equate(t, v, 114514)

	// negative constants carry the sign byte and print in decimal
	b = target.AppendConstant(nil, uint64(0xffffffffffff0000), true)
	trg, err = target.Decode(&byteStream{data: b}, instructions.Width64, regs, mem)
	test.DemandSuccess(t, err)
	test.Equate(t, trg.Literal(), "$(-65536)")
}

func TestConstantWriteFails(t *testing.T) {
	regs, mem := newTestRig()

	b := target.AppendConstant(nil, 42, false)
	trg, err := target.Decode(&byteStream{data: b}, instructions.Width64, regs, mem)
	test.DemandSuccess(t, err)

	err = trg.SetValue(1)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, instructions.IllegalInstruction), true)

	// the constant is unchanged
	v, _ := trg.Value()
	test.Equate(t, v, 42)
}

func TestDecodeMemory(t *testing.T) {
	regs, mem := newTestRig()
	test.DemandSuccess(t, regs.Set(registers.R64, 14, 0))

	// *2&64($(255), %FER14, $(4)) -> effective address (255+0+4)*2 = 518
	b := target.AppendMemoryHeader(nil, 0x02)
	b = target.AppendConstant(b, 255, false)
	b = target.AppendRegister(b, registers.R64, 14)
	b = target.AppendConstant(b, 4, false)

	trg, err := target.Decode(&byteStream{data: b}, instructions.Width64, regs, mem)
	test.DemandSuccess(t, err)
	test.Equate(t, int(trg.Type()), int(target.TypeMemory))
	test.Equate(t, trg.EffectiveAddress(), 518)
	test.Equate(t, trg.Literal(), "*2&64($(0xFF), %FER14, $(0x4))")

	// writes touch exactly the bytes [518, 526)
	test.DemandSuccess(t, trg.SetValue(114514))
	v, err := mem.ReadInt(518, 8)
	test.DemandSuccess(t, err)
	test.Equate(t, v, 114514)

	// the byte either side is untouched
	d, _ := mem.Read(517, 1)
	test.Equate(t, uint64(d[0]), 0)
	d, _ = mem.Read(526, 1)
	test.Equate(t, uint64(d[0]), 0)

	v, err = trg.Value()
	test.DemandSuccess(t, err)
	test.Equate(t, v, 114514)
}

func TestDecodeMemoryNarrow(t *testing.T) {
	regs, mem := newTestRig()

	// a 16-bit access touches exactly two bytes
	b := target.AppendMemoryHeader(nil, 0x01)
	b = target.AppendConstant(b, 0x100, false)
	b = target.AppendConstant(b, 0, false)
	b = target.AppendConstant(b, 0, false)

	trg, err := target.Decode(&byteStream{data: b}, instructions.Width16, regs, mem)
	test.DemandSuccess(t, err)
	test.Equate(t, trg.Literal(), "*1&16($(0x100), $(0x0), $(0x0))")

	test.DemandSuccess(t, trg.SetValue(0xaabbccdd))
	v, _ := mem.ReadInt(0x100, 2)
	test.Equate(t, v, 0xccdd)
	d, _ := mem.Read(0x102, 1)
	test.Equate(t, uint64(d[0]), 0)
}

func TestDecodeErrors(t *testing.T) {
	regs, mem := newTestRig()

	// unknown prefix
	_, err := target.Decode(&byteStream{data: []uint8{0x04}}, instructions.Width64, regs, mem)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, instructions.IllegalInstruction), true)

	// bad register width byte
	_, err = target.Decode(&byteStream{data: []uint8{0x01, 0x63, 0x00}}, instructions.Width64, regs, mem)
	test.ExpectedFailure(t, err)

	// bad register index
	_, err = target.Decode(&byteStream{data: []uint8{0x01, 0x08, 0x09}}, instructions.Width8, regs, mem)
	test.ExpectedFailure(t, err)

	// bad ratio
	b := target.AppendMemoryHeader(nil, 0x03)
	_, err = target.Decode(&byteStream{data: b}, instructions.Width64, regs, mem)
	test.ExpectedFailure(t, err)

	// nested memory operand
	b = target.AppendMemoryHeader(nil, 0x01)
	b = target.AppendMemoryHeader(b, 0x01)
	_, err = target.Decode(&byteStream{data: b}, instructions.Width64, regs, mem)
	test.ExpectedFailure(t, err)

	// non 64-bit register inside a memory operand
	b = target.AppendMemoryHeader(nil, 0x01)
	b = target.AppendRegister(b, registers.R8, 0)
	_, err = target.Decode(&byteStream{data: b}, instructions.Width64, regs, mem)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, instructions.IllegalInstruction), true)
}
