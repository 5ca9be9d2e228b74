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
	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
	"github.com/sysdarft/sysdarft/hardware/registers"
)

// The encode functions are the write side of the operand codec. The
// assembler composes them into full operand encodings; Decode() is the
// exact inverse.

// WidthByteOf returns the width byte used to encode a register of the
// given bank.
func WidthByteOf(kind registers.Kind) uint8 {
	switch kind {
	case registers.R8:
		return instructions.Width8
	case registers.R16:
		return instructions.Width16
	case registers.R32:
		return instructions.Width32
	case registers.R64:
		return instructions.Width64
	case registers.XMM:
		return instructions.WidthFloat
	}
	return instructions.WidthNone
}

// RatioByte returns the packed BCD encoding of a memory ratio. The bool
// return value is false if the ratio is not one of 1, 2, 4, 8 or 16.
func RatioByte(ratio uint64) (uint8, bool) {
	switch ratio {
	case 1:
		return 0x01, true
	case 2:
		return 0x02, true
	case 4:
		return 0x04, true
	case 8:
		return 0x08, true
	case 16:
		return 0x16, true
	}
	return 0, false
}

// AppendRegister appends the encoding of a register operand.
func AppendRegister(b []uint8, kind registers.Kind, idx int) []uint8 {
	return append(b, PrefixRegister, WidthByteOf(kind), uint8(idx))
}

// AppendConstant appends the encoding of a constant operand. The value
// is the unsigned bit pattern of the (possibly two's-complement) result;
// the signed flag records whether the textual form carried a minus sign.
func AppendConstant(b []uint8, val uint64, signed bool) []uint8 {
	if signed {
		b = append(b, PrefixConstant, 0x01)
	} else {
		b = append(b, PrefixConstant, 0x00)
	}
	for i := 0; i < 8; i++ {
		b = append(b, uint8(val))
		val >>= 8
	}
	return b
}

// AppendMemoryHeader appends the prefix and ratio of a memory operand.
// The three sub-operand encodings (register or constant, never memory)
// must follow.
func AppendMemoryHeader(b []uint8, ratioBCD uint8) []uint8 {
	return append(b, PrefixMemory, ratioBCD)
}
