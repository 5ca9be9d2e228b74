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
)

// Value reads the operand: the register value, the constant value, or
// the memory content at the effective address. Values narrower than 64
// bits are zero extended.
func (trg *Target) Value() (uint64, error) {
	switch trg.typ {
	case TypeRegister:
		return trg.regs.Get(trg.kind, trg.idx)

	case TypeConstant:
		return trg.val, nil

	case TypeMemory:
		return trg.mem.ReadInt(trg.addr, instructions.WidthBytes(trg.width))
	}

	return 0, curated.Errorf(instructions.IllegalInstruction,
		fmt.Sprintf("read of malformed target %q", trg.literal))
}

// SetValue writes the operand. Writes to register operands truncate to
// the register width; writes to memory operands store the low width
// bytes at the effective address; writes to constants are illegal and
// mutate nothing.
func (trg *Target) SetValue(val uint64) error {
	switch trg.typ {
	case TypeRegister:
		return trg.regs.Set(trg.kind, trg.idx, val)

	case TypeConstant:
		return curated.Errorf(instructions.IllegalInstruction,
			fmt.Sprintf("write to constant target %s", trg.literal))

	case TypeMemory:
		return trg.mem.WriteInt(trg.addr, val, instructions.WidthBytes(trg.width))
	}

	return curated.Errorf(instructions.IllegalInstruction,
		fmt.Sprintf("write to malformed target %q", trg.literal))
}
