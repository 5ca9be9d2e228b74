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
	"math"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
	"github.com/sysdarft/sysdarft/hardware/registers"
)

// bank returns the register kind whose width matches w bits.
func bank(w int) registers.Kind {
	switch w {
	case 8:
		return registers.R8
	case 16:
		return registers.R16
	case 32:
		return registers.R32
	}
	return registers.R64
}

// execute dispatches a decoded instruction to its handler. The
// instruction pointer has already been advanced past the instruction;
// branch handlers overwrite it.
func (mc *CPU) execute(ins *Instruction) error {
	op := ins.Operands
	w := instructions.WidthBits(ins.Width)

	// operand values are fetched lazily by the handlers that need them

	switch ins.Defn.Opcode {
	case instructions.NOP:
		// no operation

	case instructions.ADD, instructions.ADC, instructions.SUB,
		instructions.SBB, instructions.CMP:
		a, err := op[0].Value()
		if err != nil {
			return err
		}
		b, err := op[1].Value()
		if err != nil {
			return err
		}

		fl := mc.Regs.Flags()
		var r uint64
		switch ins.Defn.Opcode {
		case instructions.ADD:
			r, fl.Carry, fl.Overflow = aluAdd(w, a, b, false)
		case instructions.ADC:
			r, fl.Carry, fl.Overflow = aluAdd(w, a, b, fl.Carry)
		case instructions.SUB, instructions.CMP:
			r, fl.Carry, fl.Overflow = aluSub(w, a, b, false)
		case instructions.SBB:
			r, fl.Carry, fl.Overflow = aluSub(w, a, b, fl.Carry)
		}
		setZSP(&fl, w, r)
		mc.Regs.SetFlags(fl)

		if ins.Defn.Opcode != instructions.CMP {
			return op[0].SetValue(r)
		}

	case instructions.NEG:
		a, err := op[0].Value()
		if err != nil {
			return err
		}
		fl := mc.Regs.Flags()
		r, carry, overflow := aluSub(w, 0, a, false)
		fl.Carry = carry
		fl.Overflow = overflow
		setZSP(&fl, w, r)
		mc.Regs.SetFlags(fl)
		return op[0].SetValue(r)

	case instructions.MUL, instructions.IMUL:
		a, err := mc.Regs.Get(bank(w), 0)
		if err != nil {
			return err
		}
		b, err := op[0].Value()
		if err != nil {
			return err
		}

		var lo, hi uint64
		if ins.Defn.Opcode == instructions.MUL {
			lo, hi = aluMul(w, a, b)
		} else {
			lo, hi = aluIMul(w, a, b)
		}

		if err := mc.Regs.Set(bank(w), 0, lo); err != nil {
			return err
		}
		if err := mc.Regs.Set(bank(w), 1, hi); err != nil {
			return err
		}

		fl := mc.Regs.Flags()
		if ins.Defn.Opcode == instructions.MUL {
			fl.Carry = hi != 0
		} else {
			// the signed product overflows when the high half is not
			// the sign extension of the low half
			if signExtend(w, lo) < 0 {
				fl.Carry = hi != aluMask(w)
			} else {
				fl.Carry = hi != 0
			}
		}
		fl.Overflow = fl.Carry
		setZSP(&fl, w, lo)
		mc.Regs.SetFlags(fl)

	case instructions.DIV, instructions.IDIV:
		a, err := mc.Regs.Get(bank(w), 0)
		if err != nil {
			return err
		}
		b, err := op[0].Value()
		if err != nil {
			return err
		}
		b &= aluMask(w)

		if b == 0 {
			return curated.Errorf(divideByZero, ins.Literal)
		}

		var q, rem uint64
		if ins.Defn.Opcode == instructions.DIV {
			a &= aluMask(w)
			q = a / b
			rem = a % b
		} else {
			sa := signExtend(w, a)
			sb := signExtend(w, b)
			if sa == math.MinInt64 && sb == -1 {
				return curated.Errorf(divideByZero, ins.Literal)
			}
			q = uint64(sa / sb)
			rem = uint64(sa % sb)
		}

		if err := mc.Regs.Set(bank(w), 0, q); err != nil {
			return err
		}
		return mc.Regs.Set(bank(w), 1, rem)

	case instructions.AND, instructions.OR, instructions.XOR:
		a, err := op[0].Value()
		if err != nil {
			return err
		}
		b, err := op[1].Value()
		if err != nil {
			return err
		}

		var r uint64
		switch ins.Defn.Opcode {
		case instructions.AND:
			r = a & b
		case instructions.OR:
			r = a | b
		case instructions.XOR:
			r = a ^ b
		}
		r &= aluMask(w)

		fl := mc.Regs.Flags()
		fl.Carry = false
		fl.Overflow = false
		setZSP(&fl, w, r)
		mc.Regs.SetFlags(fl)
		return op[0].SetValue(r)

	case instructions.NOT:
		a, err := op[0].Value()
		if err != nil {
			return err
		}
		return op[0].SetValue(^a & aluMask(w))

	case instructions.SHL, instructions.SHR, instructions.ROL,
		instructions.ROR, instructions.RCL, instructions.RCR:
		return mc.shift(ins, w)

	case instructions.MOV:
		v, err := op[1].Value()
		if err != nil {
			return err
		}
		return op[0].SetValue(v)

	case instructions.XCHG:
		a, err := op[0].Value()
		if err != nil {
			return err
		}
		b, err := op[1].Value()
		if err != nil {
			return err
		}
		if err := op[0].SetValue(b); err != nil {
			return err
		}
		return op[1].SetValue(a)

	case instructions.PUSH:
		v, err := op[0].Value()
		if err != nil {
			return err
		}
		return mc.pushN(v, uint64(w/8))

	case instructions.POP:
		v, err := mc.popN(uint64(w / 8))
		if err != nil {
			return err
		}
		return op[0].SetValue(v)

	case instructions.PUSHALL:
		return mc.pushBank()

	case instructions.POPALL:
		return mc.popBank()

	case instructions.ENTER:
		n, err := op[0].Value()
		if err != nil {
			return err
		}
		sb, _ := mc.Regs.Get(registers.R64, registers.IdxSB)
		if err := mc.push64(sb); err != nil {
			return err
		}
		sp, _ := mc.Regs.Get(registers.R64, registers.IdxSP)
		if err := mc.Regs.Set(registers.R64, registers.IdxSB, sp); err != nil {
			return err
		}
		return mc.Regs.Set(registers.R64, registers.IdxSP, sp-n)

	case instructions.LEAVE:
		sb, _ := mc.Regs.Get(registers.R64, registers.IdxSB)
		if err := mc.Regs.Set(registers.R64, registers.IdxSP, sb); err != nil {
			return err
		}
		osb, err := mc.pop64()
		if err != nil {
			return err
		}
		return mc.Regs.Set(registers.R64, registers.IdxSB, osb)

	case instructions.MOVS:
		src, _ := mc.Regs.Get(registers.R64, 0)
		dst, _ := mc.Regs.Get(registers.R64, 1)
		n, _ := mc.Regs.Get(registers.R64, 2)
		if n == 0 {
			return nil
		}
		data, err := mc.Mem.Read(src, n)
		if err != nil {
			return err
		}
		return mc.Mem.Write(dst, data)

	case instructions.FADD:
		a, err := op[0].Value()
		if err != nil {
			return err
		}
		b, err := op[1].Value()
		if err != nil {
			return err
		}
		r := math.Float64frombits(a) + math.Float64frombits(b)
		return op[0].SetValue(math.Float64bits(r))

	case instructions.FDIV:
		b, err := op[0].Value()
		if err != nil {
			return err
		}
		a, err := mc.Regs.Get(registers.XMM, 0)
		if err != nil {
			return err
		}
		r := math.Float64frombits(a) / math.Float64frombits(b)
		return mc.Regs.Set(registers.XMM, 0, math.Float64bits(r))

	case instructions.INT:
		n, err := op[0].Value()
		if err != nil {
			return err
		}
		return mc.Interrupt(n)

	case instructions.JMP, instructions.JE, instructions.JNE,
		instructions.JL, instructions.JG, instructions.JLE,
		instructions.JGE:
		v, err := op[0].Value()
		if err != nil {
			return err
		}

		fl := mc.Regs.Flags()
		taken := false
		switch ins.Defn.Opcode {
		case instructions.JMP:
			taken = true
		case instructions.JE:
			taken = fl.Zero
		case instructions.JNE:
			taken = !fl.Zero
		case instructions.JL:
			taken = fl.Sign != fl.Overflow
		case instructions.JG:
			taken = !fl.Zero && fl.Sign == fl.Overflow
		case instructions.JLE:
			taken = fl.Zero || fl.Sign != fl.Overflow
		case instructions.JGE:
			taken = fl.Sign == fl.Overflow
		}

		if taken {
			mc.Regs.SetIP(v)
		}

	case instructions.CALL:
		v, err := op[0].Value()
		if err != nil {
			return err
		}
		if err := mc.push64(mc.Regs.IP()); err != nil {
			return err
		}
		mc.Regs.SetIP(v)

	case instructions.RET:
		ip, err := mc.pop64()
		if err != nil {
			return err
		}
		mc.Regs.SetIP(ip)

	case instructions.IRET:
		return mc.interruptReturn()

	case instructions.HLT:
		mc.halted = true

	default:
		return curated.Errorf(instructions.IllegalInstruction,
			fmt.Sprintf("no handler for opcode %#02x", uint8(ins.Defn.Opcode)))
	}

	return nil
}

// shift handles the shift and rotate instructions. shift counts are
// taken modulo the width; the rotate-through-carry counts modulo width
// plus one.
func (mc *CPU) shift(ins *Instruction, w int) error {
	op := ins.Operands

	a, err := op[0].Value()
	if err != nil {
		return err
	}
	n64, err := op[1].Value()
	if err != nil {
		return err
	}

	m := aluMask(w)
	a &= m

	fl := mc.Regs.Flags()
	var r uint64

	switch ins.Defn.Opcode {
	case instructions.SHL:
		n := uint(n64) % uint(w)
		r = (a << n) & m
		if n > 0 {
			fl.Carry = (a>>(uint(w)-n))&1 == 1
		}
		setZSP(&fl, w, r)

	case instructions.SHR:
		n := uint(n64) % uint(w)
		r = a >> n
		if n > 0 {
			fl.Carry = (a>>(n-1))&1 == 1
		}
		setZSP(&fl, w, r)

	case instructions.ROL:
		n := uint(n64) % uint(w)
		r = ((a << n) | (a >> (uint(w) - n))) & m

	case instructions.ROR:
		n := uint(n64) % uint(w)
		r = ((a >> n) | (a << (uint(w) - n))) & m

	case instructions.RCL:
		n := uint(n64) % uint(w+1)
		r = a
		for i := uint(0); i < n; i++ {
			rcarry := r&aluSignBit(w) != 0
			r = (r << 1) & m
			if fl.Carry {
				r |= 1
			}
			fl.Carry = rcarry
		}

	case instructions.RCR:
		n := uint(n64) % uint(w+1)
		r = a
		for i := uint(0); i < n; i++ {
			rcarry := r&1 == 1
			r >>= 1
			if fl.Carry {
				r |= aluSignBit(w)
			}
			fl.Carry = rcarry
		}
	}

	mc.Regs.SetFlags(fl)
	return op[0].SetValue(r)
}
