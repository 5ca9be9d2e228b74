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

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/interrupts"
	"github.com/sysdarft/sysdarft/hardware/memory"
	"github.com/sysdarft/sysdarft/hardware/registers"
	"github.com/sysdarft/sysdarft/logger"
)

// Fault is the error pattern returned by Step() when a fault vector's
// handler entry is the default (zeroed) value. The machine cannot make
// progress and halts; the error carries a summary of the faulting
// instruction.
const Fault = "processor fault: %v"

// CPU is the processor of the Sysdarft machine. Step() is not
// goroutine-safe - it must only be called from the executor thread. The
// register file and address space it works on serialise their own
// access.
type CPU struct {
	Regs *registers.File
	Mem  *memory.Memory
	Tbl  *interrupts.Table

	// true once a HLT instruction has been executed or a fault has gone
	// unhandled. cleared by Reset().
	halted bool

	// the most recently executed instruction. used for traces and for
	// the fault summary.
	LastResult Result

	// total number of instructions retired since the last Reset().
	InstructionCount uint64
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(regs *registers.File, mem *memory.Memory, tbl *interrupts.Table) *CPU {
	return &CPU{
		Regs: regs,
		Mem:  mem,
		Tbl:  tbl,
	}
}

// Halted is true if the processor cannot make further progress.
func (mc *CPU) Halted() bool {
	return mc.halted
}

// Reset the processor. Registers and flags are zeroed and the halt
// condition is cleared. Memory is left alone.
func (mc *CPU) Reset() {
	mc.Regs.Reset()
	mc.halted = false
	mc.LastResult = Result{}
	mc.InstructionCount = 0
}

// ipStream pulls instruction bytes from the address space, starting at
// the instruction pointer. the cursor only moves forward; it is
// committed to the IP register by Step() once decoding has finished.
type ipStream struct {
	mem    *memory.Memory
	cursor uint64
}

func (s *ipStream) Pop8() (uint8, error) {
	v, err := s.mem.ReadInt(s.cursor, 1)
	if err != nil {
		return 0, err
	}
	s.cursor++
	return uint8(v), nil
}

func (s *ipStream) Pop64() (uint64, error) {
	v, err := s.mem.ReadInt(s.cursor, 8)
	if err != nil {
		return 0, err
	}
	s.cursor += 8
	return v, nil
}

// Step fetches, decodes and executes one instruction. Errors raised
// while doing so are converted into software interrupts on the fixed
// fault vectors; Step only returns an error when the machine cannot
// continue (the fault vector's handler is the zeroed default).
func (mc *CPU) Step() error {
	if mc.halted {
		return curated.Errorf(Fault, "step of halted machine")
	}

	addr := mc.Regs.IP()
	s := &ipStream{mem: mc.Mem, cursor: addr}

	ins, err := DecodeInstruction(s, mc.Regs, mc.Mem)
	if err != nil {
		mc.LastResult = Result{Address: addr, Literal: "?"}
		return mc.fault(err)
	}

	mc.LastResult = Result{
		Address:   addr,
		Defn:      ins.Defn,
		Width:     ins.Width,
		Literal:   ins.Literal,
		ByteCount: s.cursor - addr,
	}
	mc.InstructionCount++

	// the instruction pointer is committed before dispatch so that
	// branch handlers can overwrite it and so that CALL and interrupt
	// entry save the address of the next instruction.
	mc.Regs.SetIP(s.cursor)

	if err := mc.execute(ins); err != nil {
		return mc.fault(err)
	}

	return nil
}

// fault converts a decode or execution error into a software interrupt
// on the appropriate fixed vector.
func (mc *CPU) fault(err error) error {
	var vector uint64

	switch {
	case curated.Has(err, memory.Fault):
		vector = interrupts.VectorMemoryFault
	case curated.Has(err, divideByZero):
		vector = interrupts.VectorDivideByZero
	default:
		// unknown prefixes, opcodes, widths, register indices, writes
		// to constants, operand arity mismatches
		vector = interrupts.VectorIllegalInstruction
	}

	logger.Logf("CPU", "fault at %#x: %v", mc.LastResult.Address, err)

	if derr := mc.Interrupt(vector); derr != nil {
		// the fault vector itself is unhandled. halt with a summary.
		mc.halted = true
		return curated.Errorf(Fault,
			fmt.Sprintf("%v (unhandled vector %#02x: %v)", err, vector, derr))
	}

	return nil
}

// divideByZero is an internal error pattern. it exists so that fault()
// can tell a division error apart from other execution errors; it never
// escapes the package.
const divideByZero = "divide by zero: %v"

// Interrupt dispatches a software interrupt. The vector table gives an
// address in the vector region; the 8 bytes there are the handler entry
// point. The instruction pointer, the flags and the general purpose
// banks are pushed before control transfers. An out of range interrupt
// number falls back to the illegal instruction vector.
func (mc *CPU) Interrupt(n uint64) error {
	slot, err := mc.Tbl.Get(n)
	if err != nil {
		if n == interrupts.VectorIllegalInstruction {
			return err
		}
		return mc.Interrupt(interrupts.VectorIllegalInstruction)
	}

	handler, err := mc.Mem.ReadInt(slot, 8)
	if err != nil {
		return err
	}
	if handler == 0 {
		return curated.Errorf(interrupts.TableError,
			fmt.Sprintf("no handler installed for vector %#02x", n))
	}

	// save context: IP, FLAGS, then the register banks in the canonical
	// save order
	if err := mc.push64(mc.Regs.IP()); err != nil {
		return err
	}
	if err := mc.push64(mc.Regs.Flags().Value()); err != nil {
		return err
	}
	if err := mc.pushBank(); err != nil {
		return err
	}

	fl := mc.Regs.Flags()
	fl.InterruptEnable = false
	mc.Regs.SetFlags(fl)

	mc.Regs.SetIP(handler)
	return nil
}

// interruptReturn reverses Interrupt(): restore the register banks, pop
// the flags, pop the instruction pointer.
func (mc *CPU) interruptReturn() error {
	if err := mc.popBank(); err != nil {
		return err
	}

	fl, err := mc.pop64()
	if err != nil {
		return err
	}
	flags := mc.Regs.Flags()
	flags.FromValue(fl)
	mc.Regs.SetFlags(flags)

	ip, err := mc.pop64()
	if err != nil {
		return err
	}
	mc.Regs.SetIP(ip)

	return nil
}

// stack helpers. the stack pointer pre-decrements on push and
// post-increments on pop.

func (mc *CPU) push64(v uint64) error {
	sp, _ := mc.Regs.Get(registers.R64, registers.IdxSP)
	sp -= 8
	if err := mc.Mem.WriteInt(sp, v, 8); err != nil {
		return err
	}
	return mc.Regs.Set(registers.R64, registers.IdxSP, sp)
}

func (mc *CPU) pop64() (uint64, error) {
	sp, _ := mc.Regs.Get(registers.R64, registers.IdxSP)
	v, err := mc.Mem.ReadInt(sp, 8)
	if err != nil {
		return 0, err
	}
	return v, mc.Regs.Set(registers.R64, registers.IdxSP, sp+8)
}

func (mc *CPU) pushN(v uint64, n uint64) error {
	sp, _ := mc.Regs.Get(registers.R64, registers.IdxSP)
	sp -= n
	if err := mc.Mem.WriteInt(sp, v, n); err != nil {
		return err
	}
	return mc.Regs.Set(registers.R64, registers.IdxSP, sp)
}

func (mc *CPU) popN(n uint64) (uint64, error) {
	sp, _ := mc.Regs.Get(registers.R64, registers.IdxSP)
	v, err := mc.Mem.ReadInt(sp, n)
	if err != nil {
		return 0, err
	}
	return v, mc.Regs.Set(registers.R64, registers.IdxSP, sp+n)
}

func (mc *CPU) pushBank() error {
	for _, s := range registers.SaveOrder {
		v, err := mc.Regs.Get(s.Kind, s.Index)
		if err != nil {
			return err
		}
		if err := mc.push64(v); err != nil {
			return err
		}
	}
	return nil
}

func (mc *CPU) popBank() error {
	for i := len(registers.SaveOrder) - 1; i >= 0; i-- {
		s := registers.SaveOrder[i]
		v, err := mc.pop64()
		if err != nil {
			return err
		}
		if err := mc.Regs.Set(s.Kind, s.Index, v); err != nil {
			return err
		}
	}
	return nil
}
