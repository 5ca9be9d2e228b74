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

// Package hardware is the container for the emulated components of the
// Sysdarft machine: the register file, the address space, the interrupt
// vector table, the processor and the display buffer. The register
// file, address space, interrupt table and display live for the
// lifetime of the machine instance and are shared, by reference, with
// the UI threads.
package hardware

import (
	"fmt"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/display"
	"github.com/sysdarft/sysdarft/hardware/cpu"
	"github.com/sysdarft/sysdarft/hardware/interrupts"
	"github.com/sysdarft/sysdarft/hardware/memory"
	"github.com/sysdarft/sysdarft/hardware/memory/memorymap"
	"github.com/sysdarft/sysdarft/hardware/registers"
	"github.com/sysdarft/sysdarft/logger"
)

// LoadError is the error pattern returned when a program image cannot
// be placed into memory.
const LoadError = "load error: %v"

// PerformanceBrake is the number of instructions executed between calls
// to the Run() continue check. Checking every instruction is measurably
// expensive.
const PerformanceBrake = 128

// Machine is the main container for the emulated components.
type Machine struct {
	Regs    *registers.File
	Mem     *memory.Memory
	Tbl     *interrupts.Table
	CPU     *cpu.CPU
	Display *display.Buffer

	// called on lifecycle events ("start", "halt"). may be nil. used by
	// the extension module registry.
	onEvent func(event string, arg uint64)
}

// NewMachine creates a machine and everything associated with the
// hardware. A memSize of zero selects the default address space size.
func NewMachine(memSize uint64) (*Machine, error) {
	if memSize == 0 {
		memSize = memorymap.DefaultMemBytes
	}
	if memSize <= memorymap.BIOSStart {
		return nil, curated.Errorf("machine: memory size %#x leaves no room for programs", memSize)
	}

	m := &Machine{
		Regs:    registers.NewFile(),
		Mem:     memory.NewMemory(memSize),
		Tbl:     interrupts.NewTable(),
		Display: display.NewBuffer(),
	}

	m.CPU = cpu.NewCPU(m.Regs, m.Mem, m.Tbl)
	m.Mem.Attach(m.Display)

	m.Reset()

	return m, nil
}

// Reset the machine: registers cleared, instruction pointer at the BIOS
// start, stack descending from the bottom of the vector region. Memory
// content is left alone.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.Regs.SetIP(memorymap.BIOSStart)

	// the stack grows down from the vector region
	_ = m.Regs.Set(registers.R64, registers.IdxSP, memorymap.VectorOrigin)
	_ = m.Regs.Set(registers.R64, registers.IdxSB, memorymap.VectorOrigin)
	_ = m.Regs.Set(registers.R64, registers.IdxCB, memorymap.BIOSStart)
}

// LoadProgram places a program image into memory at origin and points
// the instruction pointer at it. An origin of zero selects the BIOS
// start.
func (m *Machine) LoadProgram(data []uint8, origin uint64) error {
	if origin == 0 {
		origin = memorymap.BIOSStart
	}

	if len(data) == 0 {
		return curated.Errorf(LoadError, "empty program")
	}
	if err := m.Mem.Write(origin, data); err != nil {
		return curated.Errorf(LoadError, err)
	}

	m.Regs.SetIP(origin)
	logger.Logf("machine", "loaded %d bytes at %#x", len(data), origin)

	return nil
}

// SetEventHandler installs the function called on machine lifecycle
// events.
func (m *Machine) SetEventHandler(f func(event string, arg uint64)) {
	m.onEvent = f
}

func (m *Machine) event(name string, arg uint64) {
	if m.onEvent != nil {
		m.onEvent(name, arg)
	}
}

// Step executes a single instruction.
func (m *Machine) Step() error {
	return m.CPU.Step()
}

// Run the machine until it halts, until the continue check returns
// false, or until a fault escapes (the returned error). The check
// function is consulted every PerformanceBrake instructions; it may be
// nil.
func (m *Machine) Run(check func() (bool, error)) error {
	m.event("start", 0)
	defer m.event("halt", 0)

	brake := 0
	for !m.CPU.Halted() {
		if err := m.CPU.Step(); err != nil {
			return err
		}

		brake++
		if brake >= PerformanceBrake {
			brake = 0
			if check != nil {
				cont, err := check()
				if err != nil {
					return err
				}
				if !cont {
					return nil
				}
			}
		}
	}

	return nil
}

// FaultSummary returns a description of the most recently executed
// instruction, suitable for the top level report when a runtime fault
// escapes.
func (m *Machine) FaultSummary() string {
	r := m.CPU.LastResult
	op := "??"
	if r.Defn != nil {
		op = fmt.Sprintf("%#02x", uint8(r.Defn.Opcode))
	}
	return fmt.Sprintf("IP=%#x opcode=%s %s", r.Address, op, r.Literal)
}
