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

// Package interrupts implements the interrupt vector table. Each machine
// instance owns exactly one table, seeded on construction; there is no
// package level state. A slot does not hold the handler entry point
// directly - it holds an address in the vector region of the address
// space, from which dispatch loads the real handler pointer. Programs
// install a handler by writing its address into the vector region with
// ordinary memory writes.
package interrupts

import (
	"fmt"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/lockorder"
	"github.com/sysdarft/sysdarft/hardware/memory/memorymap"
)

// TableError is the error pattern returned for an out of range interrupt
// number.
const TableError = "interrupt table error: %v"

// The fixed fault vectors. Faults raised during decode or execution of a
// single instruction are converted to software interrupts on these
// vectors.
const (
	VectorDivideByZero       = uint64(0x00)
	VectorIllegalInstruction = uint64(0x06)
	VectorMemoryFault        = uint64(0x0d)
)

// Table maps an interrupt number to an address in the vector region.
type Table struct {
	crit  *lockorder.Mutex
	slots [memorymap.VectorEntries]uint64
}

// NewTable creates the vector table and seeds every slot with its
// address in the vector region.
func NewTable() *Table {
	tbl := &Table{
		crit: lockorder.NewMutex(lockorder.RankInterrupts),
	}
	for i := uint64(0); i < memorymap.VectorEntries; i++ {
		tbl.slots[i] = memorymap.VectorOrigin + 8*i
	}
	return tbl
}

// Get the vector region address for interrupt number n.
func (tbl *Table) Get(n uint64) (uint64, error) {
	tbl.crit.Lock()
	defer tbl.crit.Unlock()

	if n >= memorymap.VectorEntries {
		return 0, curated.Errorf(TableError, fmt.Sprintf("interrupt number %d out of range", n))
	}
	return tbl.slots[n], nil
}

// Set the vector region address for interrupt number n. Not used during
// normal operation (programs write the vector region instead) but
// available to the shell and to tests.
func (tbl *Table) Set(n uint64, addr uint64) error {
	tbl.crit.Lock()
	defer tbl.crit.Unlock()

	if n >= memorymap.VectorEntries {
		return curated.Errorf(TableError, fmt.Sprintf("interrupt number %d out of range", n))
	}
	tbl.slots[n] = addr
	return nil
}
