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

package memory

import (
	"fmt"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/lockorder"
)

// Fault is the error pattern returned for any access that is not
// entirely within the address space.
const Fault = "memory fault: %v"

// Area is implemented by subsystems that claim a range of the address
// space. Reads and writes that fall inside the claimed range are passed
// to the Area implementation one byte at a time; the backing RAM is not
// touched for those addresses.
type Area interface {
	Label() string
	Origin() uint64
	Memtop() uint64
	ReadByte(addr uint64) (uint8, error)
	WriteByte(addr uint64, data uint8) error
}

// Memory is the flat, byte addressable address space of the machine.
// All access is serialised by a single mutex so that operand access from
// the executor and snapshots from other threads do not interleave.
type Memory struct {
	crit *lockorder.Mutex

	ram   []uint8
	areas []Area
}

// NewMemory is the preferred method of initialisation for the Memory
// type. A size of zero selects the default address space size.
func NewMemory(size uint64) *Memory {
	if size == 0 {
		size = defaultSize
	}
	return &Memory{
		crit: lockorder.NewMutex(lockorder.RankMemory),
		ram:  make([]uint8, size),
	}
}

// defaultSize is defined here rather than referenced from the memorymap
// package to keep the package dependency one-way.
const defaultSize = uint64(0x200000)

// Size of the address space in bytes.
func (mem *Memory) Size() uint64 {
	return uint64(len(mem.ram))
}

// Attach a mapped area to the address space. Areas must not overlap; the
// first area claiming an address wins.
func (mem *Memory) Attach(area Area) {
	mem.crit.Lock()
	defer mem.crit.Unlock()
	mem.areas = append(mem.areas, area)
}

func (mem *Memory) area(addr uint64) Area {
	for _, a := range mem.areas {
		if addr >= a.Origin() && addr <= a.Memtop() {
			return a
		}
	}
	return nil
}

// Read returns n bytes starting at addr. The entire range must lie
// within the address space.
func (mem *Memory) Read(addr uint64, n uint64) ([]uint8, error) {
	mem.crit.Lock()
	defer mem.crit.Unlock()

	if n == 0 || addr >= uint64(len(mem.ram)) || n > uint64(len(mem.ram))-addr {
		return nil, curated.Errorf(Fault, fmt.Sprintf("read of %d bytes at %#x", n, addr))
	}

	data := make([]uint8, n)
	for i := uint64(0); i < n; i++ {
		if a := mem.area(addr + i); a != nil {
			v, err := a.ReadByte(addr + i)
			if err != nil {
				return nil, err
			}
			data[i] = v
		} else {
			data[i] = mem.ram[addr+i]
		}
	}

	return data, nil
}

// Write stores data starting at addr. The entire range must lie within
// the address space.
func (mem *Memory) Write(addr uint64, data []uint8) error {
	mem.crit.Lock()
	defer mem.crit.Unlock()

	n := uint64(len(data))
	if n == 0 || addr >= uint64(len(mem.ram)) || n > uint64(len(mem.ram))-addr {
		return curated.Errorf(Fault, fmt.Sprintf("write of %d bytes at %#x", n, addr))
	}

	for i := uint64(0); i < n; i++ {
		if a := mem.area(addr + i); a != nil {
			if err := a.WriteByte(addr+i, data[i]); err != nil {
				return err
			}
		} else {
			mem.ram[addr+i] = data[i]
		}
	}

	return nil
}

// ReadInt reads width bytes at addr, little-endian, zero extended into a
// 64-bit container. Width must be 1, 2, 4 or 8.
func (mem *Memory) ReadInt(addr uint64, width uint64) (uint64, error) {
	data, err := mem.Read(addr, width)
	if err != nil {
		return 0, err
	}

	var v uint64
	for i := len(data) - 1; i >= 0; i-- {
		v = (v << 8) | uint64(data[i])
	}
	return v, nil
}

// WriteInt writes the low width bytes of val at addr, little-endian.
func (mem *Memory) WriteInt(addr uint64, val uint64, width uint64) error {
	data := make([]uint8, width)
	for i := range data {
		data[i] = uint8(val)
		val >>= 8
	}
	return mem.Write(addr, data)
}
