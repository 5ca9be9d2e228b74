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

package registers

import (
	"fmt"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/lockorder"
)

// BadRegister is the error pattern returned for an out of range register
// index. The fetch/dispatch loop converts it to an illegal instruction.
const BadRegister = "bad register: %v"

// Kind selects one of the register banks.
type Kind int

// The register banks. The four integer banks are independent storage:
// writing R0 does not disturb EXR0, HER0 or FER0.
const (
	R8 Kind = iota
	R16
	R32
	R64
	XMM
)

func (k Kind) String() string {
	switch k {
	case R8:
		return "R"
	case R16:
		return "EXR"
	case R32:
		return "HER"
	case R64:
		return "FER"
	case XMM:
		return "XMM"
	}
	return "undefined"
}

// Width of the bank in bits.
func (k Kind) Width() int {
	switch k {
	case R8:
		return 8
	case R16:
		return 16
	case R32:
		return 32
	}
	return 64
}

// Indices into the 64-bit bank that select the special purpose registers.
// Indices 0 to 15 select FER0 to FER15.
const (
	IdxSP = 16 + iota
	IdxSB
	IdxCB
	IdxDB
	IdxDP
	IdxEB
	IdxEP
)

// number of registers in each bank.
const (
	NumR8  = 8
	NumR16 = 8
	NumR32 = 8
	NumR64 = 16
	NumXMM = 16
)

// File is the register file of the machine. All access is serialised by
// a single mutex so that operand reads/writes and interrupt entry
// context saves do not interleave.
type File struct {
	crit *lockorder.Mutex

	r8  [NumR8]uint8
	r16 [NumR16]uint16
	r32 [NumR32]uint32
	r64 [NumR64]uint64
	xmm [NumXMM]uint64

	sp, sb, cb, db, dp, eb, ep uint64

	ip uint64
	fl Flags
}

// NewFile is the preferred method of initialisation for the File type.
func NewFile() *File {
	return &File{
		crit: lockorder.NewMutex(lockorder.RankRegisters),
	}
}

// Get the value of a register, zero extended into a 64-bit container.
func (f *File) Get(kind Kind, idx int) (uint64, error) {
	f.crit.Lock()
	defer f.crit.Unlock()

	switch kind {
	case R8:
		if idx >= 0 && idx < NumR8 {
			return uint64(f.r8[idx]), nil
		}
	case R16:
		if idx >= 0 && idx < NumR16 {
			return uint64(f.r16[idx]), nil
		}
	case R32:
		if idx >= 0 && idx < NumR32 {
			return uint64(f.r32[idx]), nil
		}
	case R64:
		if idx >= 0 && idx < NumR64 {
			return f.r64[idx], nil
		}
		switch idx {
		case IdxSP:
			return f.sp, nil
		case IdxSB:
			return f.sb, nil
		case IdxCB:
			return f.cb, nil
		case IdxDB:
			return f.db, nil
		case IdxDP:
			return f.dp, nil
		case IdxEB:
			return f.eb, nil
		case IdxEP:
			return f.ep, nil
		}
	case XMM:
		if idx >= 0 && idx < NumXMM {
			return f.xmm[idx], nil
		}
	}

	return 0, curated.Errorf(BadRegister, fmt.Sprintf("%v%d", kind, idx))
}

// Set the value of a register. The value is truncated to the width of
// the register's bank.
func (f *File) Set(kind Kind, idx int, val uint64) error {
	f.crit.Lock()
	defer f.crit.Unlock()

	switch kind {
	case R8:
		if idx >= 0 && idx < NumR8 {
			f.r8[idx] = uint8(val)
			return nil
		}
	case R16:
		if idx >= 0 && idx < NumR16 {
			f.r16[idx] = uint16(val)
			return nil
		}
	case R32:
		if idx >= 0 && idx < NumR32 {
			f.r32[idx] = uint32(val)
			return nil
		}
	case R64:
		if idx >= 0 && idx < NumR64 {
			f.r64[idx] = val
			return nil
		}
		switch idx {
		case IdxSP:
			f.sp = val
			return nil
		case IdxSB:
			f.sb = val
			return nil
		case IdxCB:
			f.cb = val
			return nil
		case IdxDB:
			f.db = val
			return nil
		case IdxDP:
			f.dp = val
			return nil
		case IdxEB:
			f.eb = val
			return nil
		case IdxEP:
			f.ep = val
			return nil
		}
	case XMM:
		if idx >= 0 && idx < NumXMM {
			f.xmm[idx] = val
			return nil
		}
	}

	return curated.Errorf(BadRegister, fmt.Sprintf("%v%d", kind, idx))
}

// IP returns the instruction pointer.
func (f *File) IP() uint64 {
	f.crit.Lock()
	defer f.crit.Unlock()
	return f.ip
}

// SetIP sets the instruction pointer.
func (f *File) SetIP(v uint64) {
	f.crit.Lock()
	defer f.crit.Unlock()
	f.ip = v
}

// AdvanceIP adds n to the instruction pointer and returns the value the
// pointer held before the advance.
func (f *File) AdvanceIP(n uint64) uint64 {
	f.crit.Lock()
	defer f.crit.Unlock()
	v := f.ip
	f.ip += n
	return v
}

// Flags returns a copy of the flags register.
func (f *File) Flags() Flags {
	f.crit.Lock()
	defer f.crit.Unlock()
	return f.fl
}

// SetFlags replaces the flags register.
func (f *File) SetFlags(fl Flags) {
	f.crit.Lock()
	defer f.crit.Unlock()
	f.fl = fl
}

// Reset returns every register, the instruction pointer and the flags to
// zero.
func (f *File) Reset() {
	f.crit.Lock()
	defer f.crit.Unlock()

	f.r8 = [NumR8]uint8{}
	f.r16 = [NumR16]uint16{}
	f.r32 = [NumR32]uint32{}
	f.r64 = [NumR64]uint64{}
	f.xmm = [NumXMM]uint64{}
	f.sp = 0
	f.sb = 0
	f.cb = 0
	f.db = 0
	f.dp = 0
	f.eb = 0
	f.ep = 0
	f.ip = 0
	f.fl = Flags{}
}
