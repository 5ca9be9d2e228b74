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

// Package memorymap records the fixed geography of the Sysdarft address
// space. The machine is flat, byte addressable memory with three carved
// out regions: the interrupt vector table, the display cells and
// registers, and the BIOS region where programs are loaded.
package memorymap

// DefaultMemBytes is the size of the address space unless overridden at
// machine creation. It leaves room above BIOSStart for user programs.
const DefaultMemBytes = uint64(0x200000)

// The interrupt vector region. 512 entries of 8 bytes each.
const (
	VectorOrigin  = uint64(0xa0000)
	VectorEntries = uint64(512)
	VectorMemtop  = VectorOrigin + VectorEntries*8 - 1
)

// The display area. Character cells are stored row-major, one code point
// byte per cell. The cursor and keyboard registers follow.
const (
	VideoOrigin = uint64(0xb8000)
	VideoWidth  = 127
	VideoHeight = 31
	VideoMemtop = VideoOrigin + VideoWidth*VideoHeight - 1

	CursorX       = uint64(0xb9000)
	CursorY       = uint64(0xb9001)
	CursorVisible = uint64(0xb9002)
	KeyStatus     = uint64(0xb9010)
	KeyData       = uint64(0xb9011)
	Bell          = uint64(0xb9020)
)

// The display mapped area covers the character cells and all display and
// keyboard registers.
const (
	DisplayOrigin = VideoOrigin
	DisplayMemtop = Bell
)

// BIOSStart is where loaded programs begin execution.
const BIOSStart = uint64(0xc1800)
