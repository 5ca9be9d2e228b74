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

package display

import (
	"github.com/sysdarft/sysdarft/hardware/memory/memorymap"
)

// The Buffer implements memory.Area over the display range of the
// address space. Programs drive the display with ordinary memory
// instructions: a write into the video cell range sets a character, the
// cursor registers move the cursor, a read of the KeyStatus register
// reports whether a key is waiting and a read of the KeyData register
// takes one key from the keyboard queue.

// Label implements memory.Area.
func (b *Buffer) Label() string {
	return "display"
}

// Origin implements memory.Area.
func (b *Buffer) Origin() uint64 {
	return memorymap.DisplayOrigin
}

// Memtop implements memory.Area.
func (b *Buffer) Memtop() uint64 {
	return memorymap.DisplayMemtop
}

// ReadByte implements memory.Area.
func (b *Buffer) ReadByte(addr uint64) (uint8, error) {
	switch {
	case addr >= memorymap.VideoOrigin && addr <= memorymap.VideoMemtop:
		cell := addr - memorymap.VideoOrigin
		c, err := b.Char(int(cell%Width), int(cell/Width))
		return uint8(c), err

	case addr == memorymap.CursorX:
		x, _ := b.Cursor()
		return uint8(x), nil

	case addr == memorymap.CursorY:
		_, y := b.Cursor()
		return uint8(y), nil

	case addr == memorymap.CursorVisible:
		if b.CursorVisible() {
			return 1, nil
		}
		return 0, nil

	case addr == memorymap.KeyStatus:
		if b.KeyAvailable() {
			return 1, nil
		}
		return 0, nil

	case addr == memorymap.KeyData:
		k, _ := b.PopKey()
		return k, nil
	}

	// unassigned addresses inside the display range read as zero
	return 0, nil
}

// WriteByte implements memory.Area.
func (b *Buffer) WriteByte(addr uint64, data uint8) error {
	switch {
	case addr >= memorymap.VideoOrigin && addr <= memorymap.VideoMemtop:
		cell := addr - memorymap.VideoOrigin
		return b.SetChar(int(cell%Width), int(cell/Width), int32(data))

	case addr == memorymap.CursorX:
		_, y := b.Cursor()
		b.SetCursor(int(data), y)

	case addr == memorymap.CursorY:
		x, _ := b.Cursor()
		b.SetCursor(x, int(data))

	case addr == memorymap.CursorVisible:
		b.SetCursorVisible(data != 0)

	case addr == memorymap.Bell:
		b.Bell()
	}

	// writes to the key registers are ignored
	return nil
}
