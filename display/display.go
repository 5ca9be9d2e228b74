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
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/lockorder"
	"github.com/sysdarft/sysdarft/hardware/memory/memorymap"
)

// Error is the error pattern returned for out of range display
// coordinates.
const Error = "display error: %v"

// Width and Height of the character grid.
const (
	Width  = memorymap.VideoWidth
	Height = memorymap.VideoHeight
)

// the code point that rings the bell when written to a cell.
const bel = 0x07

// Frame is a consistent snapshot of the grid, taken under the display
// mutex and rendered outside it.
type Frame struct {
	Cells         [Height][Width]int32
	CursorX       int
	CursorY       int
	CursorVisible bool
}

// String returns the exported frame format: one line per grid row with
// unprintable cells rendered as spaces, plus a terminating newline.
func (f Frame) String() string {
	s := strings.Builder{}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := f.Cells[y][x]
			if c < 0x20 || c > 0x7e {
				s.WriteRune(' ')
			} else {
				s.WriteRune(c)
			}
		}
		s.WriteString("\n")
	}
	return s.String()
}

// Buffer is the shared character grid. The grid and cursor are guarded
// by a single mutex; the dirty flag and the keyboard queue are not - the
// flag is an atomic and the queue is a bounded channel.
type Buffer struct {
	crit *lockorder.Mutex

	cells         [Height][Width]int32
	cursorX       int
	cursorY       int
	cursorVisible bool

	dirty atomic.Bool

	// keystrokes flow from the input thread to the executor through
	// here. the queue is bounded; keys pressed while it is full are
	// dropped.
	keys chan uint8

	// called when a BEL code point is written. may be nil.
	bell func()
}

// NewBuffer is the preferred method of initialisation for the Buffer
// type.
func NewBuffer() *Buffer {
	b := &Buffer{
		crit:          lockorder.NewMutex(lockorder.RankDisplay),
		cursorVisible: true,
		keys:          make(chan uint8, 64),
	}
	b.dirty.Store(true)
	return b
}

// SetChar writes a code point to a cell and marks the grid dirty.
// Writing the BEL code point rings the bell instead of changing the
// cell.
func (b *Buffer) SetChar(x, y int, code int32) error {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return curated.Errorf(Error, fmt.Sprintf("cell (%d,%d) out of range", x, y))
	}

	if code == bel {
		b.Bell()
		return nil
	}

	b.crit.Lock()
	b.cells[y][x] = code
	b.crit.Unlock()

	b.dirty.Store(true)
	return nil
}

// Char returns the code point at a cell.
func (b *Buffer) Char(x, y int) (int32, error) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0, curated.Errorf(Error, fmt.Sprintf("cell (%d,%d) out of range", x, y))
	}

	b.crit.Lock()
	defer b.crit.Unlock()
	return b.cells[y][x], nil
}

// SetCursor moves the cursor. Coordinates are clamped to the grid.
func (b *Buffer) SetCursor(x, y int) {
	if x < 0 {
		x = 0
	}
	if x >= Width {
		x = Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= Height {
		y = Height - 1
	}

	b.crit.Lock()
	b.cursorX = x
	b.cursorY = y
	b.crit.Unlock()

	b.dirty.Store(true)
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() (int, int) {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.cursorX, b.cursorY
}

// SetCursorVisible shows or hides the cursor.
func (b *Buffer) SetCursorVisible(visible bool) {
	b.crit.Lock()
	b.cursorVisible = visible
	b.crit.Unlock()

	b.dirty.Store(true)
}

// CursorVisible returns the cursor visibility.
func (b *Buffer) CursorVisible() bool {
	b.crit.Lock()
	defer b.crit.Unlock()
	return b.cursorVisible
}

// Scroll the grid up one row. The top row is lost, the bottom row is
// cleared and the cursor moves up with the content.
func (b *Buffer) Scroll() {
	b.crit.Lock()
	copy(b.cells[:], b.cells[1:])
	b.cells[Height-1] = [Width]int32{}
	if b.cursorY > 0 {
		b.cursorY--
	}
	b.crit.Unlock()

	b.dirty.Store(true)
}

// Clear the grid and home the cursor.
func (b *Buffer) Clear() {
	b.crit.Lock()
	b.cells = [Height][Width]int32{}
	b.cursorX = 0
	b.cursorY = 0
	b.crit.Unlock()

	b.dirty.Store(true)
}

// Snapshot the grid. The returned Frame is a copy; the caller can use it
// without holding any lock.
func (b *Buffer) Snapshot() Frame {
	b.crit.Lock()
	defer b.crit.Unlock()
	return Frame{
		Cells:         b.cells,
		CursorX:       b.cursorX,
		CursorY:       b.cursorY,
		CursorVisible: b.cursorVisible,
	}
}

// Dirty is true if the grid has changed since the last ClearDirty.
func (b *Buffer) Dirty() bool {
	return b.dirty.Load()
}

// ClearDirty resets the dirty flag. Called by the render loop after it
// has taken a snapshot.
func (b *Buffer) ClearDirty() {
	b.dirty.Store(false)
}

// PushKey queues a keystroke for the executor. Returns false if the
// queue is full and the key was dropped.
func (b *Buffer) PushKey(key uint8) bool {
	select {
	case b.keys <- key:
		return true
	default:
		return false
	}
}

// PopKey dequeues one keystroke. Returns false if the queue is empty.
func (b *Buffer) PopKey() (uint8, bool) {
	select {
	case k := <-b.keys:
		return k, true
	default:
		return 0, false
	}
}

// KeyAvailable is true if at least one keystroke is queued.
func (b *Buffer) KeyAvailable() bool {
	return len(b.keys) > 0
}

// SetBellHandler installs the function called when a BEL code point is
// written to the grid or to the bell register.
func (b *Buffer) SetBellHandler(bell func()) {
	b.bell = bell
}

// Bell rings the bell, if a handler is installed.
func (b *Buffer) Bell() {
	if b.bell != nil {
		b.bell()
	}
}
