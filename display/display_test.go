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

package display_test

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sysdarft/sysdarft/display"
	"github.com/sysdarft/sysdarft/hardware/memory"
	"github.com/sysdarft/sysdarft/hardware/memory/memorymap"
	"github.com/sysdarft/sysdarft/test"
)

func TestSetChar(t *testing.T) {
	b := display.NewBuffer()

	test.DemandSuccess(t, b.SetChar(0, 0, 'A'))
	test.DemandSuccess(t, b.SetChar(display.Width-1, display.Height-1, 'Z'))

	c, err := b.Char(0, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, int(c), int('A'))

	// out of range cells fail
	test.ExpectedFailure(t, b.SetChar(display.Width, 0, 'A'))
	test.ExpectedFailure(t, b.SetChar(0, display.Height, 'A'))
	test.ExpectedFailure(t, b.SetChar(-1, 0, 'A'))
}

func TestDirtyFlag(t *testing.T) {
	b := display.NewBuffer()
	b.ClearDirty()

	test.Equate(t, b.Dirty(), false)
	test.DemandSuccess(t, b.SetChar(5, 5, 'x'))
	test.Equate(t, b.Dirty(), true)
}

func TestFrameExport(t *testing.T) {
	b := display.NewBuffer()
	test.DemandSuccess(t, b.SetChar(0, 0, 'h'))
	test.DemandSuccess(t, b.SetChar(1, 0, 'i'))

	f := b.Snapshot()
	lines := strings.Split(f.String(), "\n")

	// one line per grid row, plus the empty string after the final
	// newline
	test.Equate(t, len(lines), display.Height+1)
	test.Equate(t, lines[0][:2], "hi")
	test.Equate(t, len(lines[0]), display.Width)
}

func TestScroll(t *testing.T) {
	b := display.NewBuffer()
	test.DemandSuccess(t, b.SetChar(0, 1, 'a'))
	b.SetCursor(0, 2)

	b.Scroll()

	c, _ := b.Char(0, 0)
	test.Equate(t, int(c), int('a'))
	_, y := b.Cursor()
	test.Equate(t, y, 1)
}

func TestMappedArea(t *testing.T) {
	b := display.NewBuffer()
	mem := memory.NewMemory(0x200000)
	mem.Attach(b)

	// a memory write into the video range sets a character
	test.DemandSuccess(t, mem.Write(memorymap.VideoOrigin+1, []uint8{'B'}))
	c, err := b.Char(1, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, int(c), int('B'))

	// cursor registers
	test.DemandSuccess(t, mem.Write(memorymap.CursorX, []uint8{10}))
	test.DemandSuccess(t, mem.Write(memorymap.CursorY, []uint8{5}))
	x, y := b.Cursor()
	test.Equate(t, x, 10)
	test.Equate(t, y, 5)

	// keyboard queue drains through the key registers
	b.PushKey('k')
	v, err := mem.ReadInt(memorymap.KeyStatus, 1)
	test.DemandSuccess(t, err)
	test.Equate(t, v, 1)
	v, err = mem.ReadInt(memorymap.KeyData, 1)
	test.DemandSuccess(t, err)
	test.Equate(t, v, uint64('k'))
	v, err = mem.ReadInt(memorymap.KeyStatus, 1)
	test.DemandSuccess(t, err)
	test.Equate(t, v, 0)
}

func TestBell(t *testing.T) {
	b := display.NewBuffer()

	rung := 0
	b.SetBellHandler(func() { rung++ })

	// BEL written to a cell rings rather than displays
	test.DemandSuccess(t, b.SetChar(0, 0, 0x07))
	test.Equate(t, rung, 1)

	c, _ := b.Char(0, 0)
	test.Equate(t, int(c), 0)
}

type stubRenderer struct {
	frames atomic.Int32
}

func (r *stubRenderer) Render(frame display.Frame) error {
	r.frames.Add(1)
	return nil
}

type stubInput struct {
	keys chan uint8
}

func (i *stubInput) ReadKey() (uint8, bool, error) {
	select {
	case k := <-i.keys:
		return k, false, nil
	case <-time.After(10 * time.Millisecond):
		return 0, true, nil
	}
}

// shutdown liveness: after Cleanup() both threads set their exited flags
// within 200ms under nominal scheduling.
func TestShutdownLiveness(t *testing.T) {
	b := display.NewBuffer()
	r := &stubRenderer{}
	in := &stubInput{keys: make(chan uint8, 1)}

	ui := display.NewUI(b, r, in)
	ui.Initialise()

	// feed a key and a grid change through the loops
	in.keys <- 'x'
	test.DemandSuccess(t, b.SetChar(0, 0, 'x'))

	time.Sleep(50 * time.Millisecond)
	test.Equate(t, r.frames.Load() > 0, true)
	k, ok := b.PopKey()
	test.Equate(t, ok, true)
	test.Equate(t, uint64(k), uint64('x'))

	start := time.Now()
	ui.Cleanup()
	if time.Since(start) > 200*time.Millisecond {
		t.Errorf("cleanup took %v", time.Since(start))
	}
	test.Equate(t, ui.Exited(), true)
}
