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

package hardware_test

import (
	"strings"
	"testing"

	"github.com/sysdarft/sysdarft/assembler"
	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware"
	"github.com/sysdarft/sysdarft/test"
)

func TestLoadAndRun(t *testing.T) {
	m, err := hardware.NewMachine(0)
	test.DemandSuccess(t, err)

	// write "Hi" into the top-left display cells through the memory
	// mapped display area, then halt
	src := `
		mov .8bit <*1&8($(0xB8000), $(0), $(0))>, <$(72)>
		mov .8bit <*1&8($(0xB8001), $(0), $(0))>, <$(105)>
		hlt
	`
	prog, err := assembler.Assemble(strings.NewReader(src))
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, m.LoadProgram(prog, 0))
	test.DemandSuccess(t, m.Run(nil))

	c, err := m.Display.Char(0, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, int(c), int('H'))
	c, err = m.Display.Char(1, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, int(c), int('i'))

	frame := m.Display.Snapshot()
	test.Equate(t, strings.HasPrefix(frame.String(), "Hi"), true)
}

func TestLoadErrors(t *testing.T) {
	m, err := hardware.NewMachine(0)
	test.DemandSuccess(t, err)

	err = m.LoadProgram(nil, 0)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, hardware.LoadError), true)

	err = m.LoadProgram([]uint8{0x00}, m.Mem.Size())
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, hardware.LoadError), true)
}

func TestRunStopsOnCheck(t *testing.T) {
	m, err := hardware.NewMachine(0)
	test.DemandSuccess(t, err)

	// an infinite loop: jmp to itself
	prog, err := assembler.AssembleInstruction("jmp <$(0xC1800)>")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, m.LoadProgram(prog, 0))

	calls := 0
	err = m.Run(func() (bool, error) {
		calls++
		return calls < 3, nil
	})
	test.DemandSuccess(t, err)
	test.Equate(t, calls, 3)
}

func TestEventHandler(t *testing.T) {
	m, err := hardware.NewMachine(0)
	test.DemandSuccess(t, err)

	var events []string
	m.SetEventHandler(func(name string, arg uint64) {
		events = append(events, name)
	})

	prog, err := assembler.AssembleInstruction("hlt")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, m.LoadProgram(prog, 0))
	test.DemandSuccess(t, m.Run(nil))

	test.Equate(t, len(events), 2)
	test.Equate(t, events[0], "start")
	test.Equate(t, events[1], "halt")
}
