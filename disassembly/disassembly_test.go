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

package disassembly_test

import (
	"strings"
	"testing"

	"github.com/sysdarft/sysdarft/assembler"
	"github.com/sysdarft/sysdarft/disassembly"
	"github.com/sysdarft/sysdarft/hardware/memory"
	"github.com/sysdarft/sysdarft/test"
)

func TestFromBytes(t *testing.T) {
	src := strings.Join([]string{
		"nop",
		"add .8bit <%R0>, <$(0x02)>",
		"hlt",
	}, "\n")

	data, err := assembler.Assemble(strings.NewReader(src))
	test.DemandSuccess(t, err)

	dsm, err := disassembly.FromBytes(data, 0xc1800)
	test.DemandSuccess(t, err)
	test.Equate(t, len(dsm.Entries), 3)

	test.Equate(t, dsm.Entries[0].Literal, "nop")
	test.Equate(t, dsm.Entries[0].Address, uint64(0xc1800))
	test.Equate(t, dsm.Entries[0].ByteCount, 2)

	test.Equate(t, dsm.Entries[1].Literal, "add .8bit <%R0>, <$(0x2)>")
	test.Equate(t, dsm.Entries[1].Address, uint64(0xc1802))

	// addresses are contiguous
	test.Equate(t, dsm.Entries[2].Address,
		dsm.Entries[1].Address+dsm.Entries[1].ByteCount)

	out := &strings.Builder{}
	dsm.Write(out)
	test.Equate(t, strings.Count(out.String(), "\n"), 3)
}

func TestDecodeFailure(t *testing.T) {
	// a good instruction followed by junk
	data, err := assembler.AssembleInstruction("nop")
	test.DemandSuccess(t, err)
	data = append(data, 0xf0)

	dsm, err := disassembly.FromBytes(data, 0)
	test.ExpectedFailure(t, err)

	// the entries before the failure survive
	test.Equate(t, len(dsm.Entries), 1)
	test.Equate(t, dsm.Entries[0].Literal, "nop")
}

func TestFromMemory(t *testing.T) {
	mem := memory.NewMemory(0x1000)

	data, err := assembler.AssembleInstruction("hlt")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, mem.Write(0x100, data))

	dsm, err := disassembly.FromMemory(mem, 0x100, uint64(len(data)))
	test.DemandSuccess(t, err)
	test.Equate(t, dsm.Entries[0].Literal, "hlt")

	// out of range reads fail
	_, err = disassembly.FromMemory(mem, 0xfff, 16)
	test.ExpectedFailure(t, err)
}
