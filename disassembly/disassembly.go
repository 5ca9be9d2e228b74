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

// Package disassembly recovers the textual form of an assembled byte
// stream. It reuses the executor's instruction decoder, feeding it from
// a byte slice instead of the address space; the literal carried by
// every decoded instruction is the disassembly.
//
// Memory operands are a wrinkle: their effective address depends on
// register values at decode time. The disassembler decodes against a
// zeroed register file, which leaves the literal - the only thing it
// cares about - unaffected.
package disassembly

import (
	"fmt"
	"io"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/cpu"
	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
	"github.com/sysdarft/sysdarft/hardware/memory"
	"github.com/sysdarft/sysdarft/hardware/registers"
)

// Entry is one disassembled instruction.
type Entry struct {
	Address   uint64
	Literal   string
	ByteCount uint64
}

func (e Entry) String() string {
	return fmt.Sprintf("%#08x  %s", e.Address, e.Literal)
}

// Disasm is the result of disassembling a byte stream.
type Disasm struct {
	Entries []Entry
}

// sliceStream implements target.Stream over a byte slice.
type sliceStream struct {
	data []uint8
	pos  int
}

func (s *sliceStream) Pop8() (uint8, error) {
	if s.pos >= len(s.data) {
		return 0, curated.Errorf(instructions.IllegalInstruction, "instruction stream exhausted")
	}
	v := s.data[s.pos]
	s.pos++
	return v, nil
}

func (s *sliceStream) Pop64() (uint64, error) {
	var v uint64
	for i := 0; i < 8; i++ {
		b, err := s.Pop8()
		if err != nil {
			return 0, err
		}
		v |= uint64(b) << (8 * i)
	}
	return v, nil
}

// FromBytes disassembles data, reporting addresses relative to origin.
// Disassembly stops at the end of the data; a decode failure before the
// end returns the entries decoded so far along with the error.
func FromBytes(data []uint8, origin uint64) (*Disasm, error) {
	dsm := &Disasm{}

	// decode against a zeroed machine
	regs := registers.NewFile()
	mem := memory.NewMemory(1)

	s := &sliceStream{data: data}
	for s.pos < len(data) {
		start := s.pos
		ins, err := cpu.DecodeInstruction(s, regs, mem)
		if err != nil {
			return dsm, curated.Errorf("disassembly: %v", err)
		}
		dsm.Entries = append(dsm.Entries, Entry{
			Address:   origin + uint64(start),
			Literal:   ins.Literal,
			ByteCount: uint64(s.pos - start),
		})
	}

	return dsm, nil
}

// FromMemory disassembles length bytes of the address space starting at
// origin.
func FromMemory(mem *memory.Memory, origin uint64, length uint64) (*Disasm, error) {
	data, err := mem.Read(origin, length)
	if err != nil {
		return nil, curated.Errorf("disassembly: %v", err)
	}
	return FromBytes(data, origin)
}

// Write the disassembly, one entry per line.
func (dsm *Disasm) Write(output io.Writer) {
	for _, e := range dsm.Entries {
		io.WriteString(output, e.String())
		io.WriteString(output, "\n")
	}
}
