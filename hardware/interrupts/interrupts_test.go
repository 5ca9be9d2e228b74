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

package interrupts_test

import (
	"testing"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/interrupts"
	"github.com/sysdarft/sysdarft/hardware/memory/memorymap"
	"github.com/sysdarft/sysdarft/test"
)

func TestSeeding(t *testing.T) {
	tbl := interrupts.NewTable()

	// every slot is defined after initialisation
	for n := uint64(0); n < memorymap.VectorEntries; n++ {
		addr, err := tbl.Get(n)
		test.DemandSuccess(t, err)
		test.Equate(t, addr, memorymap.VectorOrigin+8*n)
	}
}

func TestBounds(t *testing.T) {
	tbl := interrupts.NewTable()

	_, err := tbl.Get(memorymap.VectorEntries)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, interrupts.TableError), true)

	err = tbl.Set(0xffff, 0)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, interrupts.TableError), true)
}
