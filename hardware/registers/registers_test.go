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

package registers_test

import (
	"testing"

	"github.com/sysdarft/sysdarft/hardware/registers"
	"github.com/sysdarft/sysdarft/test"
)

func TestWidthTruncation(t *testing.T) {
	f := registers.NewFile()

	// after set(Rk_w, v), get(Rk_w) equals v mod 2^w
	test.DemandSuccess(t, f.Set(registers.R8, 0, 0x1ff))
	v, err := f.Get(registers.R8, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, v, 0xff)

	test.DemandSuccess(t, f.Set(registers.R16, 0, 0x1fedc))
	v, err = f.Get(registers.R16, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, v, 0xfedc)

	test.DemandSuccess(t, f.Set(registers.R32, 0, 0x1ffffffff))
	v, err = f.Get(registers.R32, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, v, 0xffffffff)

	test.DemandSuccess(t, f.Set(registers.R64, 0, 0xffffffffffffffff))
	v, err = f.Get(registers.R64, 0)
	test.DemandSuccess(t, err)
	test.Equate(t, v, uint64(0xffffffffffffffff))
}

func TestIndependentBanks(t *testing.T) {
	f := registers.NewFile()

	// the narrow banks are not aliases of the wide banks
	test.DemandSuccess(t, f.Set(registers.R64, 0, 0x1111111111111111))
	test.DemandSuccess(t, f.Set(registers.R32, 0, 0x22222222))
	test.DemandSuccess(t, f.Set(registers.R16, 0, 0x3333))
	test.DemandSuccess(t, f.Set(registers.R8, 0, 0x44))

	v, _ := f.Get(registers.R64, 0)
	test.Equate(t, v, uint64(0x1111111111111111))
	v, _ = f.Get(registers.R32, 0)
	test.Equate(t, v, 0x22222222)
	v, _ = f.Get(registers.R16, 0)
	test.Equate(t, v, 0x3333)
	v, _ = f.Get(registers.R8, 0)
	test.Equate(t, v, 0x44)
}

func TestSpecialRegisters(t *testing.T) {
	f := registers.NewFile()

	test.DemandSuccess(t, f.Set(registers.R64, registers.IdxSP, 0xffff))
	v, err := f.Get(registers.R64, registers.IdxSP)
	test.DemandSuccess(t, err)
	test.Equate(t, v, 0xffff)

	// the special registers are beyond the FER bank
	v, _ = f.Get(registers.R64, 15)
	test.Equate(t, v, 0)
}

func TestBadIndices(t *testing.T) {
	f := registers.NewFile()

	_, err := f.Get(registers.R8, 8)
	test.ExpectedFailure(t, err)
	_, err = f.Get(registers.R64, 23)
	test.ExpectedFailure(t, err)
	err = f.Set(registers.R16, -1, 0)
	test.ExpectedFailure(t, err)
}

func TestNames(t *testing.T) {
	test.Equate(t, registers.Name(registers.R8, 7), "R7")
	test.Equate(t, registers.Name(registers.R16, 0), "EXR0")
	test.Equate(t, registers.Name(registers.R32, 4), "HER4")
	test.Equate(t, registers.Name(registers.R64, 14), "FER14")
	test.Equate(t, registers.Name(registers.R64, registers.IdxSP), "SP")
	test.Equate(t, registers.Name(registers.XMM, 2), "XMM2")

	k, i, ok := registers.Parse("fer14")
	test.Equate(t, ok, true)
	test.Equate(t, int(k), int(registers.R64))
	test.Equate(t, i, 14)

	k, i, ok = registers.Parse("EP")
	test.Equate(t, ok, true)
	test.Equate(t, int(k), int(registers.R64))
	test.Equate(t, i, registers.IdxEP)

	_, _, ok = registers.Parse("FER16")
	test.Equate(t, ok, false)
	_, _, ok = registers.Parse("Q0")
	test.Equate(t, ok, false)
}

func TestFlagsValue(t *testing.T) {
	fl := registers.Flags{Carry: true, Zero: true, InterruptEnable: true}
	var rt registers.Flags
	rt.FromValue(fl.Value())
	test.Equate(t, rt.Carry, true)
	test.Equate(t, rt.Overflow, false)
	test.Equate(t, rt.Zero, true)
	test.Equate(t, rt.InterruptEnable, true)
	test.Equate(t, fl.String(), "CvZspI")
}
