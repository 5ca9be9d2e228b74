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
	"strconv"
	"strings"
)

// the special purpose registers are addressed through the 64-bit bank
// and have names of their own.
var specialNames = map[int]string{
	IdxSP: "SP",
	IdxSB: "SB",
	IdxCB: "CB",
	IdxDB: "DB",
	IdxDP: "DP",
	IdxEB: "EB",
	IdxEP: "EP",
}

var specialIndices = map[string]int{
	"SP": IdxSP,
	"SB": IdxSB,
	"CB": IdxCB,
	"DB": IdxDB,
	"DP": IdxDP,
	"EB": IdxEB,
	"EP": IdxEP,
}

// Name returns the canonical name of a register, without the % sigil.
// For example, Name(R16, 3) returns "EXR3" and Name(R64, IdxSP) returns
// "SP".
func Name(kind Kind, idx int) string {
	if kind == R64 {
		if n, ok := specialNames[idx]; ok {
			return n
		}
	}
	return fmt.Sprintf("%v%d", kind, idx)
}

// Parse a register name, without the % sigil, into a bank and index.
// Parsing is case insensitive. The bool return value is false if the
// name does not describe any register.
func Parse(name string) (Kind, int, bool) {
	name = strings.ToUpper(name)

	if idx, ok := specialIndices[name]; ok {
		return R64, idx, true
	}

	var kind Kind
	var num string
	var limit int

	switch {
	case strings.HasPrefix(name, "EXR"):
		kind = R16
		num = name[3:]
		limit = NumR16
	case strings.HasPrefix(name, "HER"):
		kind = R32
		num = name[3:]
		limit = NumR32
	case strings.HasPrefix(name, "FER"):
		kind = R64
		num = name[3:]
		limit = NumR64
	case strings.HasPrefix(name, "XMM"):
		kind = XMM
		num = name[3:]
		limit = NumXMM
	case strings.HasPrefix(name, "R"):
		kind = R8
		num = name[1:]
		limit = NumR8
	default:
		return 0, 0, false
	}

	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 || idx >= limit {
		return 0, 0, false
	}

	return kind, idx, true
}

// Saved describes one slot of the canonical save order.
type Saved struct {
	Kind  Kind
	Index int
}

// SaveOrder is the canonical order in which PUSHALL pushes the general
// purpose register banks, every register widened to one 64-bit stack
// slot. POPALL and interrupt return restore in the exact reverse order.
var SaveOrder = func() []Saved {
	s := make([]Saved, 0, NumR64+NumR32+NumR16+NumR8)
	for i := 0; i < NumR64; i++ {
		s = append(s, Saved{R64, i})
	}
	for i := 0; i < NumR32; i++ {
		s = append(s, Saved{R32, i})
	}
	for i := 0; i < NumR16; i++ {
		s = append(s, Saved{R16, i})
	}
	for i := 0; i < NumR8; i++ {
		s = append(s, Saved{R8, i})
	}
	return s
}()
