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

import "strings"

// Flags is the flags register of the machine.
type Flags struct {
	Carry           bool
	Overflow        bool
	Zero            bool
	Sign            bool
	Parity          bool
	InterruptEnable bool
}

func (fl Flags) String() string {
	s := strings.Builder{}

	if fl.Carry {
		s.WriteRune('C')
	} else {
		s.WriteRune('c')
	}
	if fl.Overflow {
		s.WriteRune('V')
	} else {
		s.WriteRune('v')
	}
	if fl.Zero {
		s.WriteRune('Z')
	} else {
		s.WriteRune('z')
	}
	if fl.Sign {
		s.WriteRune('S')
	} else {
		s.WriteRune('s')
	}
	if fl.Parity {
		s.WriteRune('P')
	} else {
		s.WriteRune('p')
	}
	if fl.InterruptEnable {
		s.WriteRune('I')
	} else {
		s.WriteRune('i')
	}

	return s.String()
}

// Value converts the Flags struct into a value suitable for pushing onto
// the stack.
func (fl Flags) Value() uint64 {
	var v uint64

	if fl.Carry {
		v |= 0x01
	}
	if fl.Overflow {
		v |= 0x02
	}
	if fl.Zero {
		v |= 0x04
	}
	if fl.Sign {
		v |= 0x08
	}
	if fl.Parity {
		v |= 0x10
	}
	if fl.InterruptEnable {
		v |= 0x20
	}

	return v
}

// FromValue converts an integer (taken from the stack, for example) to
// the Flags struct receiver.
func (fl *Flags) FromValue(v uint64) {
	fl.Carry = v&0x01 == 0x01
	fl.Overflow = v&0x02 == 0x02
	fl.Zero = v&0x04 == 0x04
	fl.Sign = v&0x08 == 0x08
	fl.Parity = v&0x10 == 0x10
	fl.InterruptEnable = v&0x20 == 0x20
}
