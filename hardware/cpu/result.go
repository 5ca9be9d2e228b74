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

package cpu

import (
	"fmt"

	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
)

// Result records the most recently executed instruction. It is the raw
// material for execution traces and for the fault summary printed when
// the machine halts on an unhandled vector.
type Result struct {
	// Address the instruction was fetched from.
	Address uint64

	// Defn is nil if the opcode byte did not decode.
	Defn *instructions.Definition

	Width     uint8
	Literal   string
	ByteCount uint64
}

func (r Result) String() string {
	return fmt.Sprintf("%#08x  %s", r.Address, r.Literal)
}
