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

// Package cpu implements the Sysdarft processor: the fetch/decode/
// dispatch loop, the width parametric arithmetic, and software interrupt
// entry and return.
//
// Step() executes one instruction. An error raised while decoding or
// executing an instruction does not propagate: it is converted into a
// software interrupt on one of the fixed fault vectors (divide by zero,
// illegal instruction, memory fault). Step() only returns an error when
// the machine cannot continue - when the fault vector's own handler is
// the zeroed default - and the error then carries a summary of the
// faulting instruction.
//
// The decoder is shared with the disassembly package, which feeds it
// from a byte slice instead of the address space.
package cpu
