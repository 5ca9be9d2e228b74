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

// Package target implements the operand model of the Sysdarft machine.
// An operand - a Target - is one of three things: a register reference,
// an immediate constant, or a memory address computed from three
// sub-operands and a scaling ratio:
//
//	effective address = (base + offset1 + offset2) * ratio
//
// The binary encoding is prefix dispatched:
//
//	register: 0x01 width index
//	constant: 0x02 sign value(8 bytes, little-endian)
//	memory:   0x03 ratio(BCD) base offset1 offset2
//
// where the memory sub-operands are themselves encoded operands,
// restricted to 64-bit registers and constants. Decoding pulls bytes
// sequentially from a Stream and reconstructs the textual literal as it
// goes, so the decoder doubles as the disassembler's operand printer.
//
// A decoded memory Target captures its effective address at decode time,
// from the register values current at that moment. Reads and writes then
// touch exactly the width of the enclosing instruction at that address.
package target
