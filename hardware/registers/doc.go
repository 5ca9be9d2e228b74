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

// Package registers implements the register file of the Sysdarft
// machine: eight registers in each of the 8, 16 and 32-bit banks,
// sixteen 64-bit registers, sixteen 64-bit floating point registers, the
// special purpose pointers (SP, SB, CB, DB, DP, EB, EP), the instruction
// pointer and the flags register.
//
// The integer banks are independent storage. Unlike a real CPU the
// narrow banks are not aliases onto the low bytes of the wide banks -
// writing R0 leaves FER0 untouched. Tests assert this explicitly.
package registers
