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

// Package curated is a stylised way of creating and handling errors.
//
// Error messages are built from a pattern string and a set of values, in
// the manner of fmt.Errorf(). Unlike fmt.Errorf() the pattern is retained
// and can be tested for with the Is() and Has() functions. Packages that
// can fail in a way the rest of the emulation needs to recognise export
// their patterns as constants. For example, the memory package exports
// the Fault pattern, and the fetch/dispatch loop tests for it with:
//
//	if curated.Has(err, memory.Fault) {
//		...
//	}
//
// Error messages are de-duplicated as they are wrapped so that a message
// never repeats the same part twice, no matter how deep the error chain.
package curated
