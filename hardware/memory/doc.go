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

// Package memory implements the address space of the Sysdarft machine.
// There is no MMU and no caching: just a bounds checked byte array with
// mapped areas layered on top. The display claims its cell and register
// range as a mapped area (see the display package); everything else is
// plain RAM. The interrupt vector region is ordinary RAM - writes to it
// are permitted and are visible to interrupt dispatch.
package memory
