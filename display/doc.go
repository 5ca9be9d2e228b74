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

// Package display implements the text-mode display of the Sysdarft
// machine: a fixed 127x31 grid of code points shared between the
// executor, which mutates it through the memory mapped display area, and
// a renderer, which observes it from the render thread.
//
// The dirty flag is the release/acquire signal between the two: a grid
// write that sets the flag happens-before the render thread's snapshot
// after observing it. Concrete renderers live in the display/terminal
// and gui/sdl packages.
package display
