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

// Package lockorder wraps sync.Mutex with a lock rank. The emulation
// subsystems must always be locked in rank order:
//
//	interrupt table -> register file -> address space -> display
//
// With the lockdebug build tag the wrapper asserts on every Lock() that
// no lock of an equal or higher rank is already held. Held ranks are
// tracked in one process-wide registry, not per goroutine. Without the
// tag the wrapper compiles down to a plain mutex.
package lockorder

// Rank of each lockable subsystem. Lower ranks must be acquired first.
type Rank int

// The ranked subsystems.
const (
	RankInterrupts Rank = iota
	RankRegisters
	RankMemory
	RankDisplay
)

func (r Rank) String() string {
	switch r {
	case RankInterrupts:
		return "interrupt table"
	case RankRegisters:
		return "register file"
	case RankMemory:
		return "address space"
	case RankDisplay:
		return "display"
	}
	return "undefined"
}
