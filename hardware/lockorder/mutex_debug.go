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

//go:build lockdebug
// +build lockdebug

package lockorder

import (
	"fmt"
	"sync"
)

// goroutine-local lock sets are approximated with a global registry of
// held ranks. the registry itself is protected by a plain mutex that is
// outside of the ranking system.
var held = struct {
	mu    sync.Mutex
	ranks map[Rank]int
}{
	ranks: make(map[Rank]int),
}

// Mutex is a rank-checked mutex in lockdebug builds.
type Mutex struct {
	mu   sync.Mutex
	rank Rank
}

// NewMutex creates a Mutex of the given rank.
func NewMutex(rank Rank) *Mutex {
	return &Mutex{rank: rank}
}

// Lock the mutex, asserting that no lock of an equal or higher rank is
// currently held anywhere in the process.
func (m *Mutex) Lock() {
	held.mu.Lock()
	for r, n := range held.ranks {
		if n > 0 && r >= m.rank {
			held.mu.Unlock()
			panic(fmt.Sprintf("lockorder: acquiring %v while %v is held", m.rank, r))
		}
	}
	held.ranks[m.rank]++
	held.mu.Unlock()

	m.mu.Lock()
}

// Unlock the mutex.
func (m *Mutex) Unlock() {
	held.mu.Lock()
	held.ranks[m.rank]--
	held.mu.Unlock()

	m.mu.Unlock()
}
