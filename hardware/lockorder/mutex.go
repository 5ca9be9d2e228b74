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

//go:build !lockdebug
// +build !lockdebug

package lockorder

import "sync"

// Mutex is a plain sync.Mutex in normal builds. The rank is neither
// recorded nor checked.
type Mutex struct {
	mu sync.Mutex
}

// NewMutex creates a Mutex of the given rank.
func NewMutex(rank Rank) *Mutex {
	return &Mutex{}
}

// Lock the mutex.
func (m *Mutex) Lock() {
	m.mu.Lock()
}

// Unlock the mutex.
func (m *Mutex) Unlock() {
	m.mu.Unlock()
}
