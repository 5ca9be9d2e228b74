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

package lockorder_test

import (
	"testing"

	"github.com/sysdarft/sysdarft/hardware/lockorder"
)

func TestRankOrder(t *testing.T) {
	tbl := lockorder.NewMutex(lockorder.RankInterrupts)
	mem := lockorder.NewMutex(lockorder.RankMemory)

	// locking in rank order (lower rank first) is fine
	tbl.Lock()
	mem.Lock()
	mem.Unlock()
	tbl.Unlock()

	// locking against rank order (higher rank first) must panic
	defer func() {
		if recover() == nil {
			t.Errorf("expected rank violation to panic")
		}
		mem.Unlock()
	}()

	mem.Lock()
	tbl.Lock()
}
