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

package curated_test

import (
	"testing"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/test"
)

const testError = "test error: %v"
const testErrorB = "test error B: %v"

func TestDuplicateNormalisation(t *testing.T) {
	inner := curated.Errorf(testError, "rind")
	outer := curated.Errorf(testError, inner)

	// the duplicated "test error" part is collapsed
	test.Equate(t, outer.Error(), "test error: rind")
}

func TestIsAndHas(t *testing.T) {
	inner := curated.Errorf(testError, "rind")
	outer := curated.Errorf(testErrorB, inner)

	test.Equate(t, curated.Is(inner, testError), true)
	test.Equate(t, curated.Is(outer, testError), false)
	test.Equate(t, curated.Has(outer, testError), true)
	test.Equate(t, curated.Has(outer, testErrorB), true)
	test.Equate(t, curated.Has(inner, testErrorB), false)

	// nil never matches
	test.Equate(t, curated.Is(nil, testError), false)
	test.Equate(t, curated.IsAny(nil), false)
}
