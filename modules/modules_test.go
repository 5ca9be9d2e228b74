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

package modules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/modules"
	"github.com/sysdarft/sysdarft/test"
)

func writeModule(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndEvents(t *testing.T) {
	path := writeModule(t, "probe.lua", `
		events = {}
		function initialize()
			initialized = true
		end
		function on_event(name, arg)
			table.insert(events, name)
		end
		function finalize()
			finalized = true
		end
	`)

	reg := modules.NewRegistry()
	defer reg.Close()

	_, err := reg.Load(path)
	test.DemandSuccess(t, err)
	test.Equate(t, reg.Len(), 1)

	// events are forwarded without error
	reg.Event("start", 0)
	reg.Event("halt", 0)
}

func TestMissingInitialize(t *testing.T) {
	path := writeModule(t, "bad.lua", `x = 1`)

	reg := modules.NewRegistry()
	defer reg.Close()

	_, err := reg.Load(path)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, modules.ResolutionError), true)
}

func TestUnreadableModule(t *testing.T) {
	reg := modules.NewRegistry()
	defer reg.Close()

	_, err := reg.Load("/no/such/module.lua")
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, modules.LoadError), true)
}

func TestBrokenModule(t *testing.T) {
	path := writeModule(t, "broken.lua", `this is not lua`)

	reg := modules.NewRegistry()
	defer reg.Close()

	_, err := reg.Load(path)
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, modules.LoadError), true)
}
