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

package prefs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sysdarft/sysdarft/prefs"
	"github.com/sysdarft/sysdarft/test"
)

func TestTypes(t *testing.T) {
	var b prefs.Bool
	test.DemandSuccess(t, b.Set(true))
	test.Equate(t, b.Get().(bool), true)
	test.DemandSuccess(t, b.Set("FALSE"))
	test.Equate(t, b.Get().(bool), false)

	var i prefs.Int
	test.DemandSuccess(t, i.Set(42))
	test.Equate(t, i.Get().(int), 42)
	test.DemandSuccess(t, i.Set(" 17 "))
	test.Equate(t, i.Get().(int), 17)
	test.ExpectedFailure(t, i.Set("not a number"))

	var s prefs.String
	test.DemandSuccess(t, s.Set("hello"))
	test.Equate(t, s.Get().(string), "hello")
}

func TestDiskRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysdarft.prefs")

	var scale prefs.Int
	var bell prefs.String
	test.DemandSuccess(t, scale.Set(2))
	test.DemandSuccess(t, bell.Set("bell.wav"))

	dsk := prefs.NewDisk(path)
	test.DemandSuccess(t, dsk.Add("sdl.scale", &scale))
	test.DemandSuccess(t, dsk.Add("bell.record", &bell))
	test.DemandSuccess(t, dsk.Save())

	// load into a fresh set of values
	var scale2 prefs.Int
	var bell2 prefs.String
	dsk2 := prefs.NewDisk(path)
	test.DemandSuccess(t, dsk2.Add("sdl.scale", &scale2))
	test.DemandSuccess(t, dsk2.Add("bell.record", &bell2))
	test.DemandSuccess(t, dsk2.Load())

	test.Equate(t, scale2.Get().(int), 2)
	test.Equate(t, bell2.Get().(string), "bell.wav")
}

func TestOrphanPreservation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysdarft.prefs")

	content := "future.key :: future value\nsdl.scale :: 3\n"
	test.DemandSuccess(t, os.WriteFile(path, []byte(content), 0644))

	var scale prefs.Int
	dsk := prefs.NewDisk(path)
	test.DemandSuccess(t, dsk.Add("sdl.scale", &scale))
	test.DemandSuccess(t, dsk.Load())
	test.Equate(t, scale.Get().(int), 3)

	// saving keeps the unknown key
	test.DemandSuccess(t, dsk.Save())
	data, err := os.ReadFile(path)
	test.DemandSuccess(t, err)
	test.Equate(t, string(data), "future.key :: future value\nsdl.scale :: 3\n")
}

func TestMissingFile(t *testing.T) {
	dsk := prefs.NewDisk(filepath.Join(t.TempDir(), "absent.prefs"))
	test.DemandSuccess(t, dsk.Load())
}
