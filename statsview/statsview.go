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

//go:build statsview
// +build statsview

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address the statistics server listens on. An uncommon port on purpose:
// the emulator is often run next to development servers squatting on
// 8080 and 6060.
const Address = "localhost:12660"

// Launch the runtime statistics server in a goroutine of its own.
//
// The interesting graphs for this program are heap allocation and
// goroutine count while the executor is running flat out: the
// fetch/dispatch loop allocates a Target per operand, and the render
// and input threads should show up as a steady three goroutines, not a
// growing number. There is no stop control; the viewer lives until the
// process exits, which is fine for a diagnostic facility that normal
// builds compile out.
func Launch(output io.Writer) {
	viewer.SetConfiguration(viewer.WithAddr(Address))

	go statsview.New().Start()

	fmt.Fprintf(output, "runtime statistics at http://%s/debug/statsview\n", Address)
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
