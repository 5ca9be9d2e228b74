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

// Package performance measures the throughput of the emulation and
// hosts the profiling harness.
package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware"
)

// Error is the error pattern for performance measurement failures.
const Error = "performance: %v"

// Check the performance of the emulator using the supplied machine,
// which must already have a program loaded. The machine runs for the
// specified duration and the instruction rate is reported to output.
func Check(output io.Writer, profile Profile, m *hardware.Machine, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf(Error, err)
	}

	runner := func() error {
		end := time.Now().Add(dur)
		return m.Run(func() (bool, error) {
			return time.Now().Before(end), nil
		})
	}

	start := time.Now()
	err = RunProfiler(profile, "performance", runner)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		return curated.Errorf(Error, err)
	}

	count := m.CPU.InstructionCount
	mips := float64(count) / elapsed / 1_000_000
	fmt.Fprintf(output, "%.2f MIPS (%d instructions in %.2f seconds)\n",
		mips, count, elapsed)

	return nil
}
