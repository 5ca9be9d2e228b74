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

//go:build !windows
// +build !windows

package terminal

import (
	"os"

	"github.com/pkg/term/termios"
	"github.com/sysdarft/sysdarft/curated"
	"golang.org/x/sys/unix"
)

// Input reads raw keystrokes from the controlling terminal. It
// implements display.InputReader.
//
// The terminal is put into raw mode with a 100ms read timeout
// (VMIN=0, VTIME=1) so that the input thread observes cancellation
// within a bounded delay.
type Input struct {
	input *os.File
	prev  unix.Termios
}

// NewInput is the preferred method of initialisation for the Input
// type. The terminal is left in raw mode until CleanUp() is called.
func NewInput() (*Input, error) {
	in := &Input{input: os.Stdin}

	if err := termios.Tcgetattr(in.input.Fd(), &in.prev); err != nil {
		return nil, curated.Errorf("terminal: %v", err)
	}

	raw := in.prev
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1

	if err := termios.Tcsetattr(in.input.Fd(), termios.TCSANOW, &raw); err != nil {
		return nil, curated.Errorf("terminal: %v", err)
	}

	return in, nil
}

// CleanUp restores the terminal to its original state.
func (in *Input) CleanUp() {
	_ = termios.Tcsetattr(in.input.Fd(), termios.TCSANOW, &in.prev)
}

// ReadKey implements display.InputReader.
func (in *Input) ReadKey() (uint8, bool, error) {
	b := make([]uint8, 1)
	n, err := in.input.Read(b)
	if err != nil {
		return 0, false, curated.Errorf("terminal: %v", err)
	}
	if n == 0 {
		// VTIME expired without a key
		return 0, true, nil
	}
	return b[0], false, nil
}
