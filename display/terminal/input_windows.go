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

//go:build windows
// +build windows

package terminal

import (
	"github.com/sysdarft/sysdarft/curated"
)

// Input is not supported on Windows. Use the SDL front end instead.
type Input struct{}

// NewInput always fails on Windows.
func NewInput() (*Input, error) {
	return nil, curated.Errorf("terminal: %v", "raw terminal input not supported on windows")
}

// CleanUp does nothing on Windows.
func (in *Input) CleanUp() {
}

// ReadKey always fails on Windows.
func (in *Input) ReadKey() (uint8, bool, error) {
	return 0, false, curated.Errorf("terminal: %v", "raw terminal input not supported on windows")
}
