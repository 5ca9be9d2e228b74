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

//go:build !statsview
// +build !statsview

package statsview

import (
	"io"
)

// Address the statsview server would listen on, were it available.
const Address = "localhost:12660"

// Launch does nothing unless the binary was built with the statsview
// build tag.
func Launch(output io.Writer) {
	io.WriteString(output, "statsview not available in this build\n")
}

// Available returns false in builds without the statsview build tag.
func Available() bool {
	return false
}
