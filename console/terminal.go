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

package console

// Style is used to hint at what the terminal output represents.
type Style int

// List of Style values.
const (
	StyleEcho Style = iota
	StyleHelp
	StyleFeedback
	StyleError
)

// sentinel errors returned by TermRead().
const (
	// UserInterrupt is returned when the user has pressed ctrl-c.
	UserInterrupt = "user interrupt"

	// UserAbort is returned when the user has closed the input stream.
	UserAbort = "user abort"
)

// Terminal defines the operations required by the console's command
// line interface.
type Terminal interface {
	// Initialise the terminal. not all terminal implementations will
	// need to do anything.
	Initialise() error

	// Restore the terminal to its original state, if possible.
	CleanUp()

	// TermRead returns the next line of input.
	TermRead(prompt string) (string, error)

	// TermPrintLine writes a line of output.
	TermPrintLine(style Style, s string)

	// Register a tab completion implementation to use with the
	// terminal. Not all implementations need to respond meaningfully to
	// this.
	RegisterTabCompletion(TabCompletion)
}

// TabCompletion defines the operations required for tab completion. An
// implementation can be found in this package's Commands type.
type TabCompletion interface {
	Complete(input string) string
	Reset()
}
