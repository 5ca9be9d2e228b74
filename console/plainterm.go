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

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sysdarft/sysdarft/curated"
)

// PlainTerminal is the default, featureless terminal. Useful for piped
// input and for testing; interactive sessions are better served by
// ColorTerminal.
type PlainTerminal struct {
	input  io.Reader
	output io.Writer
	reader *bufio.Scanner

	silenced bool
}

// NewPlainTerminal is the preferred method of initialisation for the
// PlainTerminal type.
func NewPlainTerminal(input io.Reader, output io.Writer) *PlainTerminal {
	return &PlainTerminal{
		input:  input,
		output: output,
	}
}

// Initialise implements the Terminal interface.
func (pt *PlainTerminal) Initialise() error {
	pt.reader = bufio.NewScanner(pt.input)
	return nil
}

// CleanUp implements the Terminal interface.
func (pt *PlainTerminal) CleanUp() {
}

// TermRead implements the Terminal interface.
func (pt *PlainTerminal) TermRead(prompt string) (string, error) {
	io.WriteString(pt.output, prompt)

	if !pt.reader.Scan() {
		if err := pt.reader.Err(); err != nil {
			return "", curated.Errorf("plainterm: %v", err)
		}
		return "", curated.Errorf(UserAbort)
	}

	return pt.reader.Text(), nil
}

// TermPrintLine implements the Terminal interface.
func (pt *PlainTerminal) TermPrintLine(style Style, s string) {
	if pt.silenced && style != StyleError {
		return
	}

	switch style {
	case StyleError:
		fmt.Fprintf(pt.output, "* %s\n", s)
	default:
		fmt.Fprintf(pt.output, "%s\n", s)
	}
}

// RegisterTabCompletion implements the Terminal interface. Tab
// completion is meaningless in the plain terminal.
func (pt *PlainTerminal) RegisterTabCompletion(TabCompletion) {
}

// Silence all output except error messages.
func (pt *PlainTerminal) Silence(silenced bool) {
	pt.silenced = silenced
}
