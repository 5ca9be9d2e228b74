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

package console

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"github.com/sysdarft/sysdarft/curated"
	"golang.org/x/sys/unix"
)

// ascii codes handled by the line editor.
const (
	keyInterrupt      = 3
	keyEndOfFile      = 4
	keyBackspace      = 8
	keyTab            = 9
	keyCarriageReturn = 13
	keyEsc            = 27
	keyDelete         = 127
)

// codes that can follow an escape-bracket sequence.
const (
	cursorUp   = 'A'
	cursorDown = 'B'
)

// ansi sequences used for output styling and line redrawing.
const (
	ansiBold      = "\x1b[1m"
	ansiDim       = "\x1b[2m"
	ansiRed       = "\x1b[31m"
	ansiNormal    = "\x1b[0m"
	ansiClearLine = "\r\x1b[2K"
)

// ColorTerminal implements the Terminal interface with an ANSI
// terminal: colourised output, command history and tab completion.
type ColorTerminal struct {
	input  *os.File
	output *os.File

	prev unix.Termios

	history    []string
	historyIdx int

	tabCompletion TabCompletion
}

// NewColorTerminal is the preferred method of initialisation for the
// ColorTerminal type.
func NewColorTerminal() *ColorTerminal {
	return &ColorTerminal{
		input:  os.Stdin,
		output: os.Stdout,
	}
}

// Initialise implements the Terminal interface. The terminal is put
// into raw mode until CleanUp() is called.
func (ct *ColorTerminal) Initialise() error {
	if err := termios.Tcgetattr(ct.input.Fd(), &ct.prev); err != nil {
		return curated.Errorf("colorterm: %v", err)
	}

	raw := ct.prev
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := termios.Tcsetattr(ct.input.Fd(), termios.TCSANOW, &raw); err != nil {
		return curated.Errorf("colorterm: %v", err)
	}

	ct.history = make([]string, 0)

	return nil
}

// CleanUp implements the Terminal interface.
func (ct *ColorTerminal) CleanUp() {
	ct.output.WriteString("\r")
	_ = termios.Tcsetattr(ct.input.Fd(), termios.TCSANOW, &ct.prev)
}

// RegisterTabCompletion implements the Terminal interface.
func (ct *ColorTerminal) RegisterTabCompletion(tc TabCompletion) {
	ct.tabCompletion = tc
}

func (ct *ColorTerminal) readByte() (byte, error) {
	b := make([]byte, 1)
	for {
		n, err := ct.input.Read(b)
		if err != nil {
			return 0, curated.Errorf("colorterm: %v", err)
		}
		if n == 1 {
			return b[0], nil
		}
	}
}

func (ct *ColorTerminal) redraw(prompt string, line []byte) {
	ct.output.WriteString(ansiClearLine)
	ct.output.WriteString(ansiBold + prompt + ansiNormal)
	ct.output.Write(line)
}

// TermRead implements the Terminal interface. The line editor supports
// backspace, command history on the cursor keys and tab completion.
func (ct *ColorTerminal) TermRead(prompt string) (string, error) {
	line := make([]byte, 0, 64)
	ct.historyIdx = len(ct.history)

	ct.redraw(prompt, line)

	for {
		c, err := ct.readByte()
		if err != nil {
			return "", err
		}

		switch c {
		case keyInterrupt:
			ct.output.WriteString("\r\n")
			return "", curated.Errorf(UserInterrupt)

		case keyEndOfFile:
			ct.output.WriteString("\r\n")
			return "", curated.Errorf(UserAbort)

		case keyCarriageReturn, '\n':
			ct.output.WriteString("\r\n")
			s := string(line)
			if s != "" {
				ct.history = append(ct.history, s)
			}
			if ct.tabCompletion != nil {
				ct.tabCompletion.Reset()
			}
			return s, nil

		case keyBackspace, keyDelete:
			if len(line) > 0 {
				line = line[:len(line)-1]
				ct.redraw(prompt, line)
			}

		case keyTab:
			if ct.tabCompletion != nil {
				line = []byte(ct.tabCompletion.Complete(string(line)))
				ct.redraw(prompt, line)
			}

		case keyEsc:
			c, err = ct.readByte()
			if err != nil {
				return "", err
			}
			if c != '[' {
				continue
			}
			c, err = ct.readByte()
			if err != nil {
				return "", err
			}

			switch c {
			case cursorUp:
				if ct.historyIdx > 0 {
					ct.historyIdx--
					line = append(line[:0], ct.history[ct.historyIdx]...)
					ct.redraw(prompt, line)
				}
			case cursorDown:
				if ct.historyIdx < len(ct.history)-1 {
					ct.historyIdx++
					line = append(line[:0], ct.history[ct.historyIdx]...)
				} else {
					ct.historyIdx = len(ct.history)
					line = line[:0]
				}
				ct.redraw(prompt, line)
			}

		default:
			if c >= 32 && c < 127 {
				line = append(line, c)
				ct.output.Write([]byte{c})
			}
		}
	}
}

// TermPrintLine implements the Terminal interface.
func (ct *ColorTerminal) TermPrintLine(style Style, s string) {
	switch style {
	case StyleError:
		fmt.Fprintf(ct.output, "%s* %s%s\r\n", ansiRed, s, ansiNormal)
	case StyleHelp:
		fmt.Fprintf(ct.output, "%s%s%s\r\n", ansiDim, s, ansiNormal)
	default:
		fmt.Fprintf(ct.output, "%s\r\n", s)
	}
}
