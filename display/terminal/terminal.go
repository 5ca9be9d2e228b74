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

// Package terminal presents the display buffer on an ANSI terminal and
// feeds keystrokes back from it. The renderer redraws the whole grid on
// every dirty frame - at 127x31 cells that is well within what any
// terminal can sustain at the render interval.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sysdarft/sysdarft/display"
	"github.com/sysdarft/sysdarft/logger"
	"golang.org/x/term"
)

// ANSI control sequences used by the renderer.
const (
	ansiClear      = "\x1b[2J"
	ansiHome       = "\x1b[H"
	ansiShowCursor = "\x1b[?25h"
	ansiHideCursor = "\x1b[?25l"
)

// Renderer draws frames to an ANSI terminal. It implements
// display.Renderer.
type Renderer struct {
	output io.Writer
	first  bool
}

// NewRenderer is the preferred method of initialisation for the
// Renderer type. A nil output selects stdout.
func NewRenderer(output io.Writer) *Renderer {
	if output == nil {
		output = os.Stdout
	}

	// warn when the terminal is too small for the grid
	if f, ok := output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, rows, err := term.GetSize(int(f.Fd())); err == nil {
			if cols < display.Width || rows < display.Height {
				logger.Logf("terminal", "terminal is %dx%d, grid is %dx%d",
					cols, rows, display.Width, display.Height)
			}
		}
	}

	return &Renderer{output: output, first: true}
}

// Render implements display.Renderer.
func (rnd *Renderer) Render(frame display.Frame) error {
	s := strings.Builder{}

	if rnd.first {
		s.WriteString(ansiClear)
		rnd.first = false
	}
	s.WriteString(ansiHome)

	s.WriteString(frame.String())

	// the cursor position sequence is 1-based
	s.WriteString(fmt.Sprintf("\x1b[%d;%dH", frame.CursorY+1, frame.CursorX+1))
	if frame.CursorVisible {
		s.WriteString(ansiShowCursor)
	} else {
		s.WriteString(ansiHideCursor)
	}

	_, err := io.WriteString(rnd.output, s.String())
	return err
}
