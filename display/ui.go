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

package display

import (
	"sync/atomic"
	"time"

	"github.com/sysdarft/sysdarft/logger"
)

// Renderer implementations present frames to the user. Render() is
// called from the render thread with a snapshot of the grid; it must not
// touch the Buffer.
type Renderer interface {
	Render(frame Frame) error
}

// InputReader implementations produce keystrokes. ReadKey() must block
// for no longer than about 100 milliseconds so that cancellation is
// observable; the timeout return value is true when the deadline passed
// without a key.
type InputReader interface {
	ReadKey() (key uint8, timeout bool, err error)
}

// how often the render loop polls the dirty flag.
const renderInterval = 10 * time.Millisecond

// UI owns the render and input threads. Cancellation is cooperative:
// Cleanup() clears the request flags and waits for the matching exited
// flags.
type UI struct {
	buf      *Buffer
	renderer Renderer
	input    InputReader

	running      atomic.Bool
	inputEnabled atomic.Bool
	renderExited atomic.Bool
	inputExited  atomic.Bool
}

// NewUI is the preferred method of initialisation for the UI type.
// Either the renderer or the input reader may be nil, in which case the
// corresponding thread is not started.
func NewUI(buf *Buffer, renderer Renderer, input InputReader) *UI {
	return &UI{
		buf:      buf,
		renderer: renderer,
		input:    input,
	}
}

// Buffer returns the grid the UI presents.
func (ui *UI) Buffer() *Buffer {
	return ui.buf
}

// Initialise starts the render and input threads.
func (ui *UI) Initialise() {
	ui.running.Store(true)
	ui.inputEnabled.Store(true)

	if ui.renderer != nil {
		ui.renderExited.Store(false)
		go ui.renderLoop()
	} else {
		ui.renderExited.Store(true)
	}

	if ui.input != nil {
		ui.inputExited.Store(false)
		go ui.inputLoop()
	} else {
		ui.inputExited.Store(true)
	}
}

// Cleanup stops both threads and waits for them to exit. The wait is
// bounded; a thread that fails to exit is logged and abandoned.
func (ui *UI) Cleanup() {
	ui.running.Store(false)
	ui.inputEnabled.Store(false)

	deadline := time.Now().Add(500 * time.Millisecond)
	for !(ui.renderExited.Load() && ui.inputExited.Load()) {
		if time.Now().After(deadline) {
			logger.Log("UI", "cleanup timed out waiting for threads")
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// Exited is true once both threads have stopped.
func (ui *UI) Exited() bool {
	return ui.renderExited.Load() && ui.inputExited.Load()
}

func (ui *UI) renderLoop() {
	defer ui.renderExited.Store(true)

	for ui.running.Load() {
		if !ui.buf.Dirty() {
			time.Sleep(renderInterval)
			continue
		}

		// snapshot under the mutex, render outside it
		frame := ui.buf.Snapshot()
		ui.buf.ClearDirty()

		if err := ui.renderer.Render(frame); err != nil {
			logger.Logf("UI", "render: %v", err)
			return
		}
	}
}

func (ui *UI) inputLoop() {
	defer ui.inputExited.Store(true)

	for ui.inputEnabled.Load() {
		key, timeout, err := ui.input.ReadKey()
		if err != nil {
			logger.Logf("UI", "input: %v", err)
			return
		}
		if timeout {
			continue
		}
		if !ui.buf.PushKey(key) {
			logger.Log("UI", "keyboard queue full, key dropped")
		}
	}
}
