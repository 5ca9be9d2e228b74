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

// Package sdl presents the display buffer in an SDL window. The grid is
// rasterised with the 8x8 bitmap font into a streaming texture, one
// whole frame at a time.
//
// SDL requires window management and event polling to happen on the
// main thread. The Window type therefore does not implement
// display.Renderer directly; the render thread posts frames through a
// channel and the main thread drains them from Service(), alongside the
// SDL event queue.
package sdl

import (
	"time"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/display"
	"github.com/sysdarft/sysdarft/gui/fonts"
	"github.com/veandco/go-sdl2/sdl"
)

// Error is the error pattern for SDL failures.
const Error = "sdl: %v"

const depth = 4 // RGBA bytes per pixel

// pixel dimensions of the rasterised grid.
const (
	pixelsWidth  = display.Width * fonts.GlyphWidth
	pixelsHeight = display.Height * fonts.GlyphHeight
)

// Window is the SDL front end.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	pixels []byte

	// frames posted by the render thread, drained by Service()
	frames chan display.Frame

	// keystrokes gathered by Service(), forwarded by the input thread
	keys chan uint8

	quit bool
}

// NewWindow creates the SDL window. Must be called from the main
// thread.
func NewWindow(scale float32) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, curated.Errorf(Error, err)
	}

	if scale <= 0 {
		scale = 1.0
	}

	w := int32(float32(pixelsWidth) * scale)
	h := int32(float32(pixelsHeight) * scale)

	win := &Window{
		pixels: make([]byte, pixelsWidth*pixelsHeight*depth),
		frames: make(chan display.Frame, 1),
		keys:   make(chan uint8, 8),
	}

	var err error
	win.window, err = sdl.CreateWindow("Sysdarft",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, curated.Errorf(Error, err)
	}

	win.renderer, err = sdl.CreateRenderer(win.window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, curated.Errorf(Error, err)
	}

	win.texture, err = win.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING, pixelsWidth, pixelsHeight)
	if err != nil {
		return nil, curated.Errorf(Error, err)
	}

	return win, nil
}

// Render implements display.Renderer. It is called from the render
// thread and only posts the frame; rasterisation and presentation
// happen in Service() on the main thread.
func (win *Window) Render(frame display.Frame) error {
	select {
	case win.frames <- frame:
	default:
		// a pending frame is still in the channel. drop this one; a
		// newer snapshot will follow.
	}
	return nil
}

// ReadKey implements display.InputReader, forwarding keystrokes
// gathered by Service().
func (win *Window) ReadKey() (uint8, bool, error) {
	select {
	case k := <-win.keys:
		return k, false, nil
	case <-time.After(100 * time.Millisecond):
		return 0, true, nil
	}
}

// Service presents pending frames and polls the SDL event queue. It
// must be called regularly from the main thread. Returns false once the
// window has been closed.
func (win *Window) Service() bool {
	select {
	case frame := <-win.frames:
		win.rasterise(frame)
		_ = win.texture.Update(nil, win.pixels, pixelsWidth*depth)
		_ = win.renderer.Clear()
		_ = win.renderer.Copy(win.texture, nil, nil)
		win.renderer.Present()
	default:
	}

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			win.quit = true
		case *sdl.TextInputEvent:
			for _, c := range ev.Text {
				if c == 0 {
					break
				}
				if c < 0x80 {
					select {
					case win.keys <- c:
					default:
					}
				}
			}
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_RETURN {
				select {
				case win.keys <- '\r':
				default:
				}
			}
		}
	}

	return !win.quit
}

// Destroy releases the SDL resources. Must be called from the main
// thread.
func (win *Window) Destroy() {
	_ = win.texture.Destroy()
	_ = win.renderer.Destroy()
	_ = win.window.Destroy()
	sdl.Quit()
}

// rasterise a frame into the pixel buffer.
func (win *Window) rasterise(frame display.Frame) {
	for i := range win.pixels {
		win.pixels[i] = 0
	}

	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			glyph := fonts.Glyph(frame.Cells[y][x])
			invert := frame.CursorVisible && x == frame.CursorX && y == frame.CursorY
			win.drawGlyph(x, y, glyph, invert)
		}
	}
}

func (win *Window) drawGlyph(cx, cy int, glyph [fonts.GlyphHeight]uint8, invert bool) {
	for gy := 0; gy < fonts.GlyphHeight; gy++ {
		row := glyph[gy]
		for gx := 0; gx < fonts.GlyphWidth; gx++ {
			set := row&(1<<uint(gx)) != 0
			if invert {
				set = !set
			}
			if !set {
				continue
			}

			px := (cx*fonts.GlyphWidth + gx)
			py := (cy*fonts.GlyphHeight + gy)
			off := (py*pixelsWidth + px) * depth

			// light grey on black
			win.pixels[off] = 0xd0
			win.pixels[off+1] = 0xd0
			win.pixels[off+2] = 0xd0
			win.pixels[off+3] = 0xff
		}
	}
}
