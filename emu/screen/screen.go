// Package screen shows the CHIP-8 framebuffer in a pixelgl window and maps
// the host keyboard to the hex keypad.
package screen

import (
	"image/color"

	"chip8emu/emu/cpu"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/pkg/errors"
)

// DefaultKeyMap lays the keypad over the left hand side of a QWERTY
// keyboard:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var DefaultKeyMap = map[pixelgl.Button]uint8{
	pixelgl.Key1: 0x1, pixelgl.Key2: 0x2, pixelgl.Key3: 0x3, pixelgl.Key4: 0xC,
	pixelgl.KeyQ: 0x4, pixelgl.KeyW: 0x5, pixelgl.KeyE: 0x6, pixelgl.KeyR: 0xD,
	pixelgl.KeyA: 0x7, pixelgl.KeyS: 0x8, pixelgl.KeyD: 0x9, pixelgl.KeyF: 0xE,
	pixelgl.KeyZ: 0xA, pixelgl.KeyX: 0x0, pixelgl.KeyC: 0xB, pixelgl.KeyV: 0xF,
}

// Window is a pixelgl window that redraws the last rendered framebuffer on
// every Update. It must be used from the pixelgl main thread.
type Window struct {
	*pixelgl.Window
	KeyMap map[pixelgl.Button]uint8

	scale float64
	fg    color.RGBA
	bg    color.RGBA
	imd   *imdraw.IMDraw
}

// NewWindow opens a window of 64x32 pixels of scale host pixels each.
func NewWindow(title string, scale int, fg, bg color.RGBA) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, float64(cpu.DisplayWidth*scale), float64(cpu.DisplayHeight*scale)),
		VSync:  true,
	}

	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "creating window")
	}

	return &Window{
		Window: win,
		KeyMap: DefaultKeyMap,
		scale:  float64(scale),
		fg:     fg,
		bg:     bg,
		imd:    imdraw.New(nil),
	}, nil
}

// Keys returns the keypad state from the currently held host keys.
func (w *Window) Keys() [cpu.KeyCount]bool {
	var keys [cpu.KeyCount]bool
	for button, key := range w.KeyMap {
		if w.Pressed(button) {
			keys[key&0xF] = true
		}
	}
	return keys
}

// Render rebuilds the batch of lit pixels. Row 0 is the top of the window.
func (w *Window) Render(fb [cpu.DisplaySize]uint8) {
	w.imd.Clear()
	w.imd.Color = w.fg

	for y := range cpu.DisplayHeight {
		for x := range cpu.DisplayWidth {
			if fb[y*cpu.DisplayWidth+x] == 0 {
				continue
			}
			row := float64(cpu.DisplayHeight - 1 - y)
			w.imd.Push(
				pixel.V(float64(x)*w.scale, row*w.scale),
				pixel.V(float64(x+1)*w.scale, (row+1)*w.scale),
			)
			w.imd.Rectangle(0)
		}
	}
}

// Update draws the current batch, swaps buffers and polls input. Escape
// closes the window.
func (w *Window) Update() {
	w.Clear(w.bg)
	w.imd.Draw(w)
	w.Window.Update()

	if w.JustPressed(pixelgl.KeyEscape) {
		w.SetClosed(true)
	}
}
