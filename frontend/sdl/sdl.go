/*
 * Copyright 2026 Joshua Jones <joshua.jones.software@gmail.com>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      www.apache.org
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sdl is a minimal SDL2 front-end: the screen and the keypad, no
// debugger.
package sdl

import (
	"context"
	"fmt"
	"time"

	"chip8vm"
	"chip8vm/chip8"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA

	frameInterval = time.Second / 60
)

// Window shows a VM in an SDL window. Run must be called from the main
// goroutine.
type Window struct {
	runner *chip8vm.Runner
	logger *log.Logger
	scale  int32
	frames chan chip8.Frame

	window  *sdl.Window
	surface *sdl.Surface
}

// NewWindow returns a window for vm. The runner options are applied after
// the window registers itself as presenter.
func NewWindow(vm *chip8.VM, logger *log.Logger, scale int, opts ...chip8vm.RunnerOption) *Window {
	w := &Window{
		logger: logger,
		scale:  int32(scale),
		frames: make(chan chip8.Frame, 1),
	}
	opts = append([]chip8vm.RunnerOption{chip8vm.WithPresenter(w)}, opts...)
	w.runner = chip8vm.NewRunner(vm, logger, opts...)
	return w
}

// Present queues frame for the next repaint, replacing any frame that was
// not painted yet.
func (w *Window) Present(frame *chip8.Frame) {
	for {
		select {
		case w.frames <- *frame:
			return
		default:
		}
		select {
		case <-w.frames:
		default:
		}
	}
}

// Run opens the window and emulates until it is closed, ctx is done or
// the program faults.
func (w *Window) Run(ctx context.Context) error {
	if err := w.setup("CHIP-8"); err != nil {
		return err
	}
	defer w.destroy()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.runner.Run(ctx)
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		if !w.pollEvents() {
			cancel()
			return <-done
		}

		select {
		case err := <-done:
			return err
		case frame := <-w.frames:
			if err := w.draw(&frame); err != nil {
				cancel()
				<-done
				return err
			}
		case <-ticker.C:
		}
	}
}

func (w *Window) setup(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(chip8.Width)*w.scale, int32(chip8.Height)*w.scale, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	w.window = window
	w.logger.Debug("Opened SDL window", log.Int("scale", int(w.scale)))

	w.surface, err = window.GetSurface()
	if err != nil {
		w.destroy()
		return fmt.Errorf("getting window surface: %w", err)
	}

	frame := w.runner.Frame()
	return w.draw(&frame)
}

func (w *Window) destroy() {
	if w.window != nil {
		_ = w.window.Destroy()
	}
	sdl.Quit()
}

// pollEvents forwards keyboard events and reports false once the window
// should close.
func (w *Window) pollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if t.Repeat != 0 {
				continue
			}
			if !w.handleKey(t.Keysym.Scancode, t.GetType() == sdl.KEYDOWN) {
				return false
			}
		}
	}
	return true
}

func (w *Window) handleKey(code sdl.Scancode, down bool) bool {
	switch code {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_P:
		if !down {
			w.runner.TogglePause()
		}
		return true
	case sdl.SCANCODE_N:
		if !down {
			w.runner.StepOnce()
		}
		return true
	}

	key, ok := chip8vm.KeyForName(sdl.GetScancodeName(code))
	if !ok {
		return true
	}
	if down {
		w.runner.Press(key)
	} else {
		w.runner.Release(key)
	}
	return true
}

func (w *Window) draw(frame *chip8.Frame) error {
	if err := w.surface.FillRect(nil, screenColor); err != nil {
		return err
	}
	for y := range chip8.Height {
		for x := range chip8.Width {
			if frame.At(x, y) != chip8.On {
				continue
			}
			rect := &sdl.Rect{X: int32(x) * w.scale, Y: int32(y) * w.scale, W: w.scale, H: w.scale}
			if err := w.surface.FillRect(rect, spriteColor); err != nil {
				return err
			}
		}
	}
	return w.window.UpdateSurface()
}
