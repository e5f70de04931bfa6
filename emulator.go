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

package chip8vm

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strconv"

	"chip8vm/byteconv"
	"chip8vm/chip8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/retroenv/retrogolib/log"
)

var errNotDesktop = errors.New("emulator cannot be run on mobile")

// Emulator is the fyne front-end: the screen plus a small debugger with
// the recent instructions, the registers and play/pause/step controls.
type Emulator struct {
	runner *Runner
	logger *log.Logger
	scale  float32

	buffer *image.RGBA
	image  *canvas.Image

	console        *Console
	registerData   []string
	registers      binding.ExternalStringList
	programCounter *widget.Label
	index          *widget.Label
	stackDepth     *widget.Label
}

// NewEmulator builds a fyne front-end for vm. The runner options are
// applied after the emulator registers itself as presenter and observer.
func NewEmulator(vm *chip8.VM, logger *log.Logger, scale int, opts ...RunnerOption) *Emulator {
	if scale <= 0 {
		scale = 10
	}
	e := &Emulator{
		logger:       logger,
		scale:        float32(scale),
		buffer:       image.NewRGBA(image.Rect(0, 0, chip8.Width, chip8.Height)),
		registerData: make([]string, chip8.RegisterCount),
	}
	opts = append([]RunnerOption{WithPresenter(e), WithObserver(e.observe)}, opts...)
	e.runner = NewRunner(vm, logger, opts...)
	return e
}

// Runner returns the runner driving the emulator.
func (e *Emulator) Runner() *Runner {
	return e.runner
}

func (e *Emulator) onKeyDown(k *fyne.KeyEvent) {
	if key, ok := KeyForName(string(k.Name)); ok {
		e.runner.Press(key)
	}
}

func (e *Emulator) onKeyUp(k *fyne.KeyEvent) {
	switch k.Name {
	case fyne.KeyP:
		e.runner.TogglePause()
		return
	case fyne.KeyN:
		e.runner.StepOnce()
		return
	}

	if key, ok := KeyForName(string(k.Name)); ok {
		e.runner.Release(key)
	}
}

// Present paints frame into the back-buffer on the UI goroutine.
func (e *Emulator) Present(frame *chip8.Frame) {
	f := *frame
	fyne.Do(func() {
		paint(e.buffer, &f)
		if e.image != nil {
			e.image.Refresh()
		}
	})
}

func paint(dst *image.RGBA, frame *chip8.Frame) {
	for i, val := range frame {
		x, y := i%chip8.Width, i/chip8.Width
		c := color.Black
		if val == chip8.On {
			c = color.White
		}
		dst.Set(x, y, c)
	}
}

func (e *Emulator) observe(s State) {
	fyne.Do(func() {
		if e.console == nil {
			return
		}
		for reg := range chip8.RegistersTo(chip8.VF) {
			e.registerData[reg] = registerLine(reg, s.V[reg])
		}
		if s.Instruction != "" {
			e.console.Prepend(byteconv.U16toh(s.PC, 3) + " " + s.Instruction)
			e.console.Refresh()
		}
		_ = e.registers.Reload()
		e.setStatus(s)
	})
}

func (e *Emulator) setStatus(s State) {
	e.programCounter.SetText("PC: " + byteconv.U16toh(s.PC, 3))
	e.index.SetText("I: " + byteconv.U16toh(s.I, 3))
	stack := "Stack: " + strconv.Itoa(s.StackDepth)
	if s.Waiting {
		stack += " (key)"
	}
	e.stackDepth.SetText(stack)
}

func registerLine(reg chip8.VRegister, value byte) string {
	return reg.String() + ": " + byteconv.U8toh(value, 2)
}

// Console shows the most recent instructions, newest first.
type Console struct {
	capacity  int
	container *fyne.Container
}

func NewConsole(capacity int) *Console {
	labels := make([]fyne.CanvasObject, capacity)
	for i := range capacity {
		labels[i] = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	}
	return &Console{
		capacity:  capacity,
		container: container.NewVBox(labels...),
	}
}

func (o *Console) Prepend(msg string) {
	entry := widget.NewLabelWithStyle(msg, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	o.container.Objects = append([]fyne.CanvasObject{entry}, o.container.Objects[:o.capacity-1]...)
}

func (o *Console) Refresh() {
	o.container.Refresh()
}

func (o *Console) Object() fyne.CanvasObject {
	return o.container
}

// Run opens the window and emulates until the window closes, ctx is done
// or the program faults.
func (e *Emulator) Run(ctx context.Context) error {
	a := app.New()
	w := a.NewWindow("CHIP-8")

	canv, ok := w.Canvas().(desktop.Canvas) // Extension that exposes OnKeyUp event
	if !ok {
		return errNotDesktop
	}
	canv.SetOnKeyDown(e.onKeyDown)
	canv.SetOnKeyUp(e.onKeyUp)

	e.image = canvas.NewImageFromImage(e.buffer)
	e.image.FillMode = canvas.ImageFillStretch
	e.image.ScaleMode = canvas.ImageScalePixels

	width, height := float32(chip8.Width)*e.scale, float32(chip8.Height)*e.scale
	imageContent := container.New(layout.NewGridWrapLayout(fyne.NewSize(width, height)), e.image)

	e.console = NewConsole(9)
	consoleContent := container.New(
		layout.NewGridWrapLayout(fyne.NewSize(150, float32(chip8.Height))),
		e.console.Object(),
	)

	state := e.runner.Snapshot()
	for reg := range chip8.RegistersTo(chip8.VF) {
		e.registerData[reg] = registerLine(reg, state.V[reg])
	}
	e.registers = binding.BindStringList(&e.registerData)

	registerList := widget.NewListWithData(
		e.registers,
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(di binding.DataItem, obj fyne.CanvasObject) {
			s, _ := di.(binding.String).Get()
			obj.(*widget.Label).SetText(s)
		},
	)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), e.runner.Resume),
		widget.NewToolbarAction(theme.MediaPauseIcon(), e.runner.Pause),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), e.runner.StepOnce),
	)

	e.programCounter = widget.NewLabel("")
	e.index = widget.NewLabel("")
	e.stackDepth = widget.NewLabel("")
	e.setStatus(state)

	frame := e.runner.Frame()
	paint(e.buffer, &frame)

	hbox := container.NewHBox(layout.NewSpacer(), e.programCounter, layout.NewSpacer(), e.index, layout.NewSpacer(), e.stackDepth, layout.NewSpacer())

	w.SetContent(container.NewBorder(toolbar, hbox, consoleContent, registerList, imageContent))
	w.Resize(fyne.NewSize(width, height))
	w.SetFixedSize(true)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	closed := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		err := e.runner.Run(ctx)
		select {
		case <-closed:
		default:
			fyne.Do(a.Quit)
		}
		done <- err
	}()

	w.ShowAndRun()
	close(closed)
	cancel()
	return <-done
}
