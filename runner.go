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
	"sync"
	"sync/atomic"
	"time"

	"chip8vm/chip8"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

// Presenter receives a copy of the framebuffer whenever it changes.
type Presenter interface {
	Present(frame *chip8.Frame)
}

// Beeper is switched on while the sound timer runs.
type Beeper interface {
	Start(ctx context.Context) error
	Stop() error
}

// State is what a debugger needs to show after a cycle.
type State struct {
	PC          uint16
	I           uint16
	V           [chip8.RegisterCount]byte
	StackDepth  int
	Instruction string
	Waiting     bool
}

// Runner drives a VM from two independent clocks, one for CPU cycles and
// one for the 60hz timers. All calls into the VM go through its mutex, so
// key events from a UI goroutine are safe.
type Runner struct {
	mu sync.Mutex
	vm *chip8.VM

	clockRate time.Duration
	timerRate time.Duration

	presenter Presenter
	beeper    Beeper
	observer  func(State)
	logger    *log.Logger

	paused atomic.Bool
	next   atomic.Bool
	beep   atomic.Bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClockRate sets the time between CPU cycles.
func WithClockRate(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.clockRate = d
	}
}

// WithTimerRate sets the time between timer ticks.
func WithTimerRate(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timerRate = d
	}
}

func WithPresenter(p Presenter) RunnerOption {
	return func(r *Runner) {
		r.presenter = p
	}
}

func WithBeeper(b Beeper) RunnerOption {
	return func(r *Runner) {
		r.beeper = b
	}
}

// WithObserver registers fn to be called after every executed cycle.
func WithObserver(fn func(State)) RunnerOption {
	return func(r *Runner) {
		r.observer = fn
	}
}

// WithPaused starts the runner paused.
func WithPaused(paused bool) RunnerOption {
	return func(r *Runner) {
		r.paused.Store(paused)
	}
}

// NewRunner returns a Runner for vm.
func NewRunner(vm *chip8.VM, logger *log.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		vm:        vm,
		clockRate: chip8.ClockRate,
		timerRate: chip8.TimerRate,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes until ctx is done or the program faults. A fault is
// returned; cancellation is not.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting emulation",
		log.String("clock", r.clockRate.String()),
		log.String("timers", r.timerRate.String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.cpuLoop(gctx)
	})
	g.Go(func() error {
		return r.timerLoop(gctx)
	})

	err := g.Wait()
	r.stopBeep()

	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		r.logger.Debug("Emulation stopped")
		return nil
	}
	if err != nil {
		r.logger.Debug("Emulation halted", log.Err(err))
	}
	return err
}

func (r *Runner) cpuLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.clockRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Cycle(); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) timerLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.timerRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// Cycle runs one CPU cycle unless paused. While paused, a pending
// StepOnce request lets exactly one cycle through.
func (r *Runner) Cycle() error {
	if r.paused.Load() {
		if !r.next.Load() {
			return nil
		}
		r.next.Store(false)
	}

	r.mu.Lock()
	var mnemonic string
	if ins, err := r.vm.Peek(); err == nil {
		mnemonic = ins.String()
	}

	info, err := r.vm.Step()

	var frame chip8.Frame
	redraw := info&chip8.Redraw != 0
	if redraw {
		frame = r.vm.Display().Snapshot()
	}

	var state State
	if r.observer != nil {
		state = r.state(mnemonic)
	}
	r.mu.Unlock()

	if err != nil {
		return err
	}
	if redraw && r.presenter != nil {
		r.presenter.Present(&frame)
	}
	if r.observer != nil {
		r.observer(state)
	}
	return nil
}

// Tick advances the timers and switches the beeper.
func (r *Runner) Tick(ctx context.Context) error {
	r.mu.Lock()
	info := r.vm.TickTimers()
	r.mu.Unlock()

	if info&chip8.Sound != 0 {
		return r.startBeep(ctx)
	}
	r.stopBeep()
	return nil
}

func (r *Runner) startBeep(ctx context.Context) error {
	if r.beeper == nil || r.beep.Swap(true) {
		return nil
	}
	return r.beeper.Start(ctx)
}

func (r *Runner) stopBeep() {
	if r.beeper == nil || !r.beep.Swap(false) {
		return
	}
	if err := r.beeper.Stop(); err != nil {
		r.logger.Warn("Stopping audio failed", log.Err(err))
	}
}

func (r *Runner) state(mnemonic string) State {
	s := State{
		PC:          r.vm.ProgramCounter(),
		I:           r.vm.Index(),
		StackDepth:  r.vm.StackDepth(),
		Instruction: mnemonic,
	}
	for reg := range chip8.RegistersTo(chip8.VF) {
		s.V[reg] = r.vm.Register(reg)
	}
	_, s.Waiting = r.vm.Waiting()
	return s
}

// Press reports a key going down.
func (r *Runner) Press(key chip8.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vm.SetKey(key, chip8.Pressed)
}

// Release reports a key going up.
func (r *Runner) Release(key chip8.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vm.SetKey(key, chip8.Released)
}

func (r *Runner) Pause() {
	r.paused.Store(true)
}

func (r *Runner) Resume() {
	r.paused.Store(false)
}

// TogglePause flips between paused and running.
func (r *Runner) TogglePause() {
	for {
		old := r.paused.Load()
		if r.paused.CompareAndSwap(old, !old) {
			return
		}
	}
}

func (r *Runner) Paused() bool {
	return r.paused.Load()
}

// StepOnce lets a single cycle run while paused.
func (r *Runner) StepOnce() {
	r.next.Store(true)
}

// Snapshot returns the current debugger state.
func (r *Runner) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mnemonic string
	if ins, err := r.vm.Peek(); err == nil {
		mnemonic = ins.String()
	}
	return r.state(mnemonic)
}

// Frame returns a copy of the framebuffer.
func (r *Runner) Frame() chip8.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vm.Display().Snapshot()
}
