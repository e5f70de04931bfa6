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

// Package main runs a CHIP-8 program in a window.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chip8vm"
	"chip8vm/chip8"
	"chip8vm/frontend/sdl"
	"chip8vm/internal/config"
	"chip8vm/internal/options"

	"github.com/retroenv/retrogolib/log"
)

type frontend interface {
	Run(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := options.Parse(os.Args[1:])
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		var usageErr *options.UsageError
		if errors.As(err, &usageErr) {
			logger.Error("Invalid command line", usageErr)
			usageErr.ShowUsage(os.Stderr)
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	if err := run(ctx, logger, opts); err != nil {
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Options) error {
	program, err := os.ReadFile(opts.ROM)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	vm, err := chip8.NewWithProgram(program,
		chip8.WithRandom(rand.NewPCG(seed, seed>>1)),
		chip8.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	logger.Info("Loaded program",
		log.String("file", opts.ROM),
		log.Int("size", len(program)),
		log.String("frontend", opts.Frontend))

	var beeper chip8vm.Beeper = chip8vm.NewBeep(0, nil)
	if opts.Mute {
		beeper = chip8vm.Silence{}
	}

	runnerOpts := []chip8vm.RunnerOption{
		chip8vm.WithClockRate(opts.ClockRate()),
		chip8vm.WithBeeper(beeper),
		chip8vm.WithPaused(opts.Paused),
	}

	var f frontend
	switch opts.Frontend {
	case options.FrontendSDL:
		f = sdl.NewWindow(vm, logger, opts.Scale, runnerOpts...)
	default:
		f = chip8vm.NewEmulator(vm, logger, opts.Scale, runnerOpts...)
	}
	return f.Run(ctx)
}
