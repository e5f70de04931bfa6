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

// Package options parses the command line of the emulator.
package options

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// Front-ends that can present the emulator.
const (
	FrontendFyne = "fyne"
	FrontendSDL  = "sdl"
)

const (
	defaultClock = 700
	defaultScale = 10
	maxScale     = 40
)

// Options of the emulator.
type Options struct {
	ROM string // path of the program to run

	Clock    int    // CPU cycles per second
	Scale    int    // screen pixels per CHIP-8 pixel
	Seed     uint64 // random seed, 0 picks one from the clock
	Frontend string

	Mute   bool
	Paused bool
	Debug  bool
	Quiet  bool
}

// ClockRate is the time between two CPU cycles.
func (o Options) ClockRate() time.Duration {
	return time.Second / time.Duration(o.Clock)
}

// UsageError is returned when the command line is incomplete or invalid
// and the usage should be shown.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage writes the usage text to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "usage: chip8vm [options] <program file>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(w)
		e.flags.PrintDefaults()
	}
	_, _ = fmt.Fprintln(w)
}

// Parse parses args, not including the program name.
func Parse(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip8vm", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &UsageError{flags: flags, msg: "help requested"}
		}
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags, msg: "no program file given"}
	case len(rest) > 1:
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s after program file, options must come first", rest[1]),
		}
	}
	opts.ROM = rest[0]

	if err := normalize(&opts); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	return opts, nil
}

func normalize(opts *Options) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if opts.Frontend != FrontendFyne && opts.Frontend != FrontendSDL {
		return fmt.Errorf("unsupported front-end: %s. Valid options: %s, %s",
			opts.Frontend, FrontendFyne, FrontendSDL)
	}
	if opts.Clock <= 0 {
		return fmt.Errorf("clock must be positive, got %d", opts.Clock)
	}
	if opts.Scale <= 0 || opts.Scale > maxScale {
		return fmt.Errorf("scale must be between 1 and %d, got %d", maxScale, opts.Scale)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.IntVar(&opts.Clock, "clock", defaultClock, "CPU cycles per second")
	flags.IntVar(&opts.Scale, "scale", defaultScale, "size of a CHIP-8 pixel on screen")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 seeds from the clock")
	flags.StringVar(&opts.Frontend, "frontend", FrontendFyne, "front-end to use (fyne/sdl)")
	flags.BoolVar(&opts.Mute, "mute", false, "disable the beeper")
	flags.BoolVar(&opts.Paused, "paused", false, "start paused, step with N and resume with P")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "quiet", false, "only log errors")
}
