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
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/generator"
	"github.com/gordonklaus/portaudio"
	"golang.org/x/sync/errgroup"
)

const (
	framesPerBuffer int     = 512
	beepNote        float64 = 440.0 // A4
	beepAmplitude   float64 = 0.25
)

// Beep plays a sine tone on the default output device while started.
type Beep struct {
	note   float64
	format *audio.Format

	g       errgroup.Group
	beeping atomic.Bool
}

// NewBeep returns a Beep for a tone of note hertz in the given sample
// format. A zero note means A4, a nil format mono 44.1kHz.
func NewBeep(note float64, format *audio.Format) *Beep {
	if note <= 0 {
		note = beepNote
	}
	if format == nil {
		format = audio.FormatMono44100
	}
	return &Beep{
		note:   note,
		format: format,
	}
}

// Start opens the output stream and keeps it fed until Stop is called or
// ctx is done. Starting a running Beep does nothing.
func (b *Beep) Start(ctx context.Context) error {
	if b.beeping.Swap(true) {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		b.beeping.Store(false)
		return err
	}

	osc := generator.NewOsc(generator.WaveSine, b.note, b.format.SampleRate)
	osc.Amplitude = beepAmplitude

	b.g.Go(func() error {
		defer func() {
			_ = portaudio.Terminate()
		}()
		return b.play(ctx, osc)
	})
	return nil
}

func (b *Beep) play(ctx context.Context, osc *generator.Osc) error {
	samples := &audio.FloatBuffer{
		Data:   make([]float64, framesPerBuffer*b.format.NumChannels),
		Format: b.format,
	}
	out := make([]float32, len(samples.Data))

	stream, err := portaudio.OpenDefaultStream(0, b.format.NumChannels, float64(b.format.SampleRate), framesPerBuffer, &out)
	if err != nil {
		return err
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := stream.Start(); err != nil {
		return err
	}
	defer func() {
		_ = stream.Stop()
	}()

	for b.beeping.Load() && ctx.Err() == nil {
		if err := osc.Fill(samples); err != nil {
			return err
		}
		for i, s := range samples.Data {
			out[i] = float32(s)
		}
		if err := stream.Write(); err != nil {
			return err
		}
	}
	return nil
}

// Stop silences the tone and waits for the stream to close.
func (b *Beep) Stop() error {
	if !b.beeping.Swap(false) {
		return nil
	}
	return b.g.Wait()
}

// Silence is a Beeper that makes no sound.
type Silence struct{}

func (Silence) Start(context.Context) error { return nil }

func (Silence) Stop() error { return nil }
