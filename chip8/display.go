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

package chip8

import "strings"

const (
	Width  int = 64
	Height int = 32
	Area   int = Width * Height

	SpriteWidth   = 8
	MaxSpriteRows = 15
)

// Pixel is the state of one display cell.
type Pixel uint8

const (
	Off Pixel = iota
	On
)

// XCoordinate is a column, wrapped to the display width.
type XCoordinate int

// NewXCoordinate wraps v into 0 through Width-1.
func NewXCoordinate(v int) XCoordinate {
	return XCoordinate(((v % Width) + Width) % Width)
}

// YCoordinate is a row, wrapped to the display height.
type YCoordinate int

// NewYCoordinate wraps v into 0 through Height-1.
func NewYCoordinate(v int) YCoordinate {
	return YCoordinate(((v % Height) + Height) % Height)
}

// SpriteRow is eight horizontal pixels, most significant bit leftmost.
type SpriteRow byte

// Set reports whether column col (0 is leftmost) is lit.
func (r SpriteRow) Set(col int) bool {
	return byte(r)&(0x80>>col) != 0
}

// Sprite is a view of up to MaxSpriteRows rows in memory.
type Sprite []byte

func (s Sprite) Row(i int) SpriteRow {
	return SpriteRow(s[i])
}

// DrawResult tells whether a draw turned off a pixel that was on.
type DrawResult uint8

const (
	Drawn DrawResult = iota
	Overdrawn
)

// Frame is a copy of the display taken between instructions.
type Frame [Area]Pixel

// At returns the pixel at column x, row y of the copy.
func (f *Frame) At(x, y int) Pixel {
	return f[int(NewYCoordinate(y))*Width+int(NewXCoordinate(x))]
}

// Display is the 64x32 monochrome framebuffer.
type Display struct {
	pixels Frame
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	clear(d.pixels[:])
}

// Pixel returns the pixel at (x, y).
func (d *Display) Pixel(x XCoordinate, y YCoordinate) Pixel {
	return d.pixels[int(y)*Width+int(x)]
}

// Draw XORs sprite onto the display with its top left corner at (x, y).
// Pixels that fall off an edge wrap around to the opposite edge.
func (d *Display) Draw(sprite Sprite, x XCoordinate, y YCoordinate) DrawResult {
	result := Drawn
	for row := range min(len(sprite), MaxSpriteRows) {
		bits := sprite.Row(row)
		py := NewYCoordinate(int(y) + row)

		for col := range SpriteWidth {
			if !bits.Set(col) {
				continue
			}
			px := NewXCoordinate(int(x) + col)
			index := int(py)*Width + int(px)

			if d.pixels[index] == On {
				// Pixel was already on, the program sees this as a collision.
				result = Overdrawn
			}
			d.pixels[index] ^= On
		}
	}
	return result
}

// Snapshot copies the current framebuffer.
func (d *Display) Snapshot() Frame {
	return d.pixels
}

// String renders the display one line per row, '#' for on and '.' for off.
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow(Area + Height)
	for i, p := range d.pixels {
		if p == On {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('.')
		}
		if i%Width == Width-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
