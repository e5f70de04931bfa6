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
	"strings"

	"chip8vm/chip8"
)

// keyMap maps a QWERTY keyboard onto the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
//
// Keys are looked up by name, which is what both fyne key names and SDL
// scancode names use.
var keyMap = map[string]chip8.Key{
	"1": chip8.Key1, "2": chip8.Key2, "3": chip8.Key3, "4": chip8.KeyC,
	"Q": chip8.Key4, "W": chip8.Key5, "E": chip8.Key6, "R": chip8.KeyD,
	"A": chip8.Key7, "S": chip8.Key8, "D": chip8.Key9, "F": chip8.KeyE,
	"Z": chip8.KeyA, "X": chip8.Key0, "C": chip8.KeyB, "V": chip8.KeyF,
}

// KeyForName returns the keypad key bound to a host key name.
func KeyForName(name string) (chip8.Key, bool) {
	k, ok := keyMap[strings.ToUpper(name)]
	return k, ok
}
