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

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Key is one of the keys 0 through F.
type Key uint8

const (
	Key0 Key = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// KeyFromByte converts a register value to a key.
func KeyFromByte(b byte) (Key, error) {
	if b >= KeyCount {
		return 0, &KeyError{Value: b}
	}
	return Key(b), nil
}

// KeyState is the position of a single key.
type KeyState uint8

const (
	Released KeyState = iota
	Pressed
)

func (s KeyState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Keypad tracks the 16 keys. Besides the current state it latches every
// released to pressed transition since the last Mark, which is what the
// key wait instruction consumes.
type Keypad struct {
	state   [KeyCount]KeyState
	latched uint16
}

// Press moves key to Pressed.
func (k *Keypad) Press(key Key) {
	k.Set(key, Pressed)
}

// Release moves key to Released.
func (k *Keypad) Release(key Key) {
	k.Set(key, Released)
}

// Set updates a key. Keys outside 0 through F are ignored.
func (k *Keypad) Set(key Key, s KeyState) {
	if key >= KeyCount {
		return
	}
	if s == Pressed && k.state[key] == Released {
		k.latched |= 1 << key
	}
	k.state[key] = s
}

// State returns the current state of key.
func (k *Keypad) State(key Key) KeyState {
	if key >= KeyCount {
		return Released
	}
	return k.state[key]
}

func (k *Keypad) IsPressed(key Key) bool {
	return k.State(key) == Pressed
}

// Mark forgets all latched presses.
func (k *Keypad) Mark() {
	k.latched = 0
}

// PressedSinceMark returns the lowest key that went down since the last
// Mark.
func (k *Keypad) PressedSinceMark() (Key, bool) {
	for key := range Key(KeyCount) {
		if k.latched&(1<<key) != 0 {
			return key, true
		}
	}
	return 0, false
}

// Reset releases every key and clears the latch.
func (k *Keypad) Reset() {
	clear(k.state[:])
	k.latched = 0
}
