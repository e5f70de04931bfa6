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

import "fmt"

const (
	MemorySize          = 4096
	FontStartAddress    = 0x50
	ProgramStartAddress = 0x200
	MaxProgramSize      = MemorySize - ProgramStartAddress
)

// Memory is the 4 KiB address space. Bytes below ProgramStartAddress belong
// to the interpreter and hold the built-in font.
//
// Accesses that would run past the last address are reported as an
// AddressError; nothing is clamped or wrapped.
type Memory struct {
	ram [MemorySize]byte
}

// Read returns the byte at a. Only the low 12 bits of a are used.
func (m *Memory) Read(a Addr) byte {
	return m.ram[a&0x0FFF]
}

// Write stores v at a. Only the low 12 bits of a are used.
func (m *Memory) Write(a Addr, v byte) {
	m.ram[a&0x0FFF] = v
}

// ReadSlice returns a view of n bytes starting at start. The view aliases
// memory and is only valid until the next write.
func (m *Memory) ReadSlice(start Addr, n int) ([]byte, error) {
	end := start.Index() + n
	if n < 0 || end > MemorySize {
		return nil, &AddressError{Addr: uint32(start), Len: n}
	}
	return m.ram[start.Index():end:end], nil
}

// Load copies data into memory starting at start.
func (m *Memory) Load(start Addr, data []byte) error {
	if start.Index()+len(data) > MemorySize {
		return &AddressError{Addr: uint32(start), Len: len(data)}
	}
	copy(m.ram[start.Index():], data)
	return nil
}

// LoadProgram copies a raw program image to ProgramStartAddress.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	return m.Load(ProgramStartAddress, program)
}

// Clear zeroes every byte.
func (m *Memory) Clear() {
	clear(m.ram[:])
}
