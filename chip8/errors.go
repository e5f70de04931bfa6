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

import (
	"errors"
	"strconv"

	"chip8vm/byteconv"
)

// Sentinel errors. The typed errors below unwrap to these so callers can
// match with errors.Is and still inspect the offending value with errors.As.
var (
	ErrInvalidRegister    = errors.New("invalid register")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrInvalidKey         = errors.New("invalid key")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrAddressOutOfRange  = errors.New("address out of range")
	ErrProgramTooLarge    = errors.New("program too large")
)

// InstructionError reports an opcode that matches no instruction.
type InstructionError struct {
	Opcode uint16
}

func (e *InstructionError) Error() string {
	return "unknown instruction " + byteconv.U16toh(e.Opcode, 4)
}

func (e *InstructionError) Unwrap() error {
	return ErrUnknownInstruction
}

// RegisterError reports a value that does not name a V register.
type RegisterError struct {
	Value uint8
}

func (e *RegisterError) Error() string {
	return "invalid register " + strconv.Itoa(int(e.Value))
}

func (e *RegisterError) Unwrap() error {
	return ErrInvalidRegister
}

// KeyError reports a register value used as a key that is not 0 through F.
type KeyError struct {
	Value uint8
}

func (e *KeyError) Error() string {
	return "invalid key " + byteconv.U8toh(e.Value, 2)
}

func (e *KeyError) Unwrap() error {
	return ErrInvalidKey
}

// AddressError reports an access of Len bytes at Addr that leaves memory.
type AddressError struct {
	Addr uint32
	Len  int
}

func (e *AddressError) Error() string {
	return "address out of range: " + strconv.Itoa(e.Len) + " bytes at " +
		strconv.FormatUint(uint64(e.Addr), 16)
}

func (e *AddressError) Unwrap() error {
	return ErrAddressOutOfRange
}
