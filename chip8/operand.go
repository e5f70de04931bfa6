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
	"iter"

	"chip8vm/byteconv"
)

// Addr is a 12-bit memory address. Every constructor masks, so an Addr is
// always below MemorySize.
type Addr uint16

// NewAddr keeps the low 12 bits of v.
func NewAddr(v uint16) Addr {
	return Addr(v & 0x0FFF)
}

func (a Addr) Uint16() uint16 {
	return uint16(a)
}

func (a Addr) Index() int {
	return int(a)
}

func (a Addr) String() string {
	return byteconv.U16toh(uint16(a), 3)
}

// Nibble is a 4-bit field of an opcode.
type Nibble uint8

// NewNibble keeps the low 4 bits of b.
func NewNibble(b byte) Nibble {
	return Nibble(b & 0x0F)
}

func (n Nibble) Index() int {
	return int(n)
}

// VRegister names one of the general purpose registers V0 through VF.
type VRegister uint8

const (
	V0 VRegister = iota
	V1
	V2
	V3
	V4
	V5
	V6
	V7
	V8
	V9
	VA
	VB
	VC
	VD
	VE
	VF
)

// CarryFlag is the register that Add, Sub, the shifts and Draw overwrite
// with their flag result.
const CarryFlag = VF

// RegisterFromNibble converts an operand field to a register name.
func RegisterFromNibble(n Nibble) (VRegister, error) {
	if n > Nibble(VF) {
		return 0, &RegisterError{Value: uint8(n)}
	}
	return VRegister(n), nil
}

// RegistersTo yields V0 up to and including last.
func RegistersTo(last VRegister) iter.Seq[VRegister] {
	return func(yield func(VRegister) bool) {
		for r := V0; r <= last && r <= VF; r++ {
			if !yield(r) {
				return
			}
		}
	}
}

func (r VRegister) String() string {
	return "V" + string(byteconv.Nibble(uint8(r)))
}
