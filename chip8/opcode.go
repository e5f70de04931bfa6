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

import "chip8vm/byteconv"

// Opcode is a raw instruction word as fetched from memory, high byte first.
type Opcode uint16

func (o Opcode) kind() uint8 {
	return uint8((uint16(o) & 0xF000) >> 12)
}

func (o Opcode) x() Nibble {
	return Nibble((uint16(o) & 0x0F00) >> 8)
}

func (o Opcode) y() Nibble {
	return Nibble((uint16(o) & 0x00F0) >> 4)
}

func (o Opcode) n() Nibble {
	return Nibble(uint16(o) & 0x000F)
}

func (o Opcode) nn() byte {
	return byte(uint16(o) & 0x00FF)
}

func (o Opcode) nnn() Addr {
	return NewAddr(uint16(o))
}

// String disassembles the opcode, or renders it as a data word when it
// does not decode.
func (o Opcode) String() string {
	ins, err := Decode(uint16(o))
	if err != nil {
		return "DW " + byteconv.U16toh(uint16(o), 4)
	}
	return ins.String()
}

// Decode turns a raw opcode into its instruction. Opcodes that match no
// instruction yield an *InstructionError.
func Decode(bits uint16) (Instruction, error) {
	op := Opcode(bits)

	x, err := RegisterFromNibble(op.x())
	if err != nil {
		return nil, err
	}
	y, err := RegisterFromNibble(op.y())
	if err != nil {
		return nil, err
	}

	switch op.kind() {
	case 0x0:
		switch bits {
		case 0x00E0:
			return Clear{}, nil
		case 0x00EE:
			return Return{}, nil
		}
		return Sys{Addr: op.nnn()}, nil
	case 0x1:
		return Jump{Addr: op.nnn()}, nil
	case 0x2:
		return Call{Addr: op.nnn()}, nil
	case 0x3:
		return SkipEqualOperand{X: x, Byte: op.nn()}, nil
	case 0x4:
		return SkipNotEqualOperand{X: x, Byte: op.nn()}, nil
	case 0x5:
		if op.n() == 0x0 {
			return SkipEqual{X: x, Y: y}, nil
		}
	case 0x6:
		return LoadOperand{X: x, Byte: op.nn()}, nil
	case 0x7:
		return AddOperand{X: x, Byte: op.nn()}, nil
	case 0x8:
		switch op.n() {
		case 0x0:
			return Load{X: x, Y: y}, nil
		case 0x1:
			return Or{X: x, Y: y}, nil
		case 0x2:
			return And{X: x, Y: y}, nil
		case 0x3:
			return XOr{X: x, Y: y}, nil
		case 0x4:
			return Add{X: x, Y: y}, nil
		case 0x5:
			return Sub{X: x, Y: y}, nil
		case 0x6:
			return ShiftRight{X: x, Y: y}, nil
		case 0x7:
			return SubNegated{X: x, Y: y}, nil
		case 0xE:
			return ShiftLeft{X: x, Y: y}, nil
		}
	case 0x9:
		if op.n() == 0x0 {
			return SkipNotEqual{X: x, Y: y}, nil
		}
	case 0xA:
		return LoadI{Addr: op.nnn()}, nil
	case 0xB:
		return LongJump{Addr: op.nnn()}, nil
	case 0xC:
		return Random{X: x, Byte: op.nn()}, nil
	case 0xD:
		return Draw{X: x, Y: y, N: op.n()}, nil
	case 0xE:
		switch op.nn() {
		case 0x9E:
			return SkipKeyPressed{X: x}, nil
		case 0xA1:
			return SkipKeyNotPressed{X: x}, nil
		}
	case 0xF:
		switch op.nn() {
		case 0x07:
			return LoadRegisterDelayTimer{X: x}, nil
		case 0x0A:
			return LoadKey{X: x}, nil
		case 0x15:
			return LoadDelayTimerRegister{X: x}, nil
		case 0x18:
			return LoadSoundTimerRegister{X: x}, nil
		case 0x1E:
			return AddI{X: x}, nil
		case 0x29:
			return LoadSprite{X: x}, nil
		case 0x33:
			return LoadBinaryCodedDecimal{X: x}, nil
		case 0x55:
			return LoadMemoryRegisters{X: x}, nil
		case 0x65:
			return LoadRegistersMemory{X: x}, nil
		}
	}
	return nil, &InstructionError{Opcode: bits}
}

// Encode is the inverse of Decode.
func Encode(ins Instruction) uint16 {
	return ins.Opcode()
}

func encodeAddr(kind uint16, a Addr) uint16 {
	return kind<<12 | a.Uint16()
}

func encodeXNN(kind uint16, x VRegister, nn byte) uint16 {
	return kind<<12 | uint16(x&0xF)<<8 | uint16(nn)
}

func encodeXYN(kind uint16, x, y VRegister, n uint8) uint16 {
	return kind<<12 | uint16(x&0xF)<<8 | uint16(y&0xF)<<4 | uint16(n&0xF)
}
