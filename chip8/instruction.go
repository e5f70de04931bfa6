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

// Instruction is a decoded opcode. The set of implementations is closed;
// each variant holds only the operands it uses.
type Instruction interface {
	// Opcode re-encodes the instruction.
	Opcode() uint16
	// String returns the assembler mnemonic.
	String() string

	isInstruction()
}

func regs(x, y VRegister) string {
	return x.String() + ", " + y.String()
}

func regByte(x VRegister, b byte) string {
	return x.String() + ", " + byteconv.U8toh(b, 2)
}

// Sys calls a machine routine at Addr. 0nnn - SYS addr
type Sys struct{ Addr Addr }

// Clear blanks the display. 00E0 - CLS
type Clear struct{}

// Return pops the call stack into PC. 00EE - RET
type Return struct{}

// Jump sets PC. 1nnn - JP addr
type Jump struct{ Addr Addr }

// Call pushes PC and jumps. 2nnn - CALL addr
type Call struct{ Addr Addr }

// SkipEqualOperand skips if Vx == kk. 3xkk - SE Vx, byte
type SkipEqualOperand struct {
	X    VRegister
	Byte byte
}

// SkipNotEqualOperand skips if Vx != kk. 4xkk - SNE Vx, byte
type SkipNotEqualOperand struct {
	X    VRegister
	Byte byte
}

// SkipEqual skips if Vx == Vy. 5xy0 - SE Vx, Vy
type SkipEqual struct{ X, Y VRegister }

// LoadOperand sets Vx = kk. 6xkk - LD Vx, byte
type LoadOperand struct {
	X    VRegister
	Byte byte
}

// AddOperand sets Vx = Vx + kk without touching VF. 7xkk - ADD Vx, byte
type AddOperand struct {
	X    VRegister
	Byte byte
}

// Load sets Vx = Vy. 8xy0 - LD Vx, Vy
type Load struct{ X, Y VRegister }

// Or sets Vx = Vx | Vy. 8xy1 - OR Vx, Vy
type Or struct{ X, Y VRegister }

// And sets Vx = Vx & Vy. 8xy2 - AND Vx, Vy
type And struct{ X, Y VRegister }

// XOr sets Vx = Vx ^ Vy. 8xy3 - XOR Vx, Vy
type XOr struct{ X, Y VRegister }

// Add sets Vx = Vx + Vy, VF = carry. 8xy4 - ADD Vx, Vy
type Add struct{ X, Y VRegister }

// Sub sets Vx = Vx - Vy, VF = not borrow. 8xy5 - SUB Vx, Vy
type Sub struct{ X, Y VRegister }

// ShiftRight sets Vx = Vy >> 1, VF = the bit shifted out. 8xy6 - SHR Vx, Vy
type ShiftRight struct{ X, Y VRegister }

// SubNegated sets Vx = Vy - Vx, VF = not borrow. 8xy7 - SUBN Vx, Vy
type SubNegated struct{ X, Y VRegister }

// ShiftLeft sets Vx = Vy << 1, VF = the bit shifted out. 8xyE - SHL Vx, Vy
type ShiftLeft struct{ X, Y VRegister }

// SkipNotEqual skips if Vx != Vy. 9xy0 - SNE Vx, Vy
type SkipNotEqual struct{ X, Y VRegister }

// LoadI sets I. Annn - LD I, addr
type LoadI struct{ Addr Addr }

// LongJump sets PC = nnn + V0. Bnnn - JP V0, addr
type LongJump struct{ Addr Addr }

// Random sets Vx = random byte & kk. Cxkk - RND Vx, byte
type Random struct {
	X    VRegister
	Byte byte
}

// Draw XORs an N row sprite at I onto the display at (Vx, Vy), VF =
// collision. Dxyn - DRW Vx, Vy, nibble
type Draw struct {
	X, Y VRegister
	N    Nibble
}

// SkipKeyPressed skips if key Vx is down. Ex9E - SKP Vx
type SkipKeyPressed struct{ X VRegister }

// SkipKeyNotPressed skips if key Vx is up. ExA1 - SKNP Vx
type SkipKeyNotPressed struct{ X VRegister }

// LoadRegisterDelayTimer sets Vx = DT. Fx07 - LD Vx, DT
type LoadRegisterDelayTimer struct{ X VRegister }

// LoadKey waits for a key press and stores the key in Vx. Fx0A - LD Vx, K
type LoadKey struct{ X VRegister }

// LoadDelayTimerRegister sets DT = Vx. Fx15 - LD DT, Vx
type LoadDelayTimerRegister struct{ X VRegister }

// LoadSoundTimerRegister sets ST = Vx. Fx18 - LD ST, Vx
type LoadSoundTimerRegister struct{ X VRegister }

// AddI sets I = I + Vx. Fx1E - ADD I, Vx
type AddI struct{ X VRegister }

// LoadSprite points I at the font sprite for digit Vx. Fx29 - LD F, Vx
type LoadSprite struct{ X VRegister }

// LoadBinaryCodedDecimal stores the decimal digits of Vx at I, I+1, I+2.
// Fx33 - LD B, Vx
type LoadBinaryCodedDecimal struct{ X VRegister }

// LoadMemoryRegisters stores V0 through Vx at I. Fx55 - LD [I], Vx
type LoadMemoryRegisters struct{ X VRegister }

// LoadRegistersMemory reads V0 through Vx from I. Fx65 - LD Vx, [I]
type LoadRegistersMemory struct{ X VRegister }

func (i Sys) Opcode() uint16 { return encodeAddr(0x0, i.Addr) }
func (Clear) Opcode() uint16 { return 0x00E0 }
func (Return) Opcode() uint16 { return 0x00EE }
func (i Jump) Opcode() uint16 { return encodeAddr(0x1, i.Addr) }
func (i Call) Opcode() uint16 { return encodeAddr(0x2, i.Addr) }
func (i SkipEqualOperand) Opcode() uint16 { return encodeXNN(0x3, i.X, i.Byte) }
func (i SkipNotEqualOperand) Opcode() uint16 { return encodeXNN(0x4, i.X, i.Byte) }
func (i SkipEqual) Opcode() uint16 { return encodeXYN(0x5, i.X, i.Y, 0x0) }
func (i LoadOperand) Opcode() uint16 { return encodeXNN(0x6, i.X, i.Byte) }
func (i AddOperand) Opcode() uint16 { return encodeXNN(0x7, i.X, i.Byte) }
func (i Load) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0x0) }
func (i Or) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0x1) }
func (i And) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0x2) }
func (i XOr) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0x3) }
func (i Add) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0x4) }
func (i Sub) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0x5) }
func (i ShiftRight) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0x6) }
func (i SubNegated) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0x7) }
func (i ShiftLeft) Opcode() uint16 { return encodeXYN(0x8, i.X, i.Y, 0xE) }
func (i SkipNotEqual) Opcode() uint16 { return encodeXYN(0x9, i.X, i.Y, 0x0) }
func (i LoadI) Opcode() uint16 { return encodeAddr(0xA, i.Addr) }
func (i LongJump) Opcode() uint16 { return encodeAddr(0xB, i.Addr) }
func (i Random) Opcode() uint16 { return encodeXNN(0xC, i.X, i.Byte) }
func (i Draw) Opcode() uint16 { return encodeXYN(0xD, i.X, i.Y, uint8(i.N)) }
func (i SkipKeyPressed) Opcode() uint16 { return encodeXNN(0xE, i.X, 0x9E) }
func (i SkipKeyNotPressed) Opcode() uint16 { return encodeXNN(0xE, i.X, 0xA1) }
func (i LoadRegisterDelayTimer) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x07) }
func (i LoadKey) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x0A) }
func (i LoadDelayTimerRegister) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x15) }
func (i LoadSoundTimerRegister) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x18) }
func (i AddI) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x1E) }
func (i LoadSprite) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x29) }
func (i LoadBinaryCodedDecimal) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x33) }
func (i LoadMemoryRegisters) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x55) }
func (i LoadRegistersMemory) Opcode() uint16 { return encodeXNN(0xF, i.X, 0x65) }

func (i Sys) String() string { return "SYS " + i.Addr.String() }
func (Clear) String() string { return "CLS" }
func (Return) String() string { return "RET" }
func (i Jump) String() string { return "JP " + i.Addr.String() }
func (i Call) String() string { return "CALL " + i.Addr.String() }
func (i SkipEqualOperand) String() string { return "SE " + regByte(i.X, i.Byte) }
func (i SkipNotEqualOperand) String() string { return "SNE " + regByte(i.X, i.Byte) }
func (i SkipEqual) String() string { return "SE " + regs(i.X, i.Y) }
func (i LoadOperand) String() string { return "LD " + regByte(i.X, i.Byte) }
func (i AddOperand) String() string { return "ADD " + regByte(i.X, i.Byte) }
func (i Load) String() string { return "LD " + regs(i.X, i.Y) }
func (i Or) String() string { return "OR " + regs(i.X, i.Y) }
func (i And) String() string { return "AND " + regs(i.X, i.Y) }
func (i XOr) String() string { return "XOR " + regs(i.X, i.Y) }
func (i Add) String() string { return "ADD " + regs(i.X, i.Y) }
func (i Sub) String() string { return "SUB " + regs(i.X, i.Y) }
func (i ShiftRight) String() string { return "SHR " + regs(i.X, i.Y) }
func (i SubNegated) String() string { return "SUBN " + regs(i.X, i.Y) }
func (i ShiftLeft) String() string { return "SHL " + regs(i.X, i.Y) }
func (i SkipNotEqual) String() string { return "SNE " + regs(i.X, i.Y) }
func (i LoadI) String() string { return "LD I, " + i.Addr.String() }
func (i LongJump) String() string { return "JP V0, " + i.Addr.String() }
func (i Random) String() string { return "RND " + regByte(i.X, i.Byte) }
func (i Draw) String() string { return "DRW " + regs(i.X, i.Y) + ", " + byteconv.U8toh(uint8(i.N), 1) }
func (i SkipKeyPressed) String() string { return "SKP " + i.X.String() }
func (i SkipKeyNotPressed) String() string { return "SKNP " + i.X.String() }
func (i LoadRegisterDelayTimer) String() string { return "LD " + i.X.String() + ", DT" }
func (i LoadKey) String() string { return "LD " + i.X.String() + ", K" }
func (i LoadDelayTimerRegister) String() string { return "LD DT, " + i.X.String() }
func (i LoadSoundTimerRegister) String() string { return "LD ST, " + i.X.String() }
func (i AddI) String() string { return "ADD I, " + i.X.String() }
func (i LoadSprite) String() string { return "LD F, " + i.X.String() }
func (i LoadBinaryCodedDecimal) String() string { return "LD B, " + i.X.String() }
func (i LoadMemoryRegisters) String() string { return "LD [I], " + i.X.String() }
func (i LoadRegistersMemory) String() string { return "LD " + i.X.String() + ", [I]" }

func (Sys) isInstruction() {}
func (Clear) isInstruction() {}
func (Return) isInstruction() {}
func (Jump) isInstruction() {}
func (Call) isInstruction() {}
func (SkipEqualOperand) isInstruction() {}
func (SkipNotEqualOperand) isInstruction() {}
func (SkipEqual) isInstruction() {}
func (LoadOperand) isInstruction() {}
func (AddOperand) isInstruction() {}
func (Load) isInstruction() {}
func (Or) isInstruction() {}
func (And) isInstruction() {}
func (XOr) isInstruction() {}
func (Add) isInstruction() {}
func (Sub) isInstruction() {}
func (ShiftRight) isInstruction() {}
func (SubNegated) isInstruction() {}
func (ShiftLeft) isInstruction() {}
func (SkipNotEqual) isInstruction() {}
func (LoadI) isInstruction() {}
func (LongJump) isInstruction() {}
func (Random) isInstruction() {}
func (Draw) isInstruction() {}
func (SkipKeyPressed) isInstruction() {}
func (SkipKeyNotPressed) isInstruction() {}
func (LoadRegisterDelayTimer) isInstruction() {}
func (LoadKey) isInstruction() {}
func (LoadDelayTimerRegister) isInstruction() {}
func (LoadSoundTimerRegister) isInstruction() {}
func (AddI) isInstruction() {}
func (LoadSprite) isInstruction() {}
func (LoadBinaryCodedDecimal) isInstruction() {}
func (LoadMemoryRegisters) isInstruction() {}
func (LoadRegistersMemory) isInstruction() {}
