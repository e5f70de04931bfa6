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

// execute runs a decoded instruction. PC already points past it.
func (vm *VM) execute(ins Instruction, info *Info) error {
	switch in := ins.(type) {
	case Sys:
		return callMachineRoutine(vm, in.Addr)
	case Clear:
		clearScreen(vm, info)
	case Return:
		return returnFromSubroutine(vm)
	case Jump:
		jumpToLocation(vm, in.Addr)
	case Call:
		return callSubroutine(vm, in.Addr)
	case SkipEqualOperand:
		skipIf(vm, vm.v[in.X] == in.Byte)
	case SkipNotEqualOperand:
		skipIf(vm, vm.v[in.X] != in.Byte)
	case SkipEqual:
		skipIf(vm, vm.v[in.X] == vm.v[in.Y])
	case SkipNotEqual:
		skipIf(vm, vm.v[in.X] != vm.v[in.Y])
	case LoadOperand:
		vm.v[in.X] = in.Byte
	case AddOperand:
		vm.v[in.X] += in.Byte
	case Load:
		vm.v[in.X] = vm.v[in.Y]
	case Or:
		vm.v[in.X] |= vm.v[in.Y]
	case And:
		vm.v[in.X] &= vm.v[in.Y]
	case XOr:
		vm.v[in.X] ^= vm.v[in.Y]
	case Add:
		addXY(vm, in.X, in.Y)
	case Sub:
		subtractYFromX(vm, in.X, in.Y)
	case SubNegated:
		subtractXFromY(vm, in.X, in.Y)
	case ShiftRight:
		shiftRight(vm, in.X, in.Y)
	case ShiftLeft:
		shiftLeft(vm, in.X, in.Y)
	case LoadI:
		vm.i = in.Addr.Uint16()
	case LongJump:
		vm.pc = in.Addr.Uint16() + uint16(vm.v[V0])
	case Random:
		vm.v[in.X] = byte(vm.rng.Uint64()) & in.Byte
	case Draw:
		return drawSprite(vm, in.X, in.Y, in.N, info)
	case SkipKeyPressed:
		return skipOnKey(vm, in.X, Pressed)
	case SkipKeyNotPressed:
		return skipOnKey(vm, in.X, Released)
	case LoadRegisterDelayTimer:
		vm.v[in.X] = vm.delay
	case LoadKey:
		pauseUntilKeyPressed(vm, in.X)
		*info |= Waiting
	case LoadDelayTimerRegister:
		vm.delay = vm.v[in.X]
	case LoadSoundTimerRegister:
		vm.sound = vm.v[in.X]
	case AddI:
		// VF is left alone; only the Amiga interpreter set it on overflow.
		return addToIndex(vm, in.X)
	case LoadSprite:
		vm.i = FontAddress(vm.v[in.X]).Uint16()
	case LoadBinaryCodedDecimal:
		return binaryCodedDecimal(vm, in.X)
	case LoadMemoryRegisters:
		return setRegistersToMemory(vm, in.X)
	case LoadRegistersMemory:
		return setMemoryToRegisters(vm, in.X)
	default:
		return &InstructionError{Opcode: ins.Opcode()}
	}
	return nil
}

func callMachineRoutine(vm *VM, addr Addr) error {
	if vm.sys == nil {
		return nil
	}
	return vm.sys(vm, addr)
}

func clearScreen(vm *VM, info *Info) {
	vm.display.Clear()
	*info |= Redraw
}

func callSubroutine(vm *VM, addr Addr) error {
	if int(vm.sp) >= len(vm.stack) {
		return ErrStackOverflow
	}
	vm.stack[vm.sp] = vm.pc
	vm.sp++
	vm.pc = addr.Uint16()
	return nil
}

func returnFromSubroutine(vm *VM) error {
	if vm.sp == 0 {
		return ErrStackUnderflow
	}
	vm.sp--
	vm.pc = vm.stack[vm.sp]
	return nil
}

func jumpToLocation(vm *VM, addr Addr) {
	vm.pc = addr.Uint16()
}

func skipIf(vm *VM, cond bool) {
	if cond {
		vm.pc += 2
	}
}

// The flag is written before the result, so with x == F the result is what
// remains in VF.

func addXY(vm *VM, x, y VRegister) {
	sum := uint16(vm.v[x]) + uint16(vm.v[y])
	vm.v[CarryFlag] = flag(sum > 0xFF)
	vm.v[x] = byte(sum)
}

func subtractYFromX(vm *VM, x, y VRegister) {
	vx, vy := vm.v[x], vm.v[y]
	vm.v[CarryFlag] = flag(vx >= vy)
	vm.v[x] = vx - vy
}

func subtractXFromY(vm *VM, x, y VRegister) {
	vx, vy := vm.v[x], vm.v[y]
	vm.v[CarryFlag] = flag(vy >= vx)
	vm.v[x] = vy - vx
}

func shiftRight(vm *VM, x, y VRegister) {
	vy := vm.v[y]
	vm.v[CarryFlag] = vy & 0x1
	vm.v[x] = vy >> 1
}

func shiftLeft(vm *VM, x, y VRegister) {
	vy := vm.v[y]
	vm.v[CarryFlag] = vy >> 7
	vm.v[x] = vy << 1
}

// addToIndex adds Vx to I. I is 16 bits wide and does not wrap.
func addToIndex(vm *VM, x VRegister) error {
	sum := uint32(vm.i) + uint32(vm.v[x])
	if sum > 0xFFFF {
		return &AddressError{Addr: sum, Len: 0}
	}
	vm.i = uint16(sum)
	return nil
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}

func drawSprite(vm *VM, x, y VRegister, n Nibble, info *Info) error {
	start, err := vm.indexAddr(0, n.Index())
	if err != nil {
		return err
	}
	rows, err := vm.memory.ReadSlice(start, n.Index())
	if err != nil {
		return err
	}

	px := NewXCoordinate(int(vm.v[x]))
	py := NewYCoordinate(int(vm.v[y]))

	result := vm.display.Draw(Sprite(rows), px, py)
	vm.v[CarryFlag] = flag(result == Overdrawn)
	*info |= Redraw
	return nil
}

func skipOnKey(vm *VM, x VRegister, want KeyState) error {
	key, err := KeyFromByte(vm.v[x])
	if err != nil {
		return err
	}
	skipIf(vm, vm.keypad.State(key) == want)
	return nil
}

// pauseUntilKeyPressed starts a key wait. Keys already held down do not
// count; only a press that happens from here on completes it.
func pauseUntilKeyPressed(vm *VM, x VRegister) {
	vm.keypad.Mark()
	vm.waiting = true
	vm.waitRegister = x
}

// binaryCodedDecimal stores the hundreds, tens and ones digits of Vx at I,
// I+1 and I+2.
func binaryCodedDecimal(vm *VM, x VRegister) error {
	start, err := vm.indexAddr(0, 3)
	if err != nil {
		return err
	}

	// Double dabble: shift the value in one bit at a time and add 3 to any
	// BCD digit that is 5 or more before the shift, so it carries correctly.
	var bcd uint32
	val := uint32(vm.v[x])

	for i := range 8 {
		if (bcd & 0x00F) >= 0x005 {
			bcd += 0x003
		}
		if (bcd & 0x0F0) >= 0x050 {
			bcd += 0x030
		}
		if (bcd & 0xF00) >= 0x500 {
			bcd += 0x300
		}
		bcd = (bcd << 1) | ((val >> (7 - i)) & 1)
	}

	vm.memory.Write(start, byte((bcd>>8)&0xF))   // Hundreds
	vm.memory.Write(start+1, byte((bcd>>4)&0xF)) // Tens
	vm.memory.Write(start+2, byte(bcd&0xF))      // Ones
	return nil
}

// setRegistersToMemory stores V0 through Vx at I and leaves I pointing
// just past the last byte written.
func setRegistersToMemory(vm *VM, x VRegister) error {
	start, err := vm.indexAddr(0, int(x)+1)
	if err != nil {
		return err
	}
	for r := range RegistersTo(x) {
		vm.memory.Write(start+Addr(r), vm.v[r])
	}
	vm.i += uint16(x) + 1
	return nil
}

// setMemoryToRegisters loads V0 through Vx from I and leaves I pointing
// just past the last byte read.
func setMemoryToRegisters(vm *VM, x VRegister) error {
	start, err := vm.indexAddr(0, int(x)+1)
	if err != nil {
		return err
	}
	for r := range RegistersTo(x) {
		vm.v[r] = vm.memory.Read(start + Addr(r))
	}
	vm.i += uint16(x) + 1
	return nil
}
