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
	"testing"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource makes RND deterministic.
type fixedSource uint64

func (s fixedSource) Uint64() uint64 {
	return uint64(s)
}

func newTestVM(t *testing.T, program ...byte) *VM {
	t.Helper()
	vm, err := NewWithProgram(program, WithRandom(fixedSource(4)), WithLogger(log.NewTestLogger(t)))
	require.NoError(t, err)
	return vm
}

func steps(t *testing.T, vm *VM, n int) {
	t.Helper()
	for range n {
		_, err := vm.Step()
		require.NoError(t, err)
	}
}

func TestNew(t *testing.T) {
	vm := New()
	assert.Equal(t, uint16(ProgramStartAddress), vm.ProgramCounter())
	assert.Equal(t, uint16(0), vm.Index())
	assert.Equal(t, 0, vm.StackDepth())

	font, err := vm.Memory().ReadSlice(FontStartAddress, len(fontSet))
	require.NoError(t, err)
	assert.Equal(t, fontSet[:], font)

	_, err = NewWithProgram(make([]byte, MaxProgramSize+1))
	assert.ErrorIs(t, err, ErrProgramTooLarge)
}

func TestStepClear(t *testing.T) {
	vm := newTestVM(t, 0x00, 0xE0)
	vm.Display().Draw(Sprite{0xFF}, 0, 0)

	info, err := vm.Step()
	require.NoError(t, err)
	assert.NotZero(t, info&Redraw)
	assert.Equal(t, Frame{}, vm.Display().Snapshot())
	assert.Equal(t, uint16(0x202), vm.ProgramCounter())
}

func TestStepLoadAndAdd(t *testing.T) {
	vm := newTestVM(t, 0x60, 0x05, 0x70, 0x03)
	steps(t, vm, 2)
	assert.Equal(t, byte(8), vm.Register(V0))
	assert.Equal(t, uint16(0x204), vm.ProgramCounter())
}

func TestExecuteRegisters(t *testing.T) {
	type regs map[VRegister]byte

	tests := []struct {
		name   string
		ins    Instruction
		before regs
		after  regs
		flag   byte
	}{
		{"load operand", LoadOperand{X: V2, Byte: 0xFF}, regs{V2: 0xEE}, regs{V2: 0xFF}, 0},
		{"add operand", AddOperand{X: V2, Byte: 0xFF}, regs{V2: 0x00}, regs{V2: 0xFF}, 0},
		{"add operand wraps", AddOperand{X: V2, Byte: 0x01}, regs{V2: 0xFF}, regs{V2: 0x00}, 0},
		{"add operand keeps flag", AddOperand{X: V2, Byte: 0x01}, regs{V2: 0xFF, VF: 0x07}, regs{V2: 0x00}, 0x07},
		{"load", Load{X: V2, Y: V3}, regs{V2: 0x00, V3: 0xFF}, regs{V2: 0xFF, V3: 0xFF}, 0},
		{"or", Or{X: V2, Y: V3}, regs{V2: 0x01, V3: 0x10}, regs{V2: 0x11}, 0},
		{"and", And{X: V2, Y: V3}, regs{V2: 0x01, V3: 0x11}, regs{V2: 0x01}, 0},
		{"xor", XOr{X: V2, Y: V3}, regs{V2: 0x01, V3: 0x11}, regs{V2: 0x10}, 0},
		{"add", Add{X: V2, Y: V3}, regs{V2: 0xFE, V3: 0x01}, regs{V2: 0xFF, V3: 0x01}, 0},
		{"add overflow", Add{X: V2, Y: V3}, regs{V2: 0xFF, V3: 0x01}, regs{V2: 0x00, V3: 0x01}, 1},
		{"add into flag register", Add{X: VF, Y: VE}, regs{VF: 0x10, VE: 0x01}, regs{VE: 0x01}, 0x11},
		{"add into flag register carry", Add{X: VF, Y: V1}, regs{VF: 0xFF, V1: 0x01}, regs{V1: 0x01}, 0x00},
		{"sub into flag register", Sub{X: VF, Y: V1}, regs{VF: 0x05, V1: 0x02}, regs{V1: 0x02}, 0x03},
		{"sub negated into flag register", SubNegated{X: VF, Y: V1}, regs{VF: 0x02, V1: 0x05}, regs{V1: 0x05}, 0x03},
		{"shift right into flag register", ShiftRight{X: VF, Y: V1}, regs{V1: 0x04}, regs{V1: 0x04}, 0x02},
		{"shift left into flag register", ShiftLeft{X: VF, Y: V1}, regs{V1: 0x81}, regs{V1: 0x81}, 0x02},
		{"sub", Sub{X: V2, Y: V3}, regs{V2: 0x03, V3: 0x02}, regs{V2: 0x01}, 1},
		{"sub equal", Sub{X: V2, Y: V3}, regs{V2: 0x05, V3: 0x05}, regs{V2: 0x00}, 1},
		{"sub borrow", Sub{X: V2, Y: V3}, regs{V2: 0x01, V3: 0x02}, regs{V2: 0xFF, V3: 0x02}, 0},
		{"shift right", ShiftRight{X: V2, Y: V3}, regs{V2: 0x00, V3: 0b10}, regs{V2: 0b01, V3: 0b10}, 0},
		{"shift right in place", ShiftRight{X: V2, Y: V2}, regs{V2: 0b10}, regs{V2: 0b01}, 0},
		{"shift right carry", ShiftRight{X: V2, Y: V2}, regs{V2: 0xFF}, regs{V2: 0x7F}, 1},
		{"sub negated", SubNegated{X: V2, Y: V3}, regs{V2: 0x02, V3: 0x03}, regs{V2: 0x01}, 1},
		{"sub negated borrow", SubNegated{X: V2, Y: V3}, regs{V2: 0x05, V3: 0x03}, regs{V2: 0xFE}, 0},
		{"shift left", ShiftLeft{X: V2, Y: V3}, regs{V2: 0x00, V3: 0b01}, regs{V2: 0b10, V3: 0b01}, 0},
		{"shift left in place", ShiftLeft{X: V2, Y: V2}, regs{V2: 0b0111_0111}, regs{V2: 0b1110_1110}, 0},
		{"shift left carry", ShiftLeft{X: V2, Y: V2}, regs{V2: 0b1111_0111}, regs{V2: 0b1110_1110}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t)
			for r, v := range tt.before {
				vm.v[r] = v
			}

			var info Info
			require.NoError(t, vm.execute(tt.ins, &info))

			for r, v := range tt.after {
				assert.Equal(t, v, vm.Register(r), "register %s", r)
			}
			assert.Equal(t, tt.flag, vm.Register(CarryFlag), "flag")
		})
	}
}

func TestStepSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		v0, v1 byte
		key    bool
		skip   bool
	}{
		{name: "SE byte taken", opcode: 0x3005, v0: 5, skip: true},
		{name: "SE byte not taken", opcode: 0x3005, v0: 6},
		{name: "SNE byte taken", opcode: 0x4005, v0: 6, skip: true},
		{name: "SNE byte not taken", opcode: 0x4005, v0: 5},
		{name: "SE reg taken", opcode: 0x5010, v0: 9, v1: 9, skip: true},
		{name: "SE reg not taken", opcode: 0x5010, v0: 9, v1: 8},
		{name: "SNE reg taken", opcode: 0x9010, v0: 9, v1: 8, skip: true},
		{name: "SNE reg not taken", opcode: 0x9010, v0: 9, v1: 9},
		{name: "SKP taken", opcode: 0xE09E, v0: 4, key: true, skip: true},
		{name: "SKP not taken", opcode: 0xE09E, v0: 4},
		{name: "SKNP taken", opcode: 0xE0A1, v0: 4, skip: true},
		{name: "SKNP not taken", opcode: 0xE0A1, v0: 4, key: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newTestVM(t, byte(tt.opcode>>8), byte(tt.opcode))
			vm.v[V0] = tt.v0
			vm.v[V1] = tt.v1
			if tt.key {
				vm.SetKey(Key4, Pressed)
			}

			steps(t, vm, 1)

			want := uint16(ProgramStartAddress + 2)
			if tt.skip {
				want += 2
			}
			assert.Equal(t, want, vm.ProgramCounter())
		})
	}
}

func TestStepSkipInvalidKey(t *testing.T) {
	vm := newTestVM(t, 0xE0, 0x9E)
	vm.v[V0] = 0x10

	_, err := vm.Step()
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestStepJumps(t *testing.T) {
	vm := newTestVM(t, 0x13, 0x00)
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x300), vm.ProgramCounter())

	vm = newTestVM(t, 0xB3, 0x00)
	vm.v[V0] = 0x11
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x311), vm.ProgramCounter())
}

func TestStepCallReturn(t *testing.T) {
	// 200: CALL 206
	// 202: LD V1, 01
	// 204: JP 204
	// 206: LD V0, 07
	// 208: RET
	vm := newTestVM(t,
		0x22, 0x06,
		0x61, 0x01,
		0x12, 0x04,
		0x60, 0x07,
		0x00, 0xEE,
	)

	steps(t, vm, 1)
	assert.Equal(t, uint16(0x206), vm.ProgramCounter())
	assert.Equal(t, 1, vm.StackDepth())

	steps(t, vm, 2)
	assert.Equal(t, uint16(0x202), vm.ProgramCounter())
	assert.Equal(t, 0, vm.StackDepth())

	steps(t, vm, 1)
	assert.Equal(t, byte(7), vm.Register(V0))
	assert.Equal(t, byte(1), vm.Register(V1))
}

func TestStepStackOverflow(t *testing.T) {
	vm := newTestVM(t, 0x22, 0x00) // CALL 200
	steps(t, vm, StackSize)
	assert.Equal(t, StackSize, vm.StackDepth())

	_, err := vm.Step()
	assert.ErrorIs(t, err, ErrStackOverflow)
}

func TestStepStackUnderflow(t *testing.T) {
	vm := newTestVM(t, 0x00, 0xEE)
	_, err := vm.Step()
	assert.ErrorIs(t, err, ErrStackUnderflow)
}

func TestStepUnknownInstruction(t *testing.T) {
	vm := newTestVM(t, 0xFF, 0xFF)
	_, err := vm.Step()
	assert.ErrorIs(t, err, ErrUnknownInstruction)

	var insErr *InstructionError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, uint16(0xFFFF), insErr.Opcode)
}

func TestStepProgramRunaway(t *testing.T) {
	vm := newTestVM(t, 0x1F, 0xFF) // JP FFF
	steps(t, vm, 1)

	_, err := vm.Step()
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
}

func TestStepSys(t *testing.T) {
	vm := newTestVM(t, 0x01, 0x23)
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x202), vm.ProgramCounter())

	var called Addr
	vm, err := NewWithProgram([]byte{0x01, 0x23}, WithSysHandler(func(_ *VM, addr Addr) error {
		called = addr
		return nil
	}))
	require.NoError(t, err)
	steps(t, vm, 1)
	assert.Equal(t, Addr(0x123), called)
}

func TestStepRandom(t *testing.T) {
	vm, err := NewWithProgram([]byte{0xC0, 0xC0}, WithRandom(fixedSource(0b1000_0000)))
	require.NoError(t, err)
	steps(t, vm, 1)
	assert.Equal(t, byte(0b1000_0000), vm.Register(V0))
}

func TestStepDraw(t *testing.T) {
	// A200: LD I, 20A
	// D015: DRW V0, V1, 5
	// D015: DRW V0, V1, 5
	vm := newTestVM(t,
		0xA2, 0x0A,
		0xD0, 0x15,
		0xD0, 0x15,
		0x00, 0x00,
		0x00, 0x00,
		0xFF, 0x80, 0xFC, 0x80, 0x80,
	)
	vm.v[V0] = 0x0F

	steps(t, vm, 1)
	info, err := vm.Step()
	require.NoError(t, err)
	assert.NotZero(t, info&Redraw)
	assert.Equal(t, byte(0), vm.Register(CarryFlag))
	assert.Equal(t, On, vm.Display().Pixel(0x0F, 0))
	assert.Equal(t, On, vm.Display().Pixel(0x0F+5, 2))

	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.Register(CarryFlag))
	assert.Equal(t, Frame{}, vm.Display().Snapshot())
}

func TestStepDrawOutOfRange(t *testing.T) {
	vm := newTestVM(t, 0xD0, 0x15)
	vm.i = 0xFFE
	_, err := vm.Step()
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
}

func TestStepLoadKey(t *testing.T) {
	// F30A: LD V3, K
	// 6001: LD V0, 01
	vm := newTestVM(t, 0xF3, 0x0A, 0x60, 0x01)
	vm.SetKey(Key2, Pressed)

	info, err := vm.Step()
	require.NoError(t, err)
	assert.NotZero(t, info&Waiting)

	r, waiting := vm.Waiting()
	assert.True(t, waiting)
	assert.Equal(t, V3, r)

	// A key held since before the wait does not release it.
	for range 3 {
		info, err = vm.Step()
		require.NoError(t, err)
		assert.NotZero(t, info&Waiting)
		assert.Equal(t, uint16(0x202), vm.ProgramCounter())
		assert.Equal(t, byte(0), vm.Register(V0))
	}

	vm.SetKey(Key9, Pressed)
	info, err = vm.Step()
	require.NoError(t, err)
	assert.Zero(t, info&Waiting)
	assert.Equal(t, byte(9), vm.Register(V3))
	_, waiting = vm.Waiting()
	assert.False(t, waiting)
	assert.Equal(t, uint16(0x202), vm.ProgramCounter())

	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.Register(V0))
}

func TestTimers(t *testing.T) {
	// LD V0, 02; LD DT, V0; LD ST, V0; LD V1, DT
	vm := newTestVM(t, 0x60, 0x02, 0xF0, 0x15, 0xF0, 0x18, 0xF1, 0x07)
	steps(t, vm, 3)
	assert.Equal(t, uint8(2), vm.DelayTimer())
	assert.Equal(t, uint8(2), vm.SoundTimer())

	info := vm.TickTimers()
	assert.Equal(t, Delay|Sound, info)

	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.Register(V1))

	assert.Zero(t, vm.TickTimers())
	assert.Zero(t, vm.TickTimers())
	assert.Equal(t, uint8(0), vm.DelayTimer())
	assert.Equal(t, uint8(0), vm.SoundTimer())
}

func TestStepAddI(t *testing.T) {
	vm := newTestVM(t, 0xF0, 0x1E)
	vm.v[V0] = 0x01
	vm.v[VF] = 0x00
	vm.i = 0x0FFF
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x1000), vm.Index())
	assert.Equal(t, byte(0), vm.Register(CarryFlag))
}

func TestStepAddIOverflow(t *testing.T) {
	vm := newTestVM(t, 0xF0, 0x1E)
	vm.v[V0] = 0xFF
	vm.i = 0xFFF0

	_, err := vm.Step()
	var addrErr *AddressError
	require.ErrorAs(t, err, &addrErr)
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
	assert.Equal(t, uint32(0x100EF), addrErr.Addr)
	assert.Equal(t, uint16(0xFFF0), vm.Index())
}

func TestStepAddILoopNeverWraps(t *testing.T) {
	// loop: ADD I, V0; JP loop
	vm := newTestVM(t, 0xF0, 0x1E, 0x12, 0x00)
	vm.v[V0] = 0xFF
	vm.i = 0x0FFF

	var err error
	last := vm.Index()
	for range 1000 {
		if _, err = vm.Step(); err != nil {
			break
		}
		require.GreaterOrEqual(t, vm.Index(), last, "I went backwards")
		last = vm.Index()
	}
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
	assert.Greater(t, vm.Index(), uint16(0xFF00))
}

func TestStepArithmeticIntoFlagRegister(t *testing.T) {
	// LD VF, 10; LD VE, 01; ADD VF, VE
	vm := newTestVM(t, 0x6F, 0x10, 0x6E, 0x01, 0x8F, 0xE4)
	steps(t, vm, 3)
	assert.Equal(t, byte(0x11), vm.Register(VF))
	assert.Equal(t, byte(0x01), vm.Register(VE))
}

func TestStepLoadSprite(t *testing.T) {
	vm := newTestVM(t, 0xF0, 0x29)
	vm.v[V0] = 0xF
	steps(t, vm, 1)
	assert.Equal(t, uint16(FontStartAddress+0xF*FontSpriteRows), vm.Index())

	sprite, err := vm.Memory().ReadSlice(Addr(vm.Index()), FontSpriteRows)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x80, 0xF0, 0x80, 0x80}, sprite)
}

func TestStepBinaryCodedDecimal(t *testing.T) {
	tests := []struct {
		value byte
		want  []byte
	}{
		{123, []byte{1, 2, 3}},
		{0, []byte{0, 0, 0}},
		{7, []byte{0, 0, 7}},
		{90, []byte{0, 9, 0}},
		{156, []byte{1, 5, 6}},
		{255, []byte{2, 5, 5}},
	}
	for _, tt := range tests {
		vm := newTestVM(t, 0xF0, 0x33)
		vm.v[V0] = tt.value
		vm.i = 0x300
		steps(t, vm, 1)

		got, err := vm.Memory().ReadSlice(0x300, 3)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "value %d", tt.value)
	}

	vm := newTestVM(t, 0xF0, 0x33)
	vm.i = 0xFFE
	_, err := vm.Step()
	assert.ErrorIs(t, err, ErrAddressOutOfRange)
}

func TestStepRegisterBlocks(t *testing.T) {
	// LD [I], V2; LD V2, [I]
	vm := newTestVM(t, 0xF2, 0x55, 0xF2, 0x65)
	vm.v[V0], vm.v[V1], vm.v[V2], vm.v[V3] = 0xAA, 0xBB, 0xCC, 0xDD
	vm.i = 0x300

	steps(t, vm, 1)
	got, err := vm.Memory().ReadSlice(0x300, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0x00}, got)
	assert.Equal(t, uint16(0x303), vm.Index())

	require.NoError(t, vm.Memory().Load(0x303, []byte{1, 2, 3}))
	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.Register(V0))
	assert.Equal(t, byte(2), vm.Register(V1))
	assert.Equal(t, byte(3), vm.Register(V2))
	assert.Equal(t, byte(0xDD), vm.Register(V3))
	assert.Equal(t, uint16(0x306), vm.Index())
}

func TestPeek(t *testing.T) {
	vm := newTestVM(t, 0x60, 0x05)
	ins, err := vm.Peek()
	require.NoError(t, err)
	assert.Equal(t, LoadOperand{X: V0, Byte: 0x05}, ins)
	assert.Equal(t, uint16(ProgramStartAddress), vm.ProgramCounter())
}

func TestReset(t *testing.T) {
	vm := newTestVM(t, 0x60, 0x05, 0xF3, 0x0A)
	steps(t, vm, 2)
	vm.SetKey(Key1, Pressed)

	vm.Reset()
	assert.Equal(t, uint16(ProgramStartAddress), vm.ProgramCounter())
	assert.Equal(t, byte(0), vm.Register(V0))
	assert.Equal(t, byte(0), vm.Memory().Read(ProgramStartAddress))
	assert.False(t, vm.Keypad().IsPressed(Key1))
	_, waiting := vm.Waiting()
	assert.False(t, waiting)
	assert.Equal(t, fontSet[0], vm.Memory().Read(FontStartAddress))
}
