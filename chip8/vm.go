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
	"math/rand/v2"
	"time"

	"chip8vm/byteconv"

	"github.com/retroenv/retrogolib/log"
)

const (
	RegisterCount = 16
	StackSize     = 16

	TimerRate time.Duration = time.Second / 60  // 60hz
	ClockRate time.Duration = time.Second / 700 // 700hz
)

// Info reports what a Step or TickTimers call changed, so a host only
// redraws or beeps when it has to.
type Info uint8

const (
	Delay Info = 1 << iota
	Sound
	Redraw
	Waiting
)

// SysHandler runs a 0nnn machine routine call. The default does nothing.
type SysHandler func(vm *VM, addr Addr) error

// Option configures a VM at construction.
type Option func(*VM)

// WithRandom sets the source the RND instruction draws from.
func WithRandom(src rand.Source) Option {
	return func(vm *VM) {
		vm.rng = src
	}
}

// WithSysHandler installs a handler for SYS instructions.
func WithSysHandler(h SysHandler) Option {
	return func(vm *VM) {
		vm.sys = h
	}
}

// WithLogger makes the VM log faults at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(vm *VM) {
		vm.logger = logger
	}
}

// VM is a CHIP-8 interpreter. It is driven entirely by its caller: Step
// runs one instruction and TickTimers advances the 60hz timers. It has no
// internal locking, so a host that calls it from several goroutines must
// serialize the calls.
type VM struct {
	memory  Memory
	display Display
	keypad  Keypad

	v     [RegisterCount]byte
	i     uint16
	pc    uint16
	stack [StackSize]uint16
	sp    uint8
	delay uint8
	sound uint8

	// waiting is set by LD Vx, K until a key goes down; the key is then
	// stored in waitRegister.
	waiting      bool
	waitRegister VRegister

	rng    rand.Source
	sys    SysHandler
	logger *log.Logger
}

// New returns a VM in its power-on state with no program loaded.
func New(opts ...Option) *VM {
	vm := &VM{}
	for _, opt := range opts {
		opt(vm)
	}
	if vm.rng == nil {
		seed := uint64(time.Now().UnixNano())
		vm.rng = rand.NewPCG(seed, seed>>32)
	}
	vm.Reset()
	return vm
}

// NewWithProgram returns a VM with program loaded at ProgramStartAddress.
func NewWithProgram(program []byte, opts ...Option) (*VM, error) {
	vm := New(opts...)
	if err := vm.LoadProgram(program); err != nil {
		return nil, err
	}
	return vm, nil
}

// Reset restores the power-on state. Memory is wiped apart from the font,
// so the program has to be loaded again.
func (vm *VM) Reset() {
	vm.memory.Clear()
	vm.display.Clear()
	vm.keypad.Reset()

	clear(vm.v[:])
	clear(vm.stack[:])
	vm.sp = 0
	vm.pc = ProgramStartAddress
	vm.i = 0
	vm.delay = 0
	vm.sound = 0
	vm.waiting = false
	vm.waitRegister = V0

	if err := vm.memory.Load(FontStartAddress, fontSet[:]); err != nil {
		panic("insufficient memory to write font set")
	}
}

// LoadProgram copies a raw program image to ProgramStartAddress.
func (vm *VM) LoadProgram(program []byte) error {
	return vm.memory.LoadProgram(program)
}

// Step executes one instruction. While an LD Vx, K is pending it returns
// Waiting without side effects until a key has gone down since the wait
// began; that call stores the key and completes the instruction.
//
// Errors are fatal for the guest program: unknown opcodes, stack overflow
// or underflow, and memory accesses past the last address.
func (vm *VM) Step() (Info, error) {
	var info Info

	if vm.waiting {
		key, ok := vm.keypad.PressedSinceMark()
		if !ok {
			return info | Waiting, nil
		}
		vm.v[vm.waitRegister] = byte(key)
		vm.waiting = false
		return info, nil
	}

	opcode, err := vm.OpcodeAt(vm.pc)
	if err != nil {
		vm.fault(err, 0)
		return info, err
	}

	vm.pc += 2

	ins, err := Decode(opcode)
	if err != nil {
		vm.fault(err, opcode)
		return info, err
	}

	if err := vm.execute(ins, &info); err != nil {
		vm.fault(err, opcode)
		return info, err
	}
	return info, nil
}

// TickTimers decrements the delay and sound timers if they are running and
// reports which are still non-zero.
func (vm *VM) TickTimers() Info {
	var info Info

	if vm.sound > 0 {
		vm.sound--
	}
	if vm.delay > 0 {
		vm.delay--
	}

	if vm.sound > 0 {
		info |= Sound
	}
	if vm.delay > 0 {
		info |= Delay
	}
	return info
}

// OpcodeAt reads the big-endian instruction word at offset.
func (vm *VM) OpcodeAt(offset uint16) (uint16, error) {
	if uint32(offset)+2 > MemorySize {
		return 0, &AddressError{Addr: uint32(offset), Len: 2}
	}
	a := Addr(offset)
	high := uint16(vm.memory.Read(a))
	low := uint16(vm.memory.Read(a + 1))
	return (high << 8) | low, nil
}

// Peek decodes the instruction at PC without executing it.
func (vm *VM) Peek() (Instruction, error) {
	opcode, err := vm.OpcodeAt(vm.pc)
	if err != nil {
		return nil, err
	}
	return Decode(opcode)
}

// SetKey updates the keypad.
func (vm *VM) SetKey(key Key, s KeyState) {
	vm.keypad.Set(key, s)
}

func (vm *VM) Register(r VRegister) byte {
	return vm.v[r&0xF]
}

func (vm *VM) Index() uint16 {
	return vm.i
}

func (vm *VM) ProgramCounter() uint16 {
	return vm.pc
}

func (vm *VM) StackDepth() int {
	return int(vm.sp)
}

func (vm *VM) DelayTimer() uint8 {
	return vm.delay
}

func (vm *VM) SoundTimer() uint8 {
	return vm.sound
}

// Waiting reports whether an LD Vx, K is pending and for which register.
func (vm *VM) Waiting() (VRegister, bool) {
	return vm.waitRegister, vm.waiting
}

func (vm *VM) Display() *Display {
	return &vm.display
}

func (vm *VM) Keypad() *Keypad {
	return &vm.keypad
}

func (vm *VM) Memory() *Memory {
	return &vm.memory
}

// indexAddr returns I+offset, failing if the n bytes from there leave
// memory.
func (vm *VM) indexAddr(offset uint16, n int) (Addr, error) {
	start := uint32(vm.i) + uint32(offset)
	if start+uint32(n) > MemorySize {
		return 0, &AddressError{Addr: start, Len: n}
	}
	return Addr(start), nil
}

func (vm *VM) fault(err error, opcode uint16) {
	if vm.logger == nil {
		return
	}
	vm.logger.Debug("Program fault",
		log.String("pc", byteconv.U16toh(vm.pc, 3)),
		log.String("opcode", byteconv.U16toh(opcode, 4)),
		log.Err(err))
}
