package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mr2a/alu"
)

// memory is a flat 256 byte bus.
type memory [256]uint8

func (mem *memory) Read(addr uint8) uint8 {
	return mem[addr]
}

func (mem *memory) Write(addr uint8, value uint8) {
	mem[addr] = value
}

// step ticks until an instruction has retired.
func step(cpu *Cpu, bus Bus) (err error) {
	for {
		err = cpu.Tick(bus, false)
		if err != nil || cpu.Store.Address() == ADDR_FETCH {
			return
		}
	}
}

// runToHalt ticks until the program halts, or the budget runs out.
func runToHalt(cpu *Cpu, bus Bus, budget int) (err error) {
	for range budget {
		err = cpu.Tick(bus, false)
		if err != nil {
			return
		}
	}

	return nil
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	mem := &memory{}
	cpu := NewCpu(nil)
	for n := range cpu.Registers.Register {
		cpu.Registers.Register[n] = 0xaa
	}

	err := step(cpu, mem)
	assert.NoError(err)
	assert.Equal(8, cpu.Ticks)
	assert.Equal(uint16(ADDR_FETCH), cpu.Store.Address())
	assert.Equal(uint8(0), cpu.Registers.Read(REG_PC))
	assert.Equal(uint8(0), cpu.Registers.Flags())
	assert.Equal(uint8(STACK_TOP), cpu.Registers.Read(REG_SP))
	assert.Equal(uint8(0xaa), cpu.Registers.Read(REG_R0))

	cpu.Reset()
	assert.Equal(0, cpu.Ticks)
	assert.Equal(uint16(ADDR_RESET), cpu.Store.Address())
	assert.Equal(INSTRUCTION_RESET, cpu.Ir.Get())
}

func TestCpu_Program(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []uint8
		reg     map[int]uint8
		ram     map[uint8]uint8
	}){
		{"halt", []uint8{0xfd}, map[int]uint8{REG_PC: 1, REG_SP: STACK_TOP}, nil},
		{"ldi", []uint8{0x11, 0x05, 0xfd}, map[int]uint8{REG_R1: 5, REG_PC: 3}, nil},
		{"mov", []uint8{0x11, 0x05, 0x06, 0xfd}, map[int]uint8{REG_R1: 5, REG_R2: 5}, nil},
		{"add", []uint8{0x10, 0x80, 0x11, 0x80, 0x64, 0xfd},
			map[int]uint8{REG_R0: 0, REG_FR: FLAG_CARRY | FLAG_ZERO}, nil},
		{"adc", []uint8{0xfe, 0x10, 0x01, 0x11, 0x02, 0x74, 0xfd},
			map[int]uint8{REG_R0: 4, REG_FR: 0}, nil},
		{"sub", []uint8{0x11, 0x05, 0x12, 0x03, 0x89, 0xfd},
			map[int]uint8{REG_R1: 2, REG_FR: FLAG_CARRY}, nil},
		{"sub_borrow", []uint8{0x11, 0x03, 0x12, 0x05, 0x89, 0xfd},
			map[int]uint8{REG_R1: 0xfe, REG_FR: FLAG_NEGATIVE}, nil},
		{"and", []uint8{0x10, 0x3c, 0x11, 0x0f, 0x94, 0xfd},
			map[int]uint8{REG_R0: 0x0c, REG_FR: 0}, nil},
		{"or", []uint8{0x10, 0x0f, 0x11, 0xf0, 0xa4, 0xfd},
			map[int]uint8{REG_R0: 0xff, REG_R1: 0xf0, REG_FR: FLAG_NEGATIVE}, nil},
		{"xor", []uint8{0x10, 0x3c, 0x11, 0x0f, 0xb4, 0xfd},
			map[int]uint8{REG_R0: 0x33, REG_R1: 0x0f, REG_FR: 0}, nil},
		{"xor_self", []uint8{0x10, 0x3c, 0xb0, 0xfd},
			map[int]uint8{REG_R0: 0, REG_FR: FLAG_ZERO}, nil},
		{"inc", []uint8{0x10, 0x85, 0xfe, 0xc0, 0xfd},
			map[int]uint8{REG_R0: 0x86, REG_FR: FLAG_NEGATIVE}, nil},
		{"dec", []uint8{0x10, 0x85, 0xfe, 0xc4, 0xfd},
			map[int]uint8{REG_R0: 0x84, REG_FR: FLAG_CARRY | FLAG_NEGATIVE}, nil},
		{"not", []uint8{0x10, 0x85, 0xfe, 0xc8, 0xfd},
			map[int]uint8{REG_R0: 0x7a, REG_FR: 0}, nil},
		{"neg", []uint8{0x10, 0x85, 0xfe, 0xcc, 0xfd},
			map[int]uint8{REG_R0: 0x7b, REG_FR: 0}, nil},
		{"lsr", []uint8{0x10, 0x85, 0xfe, 0xd0, 0xfd},
			map[int]uint8{REG_R0: 0x42, REG_FR: FLAG_CARRY}, nil},
		{"ror", []uint8{0x10, 0x85, 0xfe, 0xd4, 0xfd},
			map[int]uint8{REG_R0: 0xc2, REG_FR: FLAG_CARRY | FLAG_NEGATIVE}, nil},
		{"rrc", []uint8{0x10, 0x85, 0xfe, 0xd8, 0xfd},
			map[int]uint8{REG_R0: 0xc2, REG_FR: FLAG_CARRY | FLAG_NEGATIVE}, nil},
		{"asr", []uint8{0x10, 0x85, 0xfe, 0xdc, 0xfd},
			map[int]uint8{REG_R0: 0xc2, REG_FR: FLAG_CARRY | FLAG_NEGATIVE}, nil},
		{"memory", []uint8{0x10, 0x5a, 0x50, 0x80, 0x41, 0x80, 0x12, 0x81, 0x38, 0xfd},
			map[int]uint8{REG_R0: 0x5a, REG_R1: 0x5a, REG_R2: 0x81},
			map[uint8]uint8{0x80: 0x5a, 0x81: 0x5a}},
		{"ld_indirect", []uint8{0x11, 0x06, 0x24, 0xfd, 0x00, 0x00, 0x77},
			map[int]uint8{REG_R0: 0x77}, nil},
		{"jc", []uint8{0xfe, 0xe4, 0x05, 0x11, 0x01, 0x12, 0x02, 0xfd},
			map[int]uint8{REG_R1: 0, REG_R2: 2}, nil},
		{"jnc", []uint8{0xfe, 0xe5, 0x05, 0x11, 0x01, 0x12, 0x02, 0xfd},
			map[int]uint8{REG_R1: 1, REG_R2: 2}, nil},
		{"jz", []uint8{0x10, 0x00, 0x60, 0xe8, 0x07, 0x11, 0x01, 0x12, 0x02, 0xfd},
			map[int]uint8{REG_R1: 0, REG_R2: 2}, nil},
		{"jz_clear", []uint8{0x10, 0x01, 0x60, 0xe8, 0x07, 0x11, 0x01, 0x12, 0x02, 0xfd},
			map[int]uint8{REG_R1: 1, REG_R2: 2}, nil},
		{"jnz", []uint8{0x10, 0x01, 0x60, 0xe9, 0x07, 0x11, 0x01, 0x12, 0x02, 0xfd},
			map[int]uint8{REG_R1: 0, REG_R2: 2}, nil},
		{"jn_clear", []uint8{0x10, 0x80, 0x60, 0xec, 0x07, 0x11, 0x01, 0x12, 0x02, 0xfd},
			map[int]uint8{REG_R1: 1, REG_R2: 2}, nil},
		{"jnn_clear", []uint8{0x10, 0x80, 0x60, 0xed, 0x07, 0x11, 0x01, 0x12, 0x02, 0xfd},
			map[int]uint8{REG_R1: 0, REG_R2: 2}, nil},
		{"call", append([]uint8{0xe1, 0x10, 0xfd, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0x10, 0x07, 0xf8),
			map[int]uint8{REG_R0: 7, REG_PC: 3, REG_SP: STACK_TOP},
			map[uint8]uint8{STACK_TOP - 1: 0x02}},
		{"push_pop", []uint8{0x10, 0x09, 0xf0, 0xf5, 0xfd},
			map[int]uint8{REG_R1: 9, REG_SP: STACK_TOP},
			map[uint8]uint8{STACK_TOP - 1: 0x09}},
		{"ei", []uint8{0xfa, 0xfd}, map[int]uint8{REG_FR: FLAG_IE}, nil},
		{"di", []uint8{0xfa, 0xfb, 0xfd}, map[int]uint8{REG_FR: 0}, nil},
		{"sec", []uint8{0xfe, 0xfd}, map[int]uint8{REG_FR: FLAG_CARRY | FLAG_ZERO}, nil},
		{"clc", []uint8{0xfe, 0xff, 0xfd}, map[int]uint8{REG_FR: FLAG_ZERO}, nil},
	}

	for _, entry := range table {
		mem := &memory{}
		copy(mem[:], entry.program)

		cpu := NewCpu(nil)
		err := runToHalt(cpu, mem, 1000)
		assert.ErrorIs(err, ErrHalted, entry.name)

		for reg, value := range entry.reg {
			assert.Equal(value, cpu.Registers.Read(uint8(reg)), "%v: r%d", entry.name, reg)
		}
		for addr, value := range entry.ram {
			assert.Equal(value, mem[addr], "%v: (%02x)", entry.name, addr)
		}
	}
}

func TestCpu_InstructionHold(t *testing.T) {
	assert := assert.New(t)

	mem := &memory{}
	for n := range mem {
		mem[n] = uint8(n)
	}

	table := Microcode()
	for addr, word := range table {
		if word.Empty() || word.Has(MIRLD) {
			continue
		}

		for _, ins := range []Instruction{0x00, 0x5a, 0xa5, 0xff} {
			cpu := NewCpu(nil)
			cpu.Store.SetAddress(uint16(addr))
			cpu.Ir.Set(ins)

			err := cpu.Tick(mem, true)
			assert.False(errors.Is(err, ErrSignalEmpty))
			assert.Equal(ins, cpu.Ir.Get(), "%03x", addr)
		}
	}
}

func TestCpu_Fetch(t *testing.T) {
	assert := assert.New(t)

	mem := &memory{0xc3}
	cpu := NewCpu(nil)
	cpu.Store.SetAddress(uint16(at(0x0, 10)))

	err := cpu.Tick(mem, false)
	assert.NoError(err)
	assert.Equal(Instruction(0xc3), cpu.Ir.Get())
	assert.Equal(uint8(1), cpu.Registers.Read(REG_PC))
	assert.Equal(uint16(at(0xc, ADDR_ENTRY)), cpu.Store.Address())
}

func TestCpu_Fault(t *testing.T) {
	assert := assert.New(t)

	table := &Table{}
	table[0] = rga(REG_R0) | MALUIB | fn(alu.ADD1) | MRGWE | na(1)

	mem := &memory{}
	cpu := NewCpu(table)

	err := cpu.Tick(mem, false)
	assert.NoError(err)
	assert.Equal(uint8(1), cpu.Registers.Read(REG_R0))

	before := cpu.Registers
	for range 3 {
		err = cpu.Tick(mem, false)
		assert.ErrorIs(err, ErrSignalEmpty)

		var ec *ErrControl
		assert.ErrorAs(err, &ec)
		assert.Equal(uint16(1), ec.Address)

		assert.Equal(uint16(1), cpu.Store.Address())
		assert.Equal(before, cpu.Registers)
		assert.Equal(1, cpu.Ticks)
	}
}

func TestCpu_Interrupt(t *testing.T) {
	assert := assert.New(t)

	// 00: JMP 10
	// 02: LDI R1,1 ; LDI R0,1 ; ST (F9),R0 ; RETI
	// 10: EI ; INC R2 ; JMP 11
	mem := &memory{
		0xe0, 0x10,
		0x11, 0x01, 0x10, 0x01, 0x50, 0xf9, 0xf9,
	}
	copy(mem[0x10:], []uint8{0xfa, 0xc2, 0xe0, 0x11})

	cpu := NewCpu(nil)
	for range 6 {
		assert.NoError(step(cpu, mem))
	}
	assert.Equal(FLAG_IE, cpu.Registers.Flags()&FLAG_IE)
	pc := cpu.Registers.Read(REG_PC)

	// The condition mux sees the line on the very next cycle.
	assert.NoError(cpu.Tick(mem, true))
	assert.Equal(uint16(11), cpu.Store.Address())

	assert.NoError(step(cpu, mem))
	assert.Equal(uint8(INTERRUPT_VECTOR), cpu.Registers.Read(REG_PC))
	assert.Equal(uint8(0), cpu.Registers.Flags())
	assert.Equal(uint8(STACK_TOP-2), cpu.Registers.Read(REG_SP))
	assert.Equal(pc, mem[STACK_TOP-1])
	assert.Equal(FLAG_IE, mem[STACK_TOP-2])

	// Handler runs with interrupts disabled, then returns.
	for range 4 {
		assert.NoError(cpu.Tick(mem, true))
		assert.NoError(step(cpu, mem))
	}
	assert.Equal(uint8(1), cpu.Registers.Read(REG_R1))
	assert.Equal(uint8(1), mem[0xf9])
	assert.Equal(pc, cpu.Registers.Read(REG_PC))
	assert.Equal(FLAG_IE, cpu.Registers.Flags())
	assert.Equal(uint8(STACK_TOP), cpu.Registers.Read(REG_SP))
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	mem := &memory{0xfd}
	cpu := NewCpu(nil)
	assert.NoError(step(cpu, mem))

	text := cpu.String()
	assert.Contains(text, " addr: 0_08 MAC2|NA1|NA3\n")
	assert.Contains(text, "   ir: 02 MOV R2,R0\n")
	assert.Contains(text, "   pc: 00\n")
	assert.Contains(text, "   fr: 00 ----\n")
	assert.Contains(text, "   sp: F0\n")
}
