package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mr2a/alu"
	"github.com/ezrec/mr2a/translate"
)

// Bus is the memory and I/O bus, as seen from the data path.
type Bus interface {
	Read(addr uint8) (value uint8)
	Write(addr uint8, value uint8)
}

var _cpu_defines = map[string]string{
	"INTERRUPT_VECTOR": fmt.Sprintf("0x%02x", INTERRUPT_VECTOR),
	"STACK_TOP":        fmt.Sprintf("0x%02x", STACK_TOP),
	"FLAG_CARRY":       fmt.Sprintf("0x%02x", FLAG_CARRY),
	"FLAG_ZERO":        fmt.Sprintf("0x%02x", FLAG_ZERO),
	"FLAG_NEGATIVE":    fmt.Sprintf("0x%02x", FLAG_NEGATIVE),
	"FLAG_IE":          fmt.Sprintf("0x%02x", FLAG_IE),
}

// Cpu is the simulation context of the microprogrammed control unit and
// its data path.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Store     *Store              // Microprogram store.
	Ir        InstructionRegister // Instruction register.
	Registers RegisterFile        // Register file.
	Alu       alu.Alu             // Arithmetic-logic unit.

	Ticks int // Micro-cycles since the last reset.
}

// NewCpu creates a control unit running a control store table.
// A nil table selects the fixed microprogram.
func NewCpu(table *Table) (cpu *Cpu) {
	cpu = &Cpu{
		Store: NewStore(table),
		Ir:    NewInstructionRegister(),
	}

	return
}

// Defines for the cpu.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the control address and the instruction register.
// The register file is left alone; the reset microcode initializes it.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Store.Reset()
	cpu.Ir.Reset()
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"addr", "ir",
		"r0", "r1", "r2", "pc", "fr", "sp", "r6", "r7",
	}
	for n, reg := range regs {
		var strval string
		switch reg {
		case "addr":
			addr := cpu.Store.Address()
			strval = fmt.Sprintf("%X_%02X %v", addr/BLOCK_SIZE, addr%BLOCK_SIZE, cpu.Store.Word())
		case "ir":
			ins := cpu.Ir.Get()
			strval = fmt.Sprintf("%v %v", translate.Hex(uint8(ins)), ins)
		case "fr":
			val := cpu.Registers.Flags()
			flags := []byte("----")
			for bit, name := range "CZNI" {
				if (val & (1 << bit)) != 0 {
					flags[3-bit] = byte(name)
				}
			}
			strval = fmt.Sprintf("%v %s", translate.Hex(val), flags)
		default:
			strval = translate.Hex(cpu.Registers.Read(uint8(n - 2)))
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Tick executes a single micro-cycle against the bus, with irq as the
// level of the interrupt request line.
//
// Returns an *ErrControl wrapping ErrSignalEmpty, without changing any
// state, when the current control word is undefined.
// Returns ErrHalted after a cycle whose word is an idle loop onto itself.
func (cpu *Cpu) Tick(bus Bus, irq bool) (err error) {
	addr := cpu.Store.Address()
	word := cpu.Store.Word()
	ins := cpu.Ir.Get()

	if word.Empty() {
		err = &ErrControl{Address: addr, Instruction: ins, Err: ErrSignalEmpty}
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %X_%02X %v %v: %v", addr/BLOCK_SIZE, addr%BLOCK_SIZE, translate.Hex(uint8(ins)), ins, word)
	}

	rf := &cpu.Registers
	flags := rf.Flags()

	port_a := rf.ReadPortA(ins, word)
	port_b := rf.ReadPortB(ins, word)

	var data uint8
	if word.Has(BUSEN) && !word.Has(BUSWR) {
		data = bus.Read(port_a)
	}

	a := port_a
	if word.Has(MALUIA) {
		a = data
	}

	b := port_b
	if word.Has(MALUIB) {
		b = 0
	}

	result, carry, zero, negative := cpu.Alu.Evaluate((flags&FLAG_CARRY) != 0, a, b, word.Function())

	if word.Has(BUSEN | BUSWR) {
		bus.Write(port_a, result)
	}

	if word.Has(MRGWE) {
		dest := rf.AddressA(ins, word)
		if word.Has(MRGWS) {
			dest = rf.AddressB(ins, word)
		}
		rf.Write(dest, result)
	}

	if word.Has(MCHFLG) {
		rf.SetFlags(carry, zero, negative)
	}

	if word.Has(MIRLD) {
		cpu.Ir.SetRaw(data)
	}

	// Conditions see the flags from before this cycle and the instruction
	// after any fetch.
	lines := Lines{
		Flags:       flags,
		Interrupt:   irq,
		Instruction: cpu.Ir.Get(),
	}
	next := NextAddress(word, lines)
	cpu.Store.SetAddress(next)
	cpu.Ticks++

	if next == addr && word.Idle() {
		err = ErrHalted
	}

	return
}
