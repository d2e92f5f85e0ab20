package cpu

import (
	"math/bits"
	"strings"

	"github.com/ezrec/mr2a/alu"
)

// Signal is one control store word: the set of control lines asserted for a
// single micro-cycle.
type Signal uint32

// Control lines, by bit position in the control store word.
const (
	MAC0   = Signal(1 << 0)  // Address control / condition select, bit 0
	MAC1   = Signal(1 << 1)  // Address control / condition select, bit 1
	MAC2   = Signal(1 << 2)  // Address control / condition select, bit 2
	MAC3   = Signal(1 << 3)  // Address control / condition select, bit 3
	NA0    = Signal(1 << 4)  // Next address, bit 0
	NA1    = Signal(1 << 5)  // Next address, bit 1
	NA2    = Signal(1 << 6)  // Next address, bit 2
	NA3    = Signal(1 << 7)  // Next address, bit 3
	NA4    = Signal(1 << 8)  // Next address, bit 4
	MDEC   = Signal(1 << 9)  // Next address block from the instruction register
	MIRLD  = Signal(1 << 10) // Load instruction register from the bus
	BUSEN  = Signal(1 << 11) // Bus cycle enable
	BUSWR  = Signal(1 << 12) // Bus write (with BUSEN)
	MRGAA0 = Signal(1 << 13) // Port A register select, bit 0
	MRGAA1 = Signal(1 << 14) // Port A register select, bit 1
	MRGAA2 = Signal(1 << 15) // Port A register select, bit 2
	MRGAA3 = Signal(1 << 16) // Port A low bits from MRGAA1..0, not OP11..OP10
	MRGAB0 = Signal(1 << 17) // Port B register select, bit 0
	MRGAB1 = Signal(1 << 18) // Port B register select, bit 1
	MRGAB2 = Signal(1 << 19) // Port B register select, bit 2
	MRGAB3 = Signal(1 << 20) // Port B low bits from MRGAB1..0, not OP01..OP00
	MRGWE  = Signal(1 << 21) // Register file write enable
	MRGWS  = Signal(1 << 22) // Write to the port B address, not port A
	MALUIA = Signal(1 << 23) // ALU operand A from the bus
	MALUIB = Signal(1 << 24) // ALU operand B is zero
	MALUS0 = Signal(1 << 25) // ALU function, bit 0
	MALUS1 = Signal(1 << 26) // ALU function, bit 1
	MALUS2 = Signal(1 << 27) // ALU function, bit 2
	MALUS3 = Signal(1 << 28) // ALU function, bit 3
	MCHFLG = Signal(1 << 29) // Update carry, zero and negative flags

	SIGNAL_MASK = Signal(1<<30) - 1 // All defined control lines.
)

// Field positions inside the control store word.
const (
	macShift   = 0
	naShift    = 4
	mrgaaShift = 13
	mrgabShift = 17
	malusShift = 25
)

var signalNames = [...]string{
	"MAC0", "MAC1", "MAC2", "MAC3",
	"NA0", "NA1", "NA2", "NA3", "NA4",
	"MDEC", "MIRLD", "BUSEN", "BUSWR",
	"MRGAA0", "MRGAA1", "MRGAA2", "MRGAA3",
	"MRGAB0", "MRGAB1", "MRGAB2", "MRGAB3",
	"MRGWE", "MRGWS", "MALUIA", "MALUIB",
	"MALUS0", "MALUS1", "MALUS2", "MALUS3",
	"MCHFLG",
}

// Has returns true if all of the lines in flags are asserted.
func (s Signal) Has(flags Signal) bool {
	return (s & flags) == flags
}

// Empty is the all-lines-off encoding of an undefined control store row.
func (s Signal) Empty() bool {
	return s == 0
}

// Cond returns the condition select field.
func (s Signal) Cond() CodeCond {
	return CodeCond((s >> macShift) & 0xf)
}

// NextAddress returns the NA4..NA0 field.
func (s Signal) NextAddress() uint16 {
	return uint16((s >> naShift) & 0x1f)
}

// RegA returns the MRGAA2..MRGAA0 field.
func (s Signal) RegA() uint8 {
	return uint8((s >> mrgaaShift) & 0x7)
}

// RegB returns the MRGAB2..MRGAB0 field.
func (s Signal) RegB() uint8 {
	return uint8((s >> mrgabShift) & 0x7)
}

// Function returns the ALU function select field.
func (s Signal) Function() alu.Function {
	return alu.Function((s >> malusShift) & 0xf)
}

// Idle returns true if the word drives nothing but the next address.
func (s Signal) Idle() bool {
	effects := BUSEN | BUSWR | MIRLD | MRGWE | MCHFLG | MAC0 | MAC1 | MAC2 | MAC3
	return (s & effects) == 0
}

// String lists the asserted control lines.
func (s Signal) String() string {
	if s.Empty() {
		return "-"
	}

	names := make([]string, 0, bits.OnesCount32(uint32(s)))
	for n, name := range signalNames {
		if (s & (1 << n)) != 0 {
			names = append(names, name)
		}
	}
	if (s &^ SIGNAL_MASK) != 0 {
		names = append(names, "?")
	}

	return strings.Join(names, "|")
}

// Constructors for the multi-bit fields, used to spell out the microprogram.

// na sets the next address field.
func na(addr int) Signal {
	return Signal(addr&0x1f) << naShift
}

// mac sets the condition select field.
func mac(cond CodeCond) Signal {
	return Signal(cond&0xf) << macShift
}

// rga selects register reg on port A directly.
func rga(reg int) Signal {
	return (Signal(reg&0x7) << mrgaaShift) | MRGAA3
}

// rgb selects register reg on port B directly.
func rgb(reg int) Signal {
	return (Signal(reg&0x7) << mrgabShift) | MRGAB3
}

// fn selects the ALU function.
func fn(function alu.Function) Signal {
	return Signal(function&0xf) << malusShift
}
