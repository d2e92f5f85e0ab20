package io

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mr2a/translate"
)

// Bus address map.
const (
	RAM_SIZE = 0xf0 // RAM occupies 0x00..0xef.

	ADDR_BOARD     = BOARD_UIO // First board port.
	ADDR_RESERVED  = 0xf8      // Reserved.
	ADDR_INTERRUPT = 0xf9      // Interrupt status (read), control (write).
	ADDR_UART_DATA = 0xfa      // UART data.
	ADDR_UART_CTRL = 0xfb      // UART control.
	ADDR_INPUT     = 0xfc      // Input registers 0..3, 0xfc..0xff.
	ADDR_OUTPUT    = 0xfe      // Output registers 0..1, 0xfe..0xff.

	INPUT_COUNT  = 4 // Input registers.
	OUTPUT_COUNT = 2 // Output registers.
)

var _bus_defines = map[string]string{
	"RAM_SIZE":    fmt.Sprintf("0x%02x", RAM_SIZE),
	"UIO":         fmt.Sprintf("0x%02x", BOARD_UIO),
	"AIN1":        fmt.Sprintf("0x%02x", BOARD_AIN1),
	"AIN2":        fmt.Sprintf("0x%02x", BOARD_AIN2),
	"JUMPERS":     fmt.Sprintf("0x%02x", BOARD_JUMPERS),
	"AOUT":        fmt.Sprintf("0x%02x", BOARD_AOUT),
	"INT":         fmt.Sprintf("0x%02x", ADDR_INTERRUPT),
	"UART_DATA":   fmt.Sprintf("0x%02x", ADDR_UART_DATA),
	"UART_CTRL":   fmt.Sprintf("0x%02x", ADDR_UART_CTRL),
	"IN0":         fmt.Sprintf("0x%02x", ADDR_INPUT+0),
	"IN1":         fmt.Sprintf("0x%02x", ADDR_INPUT+1),
	"IN2":         fmt.Sprintf("0x%02x", ADDR_INPUT+2),
	"IN3":         fmt.Sprintf("0x%02x", ADDR_INPUT+3),
	"OUT0":        fmt.Sprintf("0x%02x", ADDR_OUTPUT+0),
	"OUT1":        fmt.Sprintf("0x%02x", ADDR_OUTPUT+1),
	"STATUS_INT":  fmt.Sprintf("0x%02x", STATUS_INT),
	"STATUS_J1":   fmt.Sprintf("0x%02x", STATUS_J1),
	"STATUS_J2":   fmt.Sprintf("0x%02x", STATUS_J2),
	"CONTROL_ACK": fmt.Sprintf("0x%02x", CONTROL_ACK),
}

// Bus maps the 8-bit address space onto RAM, the input and output
// registers and the board.
type Bus struct {
	Verbose bool // If set, enables verbose logging.

	Ram    [RAM_SIZE]uint8     // RAM contents.
	Input  [INPUT_COUNT]uint8  // Input registers, driven from outside.
	Output [OUTPUT_COUNT]uint8 // Output registers.

	Board Board // Auxiliary board.
}

// NewBus creates a bus with cleared RAM and registers.
func NewBus() (bus *Bus) {
	bus = &Bus{}
	return
}

// Defines returns an iter of the bus address defines.
func (bus *Bus) Defines() iter.Seq2[string, string] {
	return maps.All(_bus_defines)
}

// Read a value from the bus.
//
// The unimplemented ranges log a diagnostic and read as 0.
func (bus *Bus) Read(addr uint8) (value uint8) {
	switch {
	case addr < RAM_SIZE:
		value = bus.Ram[addr]
	case addr <= BOARD_END:
		value = bus.Board.Read(addr)
	case addr == ADDR_INTERRUPT:
		value = bus.Board.Status()
	case addr >= ADDR_INPUT:
		value = bus.Input[addr-ADDR_INPUT]
	default:
		log.Print(f("bus: read from unimplemented address %v", translate.Hex(addr)))
	}

	if bus.Verbose {
		log.Printf("bus: (%v) -> %v", translate.Hex(addr), translate.Hex(value))
	}

	return
}

// Write a value to the bus.
//
// Writes to the unimplemented ranges and to the read-only input registers
// log a diagnostic and are ignored.
func (bus *Bus) Write(addr uint8, value uint8) {
	if bus.Verbose {
		log.Printf("bus: (%v) <- %v", translate.Hex(addr), translate.Hex(value))
	}

	switch {
	case addr < RAM_SIZE:
		bus.Ram[addr] = value
	case addr <= BOARD_END:
		bus.Board.Write(addr, value)
	case addr == ADDR_INTERRUPT:
		bus.Board.SetControl(value)
	case addr >= ADDR_OUTPUT:
		bus.Output[addr-ADDR_OUTPUT] = value
	case addr >= ADDR_INPUT:
		log.Print(f("bus: write %v to input register %v ignored", translate.Hex(value), translate.Hex(addr)))
	default:
		log.Print(f("bus: write %v to unimplemented address %v", translate.Hex(value), translate.Hex(addr)))
	}
}

// Reset clears the output registers, and nothing else.
// RAM, the input registers and the board persist.
func (bus *Bus) Reset() {
	if bus.Verbose {
		log.Printf("bus: reset")
	}

	clear(bus.Output[:])
}

// Load copies a program image into RAM, starting at address 0.
func (bus *Bus) Load(data []uint8) (err error) {
	if len(data) > RAM_SIZE {
		err = &ErrRamOverflow{Size: len(data)}
		return
	}

	copy(bus.Ram[:], data)

	return
}
