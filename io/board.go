package io

import (
	"log"

	"github.com/ezrec/mr2a/translate"
)

// Board port addresses.
const (
	BOARD_UIO     = 0xf0 // Universal IO lines.
	BOARD_AIN1    = 0xf1 // Analog input 1.
	BOARD_AIN2    = 0xf2 // Analog input 2.
	BOARD_JUMPERS = 0xf3 // Jumper lines.
	BOARD_AOUT    = 0xf4 // Analog output.
	BOARD_END     = 0xf7 // Last board port.
)

// Jumper lines.
const (
	JUMPER_J1 = uint8(1 << 0) // Jumper J1
	JUMPER_J2 = uint8(1 << 1) // Jumper J2
)

// Interrupt status and control register bits.
const (
	STATUS_INT = uint8(1 << 0) // Interrupt request latched.
	STATUS_J1  = uint8(1 << 1) // Jumper J1 set.
	STATUS_J2  = uint8(1 << 2) // Jumper J2 set.

	CONTROL_ACK = uint8(1 << 0) // Write to clear the interrupt status latch.
)

// Board is the auxiliary interrupt, status and analog interface.
//
// The input lines are configured from outside the machine. The status and
// control registers are driven through the bus.
type Board struct {
	Verbose bool // If set, enables verbose logging.

	uio     uint8    // Universal IO input lines.
	uio_out uint8    // Universal IO output latch.
	analog  [2]uint8 // Analog inputs.
	aout    uint8    // Analog output.
	jumpers uint8    // Jumper lines.

	control   uint8 // Last control register write.
	interrupt bool  // Interrupt status latch.
}

// Uio returns the universal IO input lines.
func (board *Board) Uio() uint8 {
	return board.uio
}

// SetUio sets the universal IO input lines.
func (board *Board) SetUio(value uint8) {
	board.uio = value
}

// UioOutput returns the universal IO output latch.
func (board *Board) UioOutput() uint8 {
	return board.uio_out
}

// Analog1 returns analog input 1.
func (board *Board) Analog1() uint8 {
	return board.analog[0]
}

// SetAnalog1 sets analog input 1.
func (board *Board) SetAnalog1(value uint8) {
	board.analog[0] = value
}

// Analog2 returns analog input 2.
func (board *Board) Analog2() uint8 {
	return board.analog[1]
}

// SetAnalog2 sets analog input 2.
func (board *Board) SetAnalog2(value uint8) {
	board.analog[1] = value
}

// AnalogOutput returns the analog output.
func (board *Board) AnalogOutput() uint8 {
	return board.aout
}

// Jumpers returns the jumper lines.
func (board *Board) Jumpers() uint8 {
	return board.jumpers
}

// SetJumpers sets the jumper lines.
func (board *Board) SetJumpers(value uint8) {
	board.jumpers = value & (JUMPER_J1 | JUMPER_J2)
}

// Status returns the interrupt status register.
func (board *Board) Status() (status uint8) {
	if board.interrupt {
		status |= STATUS_INT
	}
	if (board.jumpers & JUMPER_J1) != 0 {
		status |= STATUS_J1
	}
	if (board.jumpers & JUMPER_J2) != 0 {
		status |= STATUS_J2
	}

	return
}

// Control returns the last value written to the control register.
func (board *Board) Control() uint8 {
	return board.control
}

// SetControl writes the control register.
func (board *Board) SetControl(value uint8) {
	board.control = value
	if (value & CONTROL_ACK) != 0 {
		if board.Verbose && board.interrupt {
			log.Printf("board: interrupt acknowledged")
		}
		board.interrupt = false
	}
}

// RaiseInterrupt sets the interrupt status latch, read back at 0xf9.
func (board *Board) RaiseInterrupt() {
	if board.Verbose {
		log.Printf("board: interrupt raised")
	}
	board.interrupt = true
}

// InterruptPending returns the interrupt status latch.
func (board *Board) InterruptPending() bool {
	return board.interrupt
}

// Read a board port.
func (board *Board) Read(addr uint8) (value uint8) {
	switch addr {
	case BOARD_UIO:
		value = board.uio
	case BOARD_AIN1:
		value = board.analog[0]
	case BOARD_AIN2:
		value = board.analog[1]
	case BOARD_JUMPERS:
		value = board.jumpers
	case BOARD_AOUT:
		value = board.aout
	default:
		log.Print(f("board: read from unimplemented port %v", translate.Hex(addr)))
	}

	return
}

// Write a board port.
func (board *Board) Write(addr uint8, value uint8) {
	switch addr {
	case BOARD_UIO:
		board.uio_out = value
	case BOARD_AOUT:
		board.aout = value
	case BOARD_AIN1, BOARD_AIN2, BOARD_JUMPERS:
		if board.Verbose {
			log.Printf("board: write %v to input port %v ignored", translate.Hex(value), translate.Hex(addr))
		}
	default:
		log.Print(f("board: write %v to unimplemented port %v", translate.Hex(value), translate.Hex(addr)))
	}
}

// Reset clears the output latches, the control register and the
// interrupt status latch. Input lines are driven from outside, and persist.
func (board *Board) Reset() {
	board.uio_out = 0
	board.aout = 0
	board.control = 0
	board.interrupt = false
}
