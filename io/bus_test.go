package io

import (
	"bytes"
	"log"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureLog collects the standard logger output while fn runs.
func captureLog(fn func()) string {
	buf := &bytes.Buffer{}
	writer := log.Writer()
	log.SetOutput(buf)
	defer log.SetOutput(writer)

	fn()

	return buf.String()
}

func TestBus_Ram(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	for addr := range RAM_SIZE {
		bus.Write(uint8(addr), uint8(addr^0x5a))
	}
	for addr := range RAM_SIZE {
		assert.Equal(uint8(addr^0x5a), bus.Read(uint8(addr)), "%02x", addr)
	}
}

func TestBus_Registers(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	bus.Input = [INPUT_COUNT]uint8{0x10, 0x11, 0x12, 0x13}

	for n := range INPUT_COUNT {
		assert.Equal(uint8(0x10+n), bus.Read(uint8(ADDR_INPUT+n)))
	}

	bus.Write(0xfe, 0xa5)
	bus.Write(0xff, 0x5a)
	assert.Equal([OUTPUT_COUNT]uint8{0xa5, 0x5a}, bus.Output)

	// Outputs do not read back; the input registers share the addresses.
	assert.Equal(uint8(0x12), bus.Read(0xfe))
	assert.Equal(uint8(0x13), bus.Read(0xff))

	// Input registers are read-only.
	text := captureLog(func() { bus.Write(0xfc, 0x77) })
	assert.Contains(text, "FC")
	assert.Equal(uint8(0x10), bus.Read(0xfc))
}

func TestBus_Unimplemented(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	for _, addr := range []uint8{ADDR_RESERVED, ADDR_UART_DATA, ADDR_UART_CTRL, 0xf5, 0xf6, 0xf7} {
		var value uint8
		text := captureLog(func() {
			bus.Write(addr, 0xff)
			value = bus.Read(addr)
		})
		assert.Equal(uint8(0), value, "%02x", addr)
		assert.Contains(text, "unimplemented", "%02x", addr)
	}

	// Nothing else was disturbed.
	assert.Equal([RAM_SIZE]uint8{}, bus.Ram)
	assert.Equal([OUTPUT_COUNT]uint8{}, bus.Output)
}

func TestBus_Reset(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	bus.Write(0x20, 0x42)
	bus.Input[1] = 0x99
	bus.Write(0xfe, 0x01)
	bus.Write(0xff, 0x02)
	bus.Write(BOARD_AOUT, 0x80)
	bus.Write(ADDR_INTERRUPT, 0x80)
	bus.Board.RaiseInterrupt()

	bus.Reset()

	assert.Equal(uint8(0x42), bus.Read(0x20))
	assert.Equal(uint8(0x99), bus.Read(0xfd))
	assert.Equal([OUTPUT_COUNT]uint8{}, bus.Output)

	// Only the output registers are cleared.
	assert.Equal(uint8(0x80), bus.Board.AnalogOutput())
	assert.Equal(uint8(0x80), bus.Board.Control())
	assert.True(bus.Board.InterruptPending())
}

func TestBus_Interrupt(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	bus.Board.SetJumpers(JUMPER_J2)
	assert.Equal(STATUS_J2, bus.Read(ADDR_INTERRUPT))

	bus.Board.RaiseInterrupt()
	assert.Equal(STATUS_INT|STATUS_J2, bus.Read(ADDR_INTERRUPT))

	// Control writes without the acknowledge bit keep the request.
	bus.Write(ADDR_INTERRUPT, 0x80)
	assert.True(bus.Board.InterruptPending())
	assert.Equal(uint8(0x80), bus.Board.Control())

	bus.Write(ADDR_INTERRUPT, CONTROL_ACK)
	assert.False(bus.Board.InterruptPending())
	assert.Equal(STATUS_J2, bus.Read(ADDR_INTERRUPT))
}

func TestBus_Load(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	bus.Ram[0x10] = 0xee

	err := bus.Load([]uint8{0xc0, 0x50, 0xff})
	assert.NoError(err)
	assert.Equal(uint8(0xc0), bus.Read(0))
	assert.Equal(uint8(0xff), bus.Read(2))
	assert.Equal(uint8(0xee), bus.Read(0x10))

	err = bus.Load(make([]uint8, RAM_SIZE+1))
	var eo *ErrRamOverflow
	assert.ErrorAs(err, &eo)
	assert.Equal(uint8(0xc0), bus.Read(0))
}

func TestBus_Defines(t *testing.T) {
	assert := assert.New(t)

	defines := maps.Collect(NewBus().Defines())
	assert.Equal("0xf9", defines["INT"])
	assert.Equal("0xfc", defines["IN0"])
	assert.Equal("0xfe", defines["OUT0"])
	assert.Equal("0xff", defines["OUT1"])
	assert.Equal("0xf0", defines["RAM_SIZE"])
}
