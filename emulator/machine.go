// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/mr2a/cpu"
	"github.com/ezrec/mr2a/internal"
	"github.com/ezrec/mr2a/io"
	"github.com/ezrec/mr2a/translate"
)

// State is the run state of a machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING       = State(iota) // Running
	STATE_STOPPED                     // Stopped
	STATE_ERROR_STOPPED               // ErrorStopped
)

// StepMode is the granularity of a clock trigger.
type StepMode int

//go:generate go tool stringer -linecomment -type=StepMode
const (
	STEP_ASSEMBLY = StepMode(iota) // Assembly
	STEP_MICRO                     // MicroStep
)

// MAX_TRIGGER_CYCLES bounds the micro-cycles of one Assembly trigger. A
// control store that never returns to the fetch entry faults once it is spent.
const MAX_TRIGGER_CYCLES = 8 * cpu.CONTROL_STORE_SIZE

var _machine_defines = map[string]string{
	"INPUT_COUNT":  fmt.Sprintf("%v", io.INPUT_COUNT),
	"OUTPUT_COUNT": fmt.Sprintf("%v", io.OUTPUT_COUNT),
}

// Config is the initial configuration of a machine.
type Config struct {
	Verbose   bool                  // If set, enables verbose logging.
	Inputs    [io.INPUT_COUNT]uint8 // Input register values.
	Frequency float64               // Target clock frequency in Hz, 0 for unthrottled.
	Step      StepMode              // Clock trigger granularity.
	Microcode *cpu.Table            // Control store, nil for the fixed microprogram.
}

// DefaultConfig returns an unthrottled, assembly stepping configuration.
func DefaultConfig() (config Config) {
	config = Config{
		Step: STEP_ASSEMBLY,
	}

	return
}

// Machine is the whole Minirechner 2a: the control unit and data path, the
// bus with its RAM and registers, and the board.
type Machine struct {
	Verbose  bool     // If set, enables verbose logging.
	Step     StepMode // Clock trigger granularity.
	*cpu.Cpu          // Control unit and data path.
	Bus      *io.Bus  // Memory and I/O bus.
	Image    Image    // Currently loaded program image.

	state        State
	fault        error
	cycles       uint64
	instructions uint64
	fetched      bool // An instruction was fetched, and has not yet retired.
	irq          bool // Interrupt request line, asserted for the next micro-cycle.

	frequency float64
	measured  float64

	throttle_start  time.Time
	throttle_cycles uint64
	last_trigger    time.Time
	last_cycles     uint64

	now   func() time.Time
	sleep func(time.Duration)
}

// NewMachine creates a machine from a configuration.
func NewMachine(config Config) (m *Machine) {
	m = &Machine{
		Verbose:   config.Verbose,
		Step:      config.Step,
		Cpu:       cpu.NewCpu(config.Microcode),
		Bus:       io.NewBus(),
		frequency: config.Frequency,
		now:       time.Now,
		sleep:     time.Sleep,
	}

	m.Bus.Input = config.Inputs

	return
}

// Defines returns an iterator over all of the defines.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_machine_defines),
		m.Cpu.Defines(),
		m.Bus.Defines(),
	)
}

// Load a program image into RAM, and restart the machine.
// The board's output latches and interrupt status are cleared; the input
// registers and the board input lines are left alone.
func (m *Machine) Load(image Image) (err error) {
	err = m.Bus.Load(image)
	if err != nil {
		return
	}

	m.Image = image
	m.cycles = 0
	m.instructions = 0
	m.Bus.Board.Reset()
	m.Reset()

	return
}

// Reset the control unit and the output registers, and return to running.
// RAM, the register file, the input registers and the board are kept.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("machine: reset at cycle %v", m.cycles)
	}

	m.Cpu.Reset()
	m.Bus.Reset()
	m.state = STATE_RUNNING
	m.fault = nil
	m.fetched = false
	m.irq = false
	m.resetThrottle()
}

// Interrupt asserts the interrupt request line for the next micro-cycle.
// Unless that cycle is the fetch entry with interrupts enabled, the request
// is lost. The board's status latch records it for software either way.
func (m *Machine) Interrupt() {
	if m.Verbose {
		log.Printf("machine: interrupt at cycle %v", m.cycles)
	}

	m.irq = true
	m.Bus.Board.RaiseInterrupt()
}

// State returns the run state.
func (m *Machine) State() State {
	return m.state
}

// Fault returns the reason for STATE_ERROR_STOPPED, or nil.
func (m *Machine) Fault() error {
	return m.fault
}

// Cycles returns the micro-cycles run since the last load.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// Instructions returns the instructions retired since the last load.
// The reset and interrupt entry sequences are not instructions.
func (m *Machine) Instructions() uint64 {
	return m.instructions
}

// Output returns an output register.
func (m *Machine) Output(index int) uint8 {
	return m.Bus.Output[index]
}

// Outputs returns the output registers.
func (m *Machine) Outputs() [io.OUTPUT_COUNT]uint8 {
	return m.Bus.Output
}

// SetInput sets an input register.
func (m *Machine) SetInput(index int, value uint8) {
	m.Bus.Input[index] = value
}

// Address returns the current control address.
func (m *Machine) Address() uint16 {
	return m.Cpu.Store.Address()
}

// Instruction returns the instruction register.
func (m *Machine) Instruction() cpu.Instruction {
	return m.Cpu.Ir.Get()
}

// Register returns a register file cell.
func (m *Machine) Register(index int) uint8 {
	return m.Cpu.Registers.Read(uint8(index))
}

// Frequency returns the target clock frequency in Hz, 0 if unthrottled.
func (m *Machine) Frequency() float64 {
	return m.frequency
}

// SetFrequency sets the target clock frequency in Hz, 0 for unthrottled.
func (m *Machine) SetFrequency(hz float64) {
	m.frequency = max(hz, 0)
	m.resetThrottle()
}

// MeasuredFrequency returns the clock frequency in Hz observed between the
// last two triggers.
func (m *Machine) MeasuredFrequency() float64 {
	return m.measured
}

// Trigger advances the machine by one step of the configured granularity,
// and returns the resulting state. Once the machine has stopped, triggers
// do nothing.
func (m *Machine) Trigger() State {
	if m.state != STATE_RUNNING {
		return m.state
	}

	m.Cpu.Verbose = m.Verbose
	m.Bus.Verbose = m.Verbose
	m.Bus.Board.Verbose = m.Verbose

	m.cycle()
	if m.Step == STEP_ASSEMBLY {
		for n := 1; m.state == STATE_RUNNING && m.Cpu.Store.Address() != cpu.ADDR_FETCH; n++ {
			if n >= MAX_TRIGGER_CYCLES {
				log.Print(f("machine: cycle %v: %v", m.cycles, ErrTriggerLimit))
				m.state = STATE_ERROR_STOPPED
				m.fault = ErrTriggerLimit
				break
			}
			m.cycle()
		}
	}

	m.measure()

	return m.state
}

// cycle runs a single micro-cycle.
func (m *Machine) cycle() {
	word := m.Cpu.Store.Word()
	err := m.Cpu.Tick(m.Bus, m.irq)
	m.irq = false
	switch {
	case err == nil:
	case errors.Is(err, cpu.ErrHalted):
		if m.Verbose {
			log.Printf("machine: halted at cycle %v", m.cycles)
		}
		m.state = STATE_STOPPED
	default:
		log.Print(f("machine: cycle %v: %v", m.cycles, err))
		m.state = STATE_ERROR_STOPPED
		m.fault = err
		return
	}

	m.cycles++
	if word.Has(cpu.MIRLD) {
		m.fetched = true
	}
	if m.fetched && m.Cpu.Store.Address() == cpu.ADDR_FETCH {
		m.instructions++
		m.fetched = false
	}

	m.throttle()
}

// throttle delays until the cycle count matches the target frequency.
func (m *Machine) throttle() {
	if m.frequency <= 0 {
		return
	}

	if m.throttle_start.IsZero() {
		m.throttle_start = m.now()
		m.throttle_cycles = m.cycles
		return
	}

	cycles := m.cycles - m.throttle_cycles
	due := m.throttle_start.Add(time.Duration(float64(cycles) * float64(time.Second) / m.frequency))
	if wait := due.Sub(m.now()); wait > 0 {
		m.sleep(wait)
	}
}

func (m *Machine) resetThrottle() {
	m.throttle_start = time.Time{}
	m.throttle_cycles = m.cycles
}

// measure updates the measured frequency from the time since the last trigger.
func (m *Machine) measure() {
	now := m.now()
	if !m.last_trigger.IsZero() {
		elapsed := now.Sub(m.last_trigger).Seconds()
		if elapsed > 0 {
			m.measured = float64(m.cycles-m.last_cycles) / elapsed
		}
	}

	m.last_trigger = now
	m.last_cycles = m.cycles
}

// String returns the machine state as a string.
func (m *Machine) String() (text string) {
	text = fmt.Sprintf("% 5s: %v\n", "state", m.state)
	text += fmt.Sprintf("% 5s: %v\n", "cycle", m.cycles)
	text += m.Cpu.String()
	for n, value := range m.Bus.Output {
		text += fmt.Sprintf("% 5s: %v\n", fmt.Sprintf("out%d", n), translate.Hex(value))
	}

	return
}
