package emulator

import (
	"cmp"
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/mr2a/cpu"
	"github.com/ezrec/mr2a/translate"
)

// Event is an external stimulus scheduled against the cycle counter.
type Event int

//go:generate go tool stringer -linecomment -type=Event
const (
	EVENT_RESET     = Event(iota) // reset
	EVENT_INTERRUPT               // interrupt
)

// Schedule is an event due at a cycle count.
type Schedule struct {
	Cycle uint64
	Event Event
}

// Expect is the verified outcome of a run. Only the set fields are checked.
type Expect struct {
	State     *State          // Final run state.
	Outputs   map[int]uint8   // Output registers, by index.
	Ram       map[uint8]uint8 // RAM, by address.
	Registers map[int]uint8   // Register file, by index.
}

// Verify checks the machine against the expectation.
// All mismatches are joined into an *ErrVerify.
func (expect *Expect) Verify(m *Machine) (err error) {
	var errs []error

	if expect.State != nil && *expect.State != m.State() {
		errs = append(errs, &ErrMismatch{What: "state", Want: *expect.State, Got: m.State()})
	}

	for _, index := range slices.Sorted(maps.Keys(expect.Outputs)) {
		want := expect.Outputs[index]
		if index < 0 || index >= len(m.Bus.Output) {
			errs = append(errs, &ErrMismatch{What: fmt.Sprintf("out%d", index), Want: translate.Hex(want), Got: nil})
			continue
		}
		if got := m.Output(index); got != want {
			errs = append(errs, &ErrMismatch{What: fmt.Sprintf("out%d", index), Want: translate.Hex(want), Got: translate.Hex(got)})
		}
	}

	for _, addr := range slices.Sorted(maps.Keys(expect.Ram)) {
		want := expect.Ram[addr]
		if got := m.Bus.Read(addr); got != want {
			errs = append(errs, &ErrMismatch{What: fmt.Sprintf("(%v)", translate.Hex(addr)), Want: translate.Hex(want), Got: translate.Hex(got)})
		}
	}

	for _, index := range slices.Sorted(maps.Keys(expect.Registers)) {
		want := expect.Registers[index]
		if got := m.Register(index); got != want {
			errs = append(errs, &ErrMismatch{What: RegisterName(index), Want: translate.Hex(want), Got: translate.Hex(got)})
		}
	}

	if len(errs) != 0 {
		err = &ErrVerify{Err: errors.Join(errs...)}
	}

	return
}

var registerNames = [...]string{
	cpu.REG_R0: "r0",
	cpu.REG_R1: "r1",
	cpu.REG_R2: "r2",
	cpu.REG_PC: "pc",
	cpu.REG_FR: "fr",
	cpu.REG_SP: "sp",
	cpu.REG_R6: "r6",
	cpu.REG_R7: "r7",
}

// RegisterName returns the conventional name of a register file cell.
func RegisterName(index int) string {
	if index < 0 || index >= len(registerNames) {
		return fmt.Sprintf("r%d", index)
	}
	return registerNames[index]
}

// RegisterIndex returns the register file cell of a conventional name.
func RegisterIndex(name string) (index int, ok bool) {
	index = slices.Index(registerNames[:], name)
	ok = index >= 0
	return
}

// Runner drives a machine's clock up to a cycle budget, firing scheduled
// events on the way.
type Runner struct {
	Verbose bool     // If set, enables verbose logging.
	Machine *Machine // Machine being driven.
	Budget  uint64   // Cycle budget; the run ends once it is spent.

	events []Schedule
	next   int
}

// NewRunner creates a runner over a machine with a set of scheduled events.
func NewRunner(m *Machine, budget uint64, events ...Schedule) (runner *Runner) {
	runner = &Runner{
		Machine: m,
		Budget:  budget,
		events:  slices.Clone(events),
	}

	slices.SortStableFunc(runner.events, func(a, b Schedule) int {
		return cmp.Compare(a.Cycle, b.Cycle)
	})

	return
}

// Pending returns the events not yet fired.
func (runner *Runner) Pending() []Schedule {
	return runner.events[runner.next:]
}

// fire delivers every event due at or before the current cycle.
func (runner *Runner) fire() {
	m := runner.Machine
	for runner.next < len(runner.events) {
		event := runner.events[runner.next]
		if event.Cycle > m.Cycles() {
			break
		}
		runner.next++

		if runner.Verbose {
			log.Printf("runner: %v due at cycle %v, fired at cycle %v", event.Event, event.Cycle, m.Cycles())
		}

		switch event.Event {
		case EVENT_RESET:
			m.Reset()
		case EVENT_INTERRUPT:
			m.Interrupt()
		}
	}
}

// Step fires the due events, then triggers the machine once.
// Returns true once the run is over: the budget is spent, or the machine
// has left STATE_RUNNING.
func (runner *Runner) Step() (done bool) {
	m := runner.Machine

	runner.fire()

	if m.State() != STATE_RUNNING || m.Cycles() >= runner.Budget {
		return true
	}

	m.Trigger()

	return m.State() != STATE_RUNNING || m.Cycles() >= runner.Budget
}

// Run steps until the run is over, and returns the final state.
func (runner *Runner) Run() State {
	for !runner.Step() {
	}

	return runner.Machine.State()
}
