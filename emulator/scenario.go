package emulator

import (
	"log"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/mr2a/io"
)

// DEFAULT_CYCLES is the cycle budget of a scenario that does not set one.
const DEFAULT_CYCLES = 10000

// BoardConfig is the externally driven lines of the board.
type BoardConfig struct {
	Uio     uint8
	Analog1 uint8
	Analog2 uint8
	Jumpers uint8
}

// Scenario is a complete run description: configuration, program image,
// scheduled events and the expected outcome.
type Scenario struct {
	Name    string
	Config  Config
	Program Image
	Cycles  uint64
	Events  []Schedule
	Board   BoardConfig
	Expect  *Expect
}

var stepModes = map[string]StepMode{
	"assembly": STEP_ASSEMBLY,
	"micro":    STEP_MICRO,
}

// LoadScenario executes a Starlark scenario script.
//
// The script sets any of the globals program (a list of bytes, or hex text),
// inputs, frequency, step ("assembly" or "micro"), cycles, resets and
// interrupts (lists of cycle counts), board (a dict of uio, ain1, ain2 and
// jumpers) and expect (a dict of state, outputs, ram and registers).
// The machine's defines are predeclared.
func LoadScenario(name string, src any) (sc *Scenario, err error) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%v: %v", name, msg)
		},
	}
	opts := syntax.FileOptions{}

	pred := starlark.StringDict{}
	for key, str := range NewMachine(DefaultConfig()).Defines() {
		value, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			continue
		}
		pred[key] = starlark.MakeInt64(value)
	}

	globals, err := starlark.ExecFileOptions(&opts, thread, name, src, pred)
	if err != nil {
		err = &ErrScenario{Name: name, Err: err}
		return
	}

	sc = &Scenario{
		Name:   name,
		Config: DefaultConfig(),
		Cycles: DEFAULT_CYCLES,
	}

	type parser struct {
		key   string
		parse func(value starlark.Value) error
	}

	parsers := []parser{
		{"program", sc.parseProgram},
		{"inputs", sc.parseInputs},
		{"frequency", sc.parseFrequency},
		{"step", sc.parseStep},
		{"cycles", sc.parseCycles},
		{"resets", func(value starlark.Value) error { return sc.parseEvents(EVENT_RESET, value) }},
		{"interrupts", func(value starlark.Value) error { return sc.parseEvents(EVENT_INTERRUPT, value) }},
		{"board", sc.parseBoard},
		{"expect", sc.parseExpect},
	}

	for _, p := range parsers {
		value, ok := globals[p.key]
		if !ok || value == starlark.None {
			continue
		}
		err = p.parse(value)
		if err != nil {
			err = &ErrScenario{Name: name, Key: p.key, Err: err}
			sc = nil
			return
		}
	}

	return
}

// Machine creates and loads a machine for the scenario.
func (sc *Scenario) Machine() (m *Machine, err error) {
	m = NewMachine(sc.Config)
	m.Bus.Board.SetUio(sc.Board.Uio)
	m.Bus.Board.SetAnalog1(sc.Board.Analog1)
	m.Bus.Board.SetAnalog2(sc.Board.Analog2)
	m.Bus.Board.SetJumpers(sc.Board.Jumpers)

	err = m.Load(sc.Program)
	if err != nil {
		m = nil
		return
	}

	return
}

// Run the scenario to its cycle budget, then verify the expected outcome.
// A failed expectation is an *ErrVerify; the machine is returned regardless.
func (sc *Scenario) Run() (m *Machine, err error) {
	m, err = sc.Machine()
	if err != nil {
		return
	}

	runner := NewRunner(m, sc.Cycles, sc.Events...)
	runner.Verbose = sc.Config.Verbose
	runner.Run()

	if sc.Expect != nil {
		err = sc.Expect.Verify(m)
	}

	return
}

func (sc *Scenario) parseProgram(value starlark.Value) (err error) {
	if text, ok := starlark.AsString(value); ok {
		sc.Program, err = ParseImage(strings.NewReader(text))
		return
	}

	data, err := asBytes(value)
	if err != nil {
		return
	}

	sc.Program, err = NewImage(data)
	return
}

func (sc *Scenario) parseInputs(value starlark.Value) (err error) {
	data, err := asBytes(value)
	if err != nil {
		return
	}
	if len(data) > len(sc.Config.Inputs) {
		err = ErrScenarioRange
		return
	}

	copy(sc.Config.Inputs[:], data)
	return
}

func (sc *Scenario) parseFrequency(value starlark.Value) (err error) {
	hz, ok := starlark.AsFloat(value)
	if !ok {
		err = ErrScenarioType
		return
	}
	if hz < 0 {
		err = ErrScenarioRange
		return
	}

	sc.Config.Frequency = hz
	return
}

func (sc *Scenario) parseStep(value starlark.Value) (err error) {
	text, ok := starlark.AsString(value)
	if !ok {
		err = ErrScenarioType
		return
	}

	step, ok := stepModes[strings.ToLower(text)]
	if !ok {
		err = ErrScenarioName
		return
	}

	sc.Config.Step = step
	return
}

func (sc *Scenario) parseCycles(value starlark.Value) (err error) {
	cycles, err := asInt(value, -1)
	if err != nil {
		return
	}

	sc.Cycles = uint64(cycles)
	return
}

func (sc *Scenario) parseEvents(event Event, value starlark.Value) (err error) {
	cycles, err := asInts(value, -1)
	if err != nil {
		return
	}

	for _, cycle := range cycles {
		sc.Events = append(sc.Events, Schedule{Cycle: uint64(cycle), Event: event})
	}

	return
}

func (sc *Scenario) parseBoard(value starlark.Value) (err error) {
	lines := map[string]*uint8{
		"uio":     &sc.Board.Uio,
		"ain1":    &sc.Board.Analog1,
		"ain2":    &sc.Board.Analog2,
		"jumpers": &sc.Board.Jumpers,
	}

	return eachItem(value, func(key starlark.Value, item starlark.Value) (err error) {
		name, ok := starlark.AsString(key)
		if !ok {
			return ErrScenarioType
		}
		line, ok := lines[name]
		if !ok {
			return ErrScenarioName
		}
		byte_value, err := asInt(item, 0xff)
		if err != nil {
			return
		}
		*line = uint8(byte_value)
		return
	})
}

func (sc *Scenario) parseExpect(value starlark.Value) (err error) {
	expect := &Expect{}

	err = eachItem(value, func(key starlark.Value, item starlark.Value) (err error) {
		name, ok := starlark.AsString(key)
		if !ok {
			return ErrScenarioType
		}
		switch name {
		case "state":
			expect.State, err = asState(item)
		case "outputs":
			expect.Outputs = map[int]uint8{}
			err = eachItem(item, func(key starlark.Value, item starlark.Value) (err error) {
				index, err := asInt(key, 0xff)
				if err != nil {
					return
				}
				if index >= io.ADDR_OUTPUT {
					index -= io.ADDR_OUTPUT
				}
				if index >= io.OUTPUT_COUNT {
					return ErrScenarioRange
				}
				out, err := asInt(item, 0xff)
				expect.Outputs[index] = uint8(out)
				return
			})
		case "ram":
			expect.Ram = map[uint8]uint8{}
			err = eachItem(item, func(key starlark.Value, item starlark.Value) (err error) {
				addr, err := asInt(key, io.RAM_SIZE-1)
				if err != nil {
					return
				}
				data, err := asInt(item, 0xff)
				expect.Ram[uint8(addr)] = uint8(data)
				return
			})
		case "registers":
			expect.Registers = map[int]uint8{}
			err = eachItem(item, func(key starlark.Value, item starlark.Value) (err error) {
				reg_name, ok := starlark.AsString(key)
				if !ok {
					return ErrScenarioType
				}
				index, ok := RegisterIndex(strings.ToLower(reg_name))
				if !ok {
					return ErrScenarioName
				}
				data, err := asInt(item, 0xff)
				expect.Registers[index] = uint8(data)
				return
			})
		default:
			err = ErrScenarioName
		}
		return
	})
	if err != nil {
		return
	}

	sc.Expect = expect
	return
}

// asInt converts a Starlark int in 0..limit; a negative limit is unbounded.
func asInt(value starlark.Value, limit int) (result int, err error) {
	result, err = starlark.AsInt32(value)
	if err != nil {
		err = ErrScenarioType
		return
	}
	if result < 0 || (limit >= 0 && result > limit) {
		err = ErrScenarioRange
		return
	}

	return
}

// asInts converts a Starlark iterable of ints in 0..limit.
func asInts(value starlark.Value, limit int) (result []int, err error) {
	iterable, ok := value.(starlark.Iterable)
	if !ok {
		err = ErrScenarioType
		return
	}

	iter := iterable.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		var n int
		n, err = asInt(item, limit)
		if err != nil {
			return
		}
		result = append(result, n)
	}

	return
}

// asBytes converts a Starlark iterable of bytes.
func asBytes(value starlark.Value) (data []uint8, err error) {
	ints, err := asInts(value, 0xff)
	if err != nil {
		return
	}

	data = make([]uint8, len(ints))
	for n, value := range ints {
		data[n] = uint8(value)
	}

	return
}

// asState converts a state name.
func asState(value starlark.Value) (state *State, err error) {
	text, ok := starlark.AsString(value)
	if !ok {
		err = ErrScenarioType
		return
	}

	for _, candidate := range []State{STATE_RUNNING, STATE_STOPPED, STATE_ERROR_STOPPED} {
		if strings.EqualFold(candidate.String(), text) {
			state = &candidate
			return
		}
	}

	err = ErrScenarioName
	return
}

// eachItem calls fn for every key and value of a Starlark dict.
func eachItem(value starlark.Value, fn func(key starlark.Value, item starlark.Value) error) (err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = ErrScenarioType
		return
	}

	for _, pair := range dict.Items() {
		err = fn(pair[0], pair[1])
		if err != nil {
			return
		}
	}

	return
}
