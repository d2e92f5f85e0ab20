package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ezrec/mr2a/emulator"
)

const consoleHelp = `keys:
  space  trigger the clock once
  g      run to the cycle budget, or until stopped
  m      toggle assembly and micro stepping
  i      raise an interrupt
  r      reset
  0-3    increment input register
  q      quit
`

// console prints in raw terminal mode, where a newline needs a carriage return.
func console(text string) {
	fmt.Print(strings.ReplaceAll(text, "\n", "\r\n"))
}

// runConsole drives a machine from single key presses on the terminal.
func runConsole(m *emulator.Machine, cycles uint64) (err error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		err = fmt.Errorf("-t: standard input is not a terminal")
		return
	}

	old_state, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, old_state)

	console(consoleHelp)
	console(m.String())

	key := make([]byte, 1)
	for {
		_, err = os.Stdin.Read(key)
		if err != nil {
			return
		}

		switch key[0] {
		case ' ', '\r', '\n':
			m.Trigger()
		case 'g':
			runner := emulator.NewRunner(m, m.Cycles()+cycles)
			runner.Verbose = m.Verbose
			runner.Run()
		case 'm':
			if m.Step == emulator.STEP_ASSEMBLY {
				m.Step = emulator.STEP_MICRO
			} else {
				m.Step = emulator.STEP_ASSEMBLY
			}
			console(fmt.Sprintf("step: %v\n", m.Step))
		case 'i':
			m.Interrupt()
		case 'r':
			m.Reset()
		case '0', '1', '2', '3':
			index := int(key[0] - '0')
			m.SetInput(index, m.Bus.Input[index]+1)
		case 'q', 0x03, 0x04:
			return
		default:
			console(consoleHelp)
			continue
		}

		console("\n" + m.String())
		if m.State() == emulator.STATE_ERROR_STOPPED {
			console(fmt.Sprintf("fault: %v\n", m.Fault()))
		}
	}
}
