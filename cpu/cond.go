package cpu

// CodeCond is the condition mux select (MAC3..MAC0).
type CodeCond int

//go:generate go tool stringer -linecomment -type=CodeCond
const (
	COND_NONE      = CodeCond(0)  // -
	COND_CARRY     = CodeCond(1)  // C
	COND_ZERO      = CodeCond(2)  // Z
	COND_NEGATIVE  = CodeCond(3)  // N
	COND_INTERRUPT = CodeCond(4)  // INT
	COND_OP00      = CodeCond(8)  // OP00
	COND_OP01      = CodeCond(9)  // OP01
	COND_OP10      = CodeCond(10) // OP10
	COND_OP11      = CodeCond(11) // OP11
)

// Lines are the inputs of the condition mux for one micro-cycle.
type Lines struct {
	Flags       uint8       // Flag register, as of the start of the cycle.
	Interrupt   bool        // Interrupt request line.
	Instruction Instruction // Instruction register, after any fetch this cycle.
}

// Evaluate selects the one condition bit.
// The interrupt line only counts while interrupts are enabled in the flag register.
func (cond CodeCond) Evaluate(lines Lines) (value bool) {
	switch cond {
	case COND_CARRY:
		value = (lines.Flags & FLAG_CARRY) != 0
	case COND_ZERO:
		value = (lines.Flags & FLAG_ZERO) != 0
	case COND_NEGATIVE:
		value = (lines.Flags & FLAG_NEGATIVE) != 0
	case COND_INTERRUPT:
		value = lines.Interrupt && (lines.Flags&FLAG_IE) != 0
	case COND_OP00, COND_OP01, COND_OP10, COND_OP11:
		bit := uint(cond - COND_OP00)
		value = ((lines.Instruction >> bit) & 1) != 0
	}

	return
}

// NextAddress computes the control address following word.
//
// The block (A8..A5) is the instruction register's opcode nibble when MDEC is
// asserted, and block 0 otherwise. The selected condition bit is ORed into A0.
func NextAddress(word Signal, lines Lines) (addr uint16) {
	addr = word.NextAddress()
	if word.Cond().Evaluate(lines) {
		addr |= 1
	}

	if word.Has(MDEC) {
		addr |= lines.Instruction.Block() << 5
	}

	return
}
