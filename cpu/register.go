package cpu

// Register file cell indexes.
const (
	REG_R0 = 0 // General purpose
	REG_R1 = 1 // General purpose
	REG_R2 = 2 // General purpose
	REG_PC = 3 // Program counter
	REG_FR = 4 // Flag register
	REG_SP = 5 // Stack pointer
	REG_R6 = 6 // General purpose
	REG_R7 = 7 // General purpose, microprogram scratch
)

// Flag register bits.
const (
	FLAG_CARRY    = uint8(1 << 0) // Carry
	FLAG_ZERO     = uint8(1 << 1) // Zero
	FLAG_NEGATIVE = uint8(1 << 2) // Negative
	FLAG_IE       = uint8(1 << 3) // Interrupt enable

	FLAG_ALU = FLAG_CARRY | FLAG_ZERO | FLAG_NEGATIVE // Flags written by MCHFLG.
)

// RegisterFile is the dual read port, single write port register file.
type RegisterFile struct {
	Register [8]uint8
}

// AddressA resolves the port A register address for a cycle.
func (rf *RegisterFile) AddressA(ins Instruction, word Signal) (addr uint8) {
	if word.Has(MRGAA3) {
		return word.RegA()
	}

	return (word.RegA() & 0x4) | ins.RegA()
}

// AddressB resolves the port B register address for a cycle.
func (rf *RegisterFile) AddressB(ins Instruction, word Signal) (addr uint8) {
	if word.Has(MRGAB3) {
		return word.RegB()
	}

	return (word.RegB() & 0x4) | ins.RegB()
}

// ReadPortA reads the register selected on port A.
func (rf *RegisterFile) ReadPortA(ins Instruction, word Signal) uint8 {
	return rf.Register[rf.AddressA(ins, word)]
}

// ReadPortB reads the register selected on port B.
func (rf *RegisterFile) ReadPortB(ins Instruction, word Signal) uint8 {
	return rf.Register[rf.AddressB(ins, word)]
}

// Read a register cell.
func (rf *RegisterFile) Read(addr uint8) uint8 {
	return rf.Register[addr&0x7]
}

// Write a register cell.
func (rf *RegisterFile) Write(addr uint8, value uint8) {
	rf.Register[addr&0x7] = value
}

// Flags returns the flag register.
func (rf *RegisterFile) Flags() uint8 {
	return rf.Register[REG_FR]
}

// SetFlags updates the ALU flags, preserving the other flag register bits.
func (rf *RegisterFile) SetFlags(carry, zero, negative bool) {
	flags := rf.Register[REG_FR] &^ FLAG_ALU
	if carry {
		flags |= FLAG_CARRY
	}
	if zero {
		flags |= FLAG_ZERO
	}
	if negative {
		flags |= FLAG_NEGATIVE
	}
	rf.Register[REG_FR] = flags
}

// Reset clears all registers.
func (rf *RegisterFile) Reset() {
	clear(rf.Register[:])
}
