package cpu

import (
	"fmt"
)

// Instruction is an opcode byte as held by the instruction register.
type Instruction uint8

// Instruction register lines.
const (
	OP00 = Instruction(1 << 0) // Destination register, bit 0
	OP01 = Instruction(1 << 1) // Destination register, bit 1
	OP10 = Instruction(1 << 2) // Source register, bit 0
	OP11 = Instruction(1 << 3) // Source register, bit 1
	A5   = Instruction(1 << 4) // Control address, bit 5
	A6   = Instruction(1 << 5) // Control address, bit 6
	A7   = Instruction(1 << 6) // Control address, bit 7
	A8   = Instruction(1 << 7) // Control address, bit 8

	INSTRUCTION_RESET = OP01 // Instruction register power-on value.
)

// Has returns true if all of the lines in flags are set.
func (ins Instruction) Has(flags Instruction) bool {
	return (ins & flags) == flags
}

// Block returns A8..A5, the 32 word microprogram block of the opcode.
func (ins Instruction) Block() uint16 {
	return uint16(ins>>4) & 0xf
}

// RegA returns OP11..OP10, the register selected on port A.
func (ins Instruction) RegA() uint8 {
	return uint8(ins>>2) & 0x3
}

// RegB returns OP01..OP00, the register selected on port B.
func (ins Instruction) RegB() uint8 {
	return uint8(ins) & 0x3
}

var regNames = [4]string{"R0", "R1", "R2", "PC"}

var binaryNames = [16]string{
	0x0: "MOV",
	0x6: "ADD",
	0x7: "ADC",
	0x8: "SUB",
	0x9: "AND",
	0xa: "OR",
	0xb: "XOR",
}

var unaryNames = [2][4]string{
	{"INC", "DEC", "NOT", "NEG"},
	{"LSR", "ROR", "RRC", "ASR"},
}

var jumpNames = [4][2]string{
	{"JMP", "CALL"},
	{"JC", "JNC"},
	{"JZ", "JNZ"},
	{"JN", "JNN"},
}

var systemNames = [2][4]string{
	{"RET", "RETI", "EI", "DI"},
	{"NOP", "HALT", "SEC", "CLC"},
}

// String disassembles the opcode. Operand bytes that follow the opcode in
// memory are shown as 'n'.
func (ins Instruction) String() (text string) {
	ra := regNames[ins.RegA()]
	rb := regNames[ins.RegB()]

	switch op := ins.Block(); op {
	case 0x0:
		if ins == 0x0f {
			text = "NOP"
		} else {
			text = fmt.Sprintf("MOV %v,%v", rb, ra)
		}
	case 0x1:
		text = fmt.Sprintf("LDI %v,n", rb)
	case 0x2:
		text = fmt.Sprintf("LD %v,(%v)", rb, ra)
	case 0x3:
		text = fmt.Sprintf("ST (%v),%v", ra, rb)
	case 0x4:
		text = fmt.Sprintf("LD %v,(n)", rb)
	case 0x5:
		text = fmt.Sprintf("ST (n),%v", rb)
	case 0x6, 0x7, 0x8, 0x9, 0xa, 0xb:
		text = fmt.Sprintf("%v %v,%v", binaryNames[op], rb, ra)
	case 0xc, 0xd:
		text = fmt.Sprintf("%v %v", unaryNames[op-0xc][ins.RegA()], rb)
	case 0xe:
		text = fmt.Sprintf("%v n", jumpNames[ins.RegA()][ins&OP00])
	case 0xf:
		switch kind := ins.RegA(); kind {
		case 0:
			text = fmt.Sprintf("PUSH %v", rb)
		case 1:
			text = fmt.Sprintf("POP %v", rb)
		default:
			text = systemNames[kind-2][ins.RegB()]
		}
	}

	return
}

// InstructionRegister holds the opcode being executed.
type InstructionRegister struct {
	value Instruction
}

// NewInstructionRegister returns an instruction register holding the
// power-on value.
func NewInstructionRegister() (ir InstructionRegister) {
	ir.Reset()
	return
}

// Get the held instruction.
func (ir *InstructionRegister) Get() Instruction {
	return ir.value
}

// GetRaw gets the held instruction as a byte.
func (ir *InstructionRegister) GetRaw() uint8 {
	return uint8(ir.value)
}

// Set the held instruction.
func (ir *InstructionRegister) Set(ins Instruction) {
	ir.value = ins
}

// SetRaw sets the held instruction from a byte.
func (ir *InstructionRegister) SetRaw(value uint8) {
	ir.value = Instruction(value)
}

// Reset restores the power-on value.
func (ir *InstructionRegister) Reset() {
	ir.value = INSTRUCTION_RESET
}
