// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package alu implements the combinational arithmetic-logic unit of the
// Minirechner 2a.
package alu

// Function is the 4-bit ALU function selector (MALUS3..MALUS0).
type Function int

//go:generate go tool stringer -type=Function
const (
	ADD   = Function(0x0) // A + B
	ADC   = Function(0x1) // A + B + Cin
	ADD1  = Function(0x2) // A + B + 1
	ADDNC = Function(0x3) // A + B + !Cin
	PASSA = Function(0x4) // A
	PASSB = Function(0x5) // B
	NOR   = Function(0x6) // ^(A | B)
	ZERO  = Function(0x7) // 0
	LSR   = Function(0x8) // A >> 1, Cout = A[0]
	ROR   = Function(0x9) // A rotated right, Cout = A[0]
	RRC   = Function(0xa) // A >> 1 with Cin into bit 7, Cout = A[0]
	ASR   = Function(0xb) // A >> 1 keeping bit 7, Cout = A[0]
	SETC  = Function(0xc) // B, Cout = 1
	INVC  = Function(0xd) // B, Cout = !Cin
	AND   = Function(0xe) // A & B
	SUBB  = Function(0xf) // A + ^B, which is A - B - 1
)

// Alu has no state; the zero value is ready to use.
type Alu struct{}

// Evaluate computes the ALU outputs for one set of inputs.
func (Alu) Evaluate(carry bool, a, b uint8, fn Function) (result uint8, carry_out, zero, negative bool) {
	cin := uint16(0)
	if carry {
		cin = 1
	}

	// Adder paths work on 9 bits, bit 8 is the carry out.
	sum := func(x, y, c uint16) {
		total := x + y + c
		result = uint8(total)
		carry_out = total > 0xff
	}

	switch fn & 0xf {
	case ADD:
		sum(uint16(a), uint16(b), 0)
	case ADC:
		sum(uint16(a), uint16(b), cin)
	case ADD1:
		sum(uint16(a), uint16(b), 1)
	case ADDNC:
		sum(uint16(a), uint16(b), cin^1)
	case PASSA:
		result = a
	case PASSB:
		result = b
	case NOR:
		result = ^(a | b)
	case ZERO:
		result = 0
	case LSR:
		result = a >> 1
		carry_out = (a & 1) != 0
	case ROR:
		result = (a >> 1) | (a << 7)
		carry_out = (a & 1) != 0
	case RRC:
		result = (a >> 1) | uint8(cin<<7)
		carry_out = (a & 1) != 0
	case ASR:
		result = (a >> 1) | (a & 0x80)
		carry_out = (a & 1) != 0
	case SETC:
		result = b
		carry_out = true
	case INVC:
		result = b
		carry_out = !carry
	case AND:
		result = a & b
	case SUBB:
		sum(uint16(a), uint16(^b), 0)
	}

	zero = result == 0
	negative = (result & 0x80) != 0

	return
}
