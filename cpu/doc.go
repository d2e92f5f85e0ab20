// Package cpu implements the microprogrammed control unit of the Minirechner 2a.
//
// Every micro-cycle the control store word at the current control address
// drives the data path: two register file read ports, the ALU operand and
// function selects, a bus cycle, the register file write port and the flag
// register. The next control address is the word's NA field, with one
// condition bit (a flag, the interrupt line or an opcode bit) ORed into A0
// and, under MDEC, the opcode block of the instruction register in A8..A5.
//
// The fixed microprogram realises the machine's instruction set on top of
// these lines; see Microcode.
package cpu
