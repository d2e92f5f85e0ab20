package cpu

import (
	"github.com/ezrec/mr2a/alu"
)

const (
	CONTROL_STORE_SIZE = 512 // Control store words, A8..A0.
	BLOCK_SIZE         = 32  // Words per opcode block, A4..A0.

	ADDR_RESET = 0  // Reset microcode entry.
	ADDR_FETCH = 8  // Fetch entry; an instruction has retired when control returns here.
	ADDR_ENTRY = 16 // Row of each block that the fetch dispatches to.

	INTERRUPT_VECTOR = 0x02 // Program address of the interrupt handler.
	STACK_TOP        = 0xf0 // Stack pointer after reset.
)

// Table is a complete control store.
type Table [CONTROL_STORE_SIZE]Signal

// microcode is the fixed microprogram. It is built once and never written.
var microcode = buildMicrocode()

// Microcode returns a copy of the fixed microprogram.
func Microcode() Table {
	return microcode
}

// at returns the control address of a row in an opcode block.
func at(block int, row int) int {
	return block*BLOCK_SIZE + row
}

// Frequently used words.
var (
	next_fetch = na(ADDR_FETCH)                                                           // Return to the fetch entry.
	pc_inc     = rga(REG_PC) | MALUIB | fn(alu.ADD1) | MRGWE                              // PC <- PC + 1
	sp_inc     = rga(REG_SP) | MALUIB | fn(alu.ADD1) | MRGWE                              // SP <- SP + 1
	sp_dec     = rga(REG_SP) | MALUIB | fn(alu.SUBB) | MRGWE                              // SP <- SP - 1
	r7_imm     = BUSEN | rga(REG_PC) | MALUIA | fn(alu.PASSA) | rgb(REG_R7) | MRGWE | MRGWS // R7 <- (PC)
	pc_r7      = rga(REG_R7) | fn(alu.PASSA) | rgb(REG_PC) | MRGWE | MRGWS                // PC <- R7
	r7_rb      = rga(REG_R7) | fn(alu.PASSB) | MRGWE                                      // R7 <- Rb
	rb_r7      = rga(REG_R7) | MRGWE | MRGWS | MCHFLG                                     // Rb <- f(R7), with flags
)

func buildMicrocode() (table Table) {
	stay := func(row int) Signal { return MDEC | na(row) }

	// Reset: PC <- 0, FR <- 0, SP <- 0xf0.
	table[at(0x0, 0)] = rga(REG_PC) | fn(alu.ZERO) | MRGWE | na(1)
	table[at(0x0, 1)] = rga(REG_FR) | fn(alu.ZERO) | MRGWE | na(2)
	table[at(0x0, 2)] = rga(REG_PC) | MALUIB | fn(alu.NOR) | rgb(REG_SP) | MRGWE | MRGWS | na(3)
	table[at(0x0, 3)] = rga(REG_SP) | fn(alu.LSR) | rgb(REG_R7) | MRGWE | MRGWS | na(4)
	table[at(0x0, 4)] = rga(REG_R7) | fn(alu.LSR) | MRGWE | na(5)
	table[at(0x0, 5)] = rga(REG_R7) | fn(alu.LSR) | MRGWE | na(6)
	table[at(0x0, 6)] = rga(REG_R7) | fn(alu.LSR) | MRGWE | na(7)
	table[at(0x0, 7)] = rga(REG_R7) | MALUIB | fn(alu.NOR) | rgb(REG_SP) | MRGWE | MRGWS | next_fetch

	// Fetch: take a pending interrupt, otherwise load IR from (PC), PC++
	// and dispatch to the opcode's block.
	table[at(0x0, ADDR_FETCH)] = mac(COND_INTERRUPT) | na(10)
	table[at(0x0, 10)] = BUSEN | MIRLD | pc_inc | stay(ADDR_ENTRY)

	// Interrupt entry: push PC, push FR, FR <- 0, PC <- INTERRUPT_VECTOR.
	table[at(0x0, 11)] = sp_dec | na(12)
	table[at(0x0, 12)] = BUSEN | BUSWR | rga(REG_SP) | rgb(REG_PC) | fn(alu.PASSB) | na(13)
	table[at(0x0, 13)] = sp_dec | na(14)
	table[at(0x0, 14)] = BUSEN | BUSWR | rga(REG_SP) | rgb(REG_FR) | fn(alu.PASSB) | na(15)
	table[at(0x0, 15)] = rga(REG_FR) | fn(alu.ZERO) | MRGWE | na(17)
	table[at(0x0, 17)] = rga(REG_FR) | MALUIB | fn(alu.ADD1) | rgb(REG_PC) | MRGWE | MRGWS | na(18)
	table[at(0x0, 18)] = pc_inc | next_fetch

	// 0x0_ MOV Rb,Ra
	table[at(0x0, ADDR_ENTRY)] = fn(alu.PASSA) | MRGWE | MRGWS | next_fetch

	// 0x1_ LDI Rb,n
	table[at(0x1, ADDR_ENTRY)] = BUSEN | rga(REG_PC) | MALUIA | fn(alu.PASSA) | MRGWE | MRGWS | stay(17)
	table[at(0x1, 17)] = pc_inc | next_fetch

	// 0x2_ LD Rb,(Ra)
	table[at(0x2, ADDR_ENTRY)] = BUSEN | MALUIA | fn(alu.PASSA) | MRGWE | MRGWS | next_fetch

	// 0x3_ ST (Ra),Rb
	table[at(0x3, ADDR_ENTRY)] = BUSEN | BUSWR | fn(alu.PASSB) | next_fetch

	// 0x4_ LD Rb,(n)
	table[at(0x4, ADDR_ENTRY)] = r7_imm | stay(17)
	table[at(0x4, 17)] = pc_inc | stay(18)
	table[at(0x4, 18)] = BUSEN | rga(REG_R7) | MALUIA | fn(alu.PASSA) | MRGWE | MRGWS | next_fetch

	// 0x5_ ST (n),Rb
	table[at(0x5, ADDR_ENTRY)] = r7_imm | stay(17)
	table[at(0x5, 17)] = pc_inc | stay(18)
	table[at(0x5, 18)] = BUSEN | BUSWR | rga(REG_R7) | fn(alu.PASSB) | next_fetch

	// 0x6_ ADD Rb,Ra and 0x7_ ADC Rb,Ra
	table[at(0x6, ADDR_ENTRY)] = fn(alu.ADD) | MRGWE | MRGWS | MCHFLG | next_fetch
	table[at(0x7, ADDR_ENTRY)] = fn(alu.ADC) | MRGWE | MRGWS | MCHFLG | next_fetch

	// 0x8_ SUB Rb,Ra: R7 <- ~Ra, Rb <- Rb + R7 + 1
	table[at(0x8, ADDR_ENTRY)] = MALUIB | fn(alu.NOR) | rgb(REG_R7) | MRGWE | MRGWS | stay(17)
	table[at(0x8, 17)] = rga(REG_R7) | fn(alu.ADD1) | MRGWE | MRGWS | MCHFLG | next_fetch

	// 0x9_ AND Rb,Ra
	table[at(0x9, ADDR_ENTRY)] = fn(alu.AND) | MRGWE | MRGWS | MCHFLG | next_fetch

	// 0xA_ OR Rb,Ra: Rb <- NOR(Ra, Rb), then Rb <- NOR(Rb, 0)
	table[at(0xa, ADDR_ENTRY)] = fn(alu.NOR) | MRGWE | MRGWS | stay(17)
	table[at(0xa, 17)] = r7_rb | stay(18)
	table[at(0xa, 18)] = rb_r7 | MALUIB | fn(alu.NOR) | next_fetch

	// 0xB_ XOR Rb,Ra: NOR(NOR(Ra, Rb), AND(Ra, Rb))
	table[at(0xb, ADDR_ENTRY)] = fn(alu.PASSA) | rgb(REG_R7) | MRGWE | MRGWS | stay(17)
	table[at(0xb, 17)] = rga(REG_R7) | fn(alu.AND) | MRGWE | stay(18)
	table[at(0xb, 18)] = fn(alu.NOR) | MRGWE | MRGWS | stay(19)
	table[at(0xb, 19)] = rb_r7 | fn(alu.NOR) | next_fetch

	// 0xC_ INC/DEC/NOT/NEG Rb and 0xD_ LSR/ROR/RRC/ASR Rb.
	// R7 <- Rb while dispatching on OP11, OP10.
	for _, block := range []int{0xc, 0xd} {
		table[at(block, ADDR_ENTRY)] = r7_rb | mac(COND_OP11) | stay(18)
		table[at(block, 18)] = mac(COND_OP10) | stay(20)
		table[at(block, 19)] = mac(COND_OP10) | stay(22)
	}
	table[at(0xc, 20)] = rb_r7 | MALUIB | fn(alu.ADD1) | next_fetch
	table[at(0xc, 21)] = rb_r7 | MALUIB | fn(alu.SUBB) | next_fetch
	table[at(0xc, 22)] = rb_r7 | MALUIB | fn(alu.NOR) | next_fetch
	table[at(0xc, 23)] = rga(REG_R7) | MALUIB | fn(alu.NOR) | MRGWE | stay(24)
	table[at(0xc, 24)] = rb_r7 | MALUIB | fn(alu.ADD1) | next_fetch
	table[at(0xd, 20)] = rb_r7 | fn(alu.LSR) | next_fetch
	table[at(0xd, 21)] = rb_r7 | fn(alu.ROR) | next_fetch
	table[at(0xd, 22)] = rb_r7 | fn(alu.RRC) | next_fetch
	table[at(0xd, 23)] = rb_r7 | fn(alu.ASR) | next_fetch

	// 0xE_ JMP/CALL, JC/JNC, JZ/JNZ, JN/JNN n
	// R7 <- target, PC++ past it, then branch on OP11, OP10, the flag and OP00.
	table[at(0xe, ADDR_ENTRY)] = r7_imm | mac(COND_OP11) | stay(18)
	table[at(0xe, 18)] = pc_inc | mac(COND_OP10) | stay(20)
	table[at(0xe, 19)] = pc_inc | mac(COND_OP10) | stay(22)
	table[at(0xe, 20)] = mac(COND_OP00) | stay(24)
	table[at(0xe, 21)] = mac(COND_CARRY) | stay(26)
	table[at(0xe, 22)] = mac(COND_ZERO) | stay(28)
	table[at(0xe, 23)] = mac(COND_NEGATIVE) | stay(30)
	table[at(0xe, 24)] = pc_r7 | next_fetch
	table[at(0xe, 25)] = sp_dec | stay(4)
	table[at(0xe, 4)] = BUSEN | BUSWR | rga(REG_SP) | rgb(REG_PC) | fn(alu.PASSB) | stay(5)
	table[at(0xe, 5)] = pc_r7 | next_fetch
	for _, row := range []int{26, 28, 30} {
		// Flag clear: OP00 (negated) takes the branch.
		table[at(0xe, row)] = mac(COND_OP00) | stay(0)
		// Flag set: OP00 (negated) skips the branch.
		table[at(0xe, row+1)] = mac(COND_OP00) | stay(2)
	}
	table[at(0xe, 0)] = next_fetch
	table[at(0xe, 1)] = pc_r7 | next_fetch
	table[at(0xe, 2)] = pc_r7 | next_fetch
	table[at(0xe, 3)] = next_fetch

	// 0xF_ PUSH Rb, POP Rb, RET/RETI/EI/DI, NOP/HALT/SEC/CLC
	table[at(0xf, ADDR_ENTRY)] = mac(COND_OP11) | stay(18)
	table[at(0xf, 18)] = mac(COND_OP10) | stay(20)
	table[at(0xf, 19)] = mac(COND_OP10) | stay(22)
	table[at(0xf, 20)] = sp_dec | stay(24)
	table[at(0xf, 24)] = BUSEN | BUSWR | rga(REG_SP) | fn(alu.PASSB) | next_fetch
	table[at(0xf, 21)] = BUSEN | rga(REG_SP) | MALUIA | fn(alu.PASSA) | MRGWE | MRGWS | stay(25)
	table[at(0xf, 25)] = sp_inc | next_fetch
	table[at(0xf, 22)] = mac(COND_OP01) | stay(26)
	table[at(0xf, 23)] = mac(COND_OP01) | stay(28)
	table[at(0xf, 26)] = mac(COND_OP00) | stay(0)
	table[at(0xf, 27)] = mac(COND_OP00) | stay(2)
	table[at(0xf, 28)] = mac(COND_OP00) | stay(30)
	table[at(0xf, 29)] = mac(COND_OP00) | stay(4)

	// RET: PC <- (SP), SP++. RETI pops FR first, then continues as RET.
	table[at(0xf, 0)] = BUSEN | rga(REG_SP) | MALUIA | fn(alu.PASSA) | rgb(REG_PC) | MRGWE | MRGWS | stay(6)
	table[at(0xf, 6)] = sp_inc | next_fetch
	table[at(0xf, 1)] = BUSEN | rga(REG_SP) | MALUIA | fn(alu.PASSA) | rgb(REG_FR) | MRGWE | MRGWS | stay(7)
	table[at(0xf, 7)] = sp_inc | stay(0)

	// EI, DI: R7 <- FLAG_IE by doubling 1 three times, then set or clear it in FR.
	table[at(0xf, 2)] = rga(REG_R7) | fn(alu.ZERO) | MRGWE | stay(8)
	table[at(0xf, 3)] = rga(REG_R7) | fn(alu.ZERO) | MRGWE | stay(8)
	table[at(0xf, 8)] = rga(REG_R7) | MALUIB | fn(alu.ADD1) | MRGWE | stay(9)
	table[at(0xf, 9)] = rga(REG_R7) | rgb(REG_R7) | fn(alu.ADD) | MRGWE | stay(10)
	table[at(0xf, 10)] = rga(REG_R7) | rgb(REG_R7) | fn(alu.ADD) | MRGWE | stay(11)
	table[at(0xf, 11)] = rga(REG_R7) | rgb(REG_R7) | fn(alu.ADD) | MRGWE | mac(COND_OP00) | stay(12)
	table[at(0xf, 12)] = rga(REG_FR) | rgb(REG_R7) | fn(alu.NOR) | MRGWE | stay(14)
	table[at(0xf, 14)] = rga(REG_FR) | MALUIB | fn(alu.NOR) | MRGWE | next_fetch
	table[at(0xf, 13)] = rga(REG_R7) | MALUIB | fn(alu.NOR) | MRGWE | stay(15)
	table[at(0xf, 15)] = rga(REG_FR) | rgb(REG_R7) | fn(alu.AND) | MRGWE | next_fetch

	// SEC sets carry; CLC sets it, then inverts it.
	table[at(0xf, 4)] = MALUIB | fn(alu.SETC) | MCHFLG | next_fetch
	table[at(0xf, 5)] = MALUIB | fn(alu.SETC) | MCHFLG | stay(17)
	table[at(0xf, 17)] = MALUIB | fn(alu.INVC) | MCHFLG | next_fetch

	// NOP returns to fetch. HALT spins on its own row driving nothing.
	table[at(0xf, 30)] = next_fetch
	table[at(0xf, 31)] = stay(31)

	return
}
