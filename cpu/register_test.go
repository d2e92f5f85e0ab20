package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterFile_Ports(t *testing.T) {
	assert := assert.New(t)

	rf := RegisterFile{}
	for n := range rf.Register {
		rf.Register[n] = uint8(0x10 + n)
	}

	table := [](struct {
		name   string
		ins    Instruction
		word   Signal
		addr_a uint8
		addr_b uint8
	}){
		{"opcode", 0x89, 0, REG_R2, REG_R1},
		{"opcode_high", 0x89, MRGAA2 | MRGAB2, REG_R2 | 4, REG_R1 | 4},
		{"direct", 0x89, rga(REG_SP) | rgb(REG_PC), REG_SP, REG_PC},
		{"mixed", 0x0f, rga(REG_R7), REG_R7, REG_PC},
	}

	for _, entry := range table {
		assert.Equal(entry.addr_a, rf.AddressA(entry.ins, entry.word), entry.name)
		assert.Equal(entry.addr_b, rf.AddressB(entry.ins, entry.word), entry.name)
		assert.Equal(0x10+entry.addr_a, rf.ReadPortA(entry.ins, entry.word), entry.name)
		assert.Equal(0x10+entry.addr_b, rf.ReadPortB(entry.ins, entry.word), entry.name)
	}
}

func TestRegisterFile_Flags(t *testing.T) {
	assert := assert.New(t)

	rf := RegisterFile{}
	rf.Write(REG_FR, FLAG_IE|FLAG_ZERO)

	rf.SetFlags(true, false, true)
	assert.Equal(FLAG_IE|FLAG_CARRY|FLAG_NEGATIVE, rf.Flags())

	rf.SetFlags(false, true, false)
	assert.Equal(FLAG_IE|FLAG_ZERO, rf.Flags())

	rf.Write(REG_FR|8, 0)
	assert.Equal(uint8(0), rf.Read(REG_FR))

	rf.Write(REG_R7, 0x55)
	rf.Reset()
	assert.Equal([8]uint8{}, rf.Register)
}
