package disasm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestMnemonic(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   *chip8.Instruction
	}{
		{0x00E0, chip8.ClsInst},
		{0x00EE, chip8.RetInst},
		{0x1234, chip8.JpInst},
		{0x2300, chip8.CallInst},
		{0x3A12, chip8.SeInst},
		{0x9AB0, chip8.SneInst},
		{0x6A12, chip8.LdInst},
		{0x7A12, chip8.AddInst},
		{0x8AB1, chip8.OrInst},
		{0x8AB2, chip8.AndInst},
		{0x8AB3, chip8.XorInst},
		{0x8AB5, chip8.SubInst},
		{0x8AB7, chip8.SubnInst},
		{0x8AB6, chip8.ShrInst},
		{0x8ABE, chip8.ShlInst},
		{0xCA0F, chip8.RndInst},
		{0xDAB5, chip8.DrwInst},
		{0xEA9E, chip8.SkpInst},
		{0xEAA1, chip8.SknpInst},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want.Name, Mnemonic(tt.opcode))
	}
}

func TestMnemonic_Invalid(t *testing.T) {
	for _, opcode := range []uint16{0x0000, 0x0123, 0x5AB1, 0x8AB9, 0xE000, 0xF0FF} {
		assert.Equal(t, "", Mnemonic(opcode))
	}
}

func TestInstruction(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   string
	}{
		{0x00E0, "200  00E0  " + chip8.ClsInst.Name},
		{0x1234, "200  1234  " + chip8.JpInst.Name + " $234"},
		{0x2300, "200  2300  " + chip8.CallInst.Name + " $300"},
		{0xB3A0, "200  B3A0  " + chip8.JpInst.Name + " V0, $3A0"},
		{0x3A12, "200  3A12  " + chip8.SeInst.Name + " VA, $12"},
		{0x5AB0, "200  5AB0  " + chip8.SeInst.Name + " VA, VB"},
		{0x8AB4, "200  8AB4  " + chip8.AddInst.Name + " VA, VB"},
		{0x8A06, "200  8A06  " + chip8.ShrInst.Name + " VA"},
		{0xA2F0, "200  A2F0  " + chip8.LdInst.Name + " I, $2F0"},
		{0xD125, "200  D125  " + chip8.DrwInst.Name + " V1, V2, $5"},
		{0xE39E, "200  E39E  " + chip8.SkpInst.Name + " V3"},
		{0x5AB1, "200  5AB1  dw $5AB1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Instruction(0x200, tt.opcode).String())
	}
}

func TestInstruction_MiscOperands(t *testing.T) {
	tests := []struct {
		opcode   uint16
		operands string
	}{
		{0xF307, "V3, DT"},
		{0xF30A, "V3, K"},
		{0xF315, "DT, V3"},
		{0xF318, "ST, V3"},
		{0xF31E, "I, V3"},
		{0xF329, "F, V3"},
		{0xF333, "B, V3"},
		{0xF355, "[I], V3"},
		{0xF365, "V3, [I]"},
	}

	for _, tt := range tests {
		line := Instruction(0x300, tt.opcode)
		assert.Equal(t, tt.operands, line.Operands)
		assert.False(t, line.Mnemonic == "")
	}
}

func TestROM(t *testing.T) {
	lines := ROM([]byte{0x00, 0xE0, 0x12, 0x00, 0xAB})
	assert.Equal(t, 3, len(lines))

	assert.Equal(t, uint16(0x200), lines[0].Address)
	assert.Equal(t, uint16(0x202), lines[1].Address)
	assert.Equal(t, uint16(0x1200), lines[1].Opcode)

	// odd trailing byte
	assert.Equal(t, uint16(0x204), lines[2].Address)
	assert.Equal(t, uint16(0xAB00), lines[2].Opcode)
	assert.Equal(t, "", lines[2].Mnemonic)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, []byte{0x00, 0xE0, 0x00, 0xEE}))

	out := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 2, len(out))
	assert.Equal(t, "200  00E0  "+chip8.ClsInst.Name, out[0])
	assert.Equal(t, "202  00EE  "+chip8.RetInst.Name, out[1])
}

func TestInstruction_MatchesMnemonic(t *testing.T) {
	for opcode := range 0x10000 {
		line := Instruction(0x200, uint16(opcode))
		assert.Equal(t, Mnemonic(uint16(opcode)), line.Mnemonic)
	}
}
