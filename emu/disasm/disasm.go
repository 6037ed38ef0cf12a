// Package disasm renders CHIP-8 opcodes as assembly text.
package disasm

import (
	"fmt"
	"io"
	"strings"

	"chip8emu/emu/cpu"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Line is one disassembled word of a ROM.
type Line struct {
	Address  uint16
	Opcode   uint16
	Mnemonic string // empty for words that are not instructions
	Operands string
}

func (l Line) String() string {
	switch {
	case l.Mnemonic == "":
		return fmt.Sprintf("%03X  %04X  dw $%04X", l.Address, l.Opcode, l.Opcode)
	case l.Operands == "":
		return fmt.Sprintf("%03X  %04X  %s", l.Address, l.Opcode, l.Mnemonic)
	default:
		return fmt.Sprintf("%03X  %04X  %s %s", l.Address, l.Opcode, l.Mnemonic, l.Operands)
	}
}

// Instruction disassembles a single opcode located at address.
func Instruction(address, opcode uint16) Line {
	line := Line{Address: address, Opcode: opcode}

	ins, ok := cpu.Decode(opcode)
	if !ok {
		return line
	}
	line.Mnemonic = mnemonic(opcode, ins)
	line.Operands = operands(ins)
	return line
}

// Mnemonic returns the instruction name of opcode, or an empty string if it
// is not an instruction.
func Mnemonic(opcode uint16) string {
	ins, ok := cpu.Decode(opcode)
	if !ok {
		return ""
	}
	return mnemonic(opcode, ins)
}

func mnemonic(opcode uint16, ins cpu.Instruction) string {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			return op.Instruction.Name
		}
	}
	return strings.ToLower(ins.Op.String())
}

// ROM disassembles rom linearly, word by word, as loaded at
// cpu.ProgramStart. A trailing odd byte is emitted as a data word padded
// with zero.
func ROM(rom []byte) []Line {
	lines := make([]Line, 0, (len(rom)+1)/2)
	for offset := 0; offset < len(rom); offset += 2 {
		opcode := uint16(rom[offset]) << 8
		address := uint16(cpu.ProgramStart + offset)
		if offset+1 >= len(rom) {
			lines = append(lines, Line{Address: address, Opcode: opcode})
			break
		}
		opcode |= uint16(rom[offset+1])
		lines = append(lines, Instruction(address, opcode))
	}
	return lines
}

// Write prints the disassembly of rom to w, one line per word.
func Write(w io.Writer, rom []byte) error {
	for _, line := range ROM(rom) {
		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return errors.Wrap(err, "writing disassembly")
		}
	}
	return nil
}

func operands(ins cpu.Instruction) string {
	switch ins.Op {
	case cpu.OpCLS, cpu.OpRET:
		return ""
	case cpu.OpJP, cpu.OpCALL:
		return fmt.Sprintf("$%03X", ins.NNN)
	case cpu.OpJPV0:
		return fmt.Sprintf("V0, $%03X", ins.NNN)
	case cpu.OpSEImm, cpu.OpSNEImm, cpu.OpLDImm, cpu.OpADDImm, cpu.OpRND:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)
	case cpu.OpSEReg, cpu.OpSNEReg, cpu.OpLDReg, cpu.OpOR, cpu.OpAND, cpu.OpXOR,
		cpu.OpADDReg, cpu.OpSUB, cpu.OpSUBN:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case cpu.OpSHR, cpu.OpSHL, cpu.OpSKP, cpu.OpSKNP:
		return fmt.Sprintf("V%X", ins.X)
	case cpu.OpLDI:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	case cpu.OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case cpu.OpLDVxDT:
		return fmt.Sprintf("V%X, DT", ins.X)
	case cpu.OpLDVxK:
		return fmt.Sprintf("V%X, K", ins.X)
	case cpu.OpLDDTVx:
		return fmt.Sprintf("DT, V%X", ins.X)
	case cpu.OpLDSTVx:
		return fmt.Sprintf("ST, V%X", ins.X)
	case cpu.OpADDI:
		return fmt.Sprintf("I, V%X", ins.X)
	case cpu.OpLDF:
		return fmt.Sprintf("F, V%X", ins.X)
	case cpu.OpLDB:
		return fmt.Sprintf("B, V%X", ins.X)
	case cpu.OpLDMemVx:
		return fmt.Sprintf("[I], V%X", ins.X)
	case cpu.OpLDVxMem:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}
