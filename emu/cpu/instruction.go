package cpu

// Op identifies one instruction shape.
type Op uint8

const (
	OpInvalid Op = iota
	OpCLS        // 00E0
	OpRET        // 00EE
	OpJP         // 1NNN
	OpCALL       // 2NNN
	OpSEImm      // 3XNN
	OpSNEImm     // 4XNN
	OpSEReg      // 5XY0
	OpLDImm      // 6XNN
	OpADDImm     // 7XNN
	OpLDReg      // 8XY0
	OpOR         // 8XY1
	OpAND        // 8XY2
	OpXOR        // 8XY3
	OpADDReg     // 8XY4
	OpSUB        // 8XY5
	OpSHR        // 8XY6
	OpSUBN       // 8XY7
	OpSHL        // 8XYE
	OpSNEReg     // 9XY0
	OpLDI        // ANNN
	OpJPV0       // BNNN
	OpRND        // CXNN
	OpDRW        // DXYN
	OpSKP        // EX9E
	OpSKNP       // EXA1
	OpLDVxDT     // FX07
	OpLDVxK      // FX0A
	OpLDDTVx     // FX15
	OpLDSTVx     // FX18
	OpADDI       // FX1E
	OpLDF        // FX29
	OpLDB        // FX33
	OpLDMemVx    // FX55
	OpLDVxMem    // FX65
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpCLS:     "CLS",
	OpRET:     "RET",
	OpJP:      "JP",
	OpCALL:    "CALL",
	OpSEImm:   "SE",
	OpSNEImm:  "SNE",
	OpSEReg:   "SE",
	OpLDImm:   "LD",
	OpADDImm:  "ADD",
	OpLDReg:   "LD",
	OpOR:      "OR",
	OpAND:     "AND",
	OpXOR:     "XOR",
	OpADDReg:  "ADD",
	OpSUB:     "SUB",
	OpSHR:     "SHR",
	OpSUBN:    "SUBN",
	OpSHL:     "SHL",
	OpSNEReg:  "SNE",
	OpLDI:     "LD",
	OpJPV0:    "JP",
	OpRND:     "RND",
	OpDRW:     "DRW",
	OpSKP:     "SKP",
	OpSKNP:    "SKNP",
	OpLDVxDT:  "LD",
	OpLDVxK:   "LD",
	OpLDDTVx:  "LD",
	OpLDSTVx:  "LD",
	OpADDI:    "ADD",
	OpLDF:     "LD",
	OpLDB:     "LD",
	OpLDMemVx: "LD",
	OpLDVxMem: "LD",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpInvalid]
}

// Instruction is a decoded opcode. Only the fields used by Op are
// meaningful.
type Instruction struct {
	Op  Op
	X   uint8
	Y   uint8
	N   uint8
	NN  uint8
	NNN uint16
}

// Decode splits opcode into its fields and identifies its shape. It
// reports false for opcodes that match no instruction.
func Decode(opcode uint16) (Instruction, bool) {
	ins := Instruction{
		X:   uint8((opcode & 0x0F00) >> 8),
		Y:   uint8((opcode & 0x00F0) >> 4),
		N:   uint8(opcode & 0x000F),
		NN:  uint8(opcode & 0x00FF),
		NNN: opcode & 0x0FFF,
	}

	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			ins.Op = OpCLS
		case 0x00EE:
			ins.Op = OpRET
		}
	case 0x1000:
		ins.Op = OpJP
	case 0x2000:
		ins.Op = OpCALL
	case 0x3000:
		ins.Op = OpSEImm
	case 0x4000:
		ins.Op = OpSNEImm
	case 0x5000:
		if ins.N == 0 {
			ins.Op = OpSEReg
		}
	case 0x6000:
		ins.Op = OpLDImm
	case 0x7000:
		ins.Op = OpADDImm
	case 0x8000:
		ins.Op = decodeALU(ins.N)
	case 0x9000:
		if ins.N == 0 {
			ins.Op = OpSNEReg
		}
	case 0xA000:
		ins.Op = OpLDI
	case 0xB000:
		ins.Op = OpJPV0
	case 0xC000:
		ins.Op = OpRND
	case 0xD000:
		ins.Op = OpDRW
	case 0xE000:
		switch ins.NN {
		case 0x9E:
			ins.Op = OpSKP
		case 0xA1:
			ins.Op = OpSKNP
		}
	case 0xF000:
		ins.Op = decodeMisc(ins.NN)
	}

	return ins, ins.Op != OpInvalid
}

func decodeALU(n uint8) Op {
	switch n {
	case 0x0:
		return OpLDReg
	case 0x1:
		return OpOR
	case 0x2:
		return OpAND
	case 0x3:
		return OpXOR
	case 0x4:
		return OpADDReg
	case 0x5:
		return OpSUB
	case 0x6:
		return OpSHR
	case 0x7:
		return OpSUBN
	case 0xE:
		return OpSHL
	}
	return OpInvalid
}

func decodeMisc(nn uint8) Op {
	switch nn {
	case 0x07:
		return OpLDVxDT
	case 0x0A:
		return OpLDVxK
	case 0x15:
		return OpLDDTVx
	case 0x18:
		return OpLDSTVx
	case 0x1E:
		return OpADDI
	case 0x29:
		return OpLDF
	case 0x33:
		return OpLDB
	case 0x55:
		return OpLDMemVx
	case 0x65:
		return OpLDVxMem
	}
	return OpInvalid
}
