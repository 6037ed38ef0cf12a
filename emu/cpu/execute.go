package cpu

const vf = 0xF

// execute applies one decoded instruction. Instructions that fail leave the
// machine untouched.
func (emu *EMU) execute(ins Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.Op {
	case OpCLS:
		emu.display = [DisplaySize]uint8{}
		emu.updateScreen = true
		emu.pc += 2

	case OpRET:
		if emu.sp == 0 {
			return ErrStackUnderflow
		}
		emu.sp--
		emu.pc = emu.stack[emu.sp] + 2

	case OpJP:
		emu.pc = ins.NNN

	case OpCALL:
		if emu.sp >= StackDepth {
			return ErrStackOverflow
		}
		emu.stack[emu.sp] = emu.pc
		emu.sp++
		emu.pc = ins.NNN

	case OpSEImm:
		emu.skipIf(emu.V[x] == ins.NN)
	case OpSNEImm:
		emu.skipIf(emu.V[x] != ins.NN)
	case OpSEReg:
		emu.skipIf(emu.V[x] == emu.V[y])
	case OpSNEReg:
		emu.skipIf(emu.V[x] != emu.V[y])

	case OpLDImm:
		emu.V[x] = ins.NN
		emu.pc += 2
	case OpADDImm:
		emu.V[x] += ins.NN
		emu.pc += 2

	case OpLDReg, OpOR, OpAND, OpXOR, OpADDReg, OpSUB, OpSHR, OpSUBN, OpSHL:
		emu.alu(ins)
		emu.pc += 2

	case OpLDI:
		emu.I = ins.NNN
		emu.pc += 2
	case OpJPV0:
		emu.pc = uint16(emu.V[0]) + ins.NNN
	case OpRND:
		emu.V[x] = emu.rnd.Byte() & ins.NN
		emu.pc += 2
	case OpDRW:
		if err := emu.drawSprite(emu.V[x], emu.V[y], ins.N); err != nil {
			return err
		}
		emu.pc += 2

	case OpSKP:
		emu.skipIf(emu.keyState[emu.V[x]&0xF])
	case OpSKNP:
		emu.skipIf(!emu.keyState[emu.V[x]&0xF])

	case OpLDVxDT:
		emu.V[x] = emu.delayTimer
		emu.pc += 2
	case OpLDVxK:
		// resumed by SetKey, which also advances pc
		emu.waitingKey = true
		emu.waitRegister = x
	case OpLDDTVx:
		emu.delayTimer = emu.V[x]
		emu.pc += 2
	case OpLDSTVx:
		emu.soundTimer = emu.V[x]
		emu.pc += 2
	case OpADDI:
		sum := uint32(emu.I) + uint32(emu.V[x])
		emu.I = uint16(sum)
		emu.V[vf] = flag(sum > MaxAddress)
		emu.pc += 2
	case OpLDF:
		emu.I = uint16(emu.V[x]) * FontGlyphSize
		emu.pc += 2
	case OpLDB:
		if err := emu.checkRange(emu.I, 3); err != nil {
			return err
		}
		v := emu.V[x]
		emu.memory[emu.I] = v / 100
		emu.memory[emu.I+1] = v / 10 % 10
		emu.memory[emu.I+2] = v % 10
		emu.pc += 2
	case OpLDMemVx:
		if err := emu.checkRange(emu.I, int(x)+1); err != nil {
			return err
		}
		for i := uint16(0); i <= uint16(x); i++ {
			emu.memory[emu.I+i] = emu.V[i]
		}
		emu.advanceIndex(x)
		emu.pc += 2
	case OpLDVxMem:
		if err := emu.checkRange(emu.I, int(x)+1); err != nil {
			return err
		}
		for i := uint16(0); i <= uint16(x); i++ {
			emu.V[i] = emu.memory[emu.I+i]
		}
		emu.advanceIndex(x)
		emu.pc += 2

	default:
		return ErrUnknownOpcode
	}
	return nil
}

// alu runs the 8XYN family. VF is always written last so that it holds a
// clean flag even when X is F.
func (emu *EMU) alu(ins Instruction) {
	x, y := ins.X, ins.Y
	vx, vy := emu.V[x], emu.V[y]

	switch ins.Op {
	case OpLDReg:
		emu.V[x] = vy
	case OpOR:
		emu.V[x] = vx | vy
	case OpAND:
		emu.V[x] = vx & vy
	case OpXOR:
		emu.V[x] = vx ^ vy
	case OpADDReg:
		sum := uint16(vx) + uint16(vy)
		emu.V[x] = uint8(sum)
		emu.V[vf] = flag(sum > 0xFF)
	case OpSUB:
		emu.V[x] = vx - vy
		emu.V[vf] = flag(vx >= vy)
	case OpSUBN:
		emu.V[x] = vy - vx
		emu.V[vf] = flag(vy >= vx)
	case OpSHR:
		src := emu.shiftSource(vx, vy)
		emu.V[x] = src >> 1
		emu.V[vf] = src & 1
	case OpSHL:
		src := emu.shiftSource(vx, vy)
		emu.V[x] = src << 1
		emu.V[vf] = src >> 7
	}
}

func (emu *EMU) shiftSource(vx, vy uint8) uint8 {
	if emu.quirks.ShiftUsesVY {
		return vy
	}
	return vx
}

func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.pc += 4
	} else {
		emu.pc += 2
	}
}

func (emu *EMU) advanceIndex(x uint8) {
	if emu.quirks.LoadStoreIncrementsI {
		emu.I += uint16(x) + 1
	}
}

// checkRange rejects accesses to [start, start+length) that leave memory.
func (emu *EMU) checkRange(start uint16, length int) error {
	if length == 0 {
		return nil
	}
	if int(start)+length-1 > MaxAddress {
		return addressError(start, "index register")
	}
	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
