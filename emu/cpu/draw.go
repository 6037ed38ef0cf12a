package cpu

// drawSprite XORs an 8xN sprite read from memory[I:] onto the display at
// (vx, vy). Coordinates wrap on both axes. VF is set when any lit pixel is
// turned off.
func (emu *EMU) drawSprite(vx, vy, height uint8) error {
	if err := emu.checkRange(emu.I, int(height)); err != nil {
		return err
	}

	emu.V[vf] = 0
	for row := 0; row < int(height); row++ {
		sprite := emu.memory[emu.I+uint16(row)]
		for col := 0; col < 8; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			idx := pixelIndex(int(vx)+col, int(vy)+row)
			if emu.display[idx] == 1 {
				emu.V[vf] = 1
			}
			emu.display[idx] ^= 1
		}
	}
	emu.updateScreen = true
	return nil
}

func pixelIndex(x, y int) int {
	x %= DisplayWidth
	if x < 0 {
		x += DisplayWidth
	}
	y %= DisplayHeight
	if y < 0 {
		y += DisplayHeight
	}
	return y*DisplayWidth + x
}
