package emu

import (
	"context"
	"testing"

	"chip8emu/emu/cpu"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type fakeDisplay struct {
	keys      [cpu.KeyCount]bool
	renders   int
	updates   int
	closeFrom int // Closed reports true once updates reaches it, 0 never
	last      [cpu.DisplaySize]uint8
}

func (d *fakeDisplay) Closed() bool {
	return d.closeFrom > 0 && d.updates >= d.closeFrom
}

func (d *fakeDisplay) Keys() [cpu.KeyCount]bool { return d.keys }

func (d *fakeDisplay) Render(fb [cpu.DisplaySize]uint8) {
	d.renders++
	d.last = fb
}

func (d *fakeDisplay) Update() { d.updates++ }

type countingBeeper struct {
	beeps int
}

func (b *countingBeeper) Beep() { b.beeps++ }

func newTestEmulator(t *testing.T, opts Options, opcodes ...uint16) (*Emulator, *fakeDisplay, *countingBeeper) {
	t.Helper()

	rom := make([]byte, 0, 2*len(opcodes))
	for _, op := range opcodes {
		rom = append(rom, byte(op>>8), byte(op))
	}
	machine, err := cpu.NewEMU(rom)
	assert.NoError(t, err)

	display := &fakeDisplay{}
	beeper := &countingBeeper{}
	return New(machine, display, beeper, log.NewTestLogger(t), opts), display, beeper
}

func TestFrame_RendersOnRedraw(t *testing.T) {
	e, display, _ := newTestEmulator(t, Options{Refresh: 60, Cycles: 10},
		0xA000, 0xD015, 0x1204)

	assert.NoError(t, e.Frame())
	assert.Equal(t, 1, display.renders)
	assert.Equal(t, 1, display.updates)
	assert.Equal(t, uint8(1), display.last[0])
	assert.False(t, e.machine.RedrawPending())

	assert.NoError(t, e.Frame())
	assert.Equal(t, 1, display.renders)
	assert.Equal(t, 2, display.updates)
}

func TestFrame_BeepCoupled(t *testing.T) {
	// ST = 2 on the second cycle, reaches zero on the third
	e, _, beeper := newTestEmulator(t, Options{Refresh: 60, Cycles: 10},
		0x6002, 0xF018, 0x1204)

	assert.NoError(t, e.Frame())
	assert.Equal(t, 1, beeper.beeps)

	assert.NoError(t, e.Frame())
	assert.Equal(t, 1, beeper.beeps)
}

func TestFrame_BeepDecoupled(t *testing.T) {
	e, _, beeper := newTestEmulator(t, Options{Refresh: 60, Cycles: 10, DecoupleTimers: true, TimerHz: 60},
		0x6002, 0xF018, 0x1204)

	assert.NoError(t, e.Frame())
	assert.Equal(t, 0, beeper.beeps)
	assert.Equal(t, uint8(1), e.machine.State().SoundTimer)

	assert.NoError(t, e.Frame())
	assert.Equal(t, 1, beeper.beeps)
	assert.Equal(t, uint8(0), e.machine.State().SoundTimer)
}

func TestFrame_DecoupledTimerRate(t *testing.T) {
	// DT = 0xFF, then loop; 60 Hz timers at 120 Hz refresh tick every other frame
	e, _, _ := newTestEmulator(t, Options{Refresh: 120, Cycles: 2, DecoupleTimers: true, TimerHz: 60},
		0x60FF, 0xF015, 0x1204)

	for range 10 {
		assert.NoError(t, e.Frame())
	}
	assert.Equal(t, uint8(0xFF-5), e.machine.State().DelayTimer)
}

func TestFrame_ForwardsKeys(t *testing.T) {
	e, display, _ := newTestEmulator(t, Options{Refresh: 60, Cycles: 4},
		0xF10A, 0x1202)

	assert.NoError(t, e.Frame())
	assert.True(t, e.machine.Awaiting())

	display.keys[5] = true
	assert.NoError(t, e.Frame())
	assert.False(t, e.machine.Awaiting())
	assert.Equal(t, uint8(5), e.machine.State().V[1])
	assert.True(t, e.machine.Key(5))

	display.keys[5] = false
	assert.NoError(t, e.Frame())
	assert.False(t, e.machine.Key(5))
}

func TestFrame_HaltsOnError(t *testing.T) {
	e, display, _ := newTestEmulator(t, Options{Refresh: 60, Cycles: 10},
		0x6001, 0x0123)

	err := e.Frame()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, cpu.ErrUnknownOpcode))
	assert.Equal(t, 0, display.updates)
	assert.Equal(t, uint16(0x202), e.machine.PC())
}

func TestRun_StopsWhenClosed(t *testing.T) {
	e, display, _ := newTestEmulator(t, Options{Refresh: 1000, Cycles: 1}, 0x1200)
	display.closeFrom = 3

	assert.NoError(t, e.Run(context.Background()))
	assert.Equal(t, 3, display.updates)
}

func TestRun_Cancelled(t *testing.T) {
	e, display, _ := newTestEmulator(t, Options{Refresh: 1000, Cycles: 1}, 0x1200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, e.Run(ctx))
	assert.Equal(t, 0, display.updates)
}

func TestRun_ReturnsMachineError(t *testing.T) {
	e, _, _ := newTestEmulator(t, Options{Refresh: 1000, Cycles: 1}, 0x00EE)

	err := e.Run(context.Background())
	assert.True(t, errors.Is(err, cpu.ErrStackUnderflow))
}

func TestRun_InvalidRefresh(t *testing.T) {
	e, _, _ := newTestEmulator(t, Options{Cycles: 1}, 0x1200)
	assert.Error(t, e.Run(context.Background()))
}
