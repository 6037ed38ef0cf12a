// Package emu drives a CHIP-8 interpreter against a display and a speaker.
package emu

import (
	"context"
	"time"

	"chip8emu/emu/cpu"
	"chip8emu/emu/disasm"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// Display shows the framebuffer and reports the host keypad.
type Display interface {
	Closed() bool
	// Keys returns the pressed state of the 16 CHIP-8 keys.
	Keys() [cpu.KeyCount]bool
	Render(fb [cpu.DisplaySize]uint8)
	// Update finishes a frame and polls input.
	Update()
}

// Beeper plays one short tone per call. It must not block.
type Beeper interface {
	Beep()
}

// Options controls the pacing of the emulation.
type Options struct {
	Refresh        int  // frames per second
	Cycles         int  // opcodes per frame
	DecoupleTimers bool // tick timers at TimerHz instead of once per opcode
	TimerHz        int
}

// Emulator runs one machine frame by frame.
type Emulator struct {
	machine *cpu.EMU
	display Display
	beeper  Beeper
	logger  *log.Logger
	opts    Options

	keys      [cpu.KeyCount]bool
	timerDebt int
	frames    int
}

// New returns an emulator for machine. beeper may be nil.
func New(machine *cpu.EMU, display Display, beeper Beeper, logger *log.Logger, opts Options) *Emulator {
	return &Emulator{
		machine: machine,
		display: display,
		beeper:  beeper,
		logger:  logger,
		opts:    opts,
	}
}

// Run executes frames at the refresh rate until the display is closed, ctx
// is cancelled or the machine fails.
func (e *Emulator) Run(ctx context.Context) error {
	if e.opts.Refresh <= 0 {
		return errors.Errorf("invalid refresh rate %d", e.opts.Refresh)
	}

	clock := time.NewTicker(time.Second / time.Duration(e.opts.Refresh))
	defer clock.Stop()

	e.logger.Debug("Starting emulation",
		log.Int("refresh", e.opts.Refresh),
		log.Int("cycles", e.opts.Cycles),
		log.String("timers", e.timerMode()))

	for !e.display.Closed() {
		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-clock.C:
		}

		if err := e.Frame(); err != nil {
			return err
		}
	}

	e.logger.Debug("Window closed", log.Int("frames", e.frames))
	return nil
}

// Frame forwards key changes, runs one frame worth of opcodes and timer
// ticks and renders the framebuffer if it changed.
func (e *Emulator) Frame() error {
	e.forwardKeys()

	for range e.opts.Cycles {
		if err := e.cycle(); err != nil {
			e.halt(err)
			return errors.Wrap(err, "emulating cycle")
		}
	}

	if e.opts.DecoupleTimers {
		e.timerDebt += e.opts.TimerHz
		for e.timerDebt >= e.opts.Refresh {
			e.timerDebt -= e.opts.Refresh
			e.machine.Tick()
			e.notifyBeep()
		}
	}

	if e.machine.RedrawPending() {
		e.display.Render(e.machine.Framebuffer())
		e.machine.AckRedraw()
	}
	e.display.Update()
	e.frames++
	return nil
}

func (e *Emulator) timerMode() string {
	if e.opts.DecoupleTimers {
		return "decoupled"
	}
	return "per cycle"
}

func (e *Emulator) cycle() error {
	if e.opts.DecoupleTimers {
		return e.machine.Step()
	}
	if err := e.machine.EmulateCycle(); err != nil {
		return err
	}
	e.notifyBeep()
	return nil
}

func (e *Emulator) forwardKeys() {
	keys := e.display.Keys()
	for key, pressed := range keys {
		if pressed != e.keys[key] {
			e.machine.SetKey(uint8(key), pressed)
		}
	}
	e.keys = keys
}

func (e *Emulator) notifyBeep() {
	if e.beeper != nil && e.machine.Beep() {
		e.beeper.Beep()
	}
}

func (e *Emulator) halt(err error) {
	pc := e.machine.PC()
	var opcode uint16
	var opErr *cpu.OpcodeError
	if errors.As(err, &opErr) {
		pc = opErr.Address
		opcode = opErr.Opcode
	} else {
		opcode = uint16(e.machine.Memory(pc))<<8 | uint16(e.machine.Memory(pc+1))
	}

	e.logger.Error("Emulation halted",
		log.Hex("pc", pc),
		log.Hex("opcode", opcode),
		log.String("instruction", disasm.Instruction(pc, opcode).String()),
		log.Err(err))
}
