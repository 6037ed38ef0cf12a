package cpu

import (
	"math/rand/v2"
)

const (
	MemorySize   = 4096
	ProgramStart = 0x200
	MaxAddress   = 0xFFF
	MaxROMSize   = MemorySize - ProgramStart

	DisplayWidth  = 64
	DisplayHeight = 32
	DisplaySize   = DisplayWidth * DisplayHeight

	StackDepth = 16
	KeyCount   = 16
)

// RandomSource supplies the bytes used by CXNN. Every call must be
// independent and uniformly distributed over 0-255.
type RandomSource interface {
	Byte() uint8
}

type pcgSource struct {
	r *rand.Rand
}

func (p pcgSource) Byte() uint8 {
	return uint8(p.r.UintN(256))
}

// Quirks selects between the historical variants of the shift and
// load/store instructions. The zero value is not the default, use
// DefaultQuirks.
type Quirks struct {
	// ShiftUsesVY makes 8XY6/8XYE shift VY into VX and take VF from VY.
	ShiftUsesVY bool
	// LoadStoreIncrementsI makes FX55/FX65 leave I at I+X+1.
	LoadStoreIncrementsI bool
}

// DefaultQuirks returns the reference behaviour: flags from VX before the
// shift, and auto-incrementing I on FX55/FX65.
func DefaultQuirks() Quirks {
	return Quirks{
		ShiftUsesVY:          false,
		LoadStoreIncrementsI: true,
	}
}

// Option configures an EMU at construction time.
type Option func(*EMU)

// WithQuirks overrides DefaultQuirks.
func WithQuirks(q Quirks) Option {
	return func(emu *EMU) {
		emu.quirks = q
	}
}

// WithRandom replaces the random byte source used by CXNN.
func WithRandom(src RandomSource) Option {
	return func(emu *EMU) {
		emu.rnd = src
	}
}

// EMU holds the complete state of one CHIP-8 machine. It is not safe for
// concurrent use: Step, Tick and SetKey must be called from one goroutine.
type EMU struct {
	opcode       uint16
	memory       [MemorySize]uint8
	V            [16]uint8
	I            uint16 //address register
	pc           uint16
	display      [DisplaySize]uint8
	delayTimer   uint8 //counts down once per tick
	soundTimer   uint8 //same as above
	stack        [StackDepth]uint16
	sp           uint16
	keyState     [KeyCount]bool //tells whether key is pressed or not
	updateScreen bool           //to draw or not
	beep         bool

	waitingKey   bool
	waitRegister uint8

	quirks Quirks
	rnd    RandomSource
}

// NewEMU builds a machine with the font set loaded at 0x000 and rom copied
// to 0x200.
func NewEMU(rom []byte, opts ...Option) (*EMU, error) {
	emu := &EMU{
		quirks: DefaultQuirks(),
		rnd:    pcgSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))},
	}
	for _, opt := range opts {
		opt(emu)
	}

	if err := emu.LoadROM(rom); err != nil {
		return nil, err
	}
	return emu, nil
}

// LoadROM resets the machine and loads rom at ProgramStart.
func (emu *EMU) LoadROM(rom []byte) error {
	if len(rom) > MaxROMSize {
		return romTooLarge(len(rom))
	}

	emu.reset()
	copy(emu.memory[ProgramStart:], rom)
	return nil
}

func (emu *EMU) reset() {
	emu.opcode = 0
	emu.memory = [MemorySize]uint8{}
	emu.V = [16]uint8{}
	emu.I = 0
	emu.pc = ProgramStart
	emu.display = [DisplaySize]uint8{}
	emu.delayTimer = 0
	emu.soundTimer = 0
	emu.stack = [StackDepth]uint16{}
	emu.sp = 0
	emu.keyState = [KeyCount]bool{}
	emu.updateScreen = false
	emu.beep = false
	emu.waitingKey = false
	emu.waitRegister = 0
	emu.loadFont()
}

func (emu *EMU) loadFont() {
	copy(emu.memory[FontAddress:], FontSet[:])
}

// EmulateCycle executes one opcode followed by one timer tick. A failed
// step does not tick the timers.
func (emu *EMU) EmulateCycle() error {
	if err := emu.Step(); err != nil {
		return err
	}
	emu.Tick()
	return nil
}

// Step fetches, decodes and executes exactly one opcode. While the machine
// is waiting for a key (FX0A) it does nothing.
func (emu *EMU) Step() error {
	if emu.waitingKey {
		return nil
	}

	opcode, err := emu.fetch()
	if err != nil {
		return err
	}

	ins, ok := Decode(opcode)
	if !ok {
		return emu.opCodeError(opcode)
	}

	if err := emu.execute(ins); err != nil {
		return &OpcodeError{Opcode: opcode, Address: emu.pc, Err: err}
	}
	emu.opcode = opcode
	return nil
}

func (emu *EMU) fetch() (uint16, error) {
	if emu.pc&1 != 0 || emu.pc > MaxAddress-1 {
		return 0, addressError(emu.pc, "program counter")
	}
	return uint16(emu.memory[emu.pc])<<8 | uint16(emu.memory[emu.pc+1]), nil
}

// Tick decrements both timers. Beep reports true after the tick in which
// the sound timer went from 1 to 0.
func (emu *EMU) Tick() {
	emu.delayTimerHandler()
	emu.soundTimerHandler()
}

func (emu *EMU) soundTimerHandler() {
	emu.beep = false
	if emu.soundTimer > 0 {
		if emu.soundTimer == 1 {
			emu.beep = true
		}
		emu.soundTimer--
	}
}

func (emu *EMU) delayTimerHandler() {
	if emu.delayTimer > 0 {
		emu.delayTimer--
	}
}

// Beep reports whether the most recent Tick should produce a tone.
func (emu *EMU) Beep() bool {
	return emu.beep
}

// SetKey updates the state of one keypad key. Keys above 0xF are ignored.
// A press resumes a machine suspended on FX0A.
func (emu *EMU) SetKey(key uint8, pressed bool) {
	if key >= KeyCount {
		return
	}
	emu.keyState[key] = pressed

	if pressed && emu.waitingKey {
		emu.V[emu.waitRegister] = key
		emu.waitingKey = false
		emu.pc += 2
	}
}

// Key reports whether key is currently pressed.
func (emu *EMU) Key(key uint8) bool {
	if key >= KeyCount {
		return false
	}
	return emu.keyState[key]
}

// Awaiting reports whether the machine is suspended on FX0A.
func (emu *EMU) Awaiting() bool {
	return emu.waitingKey
}

// Framebuffer returns a copy of the display, one byte per pixel holding 0
// or 1, row-major.
func (emu *EMU) Framebuffer() [DisplaySize]uint8 {
	return emu.display
}

// Pixel returns the pixel at (x, y), wrapping both coordinates.
func (emu *EMU) Pixel(x, y int) uint8 {
	return emu.display[pixelIndex(x, y)]
}

// RedrawPending reports whether the framebuffer changed since the last
// AckRedraw.
func (emu *EMU) RedrawPending() bool {
	return emu.updateScreen
}

// AckRedraw is called by the renderer once it has drawn the framebuffer.
func (emu *EMU) AckRedraw() {
	emu.updateScreen = false
}

// Memory reads one byte. Addresses past 0xFFF wrap.
func (emu *EMU) Memory(addr uint16) uint8 {
	return emu.memory[addr&MaxAddress]
}

// PC returns the program counter.
func (emu *EMU) PC() uint16 {
	return emu.pc
}

// Snapshot is a read-only view of the CPU registers.
type Snapshot struct {
	Opcode     uint16
	V          [16]uint8
	I          uint16
	PC         uint16
	SP         uint16
	Stack      [StackDepth]uint16
	DelayTimer uint8
	SoundTimer uint8
}

// State returns the current register values.
func (emu *EMU) State() Snapshot {
	return Snapshot{
		Opcode:     emu.opcode,
		V:          emu.V,
		I:          emu.I,
		PC:         emu.pc,
		SP:         emu.sp,
		Stack:      emu.stack,
		DelayTimer: emu.delayTimer,
		SoundTimer: emu.soundTimer,
	}
}
