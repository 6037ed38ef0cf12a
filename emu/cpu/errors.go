package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrROMTooLarge       = errors.New("rom too large")
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrAddressOutOfRange = errors.New("address out of range")
)

// OpcodeError describes a failed step. It unwraps to one of the Err*
// sentinels.
type OpcodeError struct {
	Opcode  uint16
	Address uint16
	Err     error
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("opcode %04X at %03X: %v", e.Opcode, e.Address, e.Err)
}

func (e *OpcodeError) Unwrap() error {
	return e.Err
}

func (emu *EMU) opCodeError(opcode uint16) error {
	return &OpcodeError{Opcode: opcode, Address: emu.pc, Err: ErrUnknownOpcode}
}

func romTooLarge(size int) error {
	return errors.Wrapf(ErrROMTooLarge, "%d bytes, can't cross %d", size, MaxROMSize)
}

func addressError(addr uint16, what string) error {
	return errors.Wrapf(ErrAddressOutOfRange, "%s %04X", what, addr)
}
