package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chip8emu/config"
	"chip8emu/emu/cpu"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func writeROM(t *testing.T, opcodes ...uint16) string {
	t.Helper()
	rom := make([]byte, 0, 2*len(opcodes))
	for _, op := range opcodes {
		rom = append(rom, byte(op>>8), byte(op))
	}
	path := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestDump(t *testing.T) {
	rom := writeROM(t, 0xA000, 0xD015, 0x1204)

	out, err := execute(t, "dump", rom, "--steps", "3")
	assert.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "####"+strings.Repeat(".", 60), lines[0])
	assert.Equal(t, "#..#"+strings.Repeat(".", 60), lines[1])
	assert.Contains(t, out, "PC: 204  I: 000")
}

func TestDump_AwaitingKey(t *testing.T) {
	rom := writeROM(t, 0xF30A)

	out, err := execute(t, "dump", rom, "--steps", "10")
	assert.NoError(t, err)
	assert.Contains(t, out, "waiting for key")
}

func TestDump_Error(t *testing.T) {
	rom := writeROM(t, 0x00EE)

	_, err := execute(t, "dump", rom, "--steps", "1")
	assert.ErrorContains(t, err, "stack underflow")
}

func TestDisasm(t *testing.T) {
	rom := writeROM(t, 0xA000, 0x00E0)

	out, err := execute(t, "disasm", rom)
	assert.NoError(t, err)
	assert.Contains(t, out, "200  A000  "+chip8.LdInst.Name+" I, $000")
	assert.Contains(t, out, "202  00E0  "+chip8.ClsInst.Name)
}

func TestDisasm_MissingROM(t *testing.T) {
	_, err := execute(t, "disasm", filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
}

func TestWriteState(t *testing.T) {
	machine, err := cpu.NewEMU([]byte{0x6A, 0x42})
	assert.NoError(t, err)
	assert.NoError(t, machine.EmulateCycle())

	var buf bytes.Buffer
	assert.NoError(t, writeState(&buf, machine))
	assert.Contains(t, buf.String(), "VA: 42")
	assert.Contains(t, buf.String(), "PC: 202  I: 000  SP: 0  opcode: 6A42")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestDump_ErrorKeepsWriteFailure(t *testing.T) {
	config.SetDefaults(viper.GetViper())
	dumpSteps = 1
	rom := writeROM(t, 0x00EE)

	c := &cobra.Command{}
	c.SetOut(failingWriter{})

	err := Dump(c, []string{rom})
	assert.True(t, errors.Is(err, cpu.ErrStackUnderflow))
	assert.ErrorContains(t, err, "writing state")
}
