package cmd

import (
	"fmt"
	"io"
	"strings"

	"chip8emu/emu/cpu"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var dumpSteps int

var dumpCmd = &cobra.Command{
	Use:          "dump path/ROM",
	Short:        "run a ROM without a window and print the screen and registers",
	Args:         cobra.ExactArgs(1),
	RunE:         Dump,
	SilenceUsage: true,
}

// chyp8 dump 'path/to/ROM' --steps 500
func Dump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	machine, err := loadMachine(args[0], cfg)
	if err != nil {
		return err
	}

	for i := range dumpSteps {
		if machine.Awaiting() {
			break
		}
		if err := machine.EmulateCycle(); err != nil {
			stepErr := errors.Wrapf(err, "step %d", i)
			if werr := writeState(cmd.OutOrStdout(), machine); werr != nil {
				return errors.Wrap(stepErr, werr.Error())
			}
			return stepErr
		}
	}
	return writeState(cmd.OutOrStdout(), machine)
}

func writeState(w io.Writer, machine *cpu.EMU) error {
	var b strings.Builder

	fb := machine.Framebuffer()
	for y := range cpu.DisplayHeight {
		for x := range cpu.DisplayWidth {
			if fb[y*cpu.DisplayWidth+x] != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}

	s := machine.State()
	fmt.Fprintf(&b, "PC: %03X  I: %03X  SP: %d  opcode: %04X  DT: %d  ST: %d\n",
		s.PC, s.I, s.SP, s.Opcode, s.DelayTimer, s.SoundTimer)
	for i, v := range s.V {
		fmt.Fprintf(&b, "V%X: %02X", i, v)
		if i%8 == 7 {
			b.WriteByte('\n')
		} else {
			b.WriteString("  ")
		}
	}
	if machine.Awaiting() {
		b.WriteString("waiting for key\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "writing state")
	}
	return nil
}

func init() {
	dumpCmd.Flags().IntVar(&dumpSteps, "steps", 1000, "number of opcodes to execute")
}
