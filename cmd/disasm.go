package cmd

import (
	"chip8emu/emu/cpu"
	"chip8emu/emu/disasm"

	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:          "disasm path/ROM",
	Short:        "print the ROM as Chip-8 assembly",
	Args:         cobra.ExactArgs(1),
	RunE:         Disasm,
	SilenceUsage: true,
}

// chyp8 disasm 'path/to/ROM'
func Disasm(cmd *cobra.Command, args []string) error {
	rom, err := cpu.ReadROM(args[0])
	if err != nil {
		return err
	}
	return disasm.Write(cmd.OutOrStdout(), rom)
}
