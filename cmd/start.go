package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"chip8emu/config"
	"chip8emu/emu"
	"chip8emu/emu/audio"
	"chip8emu/emu/cpu"
	"chip8emu/emu/screen"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var startCmd = &cobra.Command{
	Use:          "start path/ROM",
	Short:        "load and start the Emulator",
	Args:         cobra.ExactArgs(1),
	RunE:         Start,
	SilenceUsage: true,
}

// chyp8 start 'path/to/ROM' -r 69
func Start(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := config.CreateLogger(cfg.Debug, cfg.Quiet)

	machine, err := loadMachine(args[0], cfg)
	if err != nil {
		logger.Error("Loading ROM failed", log.String("rom", args[0]), log.Err(err))
		return err
	}

	fg, bg, err := cfg.Colors()
	if err != nil {
		return err
	}
	win, err := screen.NewWindow("Chyp8 - "+filepath.Base(args[0]), cfg.Scale, fg, bg)
	if err != nil {
		logger.Error("Opening window failed", log.Err(err))
		return err
	}
	defer win.Destroy()

	var beeper emu.Beeper
	spk, err := audio.New(logger, cfg.Sound, cfg.ToneHz)
	if err != nil {
		logger.Warn("Running without sound", log.Err(err))
	} else {
		go spk.ManageAudio()
		defer spk.Close()
		beeper = spk
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emulator := emu.New(machine, win, beeper, logger, emu.Options{
		Refresh:        cfg.Refresh,
		Cycles:         cfg.Cycles,
		DecoupleTimers: cfg.DecoupleTimers,
		TimerHz:        cfg.TimerHz,
	})
	return emulator.Run(ctx)
}

func loadMachine(romPath string, cfg config.Config) (*cpu.EMU, error) {
	rom, err := cpu.ReadROM(romPath)
	if err != nil {
		return nil, err
	}
	machine, err := cpu.NewEMU(rom, cpu.WithQuirks(cfg.CPUQuirks()))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", romPath)
	}
	return machine, nil
}

func init() {
	flags := startCmd.Flags()
	flags.IntP("refresh", "r", 60, "sets the refresh rate of the display in Hz")
	flags.IntP("cycles", "c", 10, "opcodes executed per frame")
	flags.IntP("scale", "s", 10, "window pixels per Chip-8 pixel")
	flags.Bool("decouple-timers", false, "tick the timers at 60 Hz instead of once per opcode")

	cobra.CheckErr(viper.BindPFlag("refresh", flags.Lookup("refresh")))
	cobra.CheckErr(viper.BindPFlag("cycles", flags.Lookup("cycles")))
	cobra.CheckErr(viper.BindPFlag("scale", flags.Lookup("scale")))
	cobra.CheckErr(viper.BindPFlag("decouple_timers", flags.Lookup("decouple-timers")))
}
