package cmd

import (
	"fmt"
	"os"

	"chip8emu/config"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chyp8 [command]",
	Short: "Chip-8 emulator using Go",
	Long:  "A Chip-8 emulator written from scratch that mimics the functionalities of a Chip-8, an interpreted language originally written for the COSMAC VIP / Telmac 8 bit systems.",
	Run:   Root,
	Args:  cobra.NoArgs,
}

func Root(cmd *cobra.Command, args []string) {
	fmt.Fprintln(cmd.OutOrStdout(), "Enter command as `chyp8 start /path/ROM -r refreshRate`")
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chyp8.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("quiet", false, "only log errors")
	cobra.CheckErr(viper.BindPFlag("debug", flags.Lookup("debug")))
	cobra.CheckErr(viper.BindPFlag("quiet", flags.Lookup("quiet")))

	rootCmd.AddCommand(startCmd, dumpCmd, disasmCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		cobra.CheckErr(viper.ReadInConfig())
		return
	}

	// Find home directory.
	home, err := homedir.Dir()
	cobra.CheckErr(err)

	// Search config in home directory with name ".chyp8" (without extension).
	viper.AddConfigPath(home)
	viper.SetConfigName(".chyp8")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig returns the merged flags, config file and environment.
func loadConfig() (config.Config, error) {
	return config.Load(viper.GetViper())
}
