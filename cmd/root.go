package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"epsdm/internal/config"
)

var (
	configPath string
	logLevel   string
	logFile    string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "epsdm",
	Short: "epsdm - decode DataMatrix codes drawn as vector rectangles in EPS files",
	Long: "epsdm reads zip archives of EPS labels, rebuilds the DataMatrix module grid from\n" +
		"the fill-rectangle drawing commands of every label, decodes it and writes one\n" +
		"NAME_results.txt per archive.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file and environment, then applies the
// persistent flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file (default "+config.DefaultFile+" if present)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")
	pf.StringVar(&logFormat, "log-format", "console", "log format: console or json")
}
