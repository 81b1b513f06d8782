package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"epsdm/internal/cache"
	"epsdm/internal/decoder"
	"epsdm/internal/logging"
	"epsdm/internal/processor"
	"epsdm/internal/tui"
	"epsdm/pkg/imgutil"
)

var (
	runOutputDir  string
	runWorkers    int
	runClearEvery int
	runPixelSize  int
	runQuietZone  int
	runOperator   string
	runPlain      bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [input]",
	Short: "Decode every EPS label in a directory of zip archives",
	Long: "Decode every EPS label in the zip archives of input (a directory, or a single\n" +
		"zip file). Archives are processed one after another; the labels of one archive\n" +
		"are decoded in parallel.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if len(args) == 1 {
			cfg.Input = args[0]
		}
		if flags.Changed("output") {
			cfg.Output = runOutputDir
		}
		if flags.Changed("workers") {
			cfg.Workers = runWorkers
		}
		if flags.Changed("clear-every") {
			cfg.ClearEvery = runClearEvery
		}
		if flags.Changed("pixel-size") {
			cfg.PixelSize = runPixelSize
		}
		if flags.Changed("quiet-zone") {
			cfg.QuietZone = runQuietZone
		}
		if flags.Changed("operator") {
			cfg.Operator = runOperator
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// The TUI owns the terminal, so logs only go to a file there.
		var logOut io.Writer = os.Stderr
		if !runPlain {
			logOut = nil
		}
		log, closer, err := logging.New(cfg.Log, logOut)
		if err != nil {
			return err
		}
		defer closer.Close()
		log = log.With().Str("run_id", uuid.NewString()).Logger()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		proc := processor.New(processor.Options{
			InputPath:  cfg.Input,
			OutputDir:  cfg.Output,
			Workers:    cfg.Workers,
			ClearEvery: cfg.ClearEvery,
			Raster:     imgutil.Options{PixelSize: cfg.PixelSize, QuietZone: cfg.QuietZone},
			Operator:   cfg.Operator,
			Logger:     log,
		}, decoder.NewDataMatrix(), cache.New())

		events := make(chan processor.Event, 64)
		uiDone := make(chan struct{})
		if runPlain {
			go func() {
				printEvents(os.Stdout, events)
				close(uiDone)
			}()
		} else {
			program := tea.NewProgram(tui.NewModel(events, cancel))
			go func() {
				_, _ = program.Run()
				// Keep the processor unblocked if the UI exits first.
				for range events {
				}
				close(uiDone)
			}()
		}

		stats, err := proc.Run(ctx, events)
		close(events)
		<-uiDone
		if err != nil {
			return err
		}

		if stats.ArchivesTotal == 0 {
			fmt.Fprintf(os.Stdout, "No zip archives found in %s\n", cfg.Input)
			return nil
		}

		if !runPlain {
			for _, a := range stats.Archives {
				fmt.Fprintln(os.Stdout, tui.ArchiveLine(a))
			}
		}
		outPath := cfg.Output
		if abs, absErr := filepath.Abs(cfg.Output); absErr == nil {
			outPath = abs
		}
		fmt.Fprintln(os.Stdout, tui.RenderSummary(tui.BatchRows(stats, outPath)))
		return nil
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runOutputDir, "output", "o", "", "destination folder for NAME_results.txt files (default Out)")
	f.IntVarP(&runWorkers, "workers", "w", 0, "decoding goroutines per archive (default: logical CPUs)")
	f.IntVar(&runClearEvery, "clear-every", 5, "clear the decode cache after this many archives; 0 clears only at the end")
	f.IntVar(&runPixelSize, "pixel-size", imgutil.DefaultPixelSize, "raster pixels per module")
	f.IntVar(&runQuietZone, "quiet-zone", imgutil.DefaultQuietZone, "quiet zone width in modules")
	f.StringVar(&runOperator, "operator", "rf", "EPS fill-rectangle operator")
	f.BoolVar(&runPlain, "plain", false, "print progress lines and logs instead of the interactive view")

	rootCmd.AddCommand(runCmd)
}
