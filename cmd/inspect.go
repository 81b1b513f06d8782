package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"epsdm/internal/decoder"
	"epsdm/internal/eps"
	"epsdm/internal/processor"
	"epsdm/pkg/imgutil"
)

var inspectPNG string

var (
	inspectLabel = lipgloss.NewStyle().Bold(true)
	inspectOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	inspectFail  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <file.eps>",
	Short: "Show the module grid reconstructed from one EPS file and decode it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		header := content[:min(len(content), 32)]
		fmt.Fprintf(out, "%s %s\n", inspectLabel.Render("Format:"), eps.DetectHeader(header))

		ps, err := eps.PostScript(content)
		if err != nil {
			return err
		}
		rects, err := eps.Parse(string(ps), cfg.Operator)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %d\n", inspectLabel.Render("Rectangles:"), len(rects))

		opts := imgutil.Options{PixelSize: cfg.PixelSize, QuietZone: cfg.QuietZone}
		if grid, gridErr := eps.Reconstruct(rects); gridErr == nil {
			fmt.Fprintf(out, "%s %dx%d (%d dark)\n", inspectLabel.Render("Grid:"), grid.Rows(), grid.Cols(), grid.Dark())
			fmt.Fprint(out, grid.String())

			if inspectPNG != "" {
				if err := writeRaster(inspectPNG, grid, opts); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s\n", inspectLabel.Render("Raster:"), inspectPNG)
			}
		}

		pipeline := &processor.Pipeline{
			Decoder:  decoder.NewDataMatrix(),
			Raster:   opts,
			Operator: cfg.Operator,
		}
		entry, _ := pipeline.Decode(content)
		if entry.OK {
			fmt.Fprintf(out, "%s %s\n", inspectLabel.Render("Payload:"), inspectOK.Render(entry.Payload))
			return nil
		}
		fmt.Fprintf(out, "%s %s\n", inspectLabel.Render("Status:"), inspectFail.Render(entry.Err.Error()))
		return nil
	},
}

func writeRaster(path string, grid *eps.Grid, opts imgutil.Options) error {
	img, err := imgutil.Rasterize(grid, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imgutil.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	inspectCmd.Flags().StringVar(&inspectPNG, "png", "", "also write the rasterized symbol to this PNG file")
	rootCmd.AddCommand(inspectCmd)
}
