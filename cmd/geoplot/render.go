package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"geoplot/internal/job"
	"geoplot/internal/render/braille"
	"geoplot/internal/render/raster"
	"geoplot/internal/render/svg"
)

var (
	renderFlags plotFlags
	renderOut   string
	renderDPI   float64
	renderCols  int
)

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (.png, .svg, .dl, .txt); terminal when empty")
	renderCmd.Flags().Float64Var(&renderDPI, "dpi", 144, "PNG resolution")
	renderCmd.Flags().IntVar(&renderCols, "cols", 0, "braille output width in cells (0 = terminal width)")
}

var renderCmd = &cobra.Command{
	Use:   "render [flags] FILE...",
	Short: "Plot input files into an image, a display list or the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := outputFormat(renderOut); err != nil {
			return err
		}
		f, err := loadConfig(cmd, &renderFlags)
		if err != nil {
			return err
		}
		inputs, err := openInputs(cmd.Context(), args)
		if err != nil {
			return err
		}
		j, err := newJob(f, &renderFlags, inputs)
		if err != nil {
			return err
		}
		results, recErr := j.Record(cmd.Context(), inputs)
		if errors.Is(recErr, context.Canceled) {
			return recErr
		}
		if err := write(cmd.OutOrStdout(), renderOut, j, results); err != nil {
			return err
		}
		summarize(cmd.ErrOrStderr(), results)
		return recErr
	},
}

// openInputs reads every file concurrently, keeping argument order.
func openInputs(ctx context.Context, paths []string) ([]job.Input, error) {
	inputs := make([]job.Input, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			in, err := job.Open(p)
			if err != nil {
				return fmt.Errorf("open %s: %w", p, err)
			}
			inputs[i] = in
			return nil
		})
	}
	return inputs, g.Wait()
}

var outputFormats = map[string]bool{".png": true, ".svg": true, ".dl": true, ".txt": true}

// outputFormat returns the extension that selects the writer for path, or
// "" for stdout.
func outputFormat(path string) (string, error) {
	if path == "" || path == "-" {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !outputFormats[ext] {
		return "", fmt.Errorf("unknown output format %q", ext)
	}
	return ext, nil
}

func write(stdout io.Writer, path string, j *job.Job, results []job.Result) error {
	w, h := j.Size()
	ext, err := outputFormat(path)
	if err != nil {
		return err
	}
	if ext == "" {
		return writeBraille(stdout, w, h, results, isTerminal(os.Stdout))
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	switch ext {
	case ".png":
		c := raster.New(w, h, renderDPI)
		if err = job.Replay(results, c); err == nil {
			err = c.WritePNG(out)
		}
	case ".svg":
		d := svg.New(out, w, h)
		if err = job.Replay(results, d); err == nil {
			err = d.Close()
		}
	case ".dl":
		err = job.Merge(w, h, results).Encode(out)
	case ".txt":
		err = writeBraille(out, w, h, results, false)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// writeBraille draws the plot in braille cells. The row count keeps the
// aspect ratio for cells twice as tall as wide.
func writeBraille(out io.Writer, w, h float64, results []job.Result, styled bool) error {
	cols := renderCols
	if cols <= 0 {
		cols = 80
		if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
			cols = tw
		}
	}
	rows := max(1, int(float64(cols)*h/w/2+0.5))
	c := braille.New(cols, rows, braille.Viewport{Width: w, Height: h, Zoom: 1})
	if err := job.Replay(results, c); err != nil {
		return err
	}
	if styled {
		_, err := fmt.Fprintln(out, c.Render())
		return err
	}
	_, err := fmt.Fprintln(out, strings.Join(c.Lines(), "\n"))
	return err
}

// summarize prints per-layer failures and the warning tallies.
func summarize(out io.Writer, results []job.Result) {
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed, color.Bold)
	for _, r := range results {
		if r.Err != nil {
			bad.Fprintf(out, "error: ")
			fmt.Fprintf(out, "%s (%s): %v\n", r.Input, r.Kind, r.Err)
		}
	}
	tot := job.Totals(results)
	for _, e := range tot.Warnings {
		warn.Fprintf(out, "warning: ")
		fmt.Fprintf(out, "%s x%d\n", e.Warning, e.Count)
	}
	if tot.NaN > 0 {
		warn.Fprintf(out, "warning: ")
		fmt.Fprintf(out, "%d records with NaN coordinates skipped\n", tot.NaN)
	}
}
