package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/encukou/portingchart/internal/application/chart"
	"github.com/encukou/portingchart/internal/data/watcher"
	"github.com/encukou/portingchart/internal/util"
)

type renderOptions struct {
	output  string
	watch   bool
	cursor  float64
	hovered string
}

func newRenderCmd(opts *options) *cobra.Command {
	ro := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [flags] <file.csv|dir>...",
		Short: "Render the chart as SVG",
		Long: `Render reads the inputs and writes the chart as an SVG document.

Without --cursor the legend is drawn in the top left corner. With --cursor the
tooltip for that plot x position is drawn instead, along with a guide line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, ro, args)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "-",
		"Output file ('-' for stdout)")
	cmd.Flags().BoolVarP(&ro.watch, "watch", "w", false,
		"Re-render whenever an input changes")
	cmd.Flags().Float64Var(&ro.cursor, "cursor", 0,
		"Plot x position of the cursor in pixels")
	cmd.Flags().StringVar(&ro.hovered, "hover", "",
		"Category whose tooltip line is emphasized")
	return cmd
}

func runRender(cmd *cobra.Command, opts *options, ro *renderOptions, args []string) error {
	if ro.watch && ro.output == "-" {
		return fmt.Errorf("--watch requires an output file")
	}

	o, err := opts.orchestrator(cmd, args)
	if err != nil {
		return err
	}

	view := chart.View{Hovered: ro.hovered}
	if cmd.Flags().Changed("cursor") {
		view.Cursor = &ro.cursor
	}

	render := func(c *chart.Chart) error {
		if ro.output == "-" {
			return c.WriteSVG(cmd.OutOrStdout(), view)
		}
		if err := writeFile(ro.output, func(w io.Writer) error { return c.WriteSVG(w, view) }); err != nil {
			return fmt.Errorf("failed to write %s: %w", ro.output, err)
		}
		util.LogInfo("Rendered chart", util.F("output", ro.output))
		return nil
	}

	if !ro.watch {
		c, err := o.Build()
		if err != nil {
			return err
		}
		return render(c)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()
	return o.Watch(ctx, watcher.DefaultDebounce, render)
}

// writeFile replaces path with the output of write. Readers never see a
// partial document.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// commandContext returns the command context, or a background one when the
// command is run without Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
