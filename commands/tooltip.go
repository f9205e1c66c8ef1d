package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/encukou/portingchart/internal/presentation/formatter"
)

type tooltipOptions struct {
	at      float64
	date    string
	hovered string
	format  string
	color   bool
}

func newTooltipCmd(opts *options) *cobra.Command {
	to := &tooltipOptions{}
	cmd := &cobra.Command{
		Use:   "tooltip [flags] <file.csv|dir>...",
		Short: "Print the tooltip for a cursor position",
		Long: `Tooltip prints what the chart shows under a cursor: the date of the nearest
preceding sample and the value of every layer at that point.

The cursor is given either as a plot x position in pixels (--at) or as a date
(--date), which is mapped to its x position first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTooltip(cmd, opts, to, args)
		},
	}

	cmd.Flags().Float64Var(&to.at, "at", 0,
		"Plot x position of the cursor in pixels")
	cmd.Flags().StringVar(&to.date, "date", "",
		"Cursor date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to.hovered, "hover", "",
		"Category whose line is emphasized")
	cmd.Flags().StringVarP(&to.format, "format", "f", formatter.FormatText,
		"Output format (text, json, html)")
	cmd.Flags().BoolVar(&to.color, "color", false,
		"Colorize text output")
	cmd.MarkFlagsMutuallyExclusive("at", "date")
	cmd.MarkFlagsOneRequired("at", "date")
	return cmd
}

func runTooltip(cmd *cobra.Command, opts *options, to *tooltipOptions, args []string) error {
	f, err := formatter.New(to.format, to.color)
	if err != nil {
		return err
	}

	o, err := opts.orchestrator(cmd, args)
	if err != nil {
		return err
	}
	c, err := o.Build()
	if err != nil {
		return err
	}

	px := to.at
	if cmd.Flags().Changed("date") {
		t, err := time.ParseInLocation("2006-01-02", to.date, o.Location())
		if err != nil {
			return fmt.Errorf("invalid date '%s': %w", to.date, err)
		}
		px = c.X.Map(t)
	}

	return f.Format(cmd.OutOrStdout(), c.Tooltip(px, to.hovered))
}
