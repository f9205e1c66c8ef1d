package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/encukou/portingchart/internal/presentation/interaction"
	"github.com/encukou/portingchart/internal/presentation/layout"
)

func newExploreCmd(opts *options) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "explore [flags] <file.csv|dir>...",
		Short: "Move a cursor over the chart in the terminal",
		Long: `Explore shows the chart tooltip in the terminal and moves the cursor with the
keyboard.

Keys:
  left/right, h/l   move the cursor one column
  [ / ]             move the cursor ten columns
  home/end, g/G     jump to the first or last sample
  up/down, k/j      emphasize the previous or next layer
  r                 show the legend
  q, Esc, Ctrl+C    quit`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, opts, !noColor, args)
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false,
		"Disable colors")
	return cmd
}

func runExplore(cmd *cobra.Command, opts *options, color bool, args []string) error {
	if !layout.IsTerminal(int(os.Stdin.Fd())) || !layout.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("explore requires an interactive terminal")
	}

	o, err := opts.orchestrator(cmd, args)
	if err != nil {
		return err
	}
	c, err := o.Build()
	if err != nil {
		return err
	}

	kr, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	defer kr.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sizer := layout.TerminalSizer(int(os.Stdout.Fd()))
	explorer := interaction.NewExplorer(c.Tracker(), sizer, os.Stdout, color)
	return explorer.Run(ctx, kr.Events())
}
