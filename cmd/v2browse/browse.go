package main

import (
	"v2browse/internal/gui"
	"v2browse/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [path]",
		Short: "Open the terminal browser",
		Long: `Open the terminal browser at path, or at ui.start_path from the config.
Press ? inside the browser for the key bindings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, args)
		},
	}
}

func runBrowse(cmd *cobra.Command, opts *options, args []string) error {
	logger := fileLogger(opts.cfg)
	defer logger.Close()

	rt, err := openRuntime(opts.cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	tuiOpts := []tui.Option{
		tui.WithConfig(opts.cfg, opts.cfgPath),
		tui.WithLogger(logger),
		tui.WithContext(cmd.Context()),
	}
	if len(args) == 1 {
		tuiOpts = append(tuiOpts, tui.WithStartPath(args[0]))
	}
	ch, stop := rt.watch()
	defer stop()
	if ch != nil {
		tuiOpts = append(tuiOpts, tui.WithContainerWatch(ch))
	}

	p := tea.NewProgram(tui.New(rt.session, tuiOpts...),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	_, err = p.Run()
	return err
}

func newGUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "gui [path]",
		Short: "Open the graphical browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return gui.Run(nil)
			}
			logger := fileLogger(opts.cfg)
			defer logger.Close()

			rt, err := openRuntime(opts.cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()

			guiOpts := []gui.Option{
				gui.WithConfig(opts.cfg),
				gui.WithLogger(logger),
				gui.WithContext(cmd.Context()),
			}
			if len(args) == 1 {
				guiOpts = append(guiOpts, gui.WithStartPath(args[0]))
			}
			ch, stop := rt.watch()
			defer stop()
			if ch != nil {
				guiOpts = append(guiOpts, gui.WithContainerWatch(ch))
			}
			return gui.Run(rt.session, guiOpts...)
		},
	}
}
