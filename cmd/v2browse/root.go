package main

import (
	"io"
	"path/filepath"

	"v2browse/cmd/v2browse/cli"
	"v2browse/internal/config"
	"v2browse/internal/log"

	"github.com/spf13/cobra"
)

// options are the persistent flags and the configuration they resolve to.
type options struct {
	cfgFile string
	baseURL string
	debug   bool
	jsonLog bool

	cfg     *config.Config
	cfgPath string // where theme changes are saved; empty when unknown
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "v2browse [path]",
		Short: "Browse a remote directory service and collect files into a container",
		Long: `v2browse lists the folders of a directory service, previews files and keeps
the entries you pick in a persistent container. Without a subcommand it opens
the terminal browser.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, args)
		},
	}
	rootCmd.SetHelpTemplate(cli.Logo() + "\n" + rootCmd.HelpTemplate())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.config/v2browse/config.yaml)")
	flags.StringVar(&opts.baseURL, "base-url", "", "directory service URL, overrides service.base_url")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.jsonLog, "json-log", false, "write log lines as JSON")

	rootCmd.AddCommand(newBrowseCmd(opts))
	rootCmd.AddCommand(newGUICmd(opts))
	rootCmd.AddCommand(newLsCmd(opts))
	rootCmd.AddCommand(newCatCmd(opts))
	rootCmd.AddCommand(newContainerCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

// load resolves the configuration: the --config file, or the default file
// when it exists, then environment overrides, then flags. A broken default
// file falls back to the built-in defaults; a broken explicit file is an
// error.
func (o *options) load(cmd *cobra.Command) error {
	path := o.cfgFile
	if path == "" {
		if dir, err := config.Dir(); err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}

	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		if o.cfgFile != "" {
			return err
		}
		cli.PrintWarning(cmd.ErrOrStderr(), err.Error()+", using default settings")
		cfg = config.New()
		path = ""
	}

	if o.baseURL != "" {
		cfg.Service.BaseURL = o.baseURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if o.debug {
		cfg.Log.Debug = true
	}
	if o.jsonLog {
		cfg.Log.JSON = true
	}

	o.cfg, o.cfgPath = cfg, path
	log.SetDebug(cfg.Log.Debug)
	log.Configure(logOptions(cfg, cmd.ErrOrStderr())...)
	cli.SetTheme(cfg.UI.Theme)
	return nil
}

func logOptions(cfg *config.Config, w io.Writer) []log.Option {
	opts := []log.Option{log.WithOutput(w), log.WithLevel("warn")}
	if cfg.Log.Debug {
		opts = append(opts, log.WithLevel("debug"))
	}
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	return opts
}

// fileLogger is used by the full-screen front ends, which own the terminal.
// Without a log file the lines are dropped.
func fileLogger(cfg *config.Config) *log.Logger {
	level := "info"
	if cfg.Log.Debug {
		level = "debug"
	}
	if cfg.Log.File == "" {
		return log.NewLogger(log.WithOutput(io.Discard))
	}
	opts := []log.Option{log.WithFile(cfg.Log.File), log.WithLevel(level)}
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	return log.NewLogger(opts...)
}
