package main

import (
	"context"
	"io"

	"v2browse/internal/config"
	"v2browse/internal/dirsvc"
	"v2browse/internal/log"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr   string
		root   string
		noCORS bool
		s3cfg  dirsvc.S3Config
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a directory service over a local tree or an S3 bucket",
		Long: `Serve GET /list-directory?path= and GET /static/<path>/<file> for the
browser, plus /metrics and /healthz. A bucket switches from the local root
to S3; --s3-endpoint points at MinIO or another S3 compatible store.`,
		Example: `  v2browse serve --root ~/Documents
  v2browse serve --s3-bucket archive --s3-endpoint http://localhost:9000`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			srv := opts.cfg.Server
			flags := cmd.Flags()
			if !flags.Changed("addr") {
				addr = srv.Addr
			}
			if !flags.Changed("root") {
				root = srv.Root
			}
			if !flags.Changed("no-cors") {
				noCORS = !srv.CORS
			}
			if !flags.Changed("s3-bucket") {
				s3cfg.Bucket = srv.S3.Bucket
			}
			if !flags.Changed("s3-prefix") {
				s3cfg.Prefix = srv.S3.Prefix
			}
			if !flags.Changed("s3-endpoint") {
				s3cfg.Endpoint = srv.S3.Endpoint
			}
			if !flags.Changed("s3-region") {
				s3cfg.Region = srv.S3.Region
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := serverLogger(opts.cfg, cmd.ErrOrStderr())
			backend, err := newBackend(cmd.Context(), root, s3cfg)
			if err != nil {
				return err
			}
			srv := dirsvc.NewServer(backend,
				dirsvc.WithLogger(logger),
				dirsvc.WithCORS(!noCORS),
			)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", ":8080", "listen address")
	flags.StringVar(&root, "root", ".", "directory to serve")
	flags.BoolVar(&noCORS, "no-cors", false, "do not send Access-Control-Allow-Origin")
	flags.StringVar(&s3cfg.Bucket, "s3-bucket", "", "serve this bucket instead of --root")
	flags.StringVar(&s3cfg.Prefix, "s3-prefix", "", "key prefix inside the bucket")
	flags.StringVar(&s3cfg.Endpoint, "s3-endpoint", "", "S3 compatible endpoint URL")
	flags.StringVar(&s3cfg.Region, "s3-region", "", "bucket region (default us-east-1)")
	return cmd
}

// newBackend serves the bucket when one is configured and root otherwise.
func newBackend(ctx context.Context, root string, s3cfg dirsvc.S3Config) (dirsvc.Backend, error) {
	if s3cfg.Bucket != "" {
		return dirsvc.NewS3Backend(ctx, s3cfg)
	}
	return dirsvc.NewLocalBackend(root)
}

// serverLogger logs requests at info level, unlike the other commands.
func serverLogger(cfg *config.Config, w io.Writer) *log.Logger {
	opts := append(logOptions(cfg, w), log.WithLevel("info"))
	if cfg.Log.Debug {
		opts = append(opts, log.WithLevel("debug"))
	}
	return log.NewLogger(opts...)
}
