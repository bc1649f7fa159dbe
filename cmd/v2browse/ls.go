package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path"

	"v2browse/cmd/v2browse/cli"
	"v2browse/internal/errors"
	"v2browse/internal/log"
	"v2browse/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

func newLsCmd(opts *options) *cobra.Command {
	var (
		match    string
		asJSON   bool
		children bool
	)

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory of the service",
		Example: `  v2browse ls
  v2browse ls docs/2024 --match '*.pdf'
  v2browse ls docs --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ""
			if len(args) == 1 {
				p = args[0]
			}
			pattern, err := types.CompilePattern(match)
			if err != nil {
				return errors.Wrapf(err, "invalid pattern %q", match)
			}

			client, err := newClient(opts.cfg, log.Default())
			if err != nil {
				return err
			}

			listing, err := client.ListDirectory(cmd.Context(), p)
			if err != nil {
				return fmt.Errorf("%s: %w", errors.UserMessage(err), err)
			}
			listing = pattern.Filter(listing)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), listing)
			}
			printListing(cmd.OutOrStdout(), listing, children)
			return nil
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "only show names matching this glob")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	cmd.Flags().BoolVarP(&children, "children", "c", false, "show the children carried by directories")
	return cmd
}

func printListing(w io.Writer, listing types.Listing, children bool) {
	if len(listing) == 0 {
		cli.PrintInfo(w, "Empty directory")
		return
	}
	dirs := 0
	for _, e := range listing {
		if !e.IsDir() {
			fmt.Fprintln(w, e.Name)
			continue
		}
		dirs++
		fmt.Fprintf(w, "%s/ %s\n", e.Name, cli.Muted(fmt.Sprintf("(%s items)", humanize.Comma(int64(len(e.Contents))))))
		if children {
			for _, c := range e.Contents {
				name := c.Name
				if c.IsDir() {
					name += "/"
				}
				fmt.Fprintln(w, "  "+name)
			}
		}
	}
	fmt.Fprintln(w, cli.Muted(fmt.Sprintf("%s entries, %s directories",
		humanize.Comma(int64(len(listing))), humanize.Comma(int64(dirs)))))
}

func newCatCmd(opts *options) *cobra.Command {
	var info bool

	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file of the service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := types.CleanPath(args[0])
			if p == "" {
				return errors.New("cat needs a file path")
			}

			client, err := newClient(opts.cfg, log.Default())
			if err != nil {
				return err
			}

			body, err := client.ReadFile(cmd.Context(), types.ParentPath(p), path.Base(p))
			if err != nil {
				return fmt.Errorf("%s: %w", errors.UserMessage(err), err)
			}

			if info {
				mt := mimetype.Detect(body)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p, mt.String(), humanize.Bytes(uint64(len(body))))
				return nil
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}

	cmd.Flags().BoolVarP(&info, "info", "i", false, "print the content type and size instead of the body")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
