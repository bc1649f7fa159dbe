package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"v2browse/cmd/v2browse/cli"
	"v2browse/internal/container"
	"v2browse/internal/errors"
	"v2browse/internal/log"
	"v2browse/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newContainerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "container",
		Aliases: []string{"c"},
		Short:   "Show and edit the saved container",
	}
	cmd.AddCommand(newContainerShowCmd(opts))
	cmd.AddCommand(newContainerAddCmd(opts))
	cmd.AddCommand(newContainerRmCmd(opts))
	cmd.AddCommand(newContainerClearCmd(opts))
	cmd.AddCommand(newContainerExportCmd(opts))
	return cmd
}

// withRuntime opens the runtime for a one-shot command, logging to stderr.
func withRuntime(opts *options, fn func(rt *runtime) error) error {
	rt, err := openRuntime(opts.cfg, log.Default())
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(rt)
}

func newContainerShowCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the container entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				items := rt.session.Container()
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), items)
				}
				printContainer(cmd.OutOrStdout(), items, rt.session.Mode())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the container as JSON")
	return cmd
}

func printContainer(w io.Writer, items container.Container, mode string) {
	cli.PrintHeader(w, fmt.Sprintf("Container (%s) · %s", humanize.Comma(int64(len(items))), mode))
	if len(items) == 0 {
		cli.PrintInfo(w, "Nothing selected")
		return
	}
	for _, e := range items {
		if e.IsDir() {
			fmt.Fprintf(w, "%s/ %s\n", e.Key(), cli.Muted(fmt.Sprintf("(%d)", len(e.Contents))))
			continue
		}
		fmt.Fprintln(w, e.Key())
	}
}

func newContainerAddCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Select entries of the service into the container",
		Long: `Select the entries at the given paths, as if they were checked in the
browser. In legacy mode each directory replaces the container with its own
selection.`,
		Example: `  v2browse container add docs/2024/q1.pdf docs/2024/q2.pdf
  v2browse container add photos`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byDir, order, err := groupByParent(args)
			if err != nil {
				return err
			}
			return withRuntime(opts, func(rt *runtime) error {
				s := rt.session
				for _, dir := range order {
					if err := s.Do(cmd.Context(), s.Navigate(dir)); err != nil {
						return fmt.Errorf("%s: %w", errors.UserMessage(err), err)
					}
					st := s.State()
					next := make(map[string]bool, len(st.Selected)+len(byDir[dir]))
					for k := range st.Selected {
						next[k] = true
					}
					for _, name := range byDir[dir] {
						if _, ok := st.Listing.Find(name); !ok {
							return errors.NewServiceError(fmt.Sprintf("no entry %q in %q", name, dir), "add", types.JoinPath(dir, name), errors.InvalidPath, nil)
						}
						next[name] = true
					}
					if err := s.SetSelection(next); err != nil {
						return err
					}
				}
				cli.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Container holds %d entries", len(s.Container())))
				return nil
			})
		},
	}
}

// groupByParent splits paths into their directories, keeping the order in
// which directories first appear.
func groupByParent(paths []string) (map[string][]string, []string, error) {
	byDir := make(map[string][]string)
	var order []string
	for _, raw := range paths {
		p := types.CleanPath(raw)
		if p == "" {
			return nil, nil, errors.New("cannot add the root directory")
		}
		dir := types.ParentPath(p)
		if _, seen := byDir[dir]; !seen {
			order = append(order, dir)
		}
		byDir[dir] = append(byDir[dir], path.Base(p))
	}
	return byDir, order, nil
}

func newContainerRmCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <key>...",
		Aliases: []string{"delete"},
		Short:   "Remove entries from the container by their path",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				items := rt.session.Container()
				keys := make(map[string]bool, len(args))
				var missing []string
				for _, arg := range args {
					k := types.CleanPath(arg)
					if _, ok := items.Find(k); !ok {
						missing = append(missing, k)
						continue
					}
					keys[k] = true
				}
				if len(missing) > 0 {
					cli.PrintWarning(cmd.ErrOrStderr(), "Not in the container: "+strings.Join(missing, ", "))
				}
				if len(keys) == 0 {
					return nil
				}
				if err := rt.session.DeleteFromContainer(keys); err != nil {
					return err
				}
				cli.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed %d, %d left", len(items)-len(rt.session.Container()), len(rt.session.Container())))
				return nil
			})
		},
	}
}

func newContainerClearCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				if err := rt.session.ClearContainer(); err != nil {
					return err
				}
				cli.PrintSuccess(cmd.OutOrStdout(), "Container cleared")
				return nil
			})
		},
	}
}

func newContainerExportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the container as JSON, YAML or a path list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(opts, func(rt *runtime) error {
				data, err := container.Export(rt.session.Container(), format)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return errors.Wrapf(err, "write %s", output)
				}
				cli.PrintSuccess(cmd.OutOrStdout(), "Exported to "+output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", container.FormatJSON,
		"one of "+strings.Join(container.ExportFormats(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")
	return cmd
}
