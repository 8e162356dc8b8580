package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

func newAddCmd(s *session) *cobra.Command {
	var path, version string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Track a config file or create a version",
		Long: "With --path and --config-version, store the file's current content under the\n" +
			"version (given by name or id). With only --config-version, create a version.",
		Example: "  cfgsync add --config-version home\n" +
			"  cfgsync add --path ~/.bashrc --config-version home",
		Args: rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case path != "" && version != "":
				abs, err := absPath(path)
				if err != nil {
					return err
				}
				c, err := s.tracker.AddConfig(ctx, abs, version)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added config %d: %s (%d lines)\n", c.ID, c.Path, len(c.Data))
			case version != "":
				v, err := s.tracker.AddVersion(ctx, version)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added version %d: %s\n", v.ID, v.Name)
			case path != "":
				return fmt.Errorf("--path needs --config-version: %w", types.ErrAmbiguousInput)
			default:
				return fmt.Errorf("pass --config-version, with --path to track a file: %w", types.ErrAmbiguousInput)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "config file to track")
	cmd.Flags().StringVarP(&version, "config-version", "c", "", "version name or id")
	return cmd
}
