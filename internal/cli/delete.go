package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cfgsync/internal/tracker"
	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

func newDeleteCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete versions or configs",
	}
	cmd.AddCommand(newDeleteVersionCmd(s), newDeleteConfigCmd(s))
	return cmd
}

func newDeleteVersionCmd(s *session) *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Delete every version with the given name",
		Long:  "Delete every version with the given name. Its configs stay in the store.",
		Args:  rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if version == "" {
				return fmt.Errorf("--config-version is required: %w", types.ErrAmbiguousInput)
			}
			n, err := s.tracker.DeleteVersion(cmd.Context(), version)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d version(s) named %s\n", n, version)
			return nil
		},
	}
	cmd.Flags().StringVarP(&version, "config-version", "c", "", "version name")
	return cmd
}

func newDeleteConfigCmd(s *session) *cobra.Command {
	var sel tracker.ConfigSelector

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Delete configs by id, path or file name",
		Long: "Delete configs selected by exactly one of --id, --path or --name.\n" +
			"--name matches every stored path that ends with it.",
		Example: "  cfgsync delete config --id 3\n" +
			"  cfgsync delete config --name .bashrc",
		Args: rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := absPath(sel.Path)
			if err != nil {
				return err
			}
			sel.Path = abs
			n, err := s.tracker.DeleteConfig(cmd.Context(), sel)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d config(s)\n", n)
			return nil
		},
	}
	cmd.Flags().Int64Var(&sel.ID, "id", 0, "config id")
	cmd.Flags().StringVarP(&sel.Path, "path", "p", "", "exact config path")
	cmd.Flags().StringVarP(&sel.Name, "name", "n", "", "trailing part of the config path")
	return cmd
}
