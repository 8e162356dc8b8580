package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Dump versions and configs to a JSONL file",
		Args:  rangeArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := s.tracker.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d record(s) to %s\n", n, args[0])
			return nil
		},
	}
}

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load versions and configs from a JSONL file",
		Long: "Load versions and configs from a JSONL file written by export. Records that\n" +
			"cannot be parsed, or whose id is already taken, are skipped.",
		Args: rangeArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := s.tracker.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d version(s) and %d config(s), skipped %d\n",
				result.Versions, result.Configs, result.Skipped)
			return nil
		},
	}
}
