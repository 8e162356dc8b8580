package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the store and a default config.yaml",
		Long: "Create the versions and configs tables if they are missing, and write a\n" +
			"default config.yaml to the configuration directory unless one exists.",
		Args: rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The tables were created when the store was opened.
			out := cmd.OutOrStdout()
			// An explicit --db is stored absolute.
			var db string
			if s.flags.db != "" {
				db = s.backend.Path()
			}
			path, created, err := writeDefaultConfig(s.configDir, db)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "Wrote default configuration to %s\n", path)
			}
			fmt.Fprintf(out, "Initialized store at %s\n", s.backend.Path())
			return nil
		},
	}
}
