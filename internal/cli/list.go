package cli

import (
	"github.com/spf13/cobra"
)

func newListCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configs or versions",
	}
	cmd.AddCommand(newListConfigCmd(s), newListVersionCmd(s))
	return cmd
}

func newListConfigCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "config [version]",
		Short: "Show configs grouped by version",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return s.tracker.ListSingleVersion(cmd.Context(), cmd.OutOrStdout(), args[0])
			}
			return s.tracker.ListConfigsTree(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newListVersionCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "version [name]",
		Short: "List versions, or the configs of one version",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return s.tracker.ListSingleVersion(cmd.Context(), cmd.OutOrStdout(), args[0])
			}
			return s.tracker.ListVersions(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
