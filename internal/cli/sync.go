package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cfgsync/internal/filesync"
)

func newReadCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "Copy every tracked file's content into the store",
		Args:  rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := s.tracker.Pull(cmd.Context())
			printReport(cmd.OutOrStdout(), "Real file data => db:", report)
			if err != nil {
				s.log.Warn("read stopped early", "read", len(report.Paths))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Read %d config file(s)\n", len(report.Paths))
			return nil
		},
	}
}

func newWriteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "write",
		Short: "Write every stored config back to its file",
		Long:  "Write every stored config to its path, creating or truncating the file.",
		Args:  rangeArgs(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := s.tracker.Push(cmd.Context())
			printReport(cmd.OutOrStdout(), "db => real file contents:", report)
			if err != nil {
				s.log.Warn("write stopped early", "written", len(report.Paths))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d config file(s)\n", len(report.Paths))
			return nil
		},
	}
}

// printReport lists the paths a sync pass got through, under title.
func printReport(w io.Writer, title string, report filesync.Report) {
	fmt.Fprintln(w, title)
	for _, p := range report.Paths {
		fmt.Fprintf(w, "  %s\n", p)
	}
}
