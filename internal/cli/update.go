package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cfgsync/internal/tracker"
	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

func newUpdateCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rename versions or change configs",
	}
	cmd.AddCommand(newUpdateVersionCmd(s), newUpdateConfigCmd(s))
	return cmd
}

func newUpdateVersionCmd(s *session) *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:     "version <new-name>",
		Short:   "Rename every version called --config-version",
		Example: "  cfgsync update version laptop --config-version home",
		Args:    rangeArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if version == "" {
				return fmt.Errorf("--config-version is required: %w", types.ErrAmbiguousInput)
			}
			n, err := s.tracker.UpdateVersionName(cmd.Context(), version, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %d version(s) from %s to %s\n", n, version, args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&version, "config-version", "c", "", "current version name")
	return cmd
}

func newUpdateConfigCmd(s *session) *cobra.Command {
	var path, version string

	cmd := &cobra.Command{
		Use:   "config <field=value>",
		Short: "Change the path or version of matching configs",
		Long: "Apply field=value to every config stored at --path under --config-version.\n" +
			"field is path or version.",
		Example: "  cfgsync update config version=work --path /etc/hosts --config-version home\n" +
			"  cfgsync update config path=/etc/hosts.new --path /etc/hosts --config-version home",
		Args: rangeArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" || version == "" {
				return fmt.Errorf("--path and --config-version are required: %w", types.ErrAmbiguousInput)
			}
			abs, err := absPath(path)
			if err != nil {
				return err
			}
			assignment, err := absAssignment(args[0])
			if err != nil {
				return err
			}
			n, err := s.tracker.UpdateConfig(cmd.Context(), abs, version, assignment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config(s)\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "stored config path")
	cmd.Flags().StringVarP(&version, "config-version", "c", "", "version the configs belong to")
	return cmd
}

// absAssignment makes the value of a path assignment absolute. Other
// assignments pass through for the tracker to validate.
func absAssignment(assignment string) (string, error) {
	field, value, ok := strings.Cut(assignment, "=")
	if !ok || strings.TrimSpace(field) != tracker.FieldPath || value == "" {
		return assignment, nil
	}
	abs, err := absPath(value)
	if err != nil {
		return "", err
	}
	return field + "=" + abs, nil
}
