package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/cfgsync"

// Version is the release string, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/cfgsync/internal/cli.Version=...".
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the cfgsync version",
		Args:        rangeArgs(0, 0),
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "cfgsync v%s\nmodule: %s\n", Version, modulePath)
			return err
		},
	}
}
