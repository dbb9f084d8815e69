package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexfields/pkg/fields"
)

const modulePath = "github.com/mesh-intelligence/lexfields"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lexfields version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "lexfields v%s\nmodule: %s\n", fields.Version, modulePath)
			return nil
		},
	}
}
