package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/claimctl/pkg/constants"
)

// newVersionCmd prints the build version. It needs no configuration.
func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the claimctl version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			NewPrinter(opts.out, opts.errOut, false).Print("%s %s", constants.AppName, constants.Version)
		},
	}
}
