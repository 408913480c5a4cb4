package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the formdraft version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "formdraft %s\n", buildinfo.GetVersion())
			return nil
		},
	}
}
