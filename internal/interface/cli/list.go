package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored drafts with their age",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			entries, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No drafts stored.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSAVED AT\tAGE\tFIELDS\tREVISION")
			now := time.Now().UTC()
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					e.Key,
					e.Record.SavedAt.Format(time.RFC3339),
					e.Record.Age(now).Round(time.Second),
					len(e.Record.Fields),
					e.Record.Revision,
				)
			}
			return w.Flush()
		},
	}
}
