package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Print one draft's fields and metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := draft.ParseKey(args[0])
			if err != nil {
				return err
			}

			s, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			rec, err := s.Get(cmd.Context(), key)
			if err != nil {
				return err
			}

			out := map[string]any{
				"key":      key.String(),
				"saved_at": rec.SavedAt.Format(time.RFC3339),
				"age":      rec.Age(time.Now().UTC()).Round(time.Second).String(),
				"revision": rec.Revision,
				"version":  rec.Version,
				"fields":   map[string]any(rec.Fields),
			}
			data, err := yaml.Marshal(out)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
