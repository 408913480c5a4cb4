package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
)

func newPurgeCmd() *cobra.Command {
	var olderThan time.Duration
	var stale bool
	var all bool

	cmd := &cobra.Command{
		Use:   "purge [key]",
		Short: "Remove stored drafts by key, age, or wholesale",
		Long: `Remove stored drafts.

The engine retains drafts indefinitely; this command is the explicit
retention mechanism. Pass a key to drop a single draft, --older-than
to drop drafts past a given age, --stale to apply the retention from
the settings file, or --all to clear the draft area.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := 0
			if len(args) == 1 {
				modes++
			}
			if olderThan > 0 {
				modes++
			}
			if stale {
				modes++
			}
			if all {
				modes++
			}
			if modes != 1 {
				return fmt.Errorf("specify exactly one of: a key, --older-than, --stale, --all")
			}

			s, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			ctx := cmd.Context()

			switch {
			case len(args) == 1:
				key, err := draft.ParseKey(args[0])
				if err != nil {
					return err
				}
				if err := s.Remove(ctx, key); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed draft %s\n", key)
				return nil

			case all:
				entries, err := s.List(ctx)
				if err != nil {
					return err
				}
				for _, e := range entries {
					if err := s.Remove(ctx, e.Key); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d draft(s)\n", len(entries))
				return nil

			default:
				horizon := olderThan
				if stale {
					horizon = globalConfig.Retention()
					if horizon <= 0 {
						return fmt.Errorf("no retention configured; set `retention` in the settings file")
					}
				}
				purged, err := s.PurgeOlderThan(ctx, time.Now().UTC().Add(-horizon))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d draft(s) older than %s\n", purged, horizon)
				return nil
			}
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "remove drafts saved longer ago than this")
	cmd.Flags().BoolVar(&stale, "stale", false, "apply the retention from the settings file")
	cmd.Flags().BoolVar(&all, "all", false, "remove every stored draft")
	return cmd
}
