// Package cli implements the formdraft operator tool: inspection and
// retention management for the local draft area. The engine itself
// never goes through here.
package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	appconfig "github.com/Service202508/BattwheelsGarages-sub001/internal/app/config"
	infraconfig "github.com/Service202508/BattwheelsGarages-sub001/internal/infra/config"
	store "github.com/Service202508/BattwheelsGarages-sub001/internal/infra/repository/draft"
)

const defaultSettingsPath = ".battwheels/settings.yaml"

// globalConfig holds the loaded configuration for all commands.
var globalConfig appconfig.Config

func NewRoot() *cobra.Command {
	var settingsPath string

	cmd := &cobra.Command{
		Use:   "formdraft",
		Short: "Inspect and manage locally stored form drafts",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infraconfig.LoadSettings(afero.NewOsFs(), settingsPath)
			if err != nil {
				return err
			}
			globalConfig = cfg
			return nil
		},
		RunE:          func(c *cobra.Command, _ []string) error { return c.Help() },
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&settingsPath, "settings", defaultSettingsPath, "settings file path")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newPurgeCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// openStore builds the configured draft store. The returned closer is
// a no-op for the file backend.
func openStore() (store.Store, func() error, error) {
	cfg := globalConfig
	if cfg == nil {
		cfg = appconfig.NewAppConfig("", "", "", 0, "default")
	}
	switch cfg.Backend() {
	case "sqlite":
		s, err := store.OpenSQLiteStore(cfg.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "file", "":
		return store.NewFileStore(afero.NewOsFs(), cfg.DraftDir()), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend())
	}
}
