package config

import "time"

// Config provides read-only access to the draft tooling
// configuration. It covers only the operator CLI; the engine itself
// is configured programmatically per form instance and never reads
// files or the environment.
type Config interface {
	Backend() string          // "file" or "sqlite"
	DraftDir() string         // root directory of the file backend
	DatabasePath() string     // database file of the sqlite backend
	Retention() time.Duration // purge horizon for `purge --stale`; 0 keeps forever
	ConfigSource() string     // "yaml" or "default"
}

// Defaults for a workstation checkout.
const (
	DefaultBackend      = "file"
	DefaultDraftDir     = ".battwheels/var/drafts"
	DefaultDatabasePath = ".battwheels/var/drafts.db"
)

// AppConfig is the concrete implementation of Config.
type AppConfig struct {
	backend      string
	draftDir     string
	databasePath string
	retention    time.Duration
	configSource string
}

// NewAppConfig builds a config instance; empty strings fall back to
// the defaults.
func NewAppConfig(backend, draftDir, databasePath string, retention time.Duration, source string) *AppConfig {
	if backend == "" {
		backend = DefaultBackend
	}
	if draftDir == "" {
		draftDir = DefaultDraftDir
	}
	if databasePath == "" {
		databasePath = DefaultDatabasePath
	}
	if source == "" {
		source = "default"
	}
	return &AppConfig{
		backend:      backend,
		draftDir:     draftDir,
		databasePath: databasePath,
		retention:    retention,
		configSource: source,
	}
}

func (c *AppConfig) Backend() string          { return c.backend }
func (c *AppConfig) DraftDir() string         { return c.draftDir }
func (c *AppConfig) DatabasePath() string     { return c.databasePath }
func (c *AppConfig) Retention() time.Duration { return c.retention }
func (c *AppConfig) ConfigSource() string     { return c.configSource }
