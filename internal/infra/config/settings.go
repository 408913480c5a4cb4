// Package config loads the draft tooling settings file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Service202508/BattwheelsGarages-sub001/internal/app/config"
)

// settings is the YAML shape of the settings file.
type settings struct {
	Backend      string `yaml:"backend"`
	DraftDir     string `yaml:"draft_dir"`
	DatabasePath string `yaml:"database_path"`
	Retention    string `yaml:"retention"`
}

// LoadSettings reads the settings file at path. A missing file yields
// the defaults; a malformed file is an error so a typo cannot
// silently point purge at the wrong directory.
func LoadSettings(fs afero.Fs, path string) (appconfig.Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return appconfig.NewAppConfig("", "", "", 0, "default"), nil
		}
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	var s settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}

	if s.Backend != "" && s.Backend != "file" && s.Backend != "sqlite" {
		return nil, fmt.Errorf("settings %s: unknown backend %q", path, s.Backend)
	}

	var retention time.Duration
	if s.Retention != "" {
		retention, err = time.ParseDuration(s.Retention)
		if err != nil {
			return nil, fmt.Errorf("settings %s: invalid retention %q: %w", path, s.Retention, err)
		}
		if retention < 0 {
			return nil, fmt.Errorf("settings %s: negative retention %q", path, s.Retention)
		}
	}

	return appconfig.NewAppConfig(s.Backend, s.DraftDir, s.DatabasePath, retention, "yaml"), nil
}
