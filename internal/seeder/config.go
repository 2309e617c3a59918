package seeder

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds preset seeder settings.
type Config struct {
	// PresetsPath is the JSON file listing the preset trees to install.
	PresetsPath string `yaml:"presets_path" env:"SEEDER_PRESETS_PATH"`
	// OwnerDisplayName is the system account that owns preset nodes.
	// Preset trees themselves are ownerless; their skills and achievements
	// need an owning row, which is this account.
	OwnerDisplayName string `yaml:"owner_display_name" env:"SEEDER_OWNER_DISPLAY_NAME" env-default:"skilltree-presets"`
	DryRun           bool   `yaml:"dry_run" env:"SEEDER_DRY_RUN"`
}

// LoadConfig reads seeder configuration from a YAML file and environment
// variables. Priority: ENV > YAML > defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("seeder config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("seeder config: read %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("seeder config: read env: %w", err)
	}

	return &cfg, nil
}
