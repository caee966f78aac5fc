package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML shape accepted by --config.
type FileConfig struct {
	URL      string `yaml:"url"`
	Driver   string `yaml:"driver"`
	Table    string `yaml:"table"`
	KeyField string `yaml:"key_field"`
}

func loadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}
