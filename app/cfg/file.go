package cfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func loadFile(path string) (*fileCfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileCfg
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}

	if file.Timeout < 0 {
		return nil, fmt.Errorf("invalid config %s: timeout must be non-negative", path)
	}

	return &file, nil
}
