package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	rollouterrors "github.com/alexisbeaulieu97/rollout/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseConfig loads a configuration file from disk, validates it, and returns the resulting model.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rollouterrors.NewParseError(path, 0, err)
	}
	return Parse(path, data)
}

// Parse decodes and validates an in-memory document. path is only used in
// error messages.
func Parse(path string, data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, rollouterrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
