package state

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// RuntimeOptions is ambient, non-protocol configuration: logging. It has
// nothing to do with the routing protocol itself — an operator-facing YAML
// file, small since this router has no key material or network topology to
// distribute.
type RuntimeOptions struct {
	Verbose bool   `yaml:"verbose,omitempty"`
	LogFile string `yaml:"log_file,omitempty"`
}

// DefaultRuntimeOptions returns the zero-value defaults: quiet, stderr only.
func DefaultRuntimeOptions() RuntimeOptions {
	return RuntimeOptions{}
}

// LoadRuntimeOptions reads an optional YAML options file, falling back to
// defaults untouched if path is empty. A present-but-unreadable file is an
// error; an absent path is not.
func LoadRuntimeOptions(path string) (RuntimeOptions, error) {
	opts := DefaultRuntimeOptions()
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RuntimeOptions{}, fmt.Errorf("state: read runtime options %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return RuntimeOptions{}, fmt.Errorf("state: parse runtime options %s: %w", path, err)
	}
	return opts, nil
}
