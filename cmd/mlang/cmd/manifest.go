package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// manifest is the optional host configuration file (mlang.yaml) read from
// the current directory: settings a host operator tunes without touching
// the script or recompiling the binary.
type manifest struct {
	Verbose      bool `yaml:"verbose"`
	MaxCallDepth int  `yaml:"max_call_depth"`
}

// loadManifest reads mlang.yaml if present, returning a zero manifest
// (meaning: no overrides) when the file doesn't exist.
func loadManifest(path string) (manifest, error) {
	var m manifest
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, err
	}
	return m, nil
}
