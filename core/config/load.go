package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load reads the configuration from the directory. A missing config file
// yields the built-in defaults so the shell runs with no setup at all.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configContents, err := afero.ReadFile(fs, filepath.Join(path, ConfigurationName))
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Initialize writes the default configuration into the directory. It fails
// if a configuration already exists there.
func Initialize(fs afero.Fs, path string) (string, error) {
	target := filepath.Join(path, ConfigurationName)
	if exists, err := afero.Exists(fs, target); err != nil {
		return "", err
	} else if exists {
		return "", os.ErrExist
	}

	if err := afero.WriteFile(fs, target, defaultConfigData, 0644); err != nil {
		return "", err
	}
	return target, nil
}
