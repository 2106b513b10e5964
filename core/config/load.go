package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. A missing configuration
// file yields the defaults.
func Load(path string) (*Configuration, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs loads the configuration from a directory in fsys.
func LoadFs(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	out := defaultConfig()
	out.configurationDir = path

	configContents, err := afero.ReadFile(fsys, filepath.Join(path, ConfigurationName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return out, nil
	case err != nil:
		return nil, err
	}

	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	return out, nil
}

// Initialize writes the default configuration into dir.
func Initialize(dir string, logger zerolog.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs writes the default configuration into dir on fsys. An existing
// configuration is never overwritten.
func InitializeFs(fsys afero.Fs, dir string, logger zerolog.Logger) (*Configuration, error) {
	configPath := filepath.Join(dir, ConfigurationName)

	exists, err := afero.Exists(fsys, configPath)
	switch {
	case err != nil:
		return nil, err
	case exists:
		return nil, fmt.Errorf("%s already exists", configPath)
	}

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0o644); err != nil {
		return nil, err
	}
	logger.Info().Str("path", configPath).Msg("wrote default configuration")

	return LoadFs(fsys, dir)
}
