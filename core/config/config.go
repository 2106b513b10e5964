package config

import (
	_ "embed"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/pipesh/core/vos"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	DefaultDirName    = ".config/pipesh"
)

type Configuration struct {
	configurationDir string

	Prompt      string `json:"prompt" validate:"required"`
	HistoryFile string `json:"history_file"`
	Color       bool   `json:"color"`
	LogLevel    string `json:"log_level" validate:"oneof=debug info warn error disabled"`
	LogFile     string `json:"log_file"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Dir returns the directory the configuration was loaded from, if any.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// HistoryPath returns the history file to use, or an empty string if history
// should not be persisted. HISTFILE takes precedence over the configured path.
func (c *Configuration) HistoryPath(env vos.VEnv) string {
	if histFile, ok := env.LookupEnv(vos.EnvHistFile); ok && histFile != "" {
		return histFile
	}
	if c.HistoryFile == "" {
		return ""
	}

	path := vos.ExpandTilde(env, c.HistoryFile)
	if !filepath.IsAbs(path) && c.configurationDir != "" {
		path = filepath.Join(c.configurationDir, path)
	}
	return path
}

// DefaultDir returns the configuration directory under the user's home.
func DefaultDir(env vos.VEnv) string {
	home, _ := env.UserHomeDir()
	return filepath.Join(home, DefaultDirName)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
