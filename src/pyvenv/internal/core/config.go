package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	configfiles "github.com/uber/pyvenv/src/pyvenv/config"
	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

// ConfigDirEnv names a directory whose meta.yaml lists files layered over the defaults.
const ConfigDirEnv = "PYVENV_CONFIG_DIR"

var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

type Config struct {
	provider uber_config.Provider
}

func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

func (c Config) Name() string {
	return "config"
}

// NewConfig loads the embedded defaults, then any files listed by the meta.yaml
// in $PYVENV_CONFIG_DIR. Later files win.
func NewConfig() (uber_config.Provider, error) {
	options, err := embeddedOptions()
	if err != nil {
		return nil, err
	}

	if configDir := os.Getenv(ConfigDirEnv); configDir != "" {
		overrides, err := dirOptions(configDir)
		if err != nil {
			return nil, err
		}
		options = append(options, overrides...)
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return Config{provider: provider}, nil
}

func embeddedOptions() ([]uber_config.YAMLOption, error) {
	meta, err := configfiles.FS.ReadFile(configfiles.MetaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded meta configuration: %w", err)
	}
	files, err := metaFiles(uber_config.Source(bytes.NewReader(meta)))
	if err != nil {
		return nil, err
	}

	var options []uber_config.YAMLOption
	for _, file := range files {
		content, err := configfiles.FS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded configuration %q: %w", file, err)
		}
		options = append(options, uber_config.Source(bytes.NewReader(content)))
	}
	return options, nil
}

func dirOptions(configDir string) ([]uber_config.YAMLOption, error) {
	files, err := metaFiles(uber_config.File(filepath.Join(configDir, configfiles.MetaFile)))
	if err != nil {
		return nil, err
	}

	// Check which files exist and add them to the list
	var options []uber_config.YAMLOption
	for _, file := range files {
		fullPath := filepath.Join(configDir, file)
		if _, err := os.Stat(fullPath); err == nil {
			options = append(options, uber_config.File(fullPath))
		}
	}

	if len(options) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}
	return options, nil
}

func metaFiles(source uber_config.YAMLOption) ([]string, error) {
	metaProvider, err := uber_config.NewYAML(source, uber_config.Expand(os.LookupEnv))
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var configFiles []string
	if err := metaProvider.Get("files").Populate(&configFiles); err != nil {
		return nil, fmt.Errorf("failed to read files list from meta.yaml: %w", err)
	}
	return configFiles, nil
}
