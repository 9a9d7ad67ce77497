package main

import (
	"fmt"
	"os"
	fp "path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/sirupsen/logrus"
	"github.com/titanous/json5"
)

// Config is the content of the optional configuration file. Zero values
// leave the matching flag default in place.
type Config struct {
	BaseURL    string `json:"base_url"`
	Renderer   string `json:"renderer"`
	UserAgent  string `json:"user_agent"`
	ChromePath string `json:"chrome_path"`
	Timeout    int    `json:"timeout"`
	MaxRetries int    `json:"max_retries"`
	RawParams  bool   `json:"raw_params"`
	NoBypass   bool   `json:"no_bypass"`

	Archive ArchiveConfig `json:"archive"`
}

// ArchiveConfig holds the settings of the archive command.
type ArchiveConfig struct {
	Output       string `json:"output"`
	Format       string `json:"format"`
	StartPage    int    `json:"start_page"`
	MaxPages     int    `json:"max_pages"`
	Cooldown     int    `json:"cooldown"`
	SleepPadding int    `json:"sleep_padding"`
}

// readConfig reads the config file at path and merges it with its
// local override, e.g. steamspy.json5 and steamspy.local.json5. Values
// in the local file win. An empty path yields an empty config.
func readConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	localPath := localConfigPath(path)
	data, err = os.ReadFile(localPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var override Config
	if err := json5.Unmarshal(data, &override); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", localPath, err)
	}
	if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
		return cfg, err
	}

	logrus.Debugf("merged config with local overrides from %s", localPath)
	return cfg, nil
}

func localConfigPath(path string) string {
	ext := fp.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}
