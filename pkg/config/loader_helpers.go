package config

import (
	"os"
	"strings"

	"github.com/odvcencio/virtualviews/pkg/errors"
	"gopkg.in/yaml.v3"
)

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigParse, "parsing YAML")
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Strings and durations override when
// non-empty; booleans and numbers only when the key is present in raw, so an
// explicit false or 0 wins over a default.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if strings.TrimSpace(override.App) != "" {
		base.App = override.App
	}

	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Network.Timeout != 0 {
		base.Network.Timeout = override.Network.Timeout
	}
	if fieldSet(raw, "network", "requests_per_second") {
		base.Network.RequestsPerSecond = override.Network.RequestsPerSecond
	}
	if fieldSet(raw, "network", "burst") {
		base.Network.Burst = override.Network.Burst
	}
	if override.Network.UserAgent != "" {
		base.Network.UserAgent = override.Network.UserAgent
	}

	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}

	if fieldSet(raw, "bus", "enabled") {
		base.Bus.Enabled = override.Bus.Enabled
	}
	if override.Bus.URL != "" {
		base.Bus.URL = override.Bus.URL
	}
	if override.Bus.Name != "" {
		base.Bus.Name = override.Bus.Name
	}
	if override.Bus.SubjectPrefix != "" {
		base.Bus.SubjectPrefix = override.Bus.SubjectPrefix
	}

	if fieldSet(raw, "metrics", "enabled") {
		base.Metrics.Enabled = override.Metrics.Enabled
	}
	if override.Metrics.Listen != "" {
		base.Metrics.Listen = override.Metrics.Listen
	}

	if fieldSet(raw, "tracing", "enabled") {
		base.Tracing.Enabled = override.Tracing.Enabled
	}

	if fieldSet(raw, "ui", "split") {
		base.UI.Split = override.UI.Split
	}
	if fieldSet(raw, "ui", "tick") {
		base.UI.Tick = override.UI.Tick
	}

	if override.Gif.Endpoint != "" {
		base.Gif.Endpoint = override.Gif.Endpoint
	}
}

func fieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
