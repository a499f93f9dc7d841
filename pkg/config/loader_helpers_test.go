package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeConfigsPreservesBooleanDefaults(t *testing.T) {
	base := DefaultConfig()
	base.Bus.Enabled = true
	override := &Config{App: "counter"}
	raw := map[string]any{"app": "counter"}

	mergeConfigs(base, override, raw)

	assert.True(t, base.Bus.Enabled, "bus flag should remain when not overridden")
	assert.Equal(t, "counter", base.App)
}

func TestMergeConfigsRespectsExplicitFalseAndZero(t *testing.T) {
	base := DefaultConfig()
	base.Metrics.Enabled = true
	override := &Config{}
	raw := map[string]any{
		"metrics": map[string]any{"enabled": false},
		"network": map[string]any{"requests_per_second": 0},
		"ui":      map[string]any{"tick": "0s"},
	}

	mergeConfigs(base, override, raw)

	assert.False(t, base.Metrics.Enabled)
	assert.Zero(t, base.Network.RequestsPerSecond)
	assert.Zero(t, base.UI.Tick)
}

func TestMergeConfigsNilOverride(t *testing.T) {
	base := DefaultConfig()
	mergeConfigs(base, nil, nil)
	assert.Equal(t, DefaultConfig(), base)
}

func TestFieldSet(t *testing.T) {
	raw := map[string]any{"bus": map[string]any{"enabled": true}, "app": "x"}
	assert.True(t, fieldSet(raw, "bus", "enabled"))
	assert.False(t, fieldSet(raw, "bus", "url"))
	assert.False(t, fieldSet(raw, "app", "nested"))
	assert.False(t, fieldSet(nil, "bus"))
	assert.False(t, fieldSet(raw))
}
