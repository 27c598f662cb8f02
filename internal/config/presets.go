package config

import (
	"fmt"
	"sort"
	"time"
)

// Presets adjust the defaults for a difficulty level.
var Presets = map[string]func(*Config){
	"easy": func(c *Config) {
		c.Vergence.ResponseTimeout = 8 * time.Second
		c.Vergence.Depth.OffsetTargetVarianceMin = 6
		c.Vergence.Depth.OffsetTargetVarianceMax = 12
		c.Saccades.GridSize = 3
		c.Saccades.Presentation = 2500 * time.Millisecond
		c.ContainerSearch.StartLevel = 1
		c.ContainerSearch.Reveal = 3 * time.Second
		c.SpatialHearing.Sources = 4
		c.SpatialHearing.ResponseTimeout = 10 * time.Second
	},
	"normal": func(c *Config) {},
	"hard": func(c *Config) {
		c.Vergence.ResponseTimeout = 3 * time.Second
		c.Vergence.Depth.OffsetTargetVarianceMin = 3
		c.Vergence.Depth.OffsetTargetVarianceMax = 4
		c.Saccades.GridSize = 7
		c.Saccades.Presentation = 900 * time.Millisecond
		c.ContainerSearch.StartLevel = 4
		c.ContainerSearch.Reveal = 1200 * time.Millisecond
		c.SpatialHearing.Sources = 8
		c.SpatialHearing.ResponseTimeout = 4 * time.Second
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ApplyPreset(cfg *Config, name string) error {
	apply, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrNoPreset, name, ListPresets())
	}
	apply(cfg)
	return nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
