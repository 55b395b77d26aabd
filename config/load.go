package config

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk layout of a tuning file. Sections and keys that are
// absent keep their current values.
type fileConfig struct {
	Avatar     AvatarConfig     `yaml:"avatar"`
	Match      MatchConfig      `yaml:"match"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Server     ServerConfig     `yaml:"server"`
	Prediction PredictionConfig `yaml:"prediction"`
	Bot        BotConfigData    `yaml:"bot"`
}

// Load overlays the YAML tuning file at path onto the current configuration
// and validates the result.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse overlays YAML tuning data onto the current configuration. Nothing
// changes unless the merged result validates.
func Parse(data []byte) error {
	fc := current()
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := fc.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	Avatar = fc.Avatar
	Match = fc.Match
	Physics = fc.Physics
	Server = fc.Server
	Prediction = fc.Prediction
	Bot = fc.Bot
	return nil
}

func current() fileConfig {
	return fileConfig{
		Avatar:     Avatar,
		Match:      Match,
		Physics:    Physics,
		Server:     Server,
		Prediction: Prediction,
		Bot:        BotConfigData{Difficulties: maps.Clone(Bot.Difficulties)},
	}
}
