package lobby

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the client-side lobby configuration loaded at startup.
type Config struct {
	// LocalPlayerName is the name used in every lobby and written to the
	// spawn configuration.
	LocalPlayerName string `yaml:"local_player_name" validate:"required,max=16"`

	// Sides lists the playable factions in game order.
	Sides []string `yaml:"sides" validate:"required,min=1"`

	// RandomSelectors are the named random groups offered between the plain
	// Random entry and the concrete sides.
	RandomSelectors []RandomSelectorConfig `yaml:"random_selectors" validate:"dive"`

	// Colors maps display color names to in-game color indexes.
	Colors []ColorConfig `yaml:"colors" validate:"required,min=2,dive"`

	// PresetsPath is the INI file option presets persist to.
	PresetsPath string `yaml:"presets_path" validate:"required"`

	// StatisticsPath is the match statistics database location.
	StatisticsPath string `yaml:"statistics_path"`

	// MissionRankPath is the campaign completion record location.
	MissionRankPath string `yaml:"mission_rank_path"`
}

type RandomSelectorConfig struct {
	Name  string `yaml:"name" validate:"required"`
	Sides []int  `yaml:"sides" validate:"required,min=2"`
}

type ColorConfig struct {
	Name           string `yaml:"name" validate:"required"`
	GameColorIndex int    `yaml:"game_color_index" validate:"gte=0"`
}

// LoadConfig reads and validates the lobby configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return &cfg, nil
}

// Selectors converts the configured random groups to engine values.
func (c *Config) Selectors() []RandomSelector {
	out := make([]RandomSelector, len(c.RandomSelectors))
	for i, rs := range c.RandomSelectors {
		out[i] = RandomSelector{Name: rs.Name, Sides: rs.Sides}
	}
	return out
}

// PlayerColors converts the configured colors to engine values.
func (c *Config) PlayerColors() []PlayerColor {
	out := make([]PlayerColor, len(c.Colors))
	for i, cc := range c.Colors {
		out[i] = PlayerColor{Name: cc.Name, GameColorIndex: cc.GameColorIndex}
	}
	return out
}
