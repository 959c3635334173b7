package lobby

import (
	"errors"
	"fmt"

	"gopkg.in/ini.v1"
)

var (
	ErrNoMaps          = errors.New("game mode has no maps")
	ErrMapNotFound     = errors.New("map not found")
	ErrOfficialMap     = errors.New("official maps cannot be deleted")
	ErrScenarioMissing = errors.New("map has no scenario data")
)

// ForcedBool is a checkbox value imposed on the lobby by a map or game mode.
type ForcedBool struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

// ForcedIndex is a dropdown selection imposed on the lobby by a map or game mode.
type ForcedIndex struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CoopInfo carries the co-op metadata of a mission map. A nil CoopInfo on a
// Map means the map is a regular multiplayer map.
type CoopInfo struct {
	DisallowedSides  []int `json:"disallowed_sides,omitempty"`  // faction indexes that cannot be played on this mission
	DisallowedColors []int `json:"disallowed_colors,omitempty"` // color indexes reserved by the mission
}

// Map describes one playable scenario.
type Map struct {
	Name              string        `json:"name"`
	Author            string        `json:"author,omitempty"`
	MaxPlayers        int           `json:"max_players"`
	MinPlayers        int           `json:"min_players"`
	EnforceMaxPlayers bool          `json:"enforce_max_players"`
	Official          bool          `json:"official"`
	Coop              *CoopInfo     `json:"coop,omitempty"`
	ForcedCheckBoxes  []ForcedBool  `json:"forced_check_boxes,omitempty"`
	ForcedDropDowns   []ForcedIndex `json:"forced_drop_downs,omitempty"`

	// Spawn settings the map writes into the session settings record,
	// regardless of what the players chose.
	ForcedSpawnSettings map[string]string `json:"forced_spawn_settings,omitempty"`

	ForceRandomStartLocations bool `json:"force_random_start_locations"`
	ForceNoTeams              bool `json:"force_no_teams"`
	MultiplayerOnly           bool `json:"multiplayer_only"`
	HumanPlayersOnly          bool `json:"human_players_only"`

	// Scenario is the map's native sectioned data. The exporter copies and
	// mutates it; the lobby itself never modifies it.
	Scenario *ini.File `json:"-"`
}

// IsCoop reports whether this map is a co-op mission.
func (m *Map) IsCoop() bool {
	return m != nil && m.Coop != nil
}

// StartingLocationCount returns the number of selectable starting locations,
// which always matches the map's maximum player count.
func (m *Map) StartingLocationCount() int {
	return m.MaxPlayers
}

func (m *Map) SizeString() string {
	return fmt.Sprintf("%d-%d players", m.MinPlayers, m.MaxPlayers)
}

// CloneScenario returns a deep copy of the map's scenario data that the
// exporter is free to mutate.
func (m *Map) CloneScenario() (*ini.File, error) {
	if m.Scenario == nil {
		return nil, ErrScenarioMissing
	}
	clone := ini.Empty()
	for _, sec := range m.Scenario.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		dst, err := clone.NewSection(sec.Name())
		if err != nil {
			return nil, err
		}
		for _, key := range sec.Keys() {
			if _, err := dst.NewKey(key.Name(), key.Value()); err != nil {
				return nil, err
			}
		}
	}
	return clone, nil
}

// GameMode is an ordered collection of maps that share rules and forced
// option values.
type GameMode struct {
	UIName           string        `json:"ui_name"`
	Description      string        `json:"description,omitempty"`
	Maps             []*Map        `json:"maps"`
	DisallowedSides  []int         `json:"disallowed_sides,omitempty"`
	ForcedCheckBoxes []ForcedBool  `json:"forced_check_boxes,omitempty"`
	ForcedDropDowns  []ForcedIndex `json:"forced_drop_downs,omitempty"`

	ForcedSpawnSettings map[string]string `json:"forced_spawn_settings,omitempty"`

	// MapCode holds key/value injections applied to every scenario played
	// in this mode.
	MapCode *ini.File `json:"-"`

	CoopDifficultyLevel       int  `json:"coop_difficulty_level"`
	DifficultyBasedAINames    bool `json:"difficulty_based_ai_names"`
	ForceRandomStartLocations bool `json:"force_random_start_locations"`
	ForceNoTeams              bool `json:"force_no_teams"`
	MultiplayerOnly           bool `json:"multiplayer_only"`
	HumanPlayersOnly          bool `json:"human_players_only"`
}

// RemoveMap drops the named map from the mode's rotation. It returns
// ErrMapNotFound when the mode does not contain the map.
func (gm *GameMode) RemoveMap(name string) error {
	for i, m := range gm.Maps {
		if m.Name == name {
			gm.Maps = append(gm.Maps[:i], gm.Maps[i+1:]...)
			return nil
		}
	}
	return ErrMapNotFound
}

// PlayerColor is one selectable multiplayer color. GameColorIndex is the
// index the game process understands, which does not have to match the
// position in the lobby's color list.
type PlayerColor struct {
	Name           string `json:"name"`
	GameColorIndex int    `json:"game_color_index"`
}

// RandomSelector is a named subset of sides a random draw is restricted to.
type RandomSelector struct {
	Name  string `json:"name"`
	Sides []int  `json:"sides"`
}
