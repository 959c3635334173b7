package spawn

import (
	"fmt"
	"strconv"

	"gopkg.in/ini.v1"
)

// RenderSettings builds the session settings record. The caller layers
// option spawn codes and forced values on top before the houses are
// written, mirroring the spawner's expectation that forced values override
// player choices.
func RenderSettings(s *Session) (*ini.File, error) {
	local := s.localIndex()
	if local == -1 {
		return nil, fmt.Errorf("no local player among %d humans", len(s.Humans))
	}

	f := ini.Empty()
	settings := f.Section("Settings")
	cfg := &s.Settings

	settings.Key("Name").SetValue(cfg.PlayerName)
	settings.Key("Scenario").SetValue(cfg.ScenarioName)
	settings.Key("UIGameMode").SetValue(cfg.UIGameMode)
	settings.Key("UIMapName").SetValue(cfg.UIMapName)
	settings.Key("PlayerCount").SetValue(strconv.Itoa(cfg.PlayerCount))
	settings.Key("Side").SetValue(strconv.Itoa(s.Humans[local].Side))
	settings.Key("IsSpectator").SetValue(boolString(s.Humans[local].IsSpectator))
	settings.Key("Color").SetValue(strconv.Itoa(s.Humans[local].Color))
	if cfg.CustomLoadScreen != "" {
		settings.Key("CustomLoadScreen").SetValue(cfg.CustomLoadScreen)
	}
	settings.Key("AIPlayers").SetValue(strconv.Itoa(cfg.AIPlayerCount))
	settings.Key("Seed").SetValue(strconv.Itoa(cfg.Seed))
	if cfg.CoachMode {
		settings.Key("CoachMode").SetValue(boolString(true))
	}
	if cfg.AutoSurrenderOff {
		settings.Key("AutoSurrender").SetValue(boolString(false))
	}
	if cfg.NoRNG {
		settings.Key("NoRNG").SetValue(boolString(true))
	}
	if cfg.Multiplayer {
		settings.Key("FrameSendRate").SetValue(strconv.Itoa(cfg.FrameSendRate))
		if cfg.MaxAhead > 0 {
			settings.Key("MaxAhead").SetValue(strconv.Itoa(cfg.MaxAhead))
		}
		settings.Key("Protocol").SetValue(strconv.Itoa(cfg.Protocol))
	}
	return f, nil
}

// RenderHouses writes the per-house sections into the settings record: the
// remote player sections, AI house tables, spectator flags, alliances and
// spawn locations.
func RenderHouses(f *ini.File, s *Session) error {
	local := s.localIndex()
	if local == -1 {
		return fmt.Errorf("no local player among %d humans", len(s.Humans))
	}

	otherID := 1
	for i, h := range s.Humans {
		if i == local {
			continue
		}
		section := f.Section("Other" + strconv.Itoa(otherID))
		section.Key("Name").SetValue(h.Name)
		section.Key("Side").SetValue(strconv.Itoa(h.Side))
		section.Key("IsSpectator").SetValue(boolString(h.IsSpectator))
		section.Key("Color").SetValue(strconv.Itoa(h.Color))
		section.Key("Ip").SetValue(h.IP)
		section.Key("Port").SetValue(strconv.Itoa(h.Port))
		otherID++
	}

	order := s.multiOrder()

	for aiID, ai := range s.AIs {
		key := multiKey(len(order) + aiID + 1)
		f.Section("HouseHandicaps").Key(key).SetValue(strconv.Itoa(ai.Handicap))
		f.Section("HouseCountries").Key(key).SetValue(strconv.Itoa(ai.Side))
		f.Section("HouseColors").Key(key).SetValue(strconv.Itoa(ai.Color))
	}

	for multiID, humanIdx := range order {
		if s.Humans[humanIdx].IsSpectator {
			f.Section("IsSpectator").Key(multiKey(multiID + 1)).SetValue(boolString(true))
		}
	}

	renderAlliances(f, s, order)

	// Human spawn records follow house numbering; a waypoint of -1 leaves
	// the location to the game.
	for i := range s.Humans {
		waypoint := s.Humans[order[i]].StartingWaypoint
		if waypoint > -1 {
			f.Section("SpawnLocations").Key(multiKey(i + 1)).SetValue(strconv.Itoa(waypoint))
		}
	}
	for aiID, ai := range s.AIs {
		if ai.StartingWaypoint > -1 {
			f.Section("SpawnLocations").Key(multiKey(len(s.Humans) + aiID + 1)).SetValue(strconv.Itoa(ai.StartingWaypoint))
		}
	}
	return nil
}

var allyKeys = [...]string{
	"HouseAllyOne", "HouseAllyTwo", "HouseAllyThree", "HouseAllyFour",
	"HouseAllyFive", "HouseAllySix", "HouseAllySeven",
}

// renderAlliances writes a MultiN_Alliances section for every house on a
// team, listing the zero-based house indexes of its allies. Houses without
// a team get no section.
func renderAlliances(f *ini.File, s *Session, order []int) {
	type housePos struct {
		team  int
		multi int
	}
	houses := make([]housePos, 0, len(order)+len(s.AIs))
	for multiID, humanIdx := range order {
		houses = append(houses, housePos{team: s.Humans[humanIdx].Team, multi: multiID + 1})
	}
	for aiID, ai := range s.AIs {
		houses = append(houses, housePos{team: ai.Team, multi: len(order) + aiID + 1})
	}

	for _, h := range houses {
		if h.team == 0 {
			continue
		}
		var allies []int
		for _, other := range houses {
			if other.multi != h.multi && other.team == h.team {
				allies = append(allies, other.multi-1)
			}
		}
		if len(allies) == 0 {
			continue
		}
		section := f.Section(multiKey(h.multi) + "_Alliances")
		for i, ally := range allies {
			if i >= len(allyKeys) {
				break
			}
			section.Key(allyKeys[i]).SetValue(strconv.Itoa(ally))
		}
	}
}

func boolString(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
