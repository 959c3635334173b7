package lobby

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/ini.v1"

	"github.com/cncnet/lobbycore/lobby/spawn"
)

// File names the game spawner reads the session from.
const (
	SettingsFileName = "spawn.ini"
	ScenarioFileName = "spawnmap.ini"
)

// Export is the rendered session handed to the game process: the settings
// record, the scenario override and the resolved house assignments.
type Export struct {
	Settings    *ini.File
	Scenario    *ini.File
	Assignments []*HouseAssignment
	Record      MatchRecord
}

// Export resolves the session and renders the spawner inputs. globalMapCode
// carries client-wide scenario injections and may be nil.
func (s *Session) Export(globalMapCode *ini.File) (*Export, error) {
	if s.Map == nil || s.Mode == nil {
		return nil, ErrScenarioMissing
	}

	s.logger.Info("Exporting session",
		zap.String("map", s.Map.Name),
		zap.String("mode", s.Mode.UIName))

	if s.Map.IsCoop() {
		for _, p := range s.Roster.All() {
			p.TeamID = 1
		}
	}

	assignments := s.Randomize()
	sp := s.spawnSession(assignments)

	settings, err := spawn.RenderSettings(sp)
	if err != nil {
		return nil, fmt.Errorf("rendering session settings: %w", err)
	}

	// Option codes first, then forced values so that forced settings always
	// beat player choices: client-wide, then mode, then map.
	for _, c := range s.Options.CheckBoxes {
		c.ApplySpawnCode(settings)
	}
	for _, d := range s.Options.DropDowns {
		d.ApplySpawnCode(settings)
	}
	applyForcedSettings(settings, s.Options.ForcedSpawnSettings)
	applyForcedSettings(settings, s.Mode.ForcedSpawnSettings)
	applyForcedSettings(settings, s.Map.ForcedSpawnSettings)

	if err := spawn.RenderHouses(settings, sp); err != nil {
		return nil, fmt.Errorf("rendering houses: %w", err)
	}

	scenario, err := s.Map.CloneScenario()
	if err != nil {
		return nil, err
	}
	spawn.ApplyMapCode(scenario, s.Mode.MapCode)
	spawn.ApplyMapCode(scenario, globalMapCode)
	for _, c := range s.Options.CheckBoxes {
		c.ApplyMapCode(scenario)
	}
	for _, d := range s.Options.DropDowns {
		d.ApplyMapCode(scenario)
	}

	// The game engine requires this section to lead the scenario.
	scenario = spawn.PromoteSection(scenario, "MultiplayerDialogSettings")

	if s.Flags.Has(FlagRandomizeStartingLocations) && !s.Map.EnforceMaxPlayers {
		spawn.StripStartingWaypoints(scenario)
	}

	houses := spawn.ResolveStackedLocations(settings, scenario, sp.Houses())
	for i, h := range houses {
		assignments[i].StartingWaypoint = h.StartingWaypoint
	}

	return &Export{
		Settings:    settings,
		Scenario:    scenario,
		Assignments: assignments,
		Record:      s.MatchRecord(assignments),
	}, nil
}

func (s *Session) spawnSession(assignments []*HouseAssignment) *spawn.Session {
	sp := &spawn.Session{}

	for i, p := range s.Roster.Humans {
		a := assignments[i]
		ip := p.IP
		if ip == "" {
			ip = "0.0.0.0"
		}
		sp.Humans = append(sp.Humans, spawn.House{
			Name:                 p.Name,
			IsLocal:              p.Name == s.LocalPlayerName,
			Side:                 a.SideIndex,
			Color:                a.ColorIndex,
			IsSpectator:          a.IsSpectator,
			Team:                 p.TeamID,
			IP:                   ip,
			Port:                 p.Port,
			StartingWaypoint:     a.StartingWaypoint,
			RealStartingWaypoint: a.RealStartingWaypoint,
		})
	}
	for i, p := range s.Roster.AIs {
		a := assignments[len(s.Roster.Humans)+i]
		sp.AIs = append(sp.AIs, spawn.House{
			Name:                 p.Name,
			IsAI:                 true,
			AILevel:              p.AILevel,
			Handicap:             p.HouseHandicapAILevel(),
			Side:                 a.SideIndex,
			Color:                a.ColorIndex,
			Team:                 p.TeamID,
			StartingWaypoint:     a.StartingWaypoint,
			RealStartingWaypoint: a.RealStartingWaypoint,
		})
	}

	for _, c := range s.Colors {
		sp.ColorOrder = append(sp.ColorOrder, c.GameColorIndex)
	}

	sp.Settings = spawn.Settings{
		PlayerName:       s.LocalPlayerName,
		ScenarioName:     ScenarioFileName,
		UIGameMode:       s.Mode.UIName,
		UIMapName:        s.Map.Name,
		PlayerCount:      len(s.Roster.Humans),
		AIPlayerCount:    len(s.Roster.AIs),
		Seed:             s.RandomSeed,
		CoachMode:        s.PvPTeamCount() > 1,
		AutoSurrenderOff: s.GameType() == GameTypeCoop,
		NoRNG:            s.Flags.Has(FlagNoRNG),
		Multiplayer:      s.IsMultiplayer(),
		FrameSendRate:    s.FrameSendRate,
		MaxAhead:         s.MaxAhead,
		Protocol:         s.ProtocolVersion,
	}
	return sp
}

func applyForcedSettings(f *ini.File, forced map[string]string) {
	for key, value := range forced {
		f.Section("Settings").Key(key).SetValue(value)
	}
}
