package lobby

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultFrameSendRate   = 7
	defaultProtocolVersion = 2
)

// SessionFlags are host-toggled session behaviors with no dedicated option
// control.
type SessionFlags uint32

const (
	// FlagRandomizeStartingLocations removes all starting waypoints from the
	// exported map so the game picks locations on its own.
	FlagRandomizeStartingLocations SessionFlags = 1 << iota
	// FlagNoRNG disables the in-game random number generator, used for
	// debugging sync errors.
	FlagNoRNG
)

func (f SessionFlags) Has(flag SessionFlags) bool { return f&flag == flag }

// Effect is a follow-up action a state transition requires from the caller.
// Transitions return effects instead of triggering them from setters, so the
// composing screen stays in control of when they run.
type Effect int

const (
	EffectUpdatePresence Effect = iota // re-publish rich presence with the new session shape
	EffectRefreshMapList               // the visible map list no longer matches the mode
)

// StatisticsSink receives finished-match records and answers game-ID
// collision checks. The composing screen injects the real store.
type StatisticsSink interface {
	HasMatchWithGameID(id int) bool
	AddMatch(rec MatchRecord)
}

// MatchRecord is the statistics entry written after a game session ends.
type MatchRecord struct {
	GameID       int           `json:"game_id"`
	MapName      string        `json:"map_name"`
	GameModeName string        `json:"game_mode_name"`
	HumanCount   int           `json:"human_count"`
	IsCoop       bool          `json:"is_coop"`
	ValidForStar bool          `json:"valid_for_star"`
	Players      []MatchPlayer `json:"players"`
}

// MatchPlayer is one participant inside a MatchRecord.
type MatchPlayer struct {
	Name        string `json:"name"`
	IsLocal     bool   `json:"is_local"`
	IsAI        bool   `json:"is_ai"`
	IsSpectator bool   `json:"is_spectator"`
	Side        int    `json:"side"`
	Team        int    `json:"team"`
	Color       int    `json:"color"`
	AILevel     int    `json:"ai_level"`
}

// Session is the lobby engine: it owns the roster, the option registry and
// the map/mode selection, and is the only mutator of that state. All methods
// run on the caller's update cycle; nothing here blocks.
type Session struct {
	logger *zap.Logger
	policy SessionPolicy

	Options *OptionSet
	Roster  *Roster
	Modes   []*GameMode
	Mode    *GameMode
	Map     *Map

	Sides           []string
	RandomSelectors []RandomSelector
	Colors          []PlayerColor

	LocalPlayerName string
	IsHost          bool
	Locked          bool

	RandomSeed   int
	UniqueGameID int

	FrameSendRate   int
	MaxAhead        int
	ProtocolVersion int
	Flags           SessionFlags

	// MapListHidden mirrors the host's map list visibility toggle for the
	// composing screen.
	MapListHidden bool

	stats     StatisticsSink
	presets   *PresetStore
	mapLoader MapLoader
	commands  []*ChatCommand

	rank Rank
}

// NewSession assembles a lobby engine. The policy supplies the behaviors
// that differ between skirmish, LAN and CnCNet lobbies; stats and presets
// are the injected collaborators the engine reports to.
func NewSession(logger *zap.Logger, policy SessionPolicy, opts *OptionSet, sides []string,
	selectors []RandomSelector, colors []PlayerColor, modes []*GameMode,
	localPlayerName string, stats StatisticsSink, presets *PresetStore, mapLoader MapLoader) *Session {

	s := &Session{
		logger:          logger,
		policy:          policy,
		Options:         opts,
		Roster:          &Roster{},
		Modes:           modes,
		Sides:           sides,
		RandomSelectors: selectors,
		Colors:          colors,
		LocalPlayerName: localPlayerName,
		FrameSendRate:   defaultFrameSendRate,
		ProtocolVersion: defaultProtocolVersion,
		RandomSeed:      rand.Int(),
		stats:           stats,
		presets:         presets,
		mapLoader:       mapLoader,
	}
	s.commands = defaultChatCommands(s)
	return s
}

// RandomSelectorCount counts the random entries at the head of the side
// list: the plain Random entry plus every named selector group.
func (s *Session) RandomSelectorCount() int { return len(s.RandomSelectors) + 1 }

// SpectatorSideIndex is the side-list index that marks a spectator.
func (s *Session) SpectatorSideIndex() int { return len(s.Sides) + s.RandomSelectorCount() }

// SideItemCount is the total number of entries in the side selection,
// including random entries and the spectator entry.
func (s *Session) SideItemCount() int { return s.SpectatorSideIndex() + 1 }

// LocalPlayer returns the local human's slot, or nil when absent.
func (s *Session) LocalPlayer() *Player { return s.Roster.Find(s.LocalPlayerName) }

func (s *Session) IsMultiplayer() bool { return s.policy.IsMultiplayer() }

// Rank returns the scoring-eligibility rank computed on the last option or
// roster change.
func (s *Session) Rank() Rank { return s.rank }

func (s *Session) notify(text string) { s.policy.Notify(text) }

// AIAllowed reports whether AI slots may exist under the active map/mode.
func (s *Session) AIAllowed() bool {
	if s.Map == nil || s.Mode == nil {
		return true
	}
	return !(s.Map.MultiplayerOnly || s.Mode.MultiplayerOnly) ||
		!(s.Map.HumanPlayersOnly || s.Mode.HumanPlayersOnly)
}

// DisallowedSides returns the per-side exclusion array combining co-op
// metadata, mode restrictions and checkbox-driven exclusions.
func (s *Session) DisallowedSides() []bool {
	disallowed := make([]bool, len(s.Sides))
	if s.Map.IsCoop() {
		for _, side := range s.Map.Coop.DisallowedSides {
			if side >= 0 && side < len(disallowed) {
				disallowed[side] = true
			}
		}
	}
	if s.Mode != nil {
		for _, side := range s.Mode.DisallowedSides {
			if side >= 0 && side < len(disallowed) {
				disallowed[side] = true
			}
		}
	}
	for _, c := range s.Options.CheckBoxes {
		c.ApplyDisallowedSides(disallowed)
	}
	return disallowed
}

// checkDisallowedSides resets every player holding a side that is no longer
// available. It runs after forced-option application, because forced
// checkboxes can add side exclusions of their own.
func (s *Session) checkDisallowedSides() {
	disallowed := s.DisallowedSides()
	selectorCount := s.RandomSelectorCount()

	defaultSide := 0
	allowedCount := 0
	for i, d := range disallowed {
		if !d {
			allowedCount++
			defaultSide = i + selectorCount
		}
	}
	if allowedCount != 1 {
		defaultSide = 0
	}

	players := s.Roster.All()

	// Selector groups collapse once all but one of their member sides are
	// gone; players using a collapsed group fall back to the default.
	for c, sel := range s.RandomSelectors {
		disabledMembers := 0
		for _, side := range sel.Sides {
			if side >= 0 && side < len(disallowed) && disallowed[side] {
				disabledMembers++
			}
		}
		if disabledMembers >= len(sel.Sides)-1 {
			for _, p := range players {
				if p.SideID == 1+c {
					p.SideID = defaultSide
				}
			}
		}
	}

	for i, d := range disallowed {
		if !d {
			continue
		}
		for _, p := range players {
			if p.SideID == i+selectorCount {
				p.SideID = defaultSide
			}
		}
	}

	if allowedCount == 1 {
		for _, p := range players {
			if p.SideID == 0 {
				p.SideID = defaultSide
			}
		}
	}

	// Co-op missions have no spectators.
	if s.Map.IsCoop() {
		spectatorID := s.SpectatorSideIndex()
		for _, p := range players {
			if p.SideID == spectatorID {
				p.SideID = defaultSide
			}
		}
	}
}

// ChangeMap transitions the session to a new map and game mode, applying
// forced options and restoring released ones, and returns the follow-up
// effects the composer must apply.
func (s *Session) ChangeMap(mode *GameMode, m *Map) []Effect {
	oldMode, oldMap := s.Mode, s.Map
	s.Mode = mode
	s.Map = m

	var effects []Effect
	if mode != oldMode && mode != nil {
		effects = append(effects, EffectUpdatePresence, EffectRefreshMapList)
	} else if m != oldMap && m != nil {
		effects = append(effects, EffectUpdatePresence)
	}

	if s.Mode == nil || s.Map == nil {
		// Degraded state: nothing to apply until a real selection arrives.
		s.logger.Debug("Map change entered degraded state")
		return effects
	}

	s.logger.Debug("Changing map",
		zap.String("mode", mode.UIName),
		zap.String("map", m.Name))

	// Forced values from the new mode and map; everything else returns to
	// the user's preference.
	releasedChecks, releasedDrops := s.Options.applyForced(mode, m)
	for _, c := range releasedChecks {
		c.ReleaseForced()
	}
	for _, d := range releasedDrops {
		d.ReleaseForced()
	}

	players := s.Roster.All()
	for _, p := range players {
		if p.StartingLocation > s.Map.StartingLocationCount() ||
			(!s.Map.IsCoop() && (s.Map.ForceRandomStartLocations || s.Mode.ForceRandomStartLocations)) {
			p.StartingLocation = 0
		}
		if !s.Map.IsCoop() && (s.Map.ForceNoTeams || s.Mode.ForceNoTeams) {
			p.TeamID = TeamNone
		}
	}

	if !s.AIAllowed() {
		s.Roster.ClearAIs()
	}

	s.checkDisallowedSides()

	if s.Map.IsCoop() {
		for _, cID := range s.Map.Coop.DisallowedColors {
			if cID < 0 || cID >= len(s.Colors) {
				continue
			}
			for _, p := range s.Roster.All() {
				if p.ColorID == cID+1 {
					p.ColorID = 0
				}
			}
		}
		for _, p := range s.Roster.All() {
			p.TeamID = 1
		}
	}

	s.onGameOptionChanged(false)
	s.Roster.ClearReadyStatuses()
	return effects
}

// onGameOptionChanged recomputes dependent state after any option or roster
// edit. broadcast controls whether the host re-broadcasts options; map
// changes broadcast separately.
func (s *Session) onGameOptionChanged(broadcast bool) {
	s.checkDisallowedSides()
	s.rank = s.ComputeRank()
	if broadcast && s.IsHost {
		s.policy.BroadcastPlayerOptions(s.Roster.All())
	}
}

// SetCheckBoxValue applies a user edit to a boolean option. The edit is
// silently ignored while the option is forced.
func (s *Session) SetCheckBoxValue(name string, checked bool) {
	c := s.Options.CheckBox(name)
	if c == nil || !c.SetUserValue(checked) {
		return
	}
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
}

// SetDropDownValue applies a user edit to a multi-valued option. The edit is
// silently ignored while the option is forced.
func (s *Session) SetDropDownValue(name string, index int) {
	d := s.Options.DropDown(name)
	if d == nil || !d.SetUserValue(index) {
		return
	}
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
}

// SetPlayerAttributes validates and applies a slot's side/color/team/start
// selection, clamping out-of-range values to the random default. Spectators
// never hold a starting location.
func (s *Session) SetPlayerAttributes(index int, side, color, start, team int) error {
	players := s.Roster.All()
	if index < 0 || index >= len(players) {
		return ErrNoSuchPlayer
	}
	p := players[index]
	startCount := 0
	if s.Map != nil {
		startCount = s.Map.StartingLocationCount()
	}
	setSlotAttributes(p, side, color, start, team, s.SideItemCount(), len(s.Colors), startCount)
	if p.SideID == s.SpectatorSideIndex() {
		p.StartingLocation = 0
	}
	if s.Map.IsCoop() && p.IsAI {
		p.TeamID = 1
	}
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
	return nil
}

// AddAIPlayer fills the first free slot past the humans with an AI of the
// given difficulty.
func (s *Session) AddAIPlayer(level int) (*Player, error) {
	p, err := s.Roster.AddAI(level, s.AIAllowed())
	if err != nil {
		return nil, err
	}
	if s.Map.IsCoop() {
		p.TeamID = 1
	}
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
	return p, nil
}

// RemovePlayer drops the player at the given overall slot index, whether
// human or AI.
func (s *Session) RemovePlayer(index int) error {
	var err error
	if index < len(s.Roster.Humans) {
		err = s.Roster.RemoveHuman(index)
	} else {
		err = s.Roster.RemoveAI(index - len(s.Roster.Humans))
	}
	if err != nil {
		return err
	}
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
	return nil
}

// GenerateGameID derives a fresh unique game identifier from the wall clock,
// retrying with a rolling prefix on collision with past matches.
func (s *Session) GenerateGameID(now time.Time) {
	for i := 0; i < 20; i++ {
		stamp := fmt.Sprintf("%d%d%d%d", now.Day(), int(now.Month()), now.Hour(), now.Minute())
		id, err := strconv.Atoi(strconv.Itoa(i) + stamp)
		if err != nil {
			continue
		}
		s.UniqueGameID = id
		if s.stats == nil || !s.stats.HasMatchWithGameID(id) {
			return
		}
	}
}

// HandleGameProcessExited runs after the game process returns to the lobby:
// the finished match is recorded, ready flags reset and a fresh game ID is
// generated for the next round. rec may be nil when the game never started.
func (s *Session) HandleGameProcessExited(rec *MatchRecord, now time.Time) {
	if rec != nil && s.stats != nil {
		s.stats.AddMatch(*rec)
	}
	s.Roster.ClearReadyStatuses()
	if s.IsHost {
		s.GenerateGameID(now)
	}
	s.onGameOptionChanged(false)
}

// PickRandomMap selects a random map matching the current participant
// count, widening the count until a candidate exists.
func (s *Session) PickRandomMap() *Map {
	if s.Mode == nil {
		return nil
	}
	count := s.Roster.CombatantCount(s.SpectatorSideIndex())
	maps := s.mapsForPlayerCount(count)
	if len(maps) == 0 {
		return nil
	}
	roll := rand.Intn(len(maps))
	picked := maps[roll]
	s.logger.Debug("Picked random map",
		zap.Int("roll", roll),
		zap.Int("candidates", len(maps)),
		zap.String("map", picked.Name))
	s.ChangeMap(s.Mode, picked)
	return picked
}

func (s *Session) mapsForPlayerCount(count int) []*Map {
	if count > MaxPlayerCount {
		return nil
	}
	var maps []*Map
	for _, m := range s.Mode.Maps {
		if m.MaxPlayers == count {
			maps = append(maps, m)
		}
	}
	if len(maps) == 0 {
		return s.mapsForPlayerCount(count + 1)
	}
	return maps
}

// DeleteMap removes a custom map from disk and from every mode's rotation.
// Only file-level failures are reported; anything else propagates.
func (s *Session) DeleteMap(m *Map, path string) error {
	if m.Official {
		return ErrOfficialMap
	}
	s.logger.Info("Deleting map", zap.String("map", m.Name), zap.String("path", path))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting map %q: %w", m.Name, err)
	}
	for _, mode := range s.Modes {
		_ = mode.RemoveMap(m.Name)
	}
	if s.Map == m {
		next := s.Mode
		if len(next.Maps) == 0 {
			for _, mode := range s.Modes {
				if len(mode.Maps) > 0 {
					next = mode
					break
				}
			}
		}
		if len(next.Maps) > 0 {
			s.ChangeMap(next, next.Maps[0])
		} else {
			s.ChangeMap(nil, nil)
		}
	}
	return nil
}

// GameType classifies the session by its human team structure.
type GameType int

const (
	GameTypeFFA GameType = iota
	GameTypeCoop
	GameTypeTeamGame
)

// PvPTeamCount counts teams containing two or more non-spectator humans.
func (s *Session) PvPTeamCount() int {
	spectatorID := s.SpectatorSideIndex()
	var teamCounts [MaxTeams]int
	teams := 0
	for _, p := range s.Roster.Humans {
		if p.SideID == spectatorID || p.TeamID == TeamNone {
			continue
		}
		teamCounts[p.TeamID-1]++
		if teamCounts[p.TeamID-1] == 2 {
			teams++
		}
	}
	return teams
}

func (s *Session) GameType() GameType {
	switch s.PvPTeamCount() {
	case 0:
		return GameTypeFFA
	case 1:
		return GameTypeCoop
	default:
		return GameTypeTeamGame
	}
}

// FMVStateOK verifies that when an option depending on the in-game video
// component is enabled, every human reports the host's component identifier.
func (s *Session) FMVStateOK() bool {
	var checkBox *CheckBoxOption
	for _, c := range s.Options.CheckBoxes {
		if c.DependsOnComponent == "FMVs" {
			checkBox = c
			break
		}
	}
	if checkBox == nil || !checkBox.Checked {
		return true
	}
	if len(s.Roster.Humans) == 0 {
		return true
	}
	hostHash := s.Roster.Humans[0].FMVHash
	if hostHash == "" {
		return false
	}
	for _, p := range s.Roster.Humans {
		if p.FMVHash != hostHash {
			return false
		}
	}
	return true
}

// MatchRecord builds the statistics entry for the resolved session.
func (s *Session) MatchRecord(assignments []*HouseAssignment) MatchRecord {
	rec := MatchRecord{
		GameID:       s.UniqueGameID,
		MapName:      s.Map.Name,
		GameModeName: s.Mode.UIName,
		HumanCount:   len(s.Roster.Humans),
		IsCoop:       s.Map.IsCoop(),
		ValidForStar: !s.Options.AnyDeniesScoring(s.Map),
	}
	spectatorID := s.SpectatorSideIndex()
	for i, p := range s.Roster.Humans {
		rec.Players = append(rec.Players, MatchPlayer{
			Name:        p.Name,
			IsLocal:     p.Name == s.LocalPlayerName,
			IsSpectator: p.SideID == spectatorID,
			Side:        assignments[i].SideIndex + 1,
			Team:        p.TeamID,
			Color:       s.colorListIndex(assignments[i].ColorIndex),
			AILevel:     10,
		})
	}
	for i, p := range s.Roster.AIs {
		h := assignments[len(s.Roster.Humans)+i]
		name := "Computer"
		if s.Mode.DifficultyBasedAINames {
			name = p.Name
		}
		rec.Players = append(rec.Players, MatchPlayer{
			Name:    name,
			IsAI:    true,
			Side:    h.SideIndex + 1,
			Team:    p.TeamID,
			Color:   s.colorListIndex(h.ColorIndex),
			AILevel: p.AILevel,
		})
	}
	return rec
}

func (s *Session) colorListIndex(gameColorIndex int) int {
	for i, c := range s.Colors {
		if c.GameColorIndex == gameColorIndex {
			return i
		}
	}
	return -1
}
