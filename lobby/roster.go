package lobby

import (
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
)

const (
	MaxPlayerCount = 8 // total human + AI slots in a lobby

	TeamNone = 0 // no team; teams 1-4 are A-D
	MaxTeams = 4
)

// AI difficulty levels. Humans carry AILevelNone.
const (
	AILevelNone = -1
	AILevelEasy = iota - 1
	AILevelMedium
	AILevelHard
	AILevelBrutal
	AILevelAbyss
)

var aiLevelNames = []string{"Easy AI", "Medium AI", "Hard AI", "Brutal AI", "Abyss AI"}

var (
	ErrRosterFull    = errors.New("lobby is full")
	ErrAIDisallowed  = errors.New("AI players are not allowed on this map")
	ErrNoSuchPlayer  = errors.New("no such player")
	ErrDuplicateName = errors.New("a player with that name is already in the lobby")
)

// AILevelName returns the display name for an AI difficulty level, or
// "Computer" for levels outside the known range.
func AILevelName(level int) string {
	if level < 0 || level >= len(aiLevelNames) {
		return "Computer"
	}
	return aiLevelNames[level]
}

// Player is one occupied lobby slot, human or AI.
type Player struct {
	ID   uuid.UUID `json:"id,omitempty"`
	Name string    `json:"name"`

	SideID           int `json:"side_id"`           // 0 = random, then selector groups, sides, spectator last
	ColorID          int `json:"color_id"`          // 0 = random, 1..N = color list entries
	StartingLocation int `json:"starting_location"` // 0 = unassigned, 1..MaxPlayers
	TeamID           int `json:"team_id"`           // 0 = none, 1..4 = team

	Ready     bool `json:"ready"`
	AutoReady bool `json:"auto_ready"`
	Verified  bool `json:"verified"`
	IsInGame  bool `json:"is_in_game"`
	Ping      int  `json:"ping"` // round-trip in ms, negative = unknown

	IsAI    bool `json:"is_ai"`
	AILevel int  `json:"ai_level"` // AILevelNone for humans

	FMVHash string `json:"fmv_hash,omitempty"` // identifier of the installed in-game video component
	IP      string `json:"ip,omitempty"`
	Port    int    `json:"port,omitempty"`
}

// NewAIPlayer returns an AI slot at the given difficulty with default
// attributes.
func NewAIPlayer(level int) *Player {
	return &Player{
		ID:      uuid.Must(uuid.NewV4()),
		Name:    AILevelName(level),
		IsAI:    true,
		AILevel: level,
		Ready:   true,
		Ping:    -1,
	}
}

// HouseHandicapAILevel converts the lobby AI level to the handicap index the
// game process expects, where the strongest AI is 0.
func (p *Player) HouseHandicapAILevel() int {
	return len(aiLevelNames) - 1 - p.AILevel
}

// Roster holds the ordered player slots of a lobby. Humans always occupy a
// contiguous prefix; AI slots follow. Empty slots are simply absent.
type Roster struct {
	Humans []*Player
	AIs    []*Player
}

// All returns humans followed by AI players, matching slot order.
func (r *Roster) All() []*Player {
	all := make([]*Player, 0, len(r.Humans)+len(r.AIs))
	all = append(all, r.Humans...)
	return append(all, r.AIs...)
}

func (r *Roster) Size() int { return len(r.Humans) + len(r.AIs) }

// Find returns the human player with the given name, or nil.
func (r *Roster) Find(name string) *Player {
	for _, p := range r.Humans {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FindByID returns the player holding the given slot identity, human or AI,
// or nil. Renames between updates don't break ID-keyed callers.
func (r *Roster) FindByID(id uuid.UUID) *Player {
	for _, p := range r.All() {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindIndex returns the slot index of the named human player, or -1.
func (r *Roster) FindIndex(name string) int {
	for i, p := range r.Humans {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// AddHuman appends a joining player after the existing human prefix. A slot
// identity is assigned on join; names can recur across a session's lifetime,
// the ID cannot.
func (r *Roster) AddHuman(p *Player) error {
	if r.Find(p.Name) != nil {
		return ErrDuplicateName
	}
	if r.Size() >= MaxPlayerCount {
		return ErrRosterFull
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	p.AILevel = AILevelNone
	r.Humans = append(r.Humans, p)
	return nil
}

// AddAI inserts an AI player at the first free slot past the humans. aiAllowed
// reflects the active map/mode policy; the insert is rejected outright when
// AI is disallowed.
func (r *Roster) AddAI(level int, aiAllowed bool) (*Player, error) {
	if !aiAllowed {
		return nil, ErrAIDisallowed
	}
	if r.Size() >= MaxPlayerCount {
		return nil, ErrRosterFull
	}
	p := NewAIPlayer(level)
	r.AIs = append(r.AIs, p)
	return p, nil
}

// RemoveHuman drops the human player at the given slot index.
func (r *Roster) RemoveHuman(index int) error {
	if index < 0 || index >= len(r.Humans) {
		return ErrNoSuchPlayer
	}
	r.Humans = append(r.Humans[:index], r.Humans[index+1:]...)
	return nil
}

// RemoveAI drops the AI player at the given AI-relative index.
func (r *Roster) RemoveAI(index int) error {
	if index < 0 || index >= len(r.AIs) {
		return ErrNoSuchPlayer
	}
	r.AIs = append(r.AIs[:index], r.AIs[index+1:]...)
	return nil
}

// ClearAIs removes every AI player, used when a map change disallows AI.
func (r *Roster) ClearAIs() { r.AIs = nil }

// ClearReadyStatuses resets the ready flag of every human except the host
// (slot 0) and players that opted into auto-ready.
func (r *Roster) ClearReadyStatuses() {
	for i, p := range r.Humans {
		if i == 0 {
			continue
		}
		if !p.AutoReady {
			p.Ready = false
		}
	}
}

// CombatantCount returns the number of participants that will actually play,
// excluding human spectators. spectatorSideID is the side index that marks a
// spectator.
func (r *Roster) CombatantCount(spectatorSideID int) int {
	return lo.CountBy(r.Humans, func(p *Player) bool { return p.SideID != spectatorSideID }) + len(r.AIs)
}

// setSlotAttributes applies validated side/color/team/location values to a
// player. Out-of-range values are clamped to the random/default entry.
func setSlotAttributes(p *Player, side, color, start, team, sideItemCount, colorCount, startCount int) {
	if side < 0 || side >= sideItemCount {
		side = 0
	}
	if color < 0 || color > colorCount {
		color = 0
	}
	if start < 0 || start > startCount {
		start = 0
	}
	if team < 0 || team > MaxTeams {
		team = 0
	}
	p.SideID = side
	p.ColorID = color
	p.StartingLocation = start
	p.TeamID = team
}
