// Package spawn renders a resolved lobby into the sectioned records the
// game spawner consumes: the session settings record and the scenario
// override derived from the selected map.
package spawn

import (
	"strconv"
)

// The spawner only supports eight houses and starting waypoints 0 through 7.
const MaxHouses = 8

// House is one resolved participant as the spawner sees it. Side and Color
// are final in-game indexes; the lobby's randomization has already run.
type House struct {
	Name        string
	IsLocal     bool
	IsAI        bool
	AILevel     int
	Handicap    int
	Side        int
	Color       int
	IsSpectator bool
	Team        int
	IP          string
	Port        int

	// StartingWaypoint is the waypoint the house spawns at, or -1 when the
	// house shares RealStartingWaypoint with another and needs relocation.
	StartingWaypoint     int
	RealStartingWaypoint int
}

// Stacked reports whether this house shares its chosen waypoint with
// another house and still needs a waypoint of its own.
func (h *House) Stacked() bool {
	return h.StartingWaypoint == -1 && h.RealStartingWaypoint > -1
}

// Settings is the [Settings] section content of the session settings record.
type Settings struct {
	PlayerName       string
	ScenarioName     string
	UIGameMode       string
	UIMapName        string
	PlayerCount      int
	AIPlayerCount    int
	Seed             int
	CustomLoadScreen string

	CoachMode        bool // more than one human team
	AutoSurrenderOff bool // co-op style game type
	NoRNG            bool

	// Network tuning, written only for multiplayer sessions. MaxAhead zero
	// is omitted so the spawner derives it.
	Multiplayer   bool
	FrameSendRate int
	MaxAhead      int
	Protocol      int
}

// Session is the fully resolved lobby handed to the renderers. Humans keeps
// the lobby slot order with the local player included; ColorOrder lists the
// selectable in-game color indexes in client display order.
type Session struct {
	Settings   Settings
	Humans     []House
	AIs        []House
	ColorOrder []int
}

// Houses returns all houses, humans first.
func (s *Session) Houses() []House {
	out := make([]House, 0, len(s.Humans)+len(s.AIs))
	out = append(out, s.Humans...)
	return append(out, s.AIs...)
}

func (s *Session) localIndex() int {
	for i, h := range s.Humans {
		if h.IsLocal {
			return i
		}
	}
	return -1
}

// multiOrder returns the human slot indexes ordered by final game color.
// The spawner numbers human houses in this order, so every MultiN keyed
// section must follow it.
func (s *Session) multiOrder() []int {
	order := make([]int, 0, len(s.Humans))
	for _, color := range s.ColorOrder {
		for i, h := range s.Humans {
			if h.Color == color {
				order = append(order, i)
			}
		}
	}
	return order
}

func multiKey(n int) string { return "Multi" + strconv.Itoa(n) }
