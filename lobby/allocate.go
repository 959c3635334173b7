package lobby

import (
	"math/rand"
)

// HouseAssignment is the final resolved configuration of one participant,
// computed fresh on every launch attempt and never persisted.
type HouseAssignment struct {
	SideIndex   int  `json:"side_index"`   // resolved faction index into the side list
	ColorIndex  int  `json:"color_index"`  // resolved game color index
	IsSpectator bool `json:"is_spectator"` //

	// StartingWaypoint is the waypoint slot written to the session settings,
	// -1 when the game should pick on its own. RealStartingWaypoint is the
	// waypoint the player actually chose; it differs from StartingWaypoint
	// only while the choice is stacked on another player's.
	StartingWaypoint     int `json:"starting_waypoint"`
	RealStartingWaypoint int `json:"real_starting_waypoint"`
}

// Stacked reports whether the assignment shares its chosen waypoint with an
// earlier assignment and still needs a slot of its own.
func (h *HouseAssignment) Stacked() bool {
	return h.RealStartingWaypoint > -1 && h.StartingWaypoint == -1
}

// allocator resolves random side/color/location selections into concrete
// assignments. All draws come from a single seeded source, so the result is
// reproducible for a given seed and lobby snapshot.
type allocator struct {
	rng            *rand.Rand
	sideCount      int
	selectors      []RandomSelector
	selectorCount  int // selectors + the plain Random entry
	disallowed     []bool
	colors         []PlayerColor
	freeColors     []int
	freeLocations  []int
	takenLocations []int
}

func newAllocator(seed int, sideCount int, selectors []RandomSelector, disallowed []bool, colors []PlayerColor) *allocator {
	return &allocator{
		rng:           rand.New(rand.NewSource(int64(seed))),
		sideCount:     sideCount,
		selectors:     selectors,
		selectorCount: len(selectors) + 1,
		disallowed:    disallowed,
		colors:        colors,
	}
}

// reserveColors builds the random color pool: every color except those
// explicitly chosen by a player and those the mission metadata disallows.
func (a *allocator) reserveColors(players []*Player, coop *CoopInfo) {
	free := make([]int, 0, len(a.colors))
	for cID := range a.colors {
		free = append(free, cID)
	}
	remove := func(cID int) {
		for i, v := range free {
			if v == cID {
				free = append(free[:i], free[i+1:]...)
				return
			}
		}
	}
	if coop != nil {
		for _, cID := range coop.DisallowedColors {
			remove(cID)
		}
	}
	for _, p := range players {
		remove(p.ColorID - 1) // color 0 is Random
	}
	a.freeColors = free
}

// reserveLocations builds the free starting-location pool from the map's
// player capacity minus every explicitly chosen location. Explicit choices
// are only reserved here; the per-player draw decides who keeps what.
func (a *allocator) reserveLocations(maxPlayers int, humans []*Player, spectator func(*Player) bool, ais []*Player) {
	free := make([]int, 0, maxPlayers)
	for i := 0; i < maxPlayers; i++ {
		free = append(free, i)
	}
	remove := func(loc int) {
		for i, v := range free {
			if v == loc {
				free = append(free[:i], free[i+1:]...)
				return
			}
		}
	}
	for _, p := range humans {
		if !spectator(p) {
			remove(p.StartingLocation - 1)
		}
	}
	for _, p := range ais {
		remove(p.StartingLocation - 1)
	}
	a.freeLocations = free
	a.takenLocations = nil
}

// randomizeSide resolves the player's side selection. Spectators and plain
// random draws pick uniformly from the allowed side set; selector-group
// draws are restricted to the group's members.
func (a *allocator) randomizeSide(p *Player, h *HouseAssignment) {
	spectatorID := a.sideCount + a.selectorCount
	switch {
	case p.SideID == 0 || p.SideID == spectatorID:
		sideID := a.rng.Intn(a.sideCount)
		for a.disallowed[sideID] {
			sideID = a.rng.Intn(a.sideCount)
		}
		h.SideIndex = sideID
	case p.SideID < a.selectorCount:
		sides := a.selectors[p.SideID-1].Sides
		sideID := sides[a.rng.Intn(len(sides))]
		for a.disallowed[sideID] {
			sideID = sides[a.rng.Intn(len(sides))]
		}
		h.SideIndex = sideID
	default:
		h.SideIndex = p.SideID - a.selectorCount
	}
}

// randomizeColor resolves the player's color, removing random draws from the
// pool so no two random players share one.
func (a *allocator) randomizeColor(p *Player, h *HouseAssignment) {
	if p.ColorID == 0 {
		if len(a.freeColors) == 0 {
			h.ColorIndex = 0
			return
		}
		i := a.rng.Intn(len(a.freeColors))
		h.ColorIndex = a.colors[a.freeColors[i]].GameColorIndex
		a.freeColors = append(a.freeColors[:i], a.freeColors[i+1:]...)
		return
	}
	h.ColorIndex = a.colors[p.ColorID-1].GameColorIndex
}

// randomizeStart resolves the player's starting waypoint. Explicit choices
// stick; when two players explicitly picked the same waypoint, the later one
// is left stacked for the exporter to reassign.
func (a *allocator) randomizeStart(p *Player, h *HouseAssignment) {
	if h.IsSpectator {
		h.StartingWaypoint = -1
		h.RealStartingWaypoint = -1
		return
	}
	if p.StartingLocation == 0 {
		if len(a.freeLocations) == 0 {
			h.StartingWaypoint = -1
			h.RealStartingWaypoint = -1
			return
		}
		i := a.rng.Intn(len(a.freeLocations))
		h.RealStartingWaypoint = a.freeLocations[i]
		h.StartingWaypoint = h.RealStartingWaypoint
		a.freeLocations = append(a.freeLocations[:i], a.freeLocations[i+1:]...)
		return
	}
	h.RealStartingWaypoint = p.StartingLocation - 1
	for _, taken := range a.takenLocations {
		if taken == h.RealStartingWaypoint {
			h.StartingWaypoint = -1
			return
		}
	}
	a.takenLocations = append(a.takenLocations, h.RealStartingWaypoint)
	h.StartingWaypoint = h.RealStartingWaypoint
}

// Randomize resolves the whole lobby into house assignments, humans first,
// in slot order.
func (s *Session) Randomize() []*HouseAssignment {
	spectatorID := s.SpectatorSideIndex()
	total := s.Roster.Size()
	assignments := make([]*HouseAssignment, total)
	for i := range assignments {
		assignments[i] = &HouseAssignment{StartingWaypoint: -1, RealStartingWaypoint: -1}
	}

	for i, p := range s.Roster.Humans {
		assignments[i].IsSpectator = p.SideID == spectatorID
	}

	a := newAllocator(s.RandomSeed, len(s.Sides), s.RandomSelectors, s.DisallowedSides(), s.Colors)

	var coop *CoopInfo
	if s.Map != nil {
		coop = s.Map.Coop
	}
	a.reserveColors(s.Roster.All(), coop)

	maxPlayers := 0
	if s.Map != nil {
		maxPlayers = s.Map.MaxPlayers
	}
	a.reserveLocations(maxPlayers, s.Roster.Humans,
		func(p *Player) bool { return p.SideID == spectatorID }, s.Roster.AIs)

	for i, p := range s.Roster.All() {
		h := assignments[i]
		a.randomizeSide(p, h)
		a.randomizeColor(p, h)
		a.randomizeStart(p, h)
	}
	return assignments
}
