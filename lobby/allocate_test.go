package lobby

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func allocSession(t *testing.T) *Session {
	t.Helper()
	policy := &fakePolicy{multiplayer: true}
	s := testSession(t, policy)
	s.RandomSeed = 12345
	return s
}

func TestRandomizeIsDeterministicForSeed(t *testing.T) {
	s := allocSession(t)
	for _, n := range []string{"A", "B", "C"} {
		if err := s.Roster.AddHuman(&Player{Name: n}); err != nil {
			t.Fatalf("adding %s: %v", n, err)
		}
	}

	first := s.Randomize()
	second := s.Randomize()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different assignments (-first +second):\n%s", diff)
	}

	s.RandomSeed++
	third := s.Randomize()
	if diff := cmp.Diff(first, third); diff == "" {
		t.Error("different seed produced identical assignments")
	}
}

func TestRandomizeColorExclusivity(t *testing.T) {
	s := allocSession(t)
	for _, n := range []string{"A", "B", "C"} {
		if err := s.Roster.AddHuman(&Player{Name: n}); err != nil {
			t.Fatalf("adding %s: %v", n, err)
		}
	}
	// One explicit pick, rest random.
	s.Roster.Humans[1].ColorID = 3

	assignments := s.Randomize()
	seen := make(map[int]bool)
	for i, a := range assignments {
		if seen[a.ColorIndex] {
			t.Errorf("color %d assigned twice", a.ColorIndex)
		}
		seen[a.ColorIndex] = true
		if i == 1 {
			want := s.Colors[2].GameColorIndex
			if a.ColorIndex != want {
				t.Errorf("explicit color pick resolved to %d, want %d", a.ColorIndex, want)
			}
		}
	}
}

func TestRandomizeRespectsDisallowedSides(t *testing.T) {
	s := allocSession(t)
	deny := NewCheckBoxOption("chkNoNod", false)
	deny.DisallowedSidesWhenChecked = []int{1}
	s.Options.CheckBoxes = append(s.Options.CheckBoxes, deny)
	deny.SetUserValue(true)

	for _, n := range []string{"A", "B"} {
		if err := s.Roster.AddHuman(&Player{Name: n}); err != nil {
			t.Fatalf("adding %s: %v", n, err)
		}
	}

	for seed := 0; seed < 25; seed++ {
		s.RandomSeed = seed
		for _, a := range s.Randomize() {
			if a.SideIndex == 1 {
				t.Fatalf("seed %d assigned a disallowed side", seed)
			}
		}
	}
}

func TestRandomizeSelectorGroupDraws(t *testing.T) {
	s := allocSession(t)
	s.Roster.Humans[0].SideID = 1 // the Rnd GDI/Nod group

	for seed := 0; seed < 25; seed++ {
		s.RandomSeed = seed
		a := s.Randomize()[0]
		if a.SideIndex != 0 && a.SideIndex != 1 {
			t.Fatalf("seed %d drew side %d outside the selector group", seed, a.SideIndex)
		}
	}
}

func TestRandomizeExplicitSides(t *testing.T) {
	s := allocSession(t)
	s.Roster.Humans[0].SideID = s.RandomSelectorCount() + 2 // explicit Scrin

	a := s.Randomize()[0]
	if a.SideIndex != 2 {
		t.Errorf("SideIndex = %d, want 2", a.SideIndex)
	}
}

func TestRandomizeSpectator(t *testing.T) {
	s := allocSession(t)
	s.Roster.Humans[0].SideID = s.SpectatorSideIndex()

	a := s.Randomize()[0]
	if !a.IsSpectator {
		t.Error("expected spectator assignment")
	}
	if a.StartingWaypoint != -1 || a.RealStartingWaypoint != -1 {
		t.Errorf("spectator got a starting location: %d/%d", a.StartingWaypoint, a.RealStartingWaypoint)
	}
}

func TestRandomizeReservesExplicitLocations(t *testing.T) {
	s := allocSession(t)
	for _, n := range []string{"A", "B", "C"} {
		if err := s.Roster.AddHuman(&Player{Name: n}); err != nil {
			t.Fatalf("adding %s: %v", n, err)
		}
	}
	s.Roster.Humans[2].StartingLocation = 2 // waypoint 1

	for seed := 0; seed < 25; seed++ {
		s.RandomSeed = seed
		assignments := s.Randomize()
		if got := assignments[2].StartingWaypoint; got != 1 {
			t.Fatalf("explicit pick resolved to %d, want 1", got)
		}
		for i, a := range assignments {
			if i != 2 && a.StartingWaypoint == 1 {
				t.Fatalf("seed %d handed the reserved waypoint to slot %d", seed, i)
			}
		}
	}
}

func TestRandomizeStacksDuplicateExplicitLocations(t *testing.T) {
	s := allocSession(t)
	if err := s.Roster.AddHuman(&Player{Name: "B"}); err != nil {
		t.Fatalf("adding B: %v", err)
	}
	s.Roster.Humans[0].StartingLocation = 3
	s.Roster.Humans[1].StartingLocation = 3

	assignments := s.Randomize()
	first, second := assignments[0], assignments[1]

	if first.StartingWaypoint != 2 || first.RealStartingWaypoint != 2 {
		t.Errorf("first claimant = %d/%d, want 2/2", first.StartingWaypoint, first.RealStartingWaypoint)
	}
	if !second.Stacked() {
		t.Errorf("second claimant = %d/%d, want stacked", second.StartingWaypoint, second.RealStartingWaypoint)
	}
	if second.RealStartingWaypoint != 2 {
		t.Errorf("second claimant real waypoint = %d, want 2", second.RealStartingWaypoint)
	}
}
