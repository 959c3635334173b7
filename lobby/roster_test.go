package lobby

import (
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
)

func TestAddHumanRejectsDuplicatesAndOverflow(t *testing.T) {
	r := &Roster{}
	if err := r.AddHuman(&Player{Name: "Alice"}); err != nil {
		t.Fatalf("AddHuman: %v", err)
	}
	if err := r.AddHuman(&Player{Name: "Alice"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate AddHuman = %v, want ErrDuplicateName", err)
	}

	for i := 1; i < MaxPlayerCount; i++ {
		if err := r.AddHuman(&Player{Name: string(rune('A' + i))}); err != nil {
			t.Fatalf("filling slot %d: %v", i, err)
		}
	}
	if err := r.AddHuman(&Player{Name: "Overflow"}); !errors.Is(err, ErrRosterFull) {
		t.Errorf("overflow AddHuman = %v, want ErrRosterFull", err)
	}
}

func TestAddAI(t *testing.T) {
	r := &Roster{Humans: []*Player{{Name: "Host"}}}

	ai, err := r.AddAI(AILevelBrutal, true)
	if err != nil {
		t.Fatalf("AddAI: %v", err)
	}
	if !ai.IsAI || !ai.Ready {
		t.Error("AI slot must be marked AI and ready")
	}
	if ai.Name != "Brutal AI" {
		t.Errorf("Name = %q, want Brutal AI", ai.Name)
	}

	if _, err := r.AddAI(AILevelEasy, false); !errors.Is(err, ErrAIDisallowed) {
		t.Errorf("disallowed AddAI = %v, want ErrAIDisallowed", err)
	}
}

func TestSlotIdentities(t *testing.T) {
	r := &Roster{}
	host := &Player{Name: "Host"}
	if err := r.AddHuman(host); err != nil {
		t.Fatalf("AddHuman: %v", err)
	}
	if host.ID == uuid.Nil {
		t.Fatal("joining player must be assigned a slot identity")
	}

	ai, err := r.AddAI(AILevelMedium, true)
	if err != nil {
		t.Fatalf("AddAI: %v", err)
	}
	if ai.ID == uuid.Nil {
		t.Fatal("AI slot must be assigned a slot identity")
	}
	if ai.ID == host.ID {
		t.Error("slot identities must be unique")
	}

	if got := r.FindByID(ai.ID); got != ai {
		t.Errorf("FindByID(ai) = %v, want the AI slot", got)
	}
	host.Name = "Renamed"
	if got := r.FindByID(host.ID); got != host {
		t.Error("FindByID must survive a rename")
	}
	if got := r.FindByID(uuid.Must(uuid.NewV4())); got != nil {
		t.Errorf("FindByID(unknown) = %v, want nil", got)
	}
}

func TestClearReadyStatuses(t *testing.T) {
	r := &Roster{Humans: []*Player{
		{Name: "Host", Ready: true},
		{Name: "Guest", Ready: true},
		{Name: "Auto", Ready: true, AutoReady: true},
	}}
	r.ClearReadyStatuses()

	if !r.Humans[0].Ready {
		t.Error("host keeps ready status")
	}
	if r.Humans[1].Ready {
		t.Error("guest loses ready status")
	}
	if !r.Humans[2].Ready {
		t.Error("auto-ready player keeps ready status")
	}
}

func TestCombatantCountExcludesHumanSpectators(t *testing.T) {
	const spectatorID = 5
	r := &Roster{
		Humans: []*Player{
			{Name: "Host"},
			{Name: "Watcher", SideID: spectatorID},
		},
		AIs: []*Player{NewAIPlayer(AILevelEasy)},
	}
	if got := r.CombatantCount(spectatorID); got != 2 {
		t.Errorf("CombatantCount = %d, want 2", got)
	}
}

func TestRemovePlayers(t *testing.T) {
	r := &Roster{
		Humans: []*Player{{Name: "Host"}, {Name: "Guest"}},
		AIs:    []*Player{NewAIPlayer(AILevelEasy), NewAIPlayer(AILevelHard)},
	}

	if err := r.RemoveHuman(1); err != nil {
		t.Fatalf("RemoveHuman: %v", err)
	}
	if r.Find("Guest") != nil {
		t.Error("Guest still present after removal")
	}

	if err := r.RemoveAI(0); err != nil {
		t.Fatalf("RemoveAI: %v", err)
	}
	if len(r.AIs) != 1 || r.AIs[0].AILevel != AILevelHard {
		t.Error("wrong AI removed")
	}

	if err := r.RemoveAI(7); !errors.Is(err, ErrNoSuchPlayer) {
		t.Errorf("RemoveAI(7) = %v, want ErrNoSuchPlayer", err)
	}
}

func TestHouseHandicapAILevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{AILevelEasy, 4},
		{AILevelMedium, 3},
		{AILevelHard, 2},
		{AILevelBrutal, 1},
		{AILevelAbyss, 0},
	}
	for _, tc := range tests {
		p := NewAIPlayer(tc.level)
		if got := p.HouseHandicapAILevel(); got != tc.want {
			t.Errorf("HouseHandicapAILevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}
