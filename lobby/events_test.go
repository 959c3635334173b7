package lobby

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiceRollResultPrinting(t *testing.T) {
	policy := &fakePolicy{multiplayer: true}
	s := testSession(t, policy)
	policy.notices = nil

	s.HandleDiceRollResult("Rampa", "8,3,7,1,5")

	want := []string{"Rampa rolled 4d8 and got 3, 7, 1, 5"}
	if diff := cmp.Diff(want, policy.notices); diff != "" {
		t.Errorf("notices mismatch (-want +got):\n%s", diff)
	}
}

func TestDiceRollResultRejectsTamperedPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"single field", "6"},
		{"result above sides", "6,7"},
		{"result below one", "6,0"},
		{"non-numeric", "6,x"},
		{"too many dice", "6,1,1,1,1,1,1,1,1,1,1,1"},
		{"sides out of range", "101,5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			policy := &fakePolicy{multiplayer: true}
			s := testSession(t, policy)
			policy.notices = nil

			s.HandleDiceRollResult("Rampa", tc.payload)
			if len(policy.notices) != 0 {
				t.Errorf("tampered payload %q produced notice %q", tc.payload, policy.notices[0])
			}
		})
	}
}

func TestRollDiceValidation(t *testing.T) {
	tests := []struct {
		name      string
		arg       string
		wantRoll  bool
		wantError string
	}{
		{"default roll", "", true, ""},
		{"explicit roll", "3d6", true, ""},
		{"garbage", "xdy", false, "Invalid dice"},
		{"too many dice", "11d6", false, "1 to 10"},
		{"too many sides", "2d101", false, "2 and 100"},
		{"single-sided", "2d1", false, "2 and 100"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			policy := &fakePolicy{multiplayer: true}
			s := testSession(t, policy)
			policy.notices = nil

			s.RollDice(tc.arg)

			if tc.wantRoll {
				if len(policy.diceRolls) != 1 {
					t.Fatalf("diceRolls = %v, want one broadcast", policy.diceRolls)
				}
				return
			}
			if len(policy.diceRolls) != 0 {
				t.Fatalf("invalid input still broadcast %v", policy.diceRolls)
			}
			if len(policy.notices) != 1 || !strings.Contains(policy.notices[0], tc.wantError) {
				t.Errorf("notices = %v, want one containing %q", policy.notices, tc.wantError)
			}
		})
	}
}

func TestEncodeDiceRoll(t *testing.T) {
	if got := EncodeDiceRoll(8, []int{3, 7, 1, 5}); got != "8,3,7,1,5" {
		t.Errorf("EncodeDiceRoll = %q, want 8,3,7,1,5", got)
	}
}

func TestPlayerOptionsRoundTrip(t *testing.T) {
	players := []*Player{
		{Name: "Alice", SideID: 2, ColorID: 1, StartingLocation: 3, TeamID: 1},
		{Name: "Bob", SideID: 0, ColorID: 0, StartingLocation: 0, TeamID: 0},
	}

	payload := EncodePlayerOptions(players)
	decoded, err := ParsePlayerOptions(payload)
	if err != nil {
		t.Fatalf("ParsePlayerOptions: %v", err)
	}
	if diff := cmp.Diff(players, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePlayerOptionsMalformed(t *testing.T) {
	for _, payload := range []string{"Alice;1;2", "Alice;a;b;c;d"} {
		if _, err := ParsePlayerOptions(payload); err == nil {
			t.Errorf("ParsePlayerOptions(%q) = nil error, want failure", payload)
		}
	}
}
