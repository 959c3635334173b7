package lobby

import "testing"

func rankSession(t *testing.T, multiplayer bool) *Session {
	t.Helper()
	policy := &fakePolicy{multiplayer: multiplayer}
	return testSession(t, policy)
}

func addHumans(t *testing.T, s *Session, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := s.Roster.AddHuman(&Player{Name: n, Verified: true, Ready: true}); err != nil {
			t.Fatalf("adding %s: %v", n, err)
		}
	}
}

func addAIs(t *testing.T, s *Session, levels ...int) {
	t.Helper()
	for _, level := range levels {
		ai := NewAIPlayer(level)
		ai.SideID = s.RandomSelectorCount()
		s.Roster.AIs = append(s.Roster.AIs, ai)
	}
}

func TestSkirmishRank(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
		want  Rank
	}{
		{
			name: "full map of easy AIs",
			setup: func(s *Session) {
				addAIs(t, s, AILevelEasy, AILevelEasy, AILevelEasy)
			},
			want: RankEasy,
		},
		{
			name: "weakest enemy decides",
			setup: func(s *Session) {
				addAIs(t, s, AILevelBrutal, AILevelBrutal, AILevelEasy)
			},
			want: RankEasy,
		},
		{
			name: "all brutal",
			setup: func(s *Session) {
				addAIs(t, s, AILevelBrutal, AILevelBrutal, AILevelBrutal)
			},
			want: RankBrutal,
		},
		{
			name: "underfilled map",
			setup: func(s *Session) {
				addAIs(t, s, AILevelBrutal)
			},
			want: RankNone,
		},
		{
			name: "stronger AI ally",
			setup: func(s *Session) {
				addAIs(t, s, AILevelBrutal, AILevelMedium, AILevelMedium)
				s.Roster.Humans[0].TeamID = 1
				s.Roster.AIs[0].TeamID = 1
				s.Roster.AIs[1].TeamID = 2
				s.Roster.AIs[2].TeamID = 2
			},
			want: RankNone,
		},
		{
			name: "teamed against equal opposition",
			setup: func(s *Session) {
				addAIs(t, s, AILevelMedium, AILevelHard, AILevelHard)
				s.Roster.Humans[0].TeamID = 1
				s.Roster.AIs[0].TeamID = 1
				s.Roster.AIs[1].TeamID = 2
				s.Roster.AIs[2].TeamID = 2
			},
			want: RankHard,
		},
		{
			name: "outnumbered opposition",
			setup: func(s *Session) {
				addAIs(t, s, AILevelHard, AILevelHard, AILevelHard)
				s.Roster.Humans[0].TeamID = 1
				s.Roster.AIs[0].TeamID = 1
				s.Roster.AIs[1].TeamID = 1
				s.Roster.AIs[2].TeamID = 2
			},
			want: RankNone,
		},
		{
			name: "local spectator",
			setup: func(s *Session) {
				s.Roster.Humans[0].SideID = s.SpectatorSideIndex()
				addAIs(t, s, AILevelHard, AILevelHard, AILevelHard)
			},
			want: RankNone,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := rankSession(t, false)
			tc.setup(s)
			if got := s.ComputeRank(); got != tc.want {
				t.Errorf("ComputeRank() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMultiplayerPvPRank(t *testing.T) {
	s := rankSession(t, true)
	s.ChangeMap(s.Mode, s.Mode.Maps[1]) // 2-player map
	addHumans(t, s, "Rival")

	if got := s.ComputeRank(); got != RankHard {
		t.Errorf("ComputeRank() = %v, want %v for a full PvP map", got, RankHard)
	}

	// Adding an AI disqualifies small-map PvP.
	addAIs(t, s, AILevelBrutal)
	if got := s.ComputeRank(); got != RankNone {
		t.Errorf("ComputeRank() = %v, want %v with AI present", got, RankNone)
	}
}

func TestMultiplayerAloneIsUnranked(t *testing.T) {
	s := rankSession(t, true)
	if got := s.ComputeRank(); got != RankNone {
		t.Errorf("ComputeRank() = %v, want %v for a lone player", got, RankNone)
	}
}

func TestMultiplayerCoopStyleRank(t *testing.T) {
	s := rankSession(t, true) // 4-player map active
	addHumans(t, s, "Friend")
	s.Roster.Humans[0].TeamID = 1
	s.Roster.Humans[1].TeamID = 1
	addAIs(t, s, AILevelHard, AILevelHard)
	s.Roster.AIs[0].TeamID = 2
	s.Roster.AIs[1].TeamID = 2

	if got := s.ComputeRank(); got != RankHard {
		t.Errorf("ComputeRank() = %v, want %v", got, RankHard)
	}

	// A teamless AI breaks the co-op shape.
	s.Roster.AIs[1].TeamID = TeamNone
	if got := s.ComputeRank(); got != RankNone {
		t.Errorf("ComputeRank() = %v, want %v with teamless AI", got, RankNone)
	}
}

func TestMultiplayerCoopStyleRankDeniesSpectators(t *testing.T) {
	s := rankSession(t, true) // 4-player map active
	addHumans(t, s, "Friend", "Third", "Fourth")
	for _, p := range s.Roster.Humans {
		p.TeamID = 1
	}
	addAIs(t, s, AILevelBrutal, AILevelBrutal, AILevelBrutal, AILevelBrutal)
	for _, ai := range s.Roster.AIs {
		ai.TeamID = 2
	}

	if got := s.ComputeRank(); got != RankBrutal {
		t.Fatalf("ComputeRank() = %v, want %v before spectating", got, RankBrutal)
	}

	s.Roster.Humans[3].SideID = s.SpectatorSideIndex()
	if got := s.ComputeRank(); got != RankNone {
		t.Errorf("ComputeRank() = %v, want %v with a human spectator", got, RankNone)
	}
}

func TestCoopMissionRankFollowsDifficulty(t *testing.T) {
	tests := []struct {
		level int
		want  Rank
	}{
		{0, RankHard},
		{1, RankMedium},
		{2, RankEasy},
		{3, RankBrutal},
		{4, RankNone},
	}
	for _, tc := range tests {
		s := rankSession(t, false)
		coop := testMap("Mission", 4)
		coop.Coop = &CoopInfo{}
		s.Mode.Maps = append(s.Mode.Maps, coop)
		s.Mode.CoopDifficultyLevel = tc.level
		s.ChangeMap(s.Mode, coop)

		if got := s.ComputeRank(); got != tc.want {
			t.Errorf("difficulty %d: ComputeRank() = %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestScoringDenyingOptionBlocksRank(t *testing.T) {
	s := rankSession(t, false)
	addAIs(t, s, AILevelHard, AILevelHard, AILevelHard)

	short := s.Options.CheckBox("chkShortGame")
	short.Scoring = ScoringDenyWhenChecked
	s.SetCheckBoxValue("chkShortGame", true)

	if got := s.ComputeRank(); got != RankNone {
		t.Errorf("ComputeRank() = %v, want %v with scoring-denying option", got, RankNone)
	}

	// The same option forced by the map does not block.
	forcing := testMap("Forced Short", 4)
	forcing.ForcedCheckBoxes = []ForcedBool{{Name: "chkShortGame", Value: true}}
	s.Mode.Maps = append(s.Mode.Maps, forcing)
	s.ChangeMap(s.Mode, forcing)

	if got := s.ComputeRank(); got != RankHard {
		t.Errorf("ComputeRank() = %v, want %v when the map forces the option", got, RankHard)
	}
}
