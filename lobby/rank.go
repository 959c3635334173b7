package lobby

// Rank grades a session setup for scoring: the harder the opposition, the
// higher the star awarded on victory.
type Rank int

const (
	RankNone Rank = iota
	RankEasy
	RankMedium
	RankHard
	RankBrutal
)

var rankNames = [...]string{"None", "Easy", "Medium", "Hard", "Brutal"}

func (r Rank) String() string {
	if r < RankNone || r > RankBrutal {
		return "None"
	}
	return rankNames[r]
}

// CoopDifficultyRank maps a game mode's co-op difficulty level to the rank
// earned for beating it.
func CoopDifficultyRank(level int) Rank {
	switch level {
	case 0:
		return RankHard
	case 1:
		return RankMedium
	case 2:
		return RankEasy
	case 3:
		return RankBrutal
	default:
		return RankNone
	}
}

// ComputeRank derives the scoring eligibility of the current setup. It is a
// pure function of session state; every disqualifying condition returns
// RankNone.
func (s *Session) ComputeRank() Rank {
	if s.Mode == nil || s.Map == nil {
		return RankNone
	}

	// Scoring-denying options disqualify, unless the map itself forces them.
	if s.Options.AnyDeniesScoring(s.Map) {
		return RankNone
	}

	localPlayer := s.LocalPlayer()
	if localPlayer == nil {
		return RankNone
	}

	spectatorID := s.SpectatorSideIndex()
	if localPlayer.SideID == spectatorID {
		return RankNone
	}

	if s.Map.IsCoop() {
		return CoopDifficultyRank(s.Mode.CoopDifficultyLevel)
	}

	// Shared by the skirmish and multiplayer paths.
	var teamMemberCounts [MaxTeams + 1]int
	lowestEnemyAILevel := 3
	highestAllyAILevel := 0

	for _, ai := range s.Roster.AIs {
		teamMemberCounts[ai.TeamID]++
		if ai.TeamID > 0 && ai.TeamID == localPlayer.TeamID {
			if ai.AILevel > highestAllyAILevel {
				highestAllyAILevel = ai.AILevel
			}
		} else {
			if ai.AILevel < lowestEnemyAILevel {
				lowestEnemyAILevel = ai.AILevel
			}
		}
	}

	if s.IsMultiplayer() {
		return s.multiplayerRank(localPlayer, teamMemberCounts, lowestEnemyAILevel, highestAllyAILevel)
	}
	return s.skirmishRank(localPlayer, teamMemberCounts, lowestEnemyAILevel, highestAllyAILevel)
}

func (s *Session) multiplayerRank(localPlayer *Player, teamMemberCounts [MaxTeams + 1]int,
	lowestEnemyAILevel, highestAllyAILevel int) Rank {

	if len(s.Roster.Humans) == 1 {
		return RankNone
	}

	spectatorID := s.SpectatorSideIndex()

	// PvP stars for 2-player and 3-player maps.
	if s.Map.MaxPlayers <= 3 {
		if len(s.Roster.AIs) > 0 {
			return RankNone
		}
		combatants := 0
		localTeamMates := 0
		for _, p := range s.Roster.Humans {
			if p.SideID == spectatorID {
				continue
			}
			combatants++
			if localPlayer.TeamID > 0 && p.TeamID == localPlayer.TeamID {
				localTeamMates++
			}
		}
		if combatants != s.Map.MaxPlayers {
			return RankNone
		}
		if localTeamMates > 1 {
			return RankNone
		}
		return RankHard
	}

	// Co-op stars for maps with 4 or more players: all humans on one team
	// against AI opposition at least as numerous and no weaker than the
	// players' AI allies.
	for _, p := range s.Roster.Humans {
		if p.SideID == spectatorID {
			return RankNone
		}
		if p.TeamID != localPlayer.TeamID {
			return RankNone
		}
		if p.TeamID == TeamNone {
			return RankNone
		}
	}
	if len(s.Roster.AIs) == 0 {
		return RankNone
	}
	for _, ai := range s.Roster.AIs {
		if ai.TeamID == TeamNone {
			return RankNone
		}
	}

	teamMemberCounts[localPlayer.TeamID] += len(s.Roster.Humans)

	if lowestEnemyAILevel < highestAllyAILevel {
		return RankNone
	}

	allyCount := teamMemberCounts[localPlayer.TeamID]
	for i := 1; i <= MaxTeams; i++ {
		if i == localPlayer.TeamID {
			continue
		}
		if teamMemberCounts[i] > 0 && teamMemberCounts[i] < allyCount {
			return RankNone
		}
	}

	return Rank(lowestEnemyAILevel + 1)
}

func (s *Session) skirmishRank(localPlayer *Player, teamMemberCounts [MaxTeams + 1]int,
	lowestEnemyAILevel, highestAllyAILevel int) Rank {

	if len(s.Roster.AIs) != s.Map.MaxPlayers-1 {
		return RankNone
	}

	teamMemberCounts[localPlayer.TeamID]++

	if lowestEnemyAILevel < highestAllyAILevel {
		return RankNone
	}

	if localPlayer.TeamID > 0 {
		allyCount := teamMemberCounts[localPlayer.TeamID]
		for i := 1; i <= MaxTeams; i++ {
			if i == localPlayer.TeamID {
				continue
			}
			if teamMemberCounts[i] > 0 && teamMemberCounts[i] < allyCount {
				return RankNone
			}
		}

		// An opposing team at least as large must exist.
		pass := false
		for i := 1; i <= MaxTeams; i++ {
			if i == localPlayer.TeamID {
				continue
			}
			if teamMemberCounts[i] >= allyCount {
				pass = true
				break
			}
		}
		if !pass {
			return RankNone
		}
	}

	return Rank(lowestEnemyAILevel + 1)
}
