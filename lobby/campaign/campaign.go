// Package campaign persists single-player mission completion: clear ranks,
// unlock state, campaign global variables and bonus unlocks.
package campaign

import (
	"strconv"
	"strings"
)

// DifficultyRank is the rank earned for clearing a mission.
type DifficultyRank int

const (
	RankNone DifficultyRank = iota
	RankEasy
	RankMedium
	RankHard
	RankBrutal
)

// LegacyRank converts a rank value written by old client versions, which
// only knew three difficulty steps.
func LegacyRank(rank int) DifficultyRank {
	switch rank {
	case 1:
		return RankEasy
	case 2:
		return RankHard
	case 3:
		return RankBrutal
	default:
		return DifficultyRank(rank)
	}
}

// Mission is a campaign mission whose progress is tracked.
type Mission struct {
	InternalName      string
	RequiresUnlocking bool
	IsUnlocked        bool
	Rank              DifficultyRank
}

// GlobalVariable is a campaign-wide toggle whose selectable states unlock
// through play.
type GlobalVariable struct {
	InternalName                   string
	IsDisabledUnlocked             bool
	IsEnabledUnlocked              bool
	EnabledThroughPreviousScenario bool
}

// Bonus is a one-way unlockable extra.
type Bonus struct {
	InternalName string
	Unlocked     bool
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func missionValue(m *Mission) string {
	return flag(m.IsUnlocked) + "," + strconv.Itoa(int(m.Rank))
}

func parseMissionValue(value string) (unlocked bool, rank int, ok bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return false, 0, false
	}
	rank, err := strconv.Atoi(parts[1])
	if err != nil {
		rank = 0
	}
	return parts[0] == "1", rank, true
}

func globalValue(g *GlobalVariable) string {
	return flag(g.IsDisabledUnlocked) + "," + flag(g.IsEnabledUnlocked) + "," +
		flag(g.EnabledThroughPreviousScenario)
}

func parseGlobalValue(value string) (disabled, enabled, previous bool, ok bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return false, false, false, false
	}
	return parts[0] == "1", parts[1] == "1", parts[2] == "1", true
}
