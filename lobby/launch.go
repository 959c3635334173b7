package lobby

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LaunchDenialReason identifies which precondition blocked a host launch.
type LaunchDenialReason int

const (
	DenyNotLocked LaunchDenialReason = iota
	DenySharedColors
	DenyAISpectators
	DenySharedStartingLocations
	DenyInsufficientPlayers
	DenyTooManyPlayers
	DenyPlayerNotVerified
	DenyPlayerStillInGame
	DenyPlayersNotReady
	DenyFMVMismatch
)

// LaunchDenial explains why the session cannot launch yet. PlayerName is set
// for the per-player reasons.
type LaunchDenial struct {
	Reason     LaunchDenialReason
	PlayerName string
}

func (d *LaunchDenial) Error() string {
	switch d.Reason {
	case DenyNotLocked:
		return "lock the game room before launching"
	case DenySharedColors:
		return "multiple players cannot share the same color"
	case DenyAISpectators:
		return "AI players cannot be spectators"
	case DenySharedStartingLocations:
		return "multiple players cannot share the same starting location on this map"
	case DenyInsufficientPlayers:
		return "insufficient number of players for this map"
	case DenyTooManyPlayers:
		return "too many players for this map"
	case DenyPlayerNotVerified:
		return fmt.Sprintf("%s hasn't been verified", d.PlayerName)
	case DenyPlayerStillInGame:
		return fmt.Sprintf("%s is still playing", d.PlayerName)
	case DenyPlayersNotReady:
		return "players are not ready"
	case DenyFMVMismatch:
		return "video file mismatch between players"
	default:
		return "launch denied"
	}
}

// CheckLaunch runs every host-side precondition in order and returns the
// first denial, or nil when the session may start. The order is fixed so
// hosts always fix problems in the same sequence.
func (s *Session) CheckLaunch() *LaunchDenial {
	if !s.Locked {
		return &LaunchDenial{Reason: DenyNotLocked}
	}

	// Only human colors have to be exclusive; AI houses may repeat them.
	seenColors := make(map[int]bool)
	for _, p := range s.Roster.Humans {
		if p.ColorID > 0 && seenColors[p.ColorID] {
			return &LaunchDenial{Reason: DenySharedColors}
		}
		seenColors[p.ColorID] = true
	}

	spectatorID := s.SpectatorSideIndex()
	for _, ai := range s.Roster.AIs {
		if ai.SideID == spectatorID {
			return &LaunchDenial{Reason: DenyAISpectators}
		}
	}

	if s.Map.EnforceMaxPlayers {
		for _, p := range s.Roster.Humans {
			if p.StartingLocation == 0 {
				continue
			}
			for _, other := range s.Roster.All() {
				if other.StartingLocation == p.StartingLocation && other.Name != p.Name {
					return &LaunchDenial{Reason: DenySharedStartingLocations}
				}
			}
		}
		for i, ai := range s.Roster.AIs {
			if ai.StartingLocation == 0 {
				continue
			}
			for j, other := range s.Roster.AIs {
				if j != i && other.StartingLocation == ai.StartingLocation {
					return &LaunchDenial{Reason: DenySharedStartingLocations}
				}
			}
		}

		totalPlayerCount := s.Roster.CombatantCount(spectatorID)
		if totalPlayerCount < s.Map.MinPlayers {
			return &LaunchDenial{Reason: DenyInsufficientPlayers}
		}
		if totalPlayerCount > s.Map.MaxPlayers {
			return &LaunchDenial{Reason: DenyTooManyPlayers}
		}
	}

	for _, p := range s.Roster.Humans {
		if p.Name == s.LocalPlayerName {
			continue
		}
		if !p.Verified {
			return &LaunchDenial{Reason: DenyPlayerNotVerified, PlayerName: p.Name}
		}
		if !p.Ready {
			if p.IsInGame {
				return &LaunchDenial{Reason: DenyPlayerStillInGame, PlayerName: p.Name}
			}
			return &LaunchDenial{Reason: DenyPlayersNotReady}
		}
	}

	if !s.FMVStateOK() {
		return &LaunchDenial{Reason: DenyFMVMismatch}
	}

	return nil
}

// RequestLaunch is the launch-button entry point. Non-hosts signal readiness
// instead; hosts run the precondition chain and, when it passes, generate
// the game identifier and hand off to the policy.
func (s *Session) RequestLaunch() error {
	if !s.IsHost {
		s.policy.RequestReadyStatus()
		return nil
	}

	if denial := s.CheckLaunch(); denial != nil {
		s.notify(denial.Error())
		return denial
	}

	s.GenerateGameID(time.Now())

	s.logger.Info("Launching game",
		zap.String("map", s.Map.Name),
		zap.String("mode", s.Mode.UIName),
		zap.Int("game_id", s.UniqueGameID),
		zap.Int("humans", len(s.Roster.Humans)),
		zap.Int("ais", len(s.Roster.AIs)))

	return s.policy.HostLaunch(s)
}
