package lobby

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const (
	maxDice     = 10
	maxDieSides = 100
)

// RollDice handles the /roll chat command. dieType is the user-supplied
// argument, for example "3d6"; empty input rolls a single six-sided die.
func (s *Session) RollDice(dieType string) {
	dieSides := 6
	dieCount := 1

	if dieType != "" {
		parts := strings.Split(dieType, "d")
		if len(parts) == 2 {
			var err1, err2 error
			dieCount, err1 = strconv.Atoi(parts[0])
			dieSides, err2 = strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil {
				s.notify("Invalid dice specified. Expected format: /roll <die count>d<die sides>")
				return
			}
		}
	}

	if dieCount > maxDice || dieCount < 1 {
		s.notify("You can only between 1 to 10 dies at once.")
		return
	}
	if dieSides > maxDieSides || dieSides < 2 {
		s.notify("You can only have between 2 and 100 sides in a die.")
		return
	}

	results := make([]int, dieCount)
	for i := range results {
		results[i] = rand.Intn(dieSides) + 1
	}

	s.policy.BroadcastDiceRoll(dieSides, results)
}

func (s *Session) rollDiceCommand(args string) { s.RollDice(args) }

// EncodeDiceRoll packs a roll for transmission: the die's side count
// followed by each result, comma separated.
func EncodeDiceRoll(dieSides int, results []int) string {
	parts := make([]string, 0, len(results)+1)
	parts = append(parts, strconv.Itoa(dieSides))
	for _, r := range results {
		parts = append(parts, strconv.Itoa(r))
	}
	return strings.Join(parts, ",")
}

// HandleDiceRollResult validates a received roll and prints it. Malformed
// or out-of-range payloads are dropped silently, as they can only come from
// tampered clients.
func (s *Session) HandleDiceRollResult(senderName, result string) {
	if result == "" {
		return
	}
	parts := strings.Split(result, ",")
	if len(parts) < 2 || len(parts) > maxDice+1 {
		return
	}
	values := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = -1
		}
		values[i] = n
	}
	dieSides := values[0]
	if dieSides < 1 || dieSides > maxDieSides {
		return
	}
	results := values[1:]
	for _, r := range results {
		if r < 1 || r > dieSides {
			return
		}
	}
	s.PrintDiceRollResult(senderName, dieSides, results)
}

// PrintDiceRollResult announces a dice roll in the chat box.
func (s *Session) PrintDiceRollResult(senderName string, dieSides int, results []int) {
	strs := make([]string, len(results))
	for i, r := range results {
		strs[i] = strconv.Itoa(r)
	}
	s.notify(fmt.Sprintf("%s rolled %dd%d and got %s",
		senderName, len(results), dieSides, strings.Join(strs, ", ")))
}

// EncodePlayerOptions serializes slot selections for a host broadcast. Each
// player contributes name;side;color;start;team, players separated by "|".
func EncodePlayerOptions(players []*Player) string {
	parts := make([]string, len(players))
	for i, p := range players {
		parts[i] = fmt.Sprintf("%s;%d;%d;%d;%d",
			p.Name, p.SideID, p.ColorID, p.StartingLocation, p.TeamID)
	}
	return strings.Join(parts, "|")
}

// ParsePlayerOptions decodes a host broadcast back into slot selections.
func ParsePlayerOptions(payload string) ([]*Player, error) {
	if payload == "" {
		return nil, nil
	}
	entries := strings.Split(payload, "|")
	players := make([]*Player, 0, len(entries))
	for _, entry := range entries {
		fields := strings.Split(entry, ";")
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed player entry %q", entry)
		}
		nums := make([]int, 4)
		for i, f := range fields[1:] {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("malformed player entry %q: %w", entry, err)
			}
			nums[i] = n
		}
		players = append(players, &Player{
			Name:             fields[0],
			SideID:           nums[0],
			ColorID:          nums[1],
			StartingLocation: nums[2],
			TeamID:           nums[3],
		})
	}
	return players, nil
}
