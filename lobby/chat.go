package lobby

import (
	"fmt"
	"strconv"
	"strings"
)

// MapLoader resolves custom map files requested through the chat box. The
// message return carries the user-facing result text regardless of outcome.
type MapLoader interface {
	LoadCustomMap(mapName string) (*Map, string, error)
}

// ChatCommand is a slash command typed into the lobby chat box.
type ChatCommand struct {
	Name        string
	Description string
	HostOnly    bool
	Handler     func(args string)
}

// HandleChatInput routes a line of chat input: slash commands dispatch to
// their handlers, everything else is sent as a chat message.
func (s *Session) HandleChatInput(text string) {
	if text == "" {
		return
	}
	if !strings.HasPrefix(text, "/") {
		s.policy.SendChat(text)
		return
	}

	name, args := text[1:], ""
	if i := strings.IndexByte(name, ' '); i != -1 {
		name, args = name[:i], name[i+1:]
	}
	name = strings.ToUpper(name)

	for _, cmd := range s.commands {
		if name != cmd.Name {
			continue
		}
		if cmd.HostOnly && !s.IsHost {
			s.notify(fmt.Sprintf("/%s is for game hosts only.", cmd.Name))
			return
		}
		cmd.Handler(args)
		return
	}

	var sb strings.Builder
	sb.WriteString("To use a command, start your message with /<command>. Possible chat box commands: ")
	for _, cmd := range s.commands {
		fmt.Fprintf(&sb, "\n\n%s: %s", cmd.Name, cmd.Description)
	}
	s.notify(sb.String())
}

// AddChatCommand registers an extra slash command beyond the defaults.
func (s *Session) AddChatCommand(cmd *ChatCommand) { s.commands = append(s.commands, cmd) }

func defaultChatCommands(s *Session) []*ChatCommand {
	return []*ChatCommand{
		{"HIDEMAPS", "Hide map list (game host only)", true,
			func(string) { s.MapListHidden = true }},
		{"SHOWMAPS", "Show map list (game host only)", true,
			func(string) { s.MapListHidden = false }},
		{"FRAMESENDRATE", "Change order lag / FrameSendRate (default 7) (game host only)", true,
			s.setFrameSendRate},
		{"MAXAHEAD", "Change MaxAhead (default 0) (game host only)", true,
			s.setMaxAhead},
		{"PROTOCOLVERSION", "Change ProtocolVersion (default 2) (game host only)", true,
			s.setProtocolVersion},
		{"LOADMAP", "Load a custom map with given filename from /Maps/Custom/ folder.", true,
			s.loadCustomMap},
		{"RANDOMSTARTS", "Enables completely random starting locations (Tiberian Sun based games only).", true,
			s.setStartingLocationClearance},
		{"TOGGLENORNG", "Toggles the in-game random number generator on or off (Tiberian Sun based games only).", true,
			s.toggleNoRNG},
		{"ROLL", "Roll dice, for example /roll 3d6", false,
			s.rollDiceCommand},
		{"SAVEOPTIONS", "Save game option preset so it can be loaded later", false,
			s.saveOptionsCommand},
		{"LOADOPTIONS", "Load game option preset", true,
			s.loadOptionsCommand},
	}
}

func (s *Session) setFrameSendRate(value string) {
	n, err := strconv.Atoi(value)
	if err != nil {
		s.notify("Command syntax: /FrameSendRate <number>")
		return
	}
	s.FrameSendRate = n
	s.notify("FrameSendRate has been changed to " + strconv.Itoa(n))
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
}

func (s *Session) setMaxAhead(value string) {
	n, err := strconv.Atoi(value)
	if err != nil {
		s.notify("Command syntax: /MaxAhead <number>")
		return
	}
	s.MaxAhead = n
	s.notify("MaxAhead has been changed to " + strconv.Itoa(n))
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
}

func (s *Session) setProtocolVersion(value string) {
	n, err := strconv.Atoi(value)
	if err != nil {
		s.notify("Command syntax: /ProtocolVersion <number>.")
		return
	}
	if n != 0 && n != 2 {
		s.notify("ProtocolVersion only allows values 0 and 2.")
		return
	}
	s.ProtocolVersion = n
	s.notify("ProtocolVersion has been changed to " + strconv.Itoa(n))
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
}

func (s *Session) loadCustomMap(mapName string) {
	if s.mapLoader == nil {
		s.notify("Custom maps are not available.")
		return
	}
	_, message, _ := s.mapLoader.LoadCustomMap("Maps/Custom/" + mapName)
	s.notify(message)
}

func (s *Session) setStartingLocationClearance(value string) {
	remove := s.Flags.Has(FlagRandomizeStartingLocations)
	if b, err := strconv.ParseBool(value); err == nil {
		remove = b
	}
	if remove == s.Flags.Has(FlagRandomizeStartingLocations) {
		return
	}
	if remove {
		s.Flags |= FlagRandomizeStartingLocations
		s.notify("The game host has enabled completely random starting locations (only works for regular maps).")
	} else {
		s.Flags &^= FlagRandomizeStartingLocations
		s.notify("The game host has disabled completely random starting locations.")
	}
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
}

func (s *Session) toggleNoRNG(string) {
	s.Flags ^= FlagNoRNG
	if s.Flags.Has(FlagNoRNG) {
		s.notify("The game host has disabled the in-game random number generator " +
			"(can help with sync issues, but affects gameplay).")
	} else {
		s.notify("The game host has enabled the in-game random number generator.")
	}
	s.Roster.ClearReadyStatuses()
	s.onGameOptionChanged(true)
}

func (s *Session) saveOptionsCommand(presetName string) {
	if err := s.SaveOptionPreset(presetName); err != nil {
		s.notify(err.Error())
		return
	}
	s.notify(fmt.Sprintf("Preset %s saved.", presetName))
}

func (s *Session) loadOptionsCommand(presetName string) {
	if err := s.LoadOptionPreset(presetName); err != nil {
		s.notify(fmt.Sprintf("Preset %s not found!", presetName))
		return
	}
	s.notify("Game option preset loaded succesfully.")
}
