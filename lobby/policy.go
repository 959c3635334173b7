package lobby

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SessionPolicy supplies the behaviors that differ between lobby kinds.
// Skirmish sessions have no remote peers, LAN sessions broadcast on the
// local segment and CnCNet sessions relay through a game room channel.
type SessionPolicy interface {
	Name() string
	IsMultiplayer() bool

	// Notify posts a system line to the local chat box.
	Notify(text string)
	// SendChat delivers a chat line from the local player.
	SendChat(text string)

	BroadcastPlayerOptions(players []*Player)
	BroadcastDiceRoll(dieSides int, results []int)

	// RequestReadyStatus signals the host that the local player is ready.
	RequestReadyStatus()
	// HostLaunch starts the game after the precondition chain has passed.
	HostLaunch(s *Session) error
}

// NoticeSink receives system notices for display.
type NoticeSink interface {
	AddNotice(text string)
}

// MessageSender delivers lobby protocol commands to the other players in
// the room.
type MessageSender interface {
	Send(command, payload string) error
}

// GameStarter hands a resolved session to the game process spawner.
type GameStarter interface {
	StartGame(s *Session) error
}

const (
	cmdChat          = "CHAT"
	cmdPlayerOptions = "POPTS"
	cmdDiceRoll      = "DR"
	cmdReadyRequest  = "READY"
	cmdLaunch        = "START"
)

// SkirmishPolicy drives a single-player lobby. Nothing is broadcast and the
// local player is always the host.
type SkirmishPolicy struct {
	logger    *zap.Logger
	notices   NoticeSink
	starter   GameStarter
	localName string
}

func NewSkirmishPolicy(logger *zap.Logger, notices NoticeSink, starter GameStarter, localName string) *SkirmishPolicy {
	return &SkirmishPolicy{logger: logger, notices: notices, starter: starter, localName: localName}
}

func (p *SkirmishPolicy) Name() string                     { return "skirmish" }
func (p *SkirmishPolicy) IsMultiplayer() bool              { return false }
func (p *SkirmishPolicy) Notify(text string)               { p.notices.AddNotice(text) }
func (p *SkirmishPolicy) SendChat(text string)             { p.notices.AddNotice(text) }
func (p *SkirmishPolicy) BroadcastPlayerOptions([]*Player) {}

// No peers; print the roll locally so /roll still works offline.
func (p *SkirmishPolicy) BroadcastDiceRoll(dieSides int, results []int) {
	strs := make([]string, len(results))
	for i, r := range results {
		strs[i] = strconv.Itoa(r)
	}
	p.notices.AddNotice(fmt.Sprintf("%s rolled %dd%d and got %s",
		p.localName, len(results), dieSides, strings.Join(strs, ", ")))
}
func (p *SkirmishPolicy) RequestReadyStatus() {}
func (p *SkirmishPolicy) HostLaunch(s *Session) error {
	return p.starter.StartGame(s)
}

// broadcastPolicy is the shared behavior of the networked lobby kinds.
type broadcastPolicy struct {
	logger  *zap.Logger
	notices NoticeSink
	sender  MessageSender
	starter GameStarter
}

func (p *broadcastPolicy) IsMultiplayer() bool { return true }
func (p *broadcastPolicy) Notify(text string)  { p.notices.AddNotice(text) }

func (p *broadcastPolicy) SendChat(text string) {
	if err := p.sender.Send(cmdChat, text); err != nil {
		p.logger.Warn("Failed to send chat message", zap.Error(err))
	}
}

func (p *broadcastPolicy) BroadcastPlayerOptions(players []*Player) {
	if err := p.sender.Send(cmdPlayerOptions, EncodePlayerOptions(players)); err != nil {
		p.logger.Warn("Failed to broadcast player options", zap.Error(err))
	}
}

func (p *broadcastPolicy) BroadcastDiceRoll(dieSides int, results []int) {
	if err := p.sender.Send(cmdDiceRoll, EncodeDiceRoll(dieSides, results)); err != nil {
		p.logger.Warn("Failed to broadcast dice roll", zap.Error(err))
	}
}

func (p *broadcastPolicy) RequestReadyStatus() {
	if err := p.sender.Send(cmdReadyRequest, "1"); err != nil {
		p.logger.Warn("Failed to request ready status", zap.Error(err))
	}
}

func (p *broadcastPolicy) HostLaunch(s *Session) error {
	if err := p.sender.Send(cmdLaunch, strconv.Itoa(s.UniqueGameID)); err != nil {
		return err
	}
	return p.starter.StartGame(s)
}

// LANPolicy drives a LAN game room: messages are broadcast to the segment
// and every peer applies them directly.
type LANPolicy struct {
	broadcastPolicy
}

func NewLANPolicy(logger *zap.Logger, notices NoticeSink, sender MessageSender, starter GameStarter) *LANPolicy {
	return &LANPolicy{broadcastPolicy{logger: logger, notices: notices, sender: sender, starter: starter}}
}

func (p *LANPolicy) Name() string { return "lan" }

// CnCNetPolicy drives an online game room relayed through the CnCNet
// network. Launch additionally closes the room to further joins.
type CnCNetPolicy struct {
	broadcastPolicy
	roomCloser func() error
}

func NewCnCNetPolicy(logger *zap.Logger, notices NoticeSink, sender MessageSender,
	starter GameStarter, roomCloser func() error) *CnCNetPolicy {
	return &CnCNetPolicy{
		broadcastPolicy: broadcastPolicy{logger: logger, notices: notices, sender: sender, starter: starter},
		roomCloser:      roomCloser,
	}
}

func (p *CnCNetPolicy) Name() string { return "cncnet" }

func (p *CnCNetPolicy) HostLaunch(s *Session) error {
	if p.roomCloser != nil {
		if err := p.roomCloser(); err != nil {
			p.logger.Warn("Failed to close game room", zap.Error(err))
		}
	}
	return p.broadcastPolicy.HostLaunch(s)
}
