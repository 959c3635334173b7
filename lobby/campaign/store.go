package campaign

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

const (
	missionsSection = "Missions"
	globalsSection  = "GlobalVariables"
	bonusesSection  = "Bonuses"
)

// Store reads and writes the campaign score file. The on-disk format is an
// INI document that gets base64-encoded to keep casual editors out of it;
// plain INI content from older clients is still accepted.
type Store struct {
	logger     *zap.Logger
	path       string
	backupPath string
}

func NewStore(logger *zap.Logger, path, backupPath string) *Store {
	return &Store{logger: logger, path: path, backupPath: backupPath}
}

// decode parses score data in either supported layer.
func decode(data []byte) (*ini.File, error) {
	if len(data) > 0 && data[0] == '[' {
		return ini.Load(data)
	}
	raw, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return nil, fmt.Errorf("decoding score data: %w", err)
	}
	return ini.Load(raw)
}

// Load applies the stored progress onto the given collections. A missing
// file is not an error; corrupt data is logged and skipped so a bad score
// file never blocks startup.
func (s *Store) Load(missions []*Mission, globals []*GlobalVariable, bonuses []*Bonus) error {
	s.logger.Info("Loading mission rank data", zap.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading score file %s: %w", s.path, err)
	}

	f, err := decode(data)
	if err != nil {
		s.logger.Warn("Failed to decode mission rank data", zap.Error(err))
		return nil
	}

	// Plain INI content can only come from old client versions, which wrote
	// ranks on the three-step scale. Obfuscated files are already current.
	legacyScale := len(data) > 0 && data[0] == '['

	if section, err := f.GetSection(missionsSection); err == nil {
		for _, key := range section.Keys() {
			unlocked, rank, ok := parseMissionValue(key.Value())
			if !ok {
				s.logger.Warn("Invalid mission clear data",
					zap.String("mission", key.Name()),
					zap.String("value", key.Value()))
				continue
			}
			converted := DifficultyRank(rank)
			if legacyScale {
				converted = LegacyRank(rank)
			}
			for _, m := range missions {
				if m.InternalName != key.Name() {
					continue
				}
				if m.RequiresUnlocking {
					m.IsUnlocked = unlocked
				}
				if converted >= RankEasy && converted <= RankBrutal {
					m.Rank = converted
				}
			}
		}
	}

	if section, err := f.GetSection(globalsSection); err == nil {
		for _, key := range section.Keys() {
			disabled, enabled, previous, ok := parseGlobalValue(key.Value())
			if !ok {
				s.logger.Warn("Invalid global variable unlock data",
					zap.String("variable", key.Name()),
					zap.String("value", key.Value()))
				continue
			}
			for _, g := range globals {
				if g.InternalName == key.Name() {
					g.IsDisabledUnlocked = disabled
					g.IsEnabledUnlocked = enabled
					g.EnabledThroughPreviousScenario = previous
				}
			}
		}
	}

	if section, err := f.GetSection(bonusesSection); err == nil {
		for _, key := range section.Keys() {
			for _, b := range bonuses {
				if b.InternalName == key.Name() {
					b.Unlocked = true
				}
			}
		}
	}

	return nil
}

// Save merges the given progress into the score file and writes it base64
// encoded. The previous file is copied to the backup path first; a failed
// backup aborts the save so the last good state survives.
func (s *Store) Save(missions []*Mission, globals []*GlobalVariable, bonuses []*Bonus) error {
	s.logger.Info("Writing mission rank data", zap.String("path", s.path))

	if err := s.backup(); err != nil {
		return err
	}

	// Existing entries stay untouched; records of missions unknown to this
	// client version must survive a round-trip.
	f := ini.Empty()
	if data, err := os.ReadFile(s.path); err == nil {
		if prev, err := decode(data); err == nil {
			f = prev
		} else {
			s.logger.Warn("Discarding undecodable previous score data", zap.Error(err))
		}
	}

	for _, m := range missions {
		if (m.IsUnlocked && m.RequiresUnlocking) || m.Rank > RankNone {
			f.Section(missionsSection).Key(m.InternalName).SetValue(missionValue(m))
		}
	}
	for _, g := range globals {
		if g.IsDisabledUnlocked || g.IsEnabledUnlocked {
			f.Section(globalsSection).Key(g.InternalName).SetValue(globalValue(g))
		}
	}
	for _, b := range bonuses {
		if b.Unlocked {
			f.Section(bonusesSection).Key(b.InternalName).SetValue("1")
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("serializing score data: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	if err := os.WriteFile(s.path, []byte(encoded), 0o644); err != nil {
		return fmt.Errorf("writing score file %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) backup() error {
	src, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening score file for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(s.backupPath)
	if err != nil {
		return fmt.Errorf("creating score backup %s: %w", s.backupPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying score backup: %w", err)
	}
	return nil
}
