package lobby

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/ini.v1"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrPresetBadName  = errors.New("invalid preset name")
)

const maxPresetNameLength = 30

// OptionPreset is a saved snapshot of the user's game option selections.
type OptionPreset struct {
	Name           string
	CheckBoxValues map[string]bool
	DropDownValues map[string]int
}

// ValidatePresetName checks a user-supplied preset name. Names become INI
// section names, so the character set is restricted.
func ValidatePresetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrPresetBadName)
	}
	if len(name) > maxPresetNameLength {
		return fmt.Errorf("%w: name cannot be longer than %d characters", ErrPresetBadName, maxPresetNameLength)
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
			r == ' ' || r == '-' || r == '_' {
			continue
		}
		return fmt.Errorf("%w: name contains invalid character %q", ErrPresetBadName, r)
	}
	return nil
}

// PresetStore keeps option presets in an INI file, one section per preset.
// It is safe for concurrent use.
type PresetStore struct {
	mu      sync.Mutex
	path    string
	presets map[string]*OptionPreset
}

// NewPresetStore loads the preset file at path. A missing file yields an
// empty store; a corrupt file is an error.
func NewPresetStore(path string) (*PresetStore, error) {
	store := &PresetStore{path: path, presets: make(map[string]*OptionPreset)}

	f, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("loading presets from %s: %w", path, err)
	}
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		preset := &OptionPreset{
			Name:           section.Name(),
			CheckBoxValues: make(map[string]bool),
			DropDownValues: make(map[string]int),
		}
		for _, key := range section.Keys() {
			switch {
			case strings.HasPrefix(key.Name(), "chk"):
				preset.CheckBoxValues[key.Name()] = key.MustBool(false)
			case strings.HasPrefix(key.Name(), "cmb"):
				preset.DropDownValues[key.Name()] = key.MustInt(0)
			}
		}
		store.presets[preset.Name] = preset
	}
	return store, nil
}

// Add stores a preset, replacing any existing one of the same name, and
// persists the store.
func (ps *PresetStore) Add(preset *OptionPreset) error {
	if err := ValidatePresetName(preset.Name); err != nil {
		return err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.presets[preset.Name] = preset
	return ps.save()
}

// Get returns the preset of the given name.
func (ps *PresetStore) Get(name string) (*OptionPreset, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	preset, ok := ps.presets[name]
	if !ok {
		return nil, ErrPresetNotFound
	}
	return preset, nil
}

// Names lists the stored preset names.
func (ps *PresetStore) Names() []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	names := make([]string, 0, len(ps.presets))
	for name := range ps.presets {
		names = append(names, name)
	}
	return names
}

func (ps *PresetStore) save() error {
	f := ini.Empty()
	for _, preset := range ps.presets {
		section, err := f.NewSection(preset.Name)
		if err != nil {
			return err
		}
		for name, checked := range preset.CheckBoxValues {
			section.Key(name).SetValue(strconv.FormatBool(checked))
		}
		for name, index := range preset.DropDownValues {
			section.Key(name).SetValue(strconv.Itoa(index))
		}
	}
	if err := f.SaveTo(ps.path); err != nil {
		return fmt.Errorf("saving presets to %s: %w", ps.path, err)
	}
	return nil
}

// SaveOptionPreset snapshots the current option selections under the given
// name.
func (s *Session) SaveOptionPreset(name string) error {
	if s.presets == nil {
		return ErrPresetNotFound
	}
	preset := &OptionPreset{
		Name:           name,
		CheckBoxValues: make(map[string]bool),
		DropDownValues: make(map[string]int),
	}
	for _, c := range s.Options.CheckBoxes {
		preset.CheckBoxValues[c.Name] = c.Checked
	}
	for _, d := range s.Options.DropDowns {
		preset.DropDownValues[d.Name] = d.SelectedIndex
	}
	return s.presets.Add(preset)
}

// LoadOptionPreset applies a saved preset. Forced options keep their forced
// values; the preset only lands on options the user could edit anyway.
func (s *Session) LoadOptionPreset(name string) error {
	if s.presets == nil {
		return ErrPresetNotFound
	}
	preset, err := s.presets.Get(name)
	if err != nil {
		return err
	}
	for optName, checked := range preset.CheckBoxValues {
		if c := s.Options.CheckBox(optName); c != nil {
			c.SetUserValue(checked)
		}
	}
	for optName, index := range preset.DropDownValues {
		if d := s.Options.DropDown(optName); d != nil {
			d.SetUserValue(index)
		}
	}
	s.onGameOptionChanged(true)
	return nil
}
