package lobby

import (
	"gopkg.in/ini.v1"
)

// ScoringMode controls how a checkbox affects scoring eligibility.
type ScoringMode int

const (
	ScoringNeutral           ScoringMode = iota // the option never affects scoring
	ScoringDenyWhenChecked                      // scoring is denied while the option is checked
	ScoringDenyWhenUnchecked                    // scoring is denied while the option is unchecked
)

// SpawnCode is a key/value pair an option writes into the session settings
// record when it is active.
type SpawnCode struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

// CheckBoxOption is a boolean game option.
//
// The current value and the user-preferred value are tracked separately:
// while a map or mode forces the option, the current value follows the
// forced value and user edits are rejected, but the preferred value is kept
// so it can be restored once the option is released.
type CheckBoxOption struct {
	Name    string      `json:"name"`
	Checked bool        `json:"checked"`
	Scoring ScoringMode `json:"scoring"`

	// Sides that become unavailable while the option is checked.
	DisallowedSidesWhenChecked []int `json:"disallowed_sides_when_checked,omitempty"`

	// Spawn settings written when the option is checked / unchecked.
	CheckedSpawnCode   []SpawnCode `json:"checked_spawn_code,omitempty"`
	UncheckedSpawnCode []SpawnCode `json:"unchecked_spawn_code,omitempty"`

	// Scenario injections applied when the option is checked.
	CheckedMapCode []SpawnCode `json:"checked_map_code,omitempty"`

	// Name of the optional client component this option depends on, e.g.
	// the in-game video pack. Empty for options with no such dependency.
	DependsOnComponent string `json:"depends_on_component,omitempty"`

	userChecked bool
	forced      bool
}

// NewCheckBoxOption returns an option whose current and user-preferred
// values both start at defaultChecked.
func NewCheckBoxOption(name string, defaultChecked bool) *CheckBoxOption {
	return &CheckBoxOption{Name: name, Checked: defaultChecked, userChecked: defaultChecked}
}

func (c *CheckBoxOption) Forced() bool      { return c.forced }
func (c *CheckBoxOption) UserChecked() bool { return c.userChecked }

// SetUserValue applies a user edit. It reports whether the edit took effect;
// edits are ignored while the option is forced.
func (c *CheckBoxOption) SetUserValue(checked bool) bool {
	if c.forced {
		return false
	}
	c.Checked = checked
	c.userChecked = checked
	return true
}

// ApplyForced imposes a map- or mode-supplied value.
func (c *CheckBoxOption) ApplyForced(checked bool) {
	c.Checked = checked
	c.forced = true
}

// ReleaseForced clears the forced state and restores the user's preference.
func (c *CheckBoxOption) ReleaseForced() {
	c.forced = false
	c.Checked = c.userChecked
}

// DeniesScoring reports whether the option's current value blocks scoring.
func (c *CheckBoxOption) DeniesScoring() bool {
	switch c.Scoring {
	case ScoringDenyWhenChecked:
		return c.Checked
	case ScoringDenyWhenUnchecked:
		return !c.Checked
	}
	return false
}

// ApplyDisallowedSides marks the sides excluded by the option's current
// value in the given allowance array.
func (c *CheckBoxOption) ApplyDisallowedSides(disallowed []bool) {
	if !c.Checked {
		return
	}
	for _, side := range c.DisallowedSidesWhenChecked {
		if side >= 0 && side < len(disallowed) {
			disallowed[side] = true
		}
	}
}

// ApplySpawnCode writes the option's spawn settings into the session record.
func (c *CheckBoxOption) ApplySpawnCode(f *ini.File) {
	codes := c.UncheckedSpawnCode
	if c.Checked {
		codes = c.CheckedSpawnCode
	}
	for _, code := range codes {
		f.Section(code.Section).Key(code.Key).SetValue(code.Value)
	}
}

// ApplyMapCode writes the option's scenario injections into the map override.
func (c *CheckBoxOption) ApplyMapCode(f *ini.File) {
	if !c.Checked {
		return
	}
	for _, code := range c.CheckedMapCode {
		f.Section(code.Section).Key(code.Key).SetValue(code.Value)
	}
}

// DropDownOption is a multi-valued game option.
type DropDownOption struct {
	Name          string   `json:"name"`
	Items         []string `json:"items"`
	SelectedIndex int      `json:"selected_index"`

	// SpawnCode written for the selected item; ItemSpawnValues maps item
	// index to the written value. A nil ItemSpawnValues means the option is
	// informational only.
	SpawnSection    string   `json:"spawn_section,omitempty"`
	SpawnKey        string   `json:"spawn_key,omitempty"`
	ItemSpawnValues []string `json:"item_spawn_values,omitempty"`

	// Scenario injections per item index.
	ItemMapCode map[int][]SpawnCode `json:"item_map_code,omitempty"`

	userIndex int
	forced    bool
}

func NewDropDownOption(name string, items []string, defaultIndex int) *DropDownOption {
	if defaultIndex < 0 || defaultIndex >= len(items) {
		defaultIndex = 0
	}
	return &DropDownOption{Name: name, Items: items, SelectedIndex: defaultIndex, userIndex: defaultIndex}
}

func (d *DropDownOption) Forced() bool   { return d.forced }
func (d *DropDownOption) UserIndex() int { return d.userIndex }

// SetUserValue applies a user edit, clamping out-of-range indexes to zero.
// It reports whether the edit took effect.
func (d *DropDownOption) SetUserValue(index int) bool {
	if d.forced {
		return false
	}
	if index < 0 || index >= len(d.Items) {
		index = 0
	}
	d.SelectedIndex = index
	d.userIndex = index
	return true
}

func (d *DropDownOption) ApplyForced(index int) {
	if index < 0 || index >= len(d.Items) {
		index = 0
	}
	d.SelectedIndex = index
	d.forced = true
}

func (d *DropDownOption) ReleaseForced() {
	d.forced = false
	d.SelectedIndex = d.userIndex
}

func (d *DropDownOption) ApplySpawnCode(f *ini.File) {
	if d.SpawnKey == "" || d.ItemSpawnValues == nil {
		return
	}
	if d.SelectedIndex < 0 || d.SelectedIndex >= len(d.ItemSpawnValues) {
		return
	}
	section := d.SpawnSection
	if section == "" {
		section = "Settings"
	}
	f.Section(section).Key(d.SpawnKey).SetValue(d.ItemSpawnValues[d.SelectedIndex])
}

func (d *DropDownOption) ApplyMapCode(f *ini.File) {
	for _, code := range d.ItemMapCode[d.SelectedIndex] {
		f.Section(code.Section).Key(code.Key).SetValue(code.Value)
	}
}

// OptionSet is the registry of all configurable game options of a lobby.
type OptionSet struct {
	CheckBoxes []*CheckBoxOption
	DropDowns  []*DropDownOption

	// Spawn settings forced for every session regardless of map or mode,
	// loaded from the client's game options metadata.
	ForcedSpawnSettings map[string]string
}

func (s *OptionSet) CheckBox(name string) *CheckBoxOption {
	for _, c := range s.CheckBoxes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *OptionSet) DropDown(name string) *DropDownOption {
	for _, d := range s.DropDowns {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// applyForced applies mode-level then map-level forced values. Options in
// the returned lists were NOT forced by either source; the caller restores
// those to the user's preference. Map values are applied after mode values
// so the map wins on conflict.
func (s *OptionSet) applyForced(mode *GameMode, m *Map) (releasedChecks []*CheckBoxOption, releasedDrops []*DropDownOption) {
	releasedChecks = append(releasedChecks, s.CheckBoxes...)
	releasedDrops = append(releasedDrops, s.DropDowns...)

	forceCheck := func(values []ForcedBool) {
		for _, fv := range values {
			c := s.CheckBox(fv.Name)
			if c == nil {
				continue
			}
			c.ApplyForced(fv.Value)
			for i, rc := range releasedChecks {
				if rc == c {
					releasedChecks = append(releasedChecks[:i], releasedChecks[i+1:]...)
					break
				}
			}
		}
	}
	forceDrop := func(values []ForcedIndex) {
		for _, fv := range values {
			d := s.DropDown(fv.Name)
			if d == nil {
				continue
			}
			d.ApplyForced(fv.Value)
			for i, rd := range releasedDrops {
				if rd == d {
					releasedDrops = append(releasedDrops[:i], releasedDrops[i+1:]...)
					break
				}
			}
		}
	}

	forceCheck(mode.ForcedCheckBoxes)
	forceCheck(m.ForcedCheckBoxes)
	forceDrop(mode.ForcedDropDowns)
	forceDrop(m.ForcedDropDowns)
	return releasedChecks, releasedDrops
}

// AnyDeniesScoring reports whether any option blocks scoring. Values forced
// by the current map never block scoring, because the player had no say in
// them.
func (s *OptionSet) AnyDeniesScoring(m *Map) bool {
	for _, c := range s.CheckBoxes {
		if !c.DeniesScoring() {
			continue
		}
		forcedByMap := false
		if m != nil {
			for _, fv := range m.ForcedCheckBoxes {
				if fv.Name == c.Name {
					forcedByMap = true
					break
				}
			}
		}
		if !forcedByMap {
			return true
		}
	}
	return false
}
