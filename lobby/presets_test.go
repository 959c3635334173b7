package lobby

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresetStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.ini")

	store, err := NewPresetStore(path)
	require.NoError(t, err)

	preset := &OptionPreset{
		Name:           "my favorite",
		CheckBoxValues: map[string]bool{"chkCrates": true, "chkShortGame": false},
		DropDownValues: map[string]int{"cmbCredits": 2},
	}
	require.NoError(t, store.Add(preset))

	// A fresh store must read the same data back from disk.
	reloaded, err := NewPresetStore(path)
	require.NoError(t, err)

	got, err := reloaded.Get("my favorite")
	require.NoError(t, err)
	require.Equal(t, preset.CheckBoxValues, got.CheckBoxValues)
	require.Equal(t, preset.DropDownValues, got.DropDownValues)

	_, err = reloaded.Get("nonexistent")
	require.ErrorIs(t, err, ErrPresetNotFound)
}

func TestValidatePresetName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"quick match", true},
		{"all-brutal_8p", true},
		{"", false},
		{"this name is way too long to be stored here", false},
		{"bad[section]", false},
		{"semi;colon", false},
	}
	for _, tc := range tests {
		err := ValidatePresetName(tc.name)
		if tc.valid && err != nil {
			t.Errorf("ValidatePresetName(%q) = %v, want nil", tc.name, err)
		}
		if !tc.valid && !errors.Is(err, ErrPresetBadName) {
			t.Errorf("ValidatePresetName(%q) = %v, want ErrPresetBadName", tc.name, err)
		}
	}
}

func TestSessionPresetSaveAndLoad(t *testing.T) {
	policy := &fakePolicy{multiplayer: true}
	s := testSession(t, policy)

	store, err := NewPresetStore(filepath.Join(t.TempDir(), "presets.ini"))
	require.NoError(t, err)
	s.presets = store

	s.SetCheckBoxValue("chkShortGame", true)
	s.SetDropDownValue("cmbCredits", 2)
	require.NoError(t, s.SaveOptionPreset("fast game"))

	s.SetCheckBoxValue("chkShortGame", false)
	s.SetDropDownValue("cmbCredits", 0)

	require.NoError(t, s.LoadOptionPreset("fast game"))
	require.True(t, s.Options.CheckBox("chkShortGame").Checked)
	require.Equal(t, 2, s.Options.DropDown("cmbCredits").SelectedIndex)

	require.ErrorIs(t, s.LoadOptionPreset("missing"), ErrPresetNotFound)
}

func TestPresetLoadSkipsForcedOptions(t *testing.T) {
	policy := &fakePolicy{multiplayer: true}
	s := testSession(t, policy)

	store, err := NewPresetStore(filepath.Join(t.TempDir(), "presets.ini"))
	require.NoError(t, err)
	s.presets = store

	s.SetCheckBoxValue("chkCrates", true)
	require.NoError(t, s.SaveOptionPreset("crates on"))

	crates := s.Options.CheckBox("chkCrates")
	crates.ApplyForced(false)

	require.NoError(t, s.LoadOptionPreset("crates on"))
	require.False(t, crates.Checked, "forced option must keep its forced value")
}
