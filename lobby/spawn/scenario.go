package spawn

import (
	"strconv"

	"gopkg.in/ini.v1"
)

const waypointSection = "Waypoints"

// ApplyMapCode copies every section and key of src into dst, overwriting
// existing values. Mode rules, global code and option injections all land
// through here.
func ApplyMapCode(dst, src *ini.File) {
	if src == nil {
		return
	}
	for _, section := range src.Sections() {
		keys := section.Keys()
		if section.Name() == ini.DefaultSection && len(keys) == 0 {
			continue
		}
		for _, key := range keys {
			dst.Section(section.Name()).Key(key.Name()).SetValue(key.Value())
		}
	}
}

// PromoteSection rebuilds the record with the named section first. The
// game engine requires MultiplayerDialogSettings to lead the scenario.
func PromoteSection(f *ini.File, name string) *ini.File {
	target, err := f.GetSection(name)
	if err != nil {
		return f
	}
	out := ini.Empty()
	copySection(out, target)
	for _, section := range f.Sections() {
		if section.Name() == name {
			continue
		}
		if section.Name() == ini.DefaultSection && len(section.Keys()) == 0 {
			continue
		}
		copySection(out, section)
	}
	return out
}

func copySection(dst *ini.File, src *ini.Section) {
	section := dst.Section(src.Name())
	for _, key := range src.Keys() {
		section.Key(key.Name()).SetValue(key.Value())
	}
}

// StripStartingWaypoints removes all starting waypoints from the scenario
// so the game chooses locations by itself.
func StripStartingWaypoints(scenario *ini.File) {
	section, err := scenario.GetSection(waypointSection)
	if err != nil {
		return
	}
	for i := 0; i < MaxHouses; i++ {
		section.DeleteKey(strconv.Itoa(i))
	}
}

// ResolveStackedLocations rewires houses that share a starting location.
// Pre-placed objects bind to the original waypoint's house, so a shared
// location cannot simply repeat: each extra house gets the lowest unused
// waypoint, the scenario gains a waypoint entry at the same coordinates,
// and the house's spawn record is updated in place. houses must be in
// settings-record order, humans first.
func ResolveStackedLocations(settings, scenario *ini.File, houses []House) []House {
	var used [MaxHouses]bool
	stacked := false
	for _, h := range houses {
		if h.RealStartingWaypoint > -1 {
			used[h.RealStartingWaypoint] = true
			if h.StartingWaypoint == -1 {
				stacked = true
			}
		}
	}
	if !stacked {
		return houses
	}

	for i := range houses {
		h := &houses[i]
		if !h.Stacked() {
			continue
		}
		unused := -1
		for j := range used {
			if !used[j] {
				unused = j
				used[j] = true
				break
			}
		}
		h.StartingWaypoint = unused
		if unused == -1 {
			continue
		}
		coords := scenario.Section(waypointSection).
			Key(strconv.Itoa(h.RealStartingWaypoint)).Value()
		scenario.Section(waypointSection).
			Key(strconv.Itoa(unused)).SetValue(coords)
		settings.Section("SpawnLocations").
			Key(multiKey(i + 1)).SetValue(strconv.Itoa(unused))
	}
	return houses
}
