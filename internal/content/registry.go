package content

import (
	"fmt"
	"sort"
)

// Registry holds every loaded data table. It is read-only after Load and is
// passed to the game engine explicitly.
type Registry struct {
	units        map[string]*UnitDef
	techs        map[string]*TechDef
	abilities    map[string]*AbilityDef
	improvements map[string]*ImprovementDef
	structures   map[string]*StructureDef
	factions     map[string]*FactionDef
	modifiers    []ModifierDef
}

// Load builds a Registry from the embedded data files.
func Load() (*Registry, error) {
	units, err := load[[]UnitDef]("units.json")
	if err != nil {
		return nil, err
	}
	techs, err := load[[]TechDef]("techs.json")
	if err != nil {
		return nil, err
	}
	abilities, err := load[[]AbilityDef]("abilities.json")
	if err != nil {
		return nil, err
	}
	improvements, err := load[[]ImprovementDef]("improvements.json")
	if err != nil {
		return nil, err
	}
	structures, err := load[[]StructureDef]("structures.json")
	if err != nil {
		return nil, err
	}
	factions, err := load[[]FactionDef]("factions.json")
	if err != nil {
		return nil, err
	}
	modifiers, err := load[[]ModifierDef]("modifiers.json")
	if err != nil {
		return nil, err
	}

	r := &Registry{
		units:        make(map[string]*UnitDef, len(units)),
		techs:        make(map[string]*TechDef, len(techs)),
		abilities:    make(map[string]*AbilityDef, len(abilities)),
		improvements: make(map[string]*ImprovementDef, len(improvements)),
		structures:   make(map[string]*StructureDef, len(structures)),
		factions:     make(map[string]*FactionDef, len(factions)),
		modifiers:    modifiers,
	}
	for i := range units {
		r.units[units[i].ID] = &units[i]
	}
	for i := range techs {
		r.techs[techs[i].ID] = &techs[i]
	}
	for i := range abilities {
		r.abilities[abilities[i].ID] = &abilities[i]
	}
	for i := range improvements {
		r.improvements[improvements[i].ID] = &improvements[i]
	}
	for i := range structures {
		r.structures[structures[i].ID] = &structures[i]
	}
	for i := range factions {
		r.factions[factions[i].ID] = &factions[i]
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustLoad loads the registry, panicking on error. Data files are embedded,
// so a failure here means a broken build.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

// validate cross-checks references between tables.
func (r *Registry) validate() error {
	for id, u := range r.units {
		if u.RequiredTech != "" && r.techs[u.RequiredTech] == nil {
			return fmt.Errorf("unit %s requires unknown tech %s", id, u.RequiredTech)
		}
		for _, a := range u.Abilities {
			if r.abilities[a] == nil {
				return fmt.Errorf("unit %s lists unknown ability %s", id, a)
			}
		}
	}
	for id, t := range r.techs {
		for _, p := range t.Prerequisites {
			if r.techs[p] == nil {
				return fmt.Errorf("tech %s has unknown prerequisite %s", id, p)
			}
		}
		for _, u := range t.UnlocksUnits {
			if r.units[u] == nil {
				return fmt.Errorf("tech %s unlocks unknown unit %s", id, u)
			}
		}
		for _, a := range t.UnlocksAbilities {
			if r.abilities[a] == nil {
				return fmt.Errorf("tech %s unlocks unknown ability %s", id, a)
			}
		}
	}
	for id, f := range r.factions {
		for _, u := range f.StartingUnits {
			if r.units[u] == nil {
				return fmt.Errorf("faction %s starts with unknown unit %s", id, u)
			}
		}
	}
	for _, m := range r.modifiers {
		if m.FactionID != "" && r.factions[m.FactionID] == nil {
			return fmt.Errorf("modifier %s references unknown faction %s", m.ID, m.FactionID)
		}
		for _, e := range m.Effects {
			if e.Target == TargetNearby && e.Radius <= 0 {
				return fmt.Errorf("modifier %s has nearby effect without radius", m.ID)
			}
		}
	}
	return nil
}

// Unit returns a unit definition, or nil if unknown.
func (r *Registry) Unit(id string) *UnitDef { return r.units[id] }

// Tech returns a technology definition, or nil if unknown.
func (r *Registry) Tech(id string) *TechDef { return r.techs[id] }

// Ability returns an ability definition, or nil if unknown.
func (r *Registry) Ability(id string) *AbilityDef { return r.abilities[id] }

// Improvement returns an improvement definition, or nil if unknown.
func (r *Registry) Improvement(id string) *ImprovementDef { return r.improvements[id] }

// Structure returns a structure definition, or nil if unknown.
func (r *Registry) Structure(id string) *StructureDef { return r.structures[id] }

// Faction returns a faction definition, or nil if unknown.
func (r *Registry) Faction(id string) *FactionDef { return r.factions[id] }

// Factions returns all faction definitions sorted by ID, so callers that
// assign seats by index get the same assignment on every run.
func (r *Registry) Factions() []*FactionDef {
	result := make([]*FactionDef, 0, len(r.factions))
	for _, f := range r.factions {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ModifiersFor returns modifiers matching a trigger and faction. Modifiers
// with an empty faction apply to every faction. Order follows the data file,
// which keeps application deterministic.
func (r *Registry) ModifiersFor(trigger Trigger, factionID string) []ModifierDef {
	var result []ModifierDef
	for _, m := range r.modifiers {
		if m.Trigger != trigger {
			continue
		}
		if m.FactionID != "" && m.FactionID != factionID {
			continue
		}
		result = append(result, m)
	}
	return result
}
