package game

import (
	"promised-land/internal/content"
	"promised-land/internal/hex"
)

// Research cost scales with the number of technologies already researched,
// so late-game techs cost more than their listed base price.
func (e *Engine) techCost(def *content.TechDef, p *PlayerState) int {
	return def.Cost + e.cfg.TechCostGrowth*len(p.ResearchedTechs)
}

func (e *Engine) researchTech(state *GameState, a ResearchTech) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	def := e.content.Tech(a.TechID)
	if def == nil {
		return state, ErrTechNotFound
	}
	if player.HasResearched(a.TechID) {
		return state, ErrTechAlreadyResearched
	}
	for _, prereq := range def.Prerequisites {
		if !player.HasResearched(prereq) {
			return state, ErrMissingPrerequisite
		}
	}
	cost := e.techCost(def, player)
	if player.Stars < cost {
		return state, ErrInsufficientStars
	}

	next := state.Clone()
	p := next.Player(player.ID)
	p.Stars -= cost
	p.ResearchedTechs = append(p.ResearchedTechs, a.TechID)
	return next, nil
}

func (e *Engine) recruitUnit(state *GameState, a RecruitUnit) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	city := state.Cities[a.CityID]
	if city == nil {
		return state, ErrCityNotFound
	}
	if city.OwnerID != player.ID {
		return state, ErrNotCityOwner
	}
	def := e.content.Unit(a.UnitType)
	if def == nil {
		return state, ErrInvalidUnitType
	}
	if len(def.Factions) > 0 && !containsString(def.Factions, player.FactionID) {
		return state, ErrFactionRestricted
	}
	if def.RequiredTech != "" && !player.HasResearched(def.RequiredTech) {
		return state, ErrMissingTech
	}
	if player.Stars < def.Cost {
		return state, ErrInsufficientStars
	}
	if def.RecruitTurns == 0 && state.UnitAt(city.Coordinate) != nil {
		return state, ErrTileOccupied
	}

	next := state.Clone()
	p := next.Player(player.ID)
	p.Stars -= def.Cost

	if def.RecruitTurns == 0 {
		e.spawnUnit(next, p, def, next.Cities[a.CityID].Coordinate)
		return next, nil
	}

	p.Queue = append(p.Queue, ConstructionItem{
		ID:             next.mintID("build"),
		Kind:           ConstructUnit,
		DefID:          def.ID,
		CityID:         a.CityID,
		TurnsRemaining: def.RecruitTurns,
	})
	return next, nil
}

// spawnUnit places a new unit built from a definition, recomputing the
// owner's visibility so the unit sees immediately.
func (e *Engine) spawnUnit(state *GameState, p *PlayerState, def *content.UnitDef, at hex.Coord) *Unit {
	u := &Unit{
		ID:                state.mintID("unit"),
		Type:              def.ID,
		PlayerID:          p.ID,
		Coordinate:        at,
		HP:                def.MaxHP,
		MaxHP:             def.MaxHP,
		Attack:            def.Attack,
		Defense:           def.Defense,
		Movement:          def.Movement,
		RemainingMovement: def.Movement,
		VisionRadius:      def.VisionRadius,
		AttackRange:       def.AttackRange,
		Status:            StatusActive,
		Abilities:         append([]string(nil), def.Abilities...),
		Level:             1,
	}
	state.Units[u.ID] = u
	e.recomputeVisibility(state, p)
	return u
}

func (e *Engine) buildImprovement(state *GameState, a BuildImprovement) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	city := state.Cities[a.CityID]
	if city == nil {
		return state, ErrCityNotFound
	}
	if city.OwnerID != player.ID {
		return state, ErrNotCityOwner
	}
	def := e.content.Improvement(a.ImprovementType)
	if def == nil {
		return state, ErrInvalidTarget
	}
	if def.RequiredTech != "" && !player.HasResearched(def.RequiredTech) {
		return state, ErrMissingTech
	}
	tile := state.Map.TileAt(a.Target)
	if tile == nil || !containsString(def.ValidTerrain, string(tile.Terrain)) {
		return state, ErrInvalidTerrain
	}
	if hex.Distance(city.Coordinate, a.Target) > cityWorkRadius {
		return state, ErrOutOfRange
	}
	if state.ImprovementAt(a.Target) != nil || queuedAt(player, a.Target) {
		return state, ErrDuplicateConstruction
	}
	if player.Stars < def.Cost {
		return state, ErrInsufficientStars
	}

	next := state.Clone()
	p := next.Player(player.ID)
	p.Stars -= def.Cost

	if def.ConstructionTurns == 0 {
		imp := &Improvement{
			ID:         next.mintID("improvement"),
			Type:       def.ID,
			Coordinate: a.Target,
			OwnerID:    p.ID,
		}
		next.Improvements[imp.ID] = imp
		return next, nil
	}

	p.Queue = append(p.Queue, ConstructionItem{
		ID:             next.mintID("build"),
		Kind:           ConstructImprovement,
		DefID:          def.ID,
		CityID:         a.CityID,
		Coordinate:     a.Target,
		TurnsRemaining: def.ConstructionTurns,
	})
	return next, nil
}

func (e *Engine) buildStructure(state *GameState, a BuildStructure) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	city := state.Cities[a.CityID]
	if city == nil {
		return state, ErrCityNotFound
	}
	if city.OwnerID != player.ID {
		return state, ErrNotCityOwner
	}
	def := e.content.Structure(a.StructureType)
	if def == nil {
		return state, ErrInvalidTarget
	}
	if def.RequiredTech != "" && !player.HasResearched(def.RequiredTech) {
		return state, ErrMissingTech
	}
	if hasStructure(state, a.CityID, def.ID) || queuedStructure(player, a.CityID, def.ID) {
		return state, ErrDuplicateConstruction
	}
	if player.Stars < def.Cost {
		return state, ErrInsufficientStars
	}

	next := state.Clone()
	p := next.Player(player.ID)
	p.Stars -= def.Cost

	if def.ConstructionTurns == 0 {
		s := &Structure{
			ID:      next.mintID("structure"),
			Type:    def.ID,
			CityID:  a.CityID,
			OwnerID: p.ID,
		}
		next.Structures[s.ID] = s
		return next, nil
	}

	p.Queue = append(p.Queue, ConstructionItem{
		ID:             next.mintID("build"),
		Kind:           ConstructStructure,
		DefID:          def.ID,
		CityID:         a.CityID,
		TurnsRemaining: def.ConstructionTurns,
	})
	return next, nil
}

// captureCity transfers ownership when one of the player's units stands on
// the city tile. Ownership lists on both players and the city record change
// in the same transition.
func (e *Engine) captureCity(state *GameState, a CaptureCity) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	city := state.Cities[a.CityID]
	if city == nil {
		return state, ErrCityNotFound
	}
	if city.OwnerID == player.ID {
		return state, ErrCityAlreadyOwned
	}
	occupier := state.UnitAt(city.Coordinate)
	if occupier == nil || occupier.PlayerID != player.ID {
		return state, ErrInvalidTarget
	}

	next := state.Clone()
	p := next.Player(player.ID)
	c := next.Cities[a.CityID]

	if c.OwnerID != "" {
		if prev := next.Player(c.OwnerID); prev != nil {
			prev.CitiesOwned = removeString(prev.CitiesOwned, c.ID)
			prev.Stats.Adjust("internalDissent", captureDissentPenalty)
		}
	}
	c.OwnerID = p.ID
	p.CitiesOwned = appendUnique(p.CitiesOwned, c.ID)
	p.Stats.Adjust("pride", capturePrideGain)
	e.recomputeVisibility(next, p)
	return next, nil
}

func (e *Engine) harvestResource(state *GameState, a HarvestResource) (*GameState, error) {
	unit := state.Units[a.UnitID]
	if unit == nil {
		return state, ErrUnitNotFound
	}
	player, err := e.requireCurrentPlayer(state, unit.PlayerID)
	if err != nil {
		return state, err
	}
	if e.unitClass(unit) != content.ClassWorker {
		return state, ErrInvalidAction
	}
	if hex.Distance(unit.Coordinate, a.Target) > 1 {
		return state, ErrOutOfRange
	}
	tile := state.Map.TileAt(a.Target)
	if tile == nil || len(tile.Resources) == 0 {
		return state, ErrResourceNotFound
	}
	city := state.Cities[a.CityID]
	if city == nil {
		return state, ErrCityNotFound
	}
	if city.OwnerID != player.ID {
		return state, ErrNotCityOwner
	}

	next := state.Clone()
	t := next.Map.TileAt(a.Target)
	resource := t.Resources[0]
	t.Resources = t.Resources[1:]
	if len(t.Resources) == 0 {
		t.Resources = nil
	}
	c := next.Cities[a.CityID]
	c.HarvestedResources = append(c.HarvestedResources, resource)
	c.StarProduction++
	next.Units[a.UnitID].RemainingMovement = 0
	return next, nil
}

func (e *Engine) upgradeUnit(state *GameState, a UpgradeUnit) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	unit := state.Units[a.UnitID]
	if unit == nil {
		return state, ErrUnitNotFound
	}
	if unit.PlayerID != player.ID {
		return state, ErrNotUnitOwner
	}
	needed := unit.Level * upgradeXPPerLevel
	if unit.Experience < needed {
		return state, ErrInsufficientXP
	}
	cost := unit.Level * upgradeCostPerLevel
	if player.Stars < cost {
		return state, ErrInsufficientStars
	}

	next := state.Clone()
	next.Player(player.ID).Stars -= cost
	u := next.Units[a.UnitID]
	u.Experience -= needed
	u.Level++
	u.Attack++
	u.Defense++
	u.MaxHP += upgradeHPGain
	u.HP += upgradeHPGain
	return next, nil
}

// materializeConstruction turns a finished queue item into its product. A
// finished unit whose city tile is occupied stays queued one more turn.
func (e *Engine) materializeConstruction(state *GameState, p *PlayerState, item ConstructionItem) bool {
	switch item.Kind {
	case ConstructUnit:
		def := e.content.Unit(item.DefID)
		city := state.Cities[item.CityID]
		if def == nil || city == nil {
			return true // stale item, drop it
		}
		if state.UnitAt(city.Coordinate) != nil {
			return false
		}
		e.spawnUnit(state, p, def, city.Coordinate)
		return true
	case ConstructImprovement:
		imp := &Improvement{
			ID:         state.mintID("improvement"),
			Type:       item.DefID,
			Coordinate: item.Coordinate,
			OwnerID:    p.ID,
		}
		state.Improvements[imp.ID] = imp
		return true
	case ConstructStructure:
		s := &Structure{
			ID:      state.mintID("structure"),
			Type:    item.DefID,
			CityID:  item.CityID,
			OwnerID: p.ID,
		}
		state.Structures[s.ID] = s
		return true
	default:
		return true
	}
}

func hasStructure(state *GameState, cityID, structureType string) bool {
	for _, s := range state.Structures {
		if s.CityID == cityID && s.Type == structureType {
			return true
		}
	}
	return false
}

func queuedAt(p *PlayerState, target hex.Coord) bool {
	for _, item := range p.Queue {
		if item.Kind == ConstructImprovement && item.Coordinate == target {
			return true
		}
	}
	return false
}

func queuedStructure(p *PlayerState, cityID, structureType string) bool {
	for _, item := range p.Queue {
		if item.Kind == ConstructStructure && item.CityID == cityID && item.DefID == structureType {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

const (
	cityWorkRadius        = 2
	capturePrideGain      = 5
	captureDissentPenalty = 5
	upgradeXPPerLevel     = 3
	upgradeCostPerLevel   = 4
	upgradeHPGain         = 2
)
