package game

import (
	"fmt"

	"promised-land/internal/content"
	"promised-land/internal/hex"
)

// ActionResult is the explicit outcome of ability and unit-action helpers.
// Err is set when the action was rejected (state unchanged). Success is
// false with a nil Err when the action was applied but its probabilistic
// outcome failed; the resource cost is still spent in that case.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func rejected(err error) ActionResult {
	return ActionResult{Success: false, Message: err.Error(), Err: err}
}

// ApplyAbility validates and applies a USE_ABILITY action. The ability's
// resource cost is deducted whether or not its effect succeeds; failed
// conversions still consume faith.
func (e *Engine) ApplyAbility(state *GameState, a UseAbility) (*GameState, ActionResult) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, rejected(err)
	}
	def := e.content.Ability(a.AbilityID)
	if def == nil {
		return state, rejected(ErrAbilityNotFound)
	}
	if !e.abilityUnlocked(player, a.CasterID, state, a.AbilityID) {
		return state, rejected(ErrAbilityLocked)
	}
	if player.Stats.Faith < def.FaithCost {
		return state, rejected(ErrInsufficientFaith)
	}
	if player.Stats.Pride < def.PrideCost {
		return state, rejected(ErrInsufficientPride)
	}

	// Validate targeting before any mutation so rejections stay no-ops.
	var caster *Unit
	if a.CasterID != "" {
		caster = state.Units[a.CasterID]
		if caster == nil {
			return state, rejected(ErrUnitNotFound)
		}
		if caster.PlayerID != player.ID {
			return state, rejected(ErrNotUnitOwner)
		}
	}

	var target *Unit
	if def.Effect == content.EffectConvert {
		if caster == nil {
			return state, rejected(ErrInvalidTarget)
		}
		target = state.UnitAt(a.Target)
		if target == nil || target.PlayerID == player.ID {
			return state, rejected(ErrInvalidTarget)
		}
		if hex.Distance(caster.Coordinate, target.Coordinate) > def.Radius {
			return state, rejected(ErrOutOfRange)
		}
	}

	next := state.Clone()
	nextPlayer := next.Player(player.ID)
	nextPlayer.Stats.Adjust("faith", -def.FaithCost)
	nextPlayer.Stats.Adjust("pride", -def.PrideCost)

	switch def.Effect {
	case content.EffectConvert:
		return e.resolveConversion(next, nextPlayer, def, next.Units[target.ID])
	case content.EffectBlessing:
		healed := 0
		for _, u := range next.Units {
			if u.PlayerID != nextPlayer.ID {
				continue
			}
			if hex.Distance(a.Target, u.Coordinate) <= def.Radius {
				healed += u.Heal(def.Power)
			}
		}
		return next, ActionResult{Success: true, Message: fmt.Sprintf("restored %d health", healed)}
	case content.EffectZeal:
		nextPlayer.Stats.Adjust("faith", def.Power)
		return next, ActionResult{Success: true, Message: fmt.Sprintf("faith increased by %d", def.Power)}
	case content.EffectReveal:
		count := 0
		for _, c := range hex.Range(a.Target, def.Radius) {
			tile := next.Map.TileAt(c)
			if tile == nil {
				continue
			}
			key := c.Key()
			if !nextPlayer.HasExplored(key) {
				nextPlayer.ExploredTiles = append(nextPlayer.ExploredTiles, key)
				count++
			}
			tile.MarkExplored(nextPlayer.ID)
		}
		return next, ActionResult{Success: true, Message: fmt.Sprintf("revealed %d tiles", count)}
	default:
		return state, rejected(ErrAbilityNotFound)
	}
}

// resolveConversion rolls the conversion chance: a faith differential
// between the two players, normalized, plus a bonus proportional to the
// target's missing health, capped so a non-zero failure chance always
// remains.
func (e *Engine) resolveConversion(next *GameState, player *PlayerState, def *content.AbilityDef, target *Unit) (*GameState, ActionResult) {
	targetOwner := next.Player(target.PlayerID)

	chance := def.BaseChance
	chance += float64(player.Stats.Faith-targetOwner.Stats.Faith) / 200.0
	chance += 0.5 * target.MissingHPFraction()
	if chance < 0 {
		chance = 0
	}
	if chance > def.MaxChance {
		chance = def.MaxChance
	}

	if e.rng.Float64() >= chance {
		return next, ActionResult{Success: false, Message: "the conversion failed"}
	}

	target.PlayerID = player.ID
	target.HasAttacked = true
	target.RemainingMovement = 0
	e.recomputeVisibility(next, player)
	e.recomputeVisibility(next, targetOwner)
	return next, ActionResult{Success: true, Message: fmt.Sprintf("%s converted", target.Type)}
}

// abilityUnlocked checks the three grant paths: a researched technology's
// unlock list, the player's faction roster, or the casting unit's own
// ability list.
func (e *Engine) abilityUnlocked(p *PlayerState, casterID string, state *GameState, abilityID string) bool {
	for _, techID := range p.ResearchedTechs {
		tech := e.content.Tech(techID)
		if tech == nil {
			continue
		}
		for _, id := range tech.UnlocksAbilities {
			if id == abilityID {
				return true
			}
		}
	}
	if faction := e.content.Faction(p.FactionID); faction != nil {
		for _, id := range faction.Abilities {
			if id == abilityID {
				return true
			}
		}
	}
	if caster := state.Units[casterID]; caster != nil {
		for _, id := range caster.Abilities {
			if id == abilityID {
				return true
			}
		}
	}
	return false
}

// ApplyUnitAction validates and applies a UNIT_ACTION.
func (e *Engine) ApplyUnitAction(state *GameState, a UnitAction) (*GameState, ActionResult) {
	unit := state.Units[a.UnitID]
	if unit == nil {
		return state, rejected(ErrUnitNotFound)
	}
	current := state.CurrentPlayer()
	if current == nil || unit.PlayerID != current.ID {
		return state, rejected(ErrNotUnitOwner)
	}

	switch a.ActionType {
	case UnitActionStealth:
		if e.unitClass(unit) != content.ClassStealth {
			return state, rejected(ErrInvalidAction)
		}
		next := state.Clone()
		next.Units[a.UnitID].Status = StatusStealthed
		return next, ActionResult{Success: true, Message: "unit slipped into the shadows"}

	case UnitActionHeal:
		if unit.HP >= unit.MaxHP {
			return state, rejected(ErrInvalidAction)
		}
		next := state.Clone()
		u := next.Units[a.UnitID]
		healed := u.Heal(selfHealAmount)
		u.HasAttacked = true
		return next, ActionResult{Success: true, Message: fmt.Sprintf("recovered %d health", healed)}

	case UnitActionRecon:
		if e.unitClass(unit) != content.ClassScout {
			return state, rejected(ErrInvalidAction)
		}
		next := state.Clone()
		u := next.Units[a.UnitID]
		p := next.Player(u.PlayerID)
		for _, c := range hex.Range(u.Coordinate, u.VisionRadius+reconBonusRadius) {
			tile := next.Map.TileAt(c)
			if tile == nil {
				continue
			}
			key := c.Key()
			if !p.HasExplored(key) {
				p.ExploredTiles = append(p.ExploredTiles, key)
			}
			tile.MarkExplored(p.ID)
		}
		u.RemainingMovement = 0
		return next, ActionResult{Success: true, Message: "the surrounding land is charted"}

	case UnitActionDefend:
		next := state.Clone()
		next.Units[a.UnitID].Status = StatusDefending
		return next, ActionResult{Success: true, Message: "unit takes a defensive stance"}

	case UnitActionFortify:
		next := state.Clone()
		u := next.Units[a.UnitID]
		u.Status = StatusFortified
		u.RemainingMovement = 0
		return next, ActionResult{Success: true, Message: "unit fortifies its position"}

	case UnitActionSiegeSetup:
		if e.unitClass(unit) != content.ClassSiege {
			return state, rejected(ErrInvalidAction)
		}
		next := state.Clone()
		u := next.Units[a.UnitID]
		u.Status = StatusSiegeSetup
		u.RemainingMovement = 0
		return next, ActionResult{Success: true, Message: "siege engine set up"}

	case UnitActionClearForest:
		if e.unitClass(unit) != content.ClassWorker {
			return state, rejected(ErrInvalidAction)
		}
		if hex.Distance(unit.Coordinate, a.Target) > 1 {
			return state, rejected(ErrOutOfRange)
		}
		tile := state.Map.TileAt(a.Target)
		if tile == nil || tile.Terrain != TerrainForest {
			return state, rejected(ErrInvalidTerrain)
		}
		next := state.Clone()
		next.Map.TileAt(a.Target).Terrain = TerrainPlains
		next.Units[a.UnitID].RemainingMovement = 0
		return next, ActionResult{Success: true, Message: "forest cleared"}

	default:
		return state, rejected(ErrInvalidAction)
	}
}

const (
	selfHealAmount   = 4
	reconBonusRadius = 2
)
