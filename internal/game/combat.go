package game

import (
	"promised-land/internal/content"
	"promised-land/internal/hex"
)

// CombatResult describes one resolved attack. Returned by ResolveAttack for
// callers that want the numbers; the reducer path only needs the new state.
type CombatResult struct {
	AttackerID       string `json:"attackerId"`
	DefenderID       string `json:"defenderId"`
	EffectiveAttack  int    `json:"effectiveAttack"`
	EffectiveDefense int    `json:"effectiveDefense"`
	Damage           int    `json:"damage"`
	DefenderKilled   bool   `json:"defenderKilled"`
}

// attackUnit validates and applies an ATTACK_UNIT action.
func (e *Engine) attackUnit(state *GameState, a AttackUnit) (*GameState, error) {
	next, _, err := e.ResolveAttack(state, a)
	return next, err
}

// ResolveAttack is attackUnit with the combat numbers exposed. On error the
// returned state is the unmodified input.
func (e *Engine) ResolveAttack(state *GameState, a AttackUnit) (*GameState, *CombatResult, error) {
	attacker := state.Units[a.AttackerID]
	if attacker == nil {
		return state, nil, ErrUnitNotFound
	}
	current := state.CurrentPlayer()
	if current == nil || attacker.PlayerID != current.ID {
		return state, nil, ErrNotUnitOwner
	}
	if attacker.HasAttacked {
		return state, nil, ErrAlreadyAttacked
	}
	defender := state.Units[a.TargetID]
	if defender == nil {
		return state, nil, ErrUnitNotFound
	}
	if defender.PlayerID == attacker.PlayerID {
		return state, nil, ErrFriendlyFire
	}
	if current.IsAlliedWith(defender.PlayerID) {
		return state, nil, ErrTargetAllied
	}
	if hex.Distance(attacker.Coordinate, defender.Coordinate) > attacker.AttackRange {
		return state, nil, ErrOutOfRange
	}
	if e.unitClass(attacker) == content.ClassSiege && attacker.Status != StatusSiegeSetup {
		return state, nil, ErrSiegeNotSetUp
	}

	next := state.Clone()
	att := next.Units[a.AttackerID]
	def := next.Units[a.TargetID]
	attOwner := next.Player(att.PlayerID)
	defOwner := next.Player(def.PlayerID)

	effAttack := e.effectiveAttack(next, att, def)
	effDefense := e.effectiveDefense(next, def)

	// Combat always progresses: never zero or negative damage.
	damage := effAttack - effDefense
	if damage < 1 {
		damage = 1
	}

	killed := def.ApplyDamage(damage)

	// The attack is spent whatever the outcome, and attacking reveals a
	// stealthed unit.
	att.HasAttacked = true
	if att.Status == StatusStealthed {
		att.Status = StatusActive
	}

	// Attacking is an act of war.
	attOwner.AtWarWith = appendUnique(attOwner.AtWarWith, defOwner.ID)
	defOwner.AtWarWith = appendUnique(defOwner.AtWarWith, attOwner.ID)

	att.Experience++
	result := &CombatResult{
		AttackerID:       att.ID,
		DefenderID:       def.ID,
		EffectiveAttack:  effAttack,
		EffectiveDefense: effDefense,
		Damage:           damage,
	}

	if killed {
		result.DefenderKilled = true
		att.Experience += 2
		died := *def
		delete(next.Units, def.ID)

		// Death-triggered effects fire synchronously in this same
		// transition, anchored at the fallen unit's tile.
		e.applyTriggeredModifiers(next, content.TriggerOnDeath, defOwner, died.Coordinate, "")
		removeDeadUnits(next)

		e.recomputeVisibility(next, defOwner)
	}

	return next, result, nil
}

// unitClass looks up a unit's combat class; units of unknown type have no
// class and no innate bonuses.
func (e *Engine) unitClass(u *Unit) content.UnitClass {
	def := e.content.Unit(u.Type)
	if def == nil {
		return ""
	}
	return def.Class
}

// effectiveAttack accumulates, in order: innate unit-type bonuses, faction
// resource-threshold bonuses, then the data-driven on_attack modifier table.
func (e *Engine) effectiveAttack(state *GameState, attacker, defender *Unit) int {
	attack := attacker.EffectiveAttack()

	switch e.unitClass(attacker) {
	case content.ClassInfantry:
		// Formation fighting: each adjacent ally of the same type adds 1.
		for _, n := range attacker.Coordinate.Neighbors() {
			ally := state.UnitAt(n)
			if ally != nil && ally.PlayerID == attacker.PlayerID && ally.Type == attacker.Type {
				attack++
			}
		}
	case content.ClassAntiCavalry:
		if e.isCavalryTarget(defender) {
			attack += 2
		}
	case content.ClassStealth:
		if attacker.Status == StatusStealthed {
			attack += 2
		}
	case content.ClassSiege:
		// Set-up siege engines batter fortifications hardest.
		if tile := state.Map.TileAt(defender.Coordinate); tile != nil && tile.HasCity {
			attack += 2
		}
	case content.ClassMissionary:
		attack -= 2
	}

	owner := state.Player(attacker.PlayerID)
	if owner != nil {
		if owner.Stats.Faith >= e.cfg.FaithAttackThreshold {
			attack++
		}
		if owner.Stats.Pride >= e.cfg.PrideAttackThreshold {
			attack++
		}
		attack += e.combatModifierBonus(content.TriggerOnAttack, owner, "attack")
	}

	if attack < 0 {
		attack = 0
	}
	return attack
}

// isCavalryTarget reports whether a defender counts as cavalry for
// anti-cavalry bonuses: cavalry or scout class, or simply fast.
func (e *Engine) isCavalryTarget(defender *Unit) bool {
	switch e.unitClass(defender) {
	case content.ClassCavalry, content.ClassScout:
		return true
	}
	return defender.Movement >= 4
}

// effectiveDefense accumulates stance, terrain and city bonuses, then the
// defender's on_defend modifier table.
func (e *Engine) effectiveDefense(state *GameState, defender *Unit) int {
	defense := defender.EffectiveDefense()

	switch defender.Status {
	case StatusDefending:
		defense++
	case StatusFortified:
		defense += 2
	}

	if tile := state.Map.TileAt(defender.Coordinate); tile != nil {
		defense += tile.Terrain.DefenseBonus()
		if tile.HasCity {
			defense++
		}
	}

	owner := state.Player(defender.PlayerID)
	if owner != nil {
		defense += e.combatModifierBonus(content.TriggerOnDefend, owner, "defense")
	}

	if defense < 0 {
		defense = 0
	}
	return defense
}

// removeDeadUnits sweeps units brought to 0 HP by modifier effects.
func removeDeadUnits(state *GameState) {
	for id, u := range state.Units {
		if u.HP <= 0 {
			delete(state.Units, id)
		}
	}
}
