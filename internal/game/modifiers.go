package game

import (
	"promised-land/internal/content"
	"promised-land/internal/hex"
)

// conditionMet evaluates a modifier's numeric gate against player state.
func conditionMet(cond *content.Condition, p *PlayerState) bool {
	if cond == nil {
		return true
	}
	var value int
	if cond.Stat == "stars" {
		value = p.Stars
	} else {
		value = p.Stats.Get(cond.Stat)
	}
	switch cond.Operator {
	case ">":
		return value > cond.Threshold
	case ">=":
		return value >= cond.Threshold
	case "<":
		return value < cond.Threshold
	case "<=":
		return value <= cond.Threshold
	case "==":
		return value == cond.Threshold
	default:
		return false
	}
}

// combatModifierBonus sums the self-targeted stat deltas of every modifier
// matching a combat trigger. These contribute to effective attack/defense
// for the duration of one combat and are never persisted.
func (e *Engine) combatModifierBonus(trigger content.Trigger, p *PlayerState, stat string) int {
	total := 0
	for _, m := range e.content.ModifiersFor(trigger, p.FactionID) {
		if !conditionMet(m.Condition, p) {
			continue
		}
		for _, eff := range m.Effects {
			if eff.Target == content.TargetSelf && eff.Stat == stat {
				total += eff.Value
			}
		}
	}
	return total
}

// applyTriggeredModifiers fires every modifier matching a trigger for a
// player. origin anchors nearby-targeted effects; sourceUnitID, when set,
// receives self-targeted unit effects. Effects apply synchronously as part
// of the current state transition.
func (e *Engine) applyTriggeredModifiers(state *GameState, trigger content.Trigger, p *PlayerState, origin hex.Coord, sourceUnitID string) {
	for _, m := range e.content.ModifiersFor(trigger, p.FactionID) {
		if !conditionMet(m.Condition, p) {
			continue
		}
		for _, eff := range m.Effects {
			e.applyStatEffect(state, p, eff, origin, sourceUnitID)
		}
	}
}

// isPlayerStat reports whether a stat lives on the player rather than units.
func isPlayerStat(stat string) bool {
	switch stat {
	case "faith", "pride", "internalDissent", "stars":
		return true
	}
	return false
}

func (e *Engine) applyStatEffect(state *GameState, p *PlayerState, eff content.StatEffect, origin hex.Coord, sourceUnitID string) {
	if isPlayerStat(eff.Stat) {
		if eff.Stat == "stars" {
			p.Stars += eff.Value
			if p.Stars < 0 {
				p.Stars = 0
			}
		} else {
			p.Stats.Adjust(eff.Stat, eff.Value)
		}
		return
	}

	for _, u := range e.effectTargets(state, p, eff, origin, sourceUnitID) {
		applyUnitStatDelta(u, eff)
	}
}

// effectTargets resolves a target scope to concrete units.
func (e *Engine) effectTargets(state *GameState, p *PlayerState, eff content.StatEffect, origin hex.Coord, sourceUnitID string) []*Unit {
	var targets []*Unit
	switch eff.Target {
	case content.TargetSelf:
		if u := state.Units[sourceUnitID]; u != nil {
			targets = append(targets, u)
		}
	case content.TargetNearby:
		for _, u := range state.Units {
			if u.PlayerID != p.ID || u.ID == sourceUnitID {
				continue
			}
			if hex.Distance(origin, u.Coordinate) <= eff.Radius {
				targets = append(targets, u)
			}
		}
	case content.TargetAllFriendly:
		for _, u := range state.Units {
			if u.PlayerID == p.ID {
				targets = append(targets, u)
			}
		}
	case content.TargetAllEnemy:
		for _, u := range state.Units {
			if u.PlayerID != p.ID {
				targets = append(targets, u)
			}
		}
	}
	return targets
}

// applyUnitStatDelta applies one effect to one unit. Duration 0 changes the
// base stat permanently; a positive duration attaches a timed effect that
// expires at the owner's turn starts.
func applyUnitStatDelta(u *Unit, eff content.StatEffect) {
	if eff.Duration > 0 {
		u.Effects = append(u.Effects, ActiveEffect{
			Stat:           eff.Stat,
			Value:          eff.Value,
			TurnsRemaining: eff.Duration,
		})
		return
	}
	switch eff.Stat {
	case "attack":
		u.Attack += eff.Value
		if u.Attack < 0 {
			u.Attack = 0
		}
	case "defense":
		u.Defense += eff.Value
		if u.Defense < 0 {
			u.Defense = 0
		}
	case "maxHp":
		u.MaxHP += eff.Value
		if u.MaxHP < 1 {
			u.MaxHP = 1
		}
		if u.HP > u.MaxHP {
			u.HP = u.MaxHP
		}
	case "hp":
		if eff.Value >= 0 {
			u.Heal(eff.Value)
		} else {
			u.ApplyDamage(-eff.Value)
		}
	}
}
