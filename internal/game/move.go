package game

import (
	"promised-land/internal/hex"
)

// passableFor builds the passability predicate for a moving unit: terrain
// must allow entry and no other unit may occupy the tile.
func passableFor(state *GameState, mover *Unit) hex.Passable {
	return func(c hex.Coord) bool {
		tile := state.Map.TileAt(c)
		if tile == nil || !tile.Terrain.Passable() {
			return false
		}
		if other := state.UnitAt(c); other != nil && other.ID != mover.ID {
			return false
		}
		return true
	}
}

// moveUnit validates and applies a MOVE_UNIT action. The path cost in steps
// is deducted from the unit's remaining movement, and the owner's visibility
// is recomputed from the new position.
func (e *Engine) moveUnit(state *GameState, a MoveUnit) (*GameState, error) {
	unit := state.Units[a.UnitID]
	if unit == nil {
		return state, ErrUnitNotFound
	}
	current := state.CurrentPlayer()
	if current == nil || unit.PlayerID != current.ID {
		return state, ErrNotUnitOwner
	}
	if unit.RemainingMovement <= 0 {
		return state, ErrCannotReach
	}
	target := state.Map.TileAt(a.Target)
	if target == nil || !target.Terrain.Passable() {
		return state, ErrCannotReach
	}
	if occupant := state.UnitAt(a.Target); occupant != nil {
		return state, ErrTileOccupied
	}

	path := hex.FindPath(unit.Coordinate, a.Target, passableFor(state, unit), unit.RemainingMovement)
	if path == nil {
		return state, ErrCannotReach
	}
	cost := len(path) - 1
	if cost > unit.RemainingMovement {
		return state, ErrCannotReach
	}

	next := state.Clone()
	moved := next.Units[a.UnitID]
	moved.Coordinate = a.Target
	moved.RemainingMovement -= cost
	// Moving breaks any stance.
	moved.Status = StatusActive

	e.recomputeVisibility(next, next.Player(moved.PlayerID))
	return next, nil
}

// ReachableTilesForUnit is the read-only move-range query used for UI
// highlighting. It never mutates state.
func (e *Engine) ReachableTilesForUnit(state *GameState, unitID string) []hex.Coord {
	unit := state.Units[unitID]
	if unit == nil || unit.RemainingMovement <= 0 {
		return nil
	}
	return hex.ReachableTiles(unit.Coordinate, unit.RemainingMovement, passableFor(state, unit))
}

// PathPreview returns the path a MOVE_UNIT action would take, or nil when
// the move would be rejected.
func (e *Engine) PathPreview(state *GameState, unitID string, target hex.Coord) []hex.Coord {
	unit := state.Units[unitID]
	if unit == nil || unit.RemainingMovement <= 0 {
		return nil
	}
	if occupant := state.UnitAt(target); occupant != nil {
		return nil
	}
	return hex.FindPath(unit.Coordinate, target, passableFor(state, unit), unit.RemainingMovement)
}

// ValidAttackTargets returns the enemy units an attacker could hit right
// now: in range, visible to the owner, and not friendly or allied.
func (e *Engine) ValidAttackTargets(state *GameState, attackerID string) []*Unit {
	attacker := state.Units[attackerID]
	if attacker == nil || attacker.HasAttacked {
		return nil
	}
	owner := state.Player(attacker.PlayerID)
	if owner == nil {
		return nil
	}

	var targets []*Unit
	for _, u := range state.Units {
		if u.PlayerID == attacker.PlayerID {
			continue
		}
		if owner.IsAlliedWith(u.PlayerID) {
			continue
		}
		if hex.Distance(attacker.Coordinate, u.Coordinate) > attacker.AttackRange {
			continue
		}
		if !owner.CanSee(u.Coordinate.Key()) {
			continue
		}
		targets = append(targets, u)
	}
	return targets
}
