package game

import (
	"promised-land/internal/content"
	"promised-land/internal/hex"
)

// endTurn runs the full end-of-turn pipeline for the current player, hands
// the turn to the next surviving player, and evaluates victory. The whole
// sequence is one state transition.
func (e *Engine) endTurn(state *GameState, a EndTurn) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}

	next := state.Clone()
	ending := next.Player(player.ID)

	e.applyTriggeredModifiers(next, content.TriggerOnTurnEnd, ending, hex.Coord{}, "")
	e.collectIncome(next, ending)
	e.advanceConstruction(next, ending)
	removeDeadUnits(next)
	e.markEliminations(next)

	e.advanceTurn(next)

	incoming := next.CurrentPlayer()
	if incoming != nil {
		e.applyTriggeredModifiers(next, content.TriggerOnTurnStart, incoming, hex.Coord{}, "")
		for _, u := range next.Units {
			if u.PlayerID == incoming.ID {
				u.ResetTurn()
			}
		}
		removeDeadUnits(next)
		e.recomputeVisibility(next, incoming)
	}

	e.evaluateVictory(next)
	return next, nil
}

// collectIncome credits star and faith income from cities, improvements,
// structures, and trade routes. Queued construction contributes nothing.
func (e *Engine) collectIncome(state *GameState, p *PlayerState) {
	stars := 0
	faith := 0

	for _, c := range state.Cities {
		if c.OwnerID == p.ID {
			stars += c.StarProduction
			faith += faithPerCity
		}
	}
	for _, imp := range state.Improvements {
		if imp.OwnerID != p.ID {
			continue
		}
		if def := e.content.Improvement(imp.Type); def != nil {
			stars += def.StarProduction
		}
	}
	for _, s := range state.Structures {
		if s.OwnerID != p.ID {
			continue
		}
		if def := e.content.Structure(s.Type); def != nil {
			stars += def.StarProduction
			faith += def.FaithProduction
		}
	}
	for _, r := range p.TradeRoutes {
		// Both endpoints must still be friendly for the route to pay out.
		from := state.Cities[r.FromCityID]
		to := state.Cities[r.ToCityID]
		if from == nil || to == nil || from.OwnerID != p.ID {
			continue
		}
		if to.OwnerID != p.ID {
			owner := state.Player(to.OwnerID)
			if owner == nil || !p.IsAlliedWith(owner.ID) {
				continue
			}
		}
		stars += r.StarsPerTurn
	}

	p.Stars += stars
	p.Stats.Adjust("faith", faith)
}

// advanceConstruction ticks the player's queue and materializes whatever
// finishes. Items that cannot materialize yet stay queued at zero turns.
func (e *Engine) advanceConstruction(state *GameState, p *PlayerState) {
	kept := p.Queue[:0]
	for _, item := range p.Queue {
		if item.TurnsRemaining > 0 {
			item.TurnsRemaining--
		}
		if item.TurnsRemaining > 0 {
			kept = append(kept, item)
			continue
		}
		if !e.materializeConstruction(state, p, item) {
			kept = append(kept, item)
		}
	}
	p.Queue = kept
	if len(p.Queue) == 0 {
		p.Queue = nil
	}
}

// markEliminations flags players who are out of the game. With elimination
// victory enabled, losing the last unit eliminates a player even while they
// still hold cities; with it disabled they stay in until nothing remains.
// Eliminated players keep their state but never take another turn.
func (e *Engine) markEliminations(state *GameState) {
	for _, p := range state.Players {
		if p.IsEliminated {
			continue
		}
		if len(state.UnitsOwnedBy(p.ID)) > 0 {
			continue
		}
		if e.cfg.EliminationEnabled || state.CountCitiesOwned(p.ID) == 0 {
			p.IsEliminated = true
		}
	}
}

// advanceTurn moves to the next non-eliminated player; wrapping past the end
// of the seat order increments the turn counter.
func (e *Engine) advanceTurn(state *GameState) {
	n := len(state.Players)
	if n == 0 {
		return
	}
	for i := 1; i <= n; i++ {
		seat := state.CurrentPlayerIndex + i
		if seat == n {
			state.Turn++
		}
		idx := seat % n
		if !state.Players[idx].IsEliminated {
			state.CurrentPlayerIndex = idx
			return
		}
	}
	// Everyone is eliminated; leave the index where it was.
}

// evaluateVictory checks the win conditions in a fixed order so the same
// state always crowns the same winner: faith, then territorial, then
// elimination. The first player in seat order to satisfy a condition wins.
func (e *Engine) evaluateVictory(state *GameState) {
	if state.IsOver() {
		return
	}

	for _, p := range state.Players {
		if p.IsEliminated {
			continue
		}
		if p.Stats.Faith >= e.cfg.FaithVictoryThreshold && p.Stats.InternalDissent < e.cfg.DissentVictoryCeiling {
			state.Winner = p.ID
			state.VictoryType = VictoryFaith
			return
		}
	}

	total := state.CountCityTiles()
	if total > 0 {
		for _, p := range state.Players {
			if p.IsEliminated {
				continue
			}
			owned := state.CountCitiesOwned(p.ID)
			if float64(owned)/float64(total) >= e.cfg.TerritorialFraction {
				state.Winner = p.ID
				state.VictoryType = VictoryTerritorial
				return
			}
		}
	}

	if e.cfg.EliminationEnabled {
		var survivor *PlayerState
		count := 0
		for _, p := range state.Players {
			if !p.IsEliminated {
				survivor = p
				count++
			}
		}
		if count == 1 && survivor != nil {
			state.Winner = survivor.ID
			state.VictoryType = VictoryElimination
		}
	}
}

const faithPerCity = 1
