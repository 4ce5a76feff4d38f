package game

import (
	"fmt"

	"promised-land/internal/hex"
)

// PlayerSetup describes one seat at game creation. ID is optional; when
// empty a seat-numbered one is minted, otherwise the caller's identifier
// (for example a persisted account ID) is carried into the state.
type PlayerSetup struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	FactionID string `json:"factionId"`
}

// NewGame builds the initial state: one capital city per player claimed in
// seat order from the supplied city list, faction starting units placed on
// and around the capital, and starting resources from the faction table.
// Remaining cities stay neutral. The state's own ID is left empty for the
// caller to assign; everything else is fully determined by the inputs.
func (e *Engine) NewGame(gameMap *GameMap, cities []*City, setups []PlayerSetup) (*GameState, error) {
	if len(setups) < 2 {
		return nil, fmt.Errorf("new game: need at least 2 players, got %d", len(setups))
	}
	if len(cities) < len(setups) {
		return nil, fmt.Errorf("new game: need %d cities for %d players, got %d", len(setups), len(setups), len(cities))
	}

	state := &GameState{
		Turn:         1,
		Players:      make([]*PlayerState, 0, len(setups)),
		Units:        make(map[string]*Unit),
		Map:          gameMap,
		Cities:       make(map[string]*City),
		Improvements: make(map[string]*Improvement),
		Structures:   make(map[string]*Structure),
	}
	for _, c := range cities {
		state.Cities[c.ID] = c
	}

	for i, setup := range setups {
		faction := e.content.Faction(setup.FactionID)
		if faction == nil {
			return nil, fmt.Errorf("new game: unknown faction %q", setup.FactionID)
		}

		playerID := setup.ID
		if playerID == "" {
			playerID = state.mintID("player")
		}
		p := &PlayerState{
			ID:        playerID,
			Name:      setup.Name,
			FactionID: faction.ID,
			Stars:     faction.StartingStars,
			Stats: PlayerStats{
				Faith:           clampStat(faction.StartingFaith),
				Pride:           clampStat(faction.StartingPride),
				InternalDissent: clampStat(faction.StartingDissent),
			},
			TurnOrder: i,
		}
		state.Players = append(state.Players, p)

		capital := cities[i]
		capital.OwnerID = p.ID
		p.CitiesOwned = append(p.CitiesOwned, capital.ID)

		if err := e.placeStartingUnits(state, p, faction.StartingUnits, capital); err != nil {
			return nil, err
		}
		e.recomputeVisibility(state, p)
	}

	return state, nil
}

// placeStartingUnits spawns a faction's starting roster on the capital tile
// and then outward over adjacent free passable tiles.
func (e *Engine) placeStartingUnits(state *GameState, p *PlayerState, unitTypes []string, capital *City) error {
	spots := []hex.Coord{capital.Coordinate}
	for _, n := range capital.Coordinate.Neighbors() {
		spots = append(spots, n)
	}
	next := 0

	for _, unitType := range unitTypes {
		def := e.content.Unit(unitType)
		if def == nil {
			return fmt.Errorf("new game: faction %q starting unit %q not defined", p.FactionID, unitType)
		}
		placed := false
		for ; next < len(spots); next++ {
			c := spots[next]
			tile := state.Map.TileAt(c)
			if tile == nil || !tile.Terrain.Passable() || state.UnitAt(c) != nil {
				continue
			}
			e.spawnUnit(state, p, def, c)
			next++
			placed = true
			break
		}
		if !placed {
			return fmt.Errorf("new game: no free tile near city %q for unit %q", capital.ID, unitType)
		}
	}
	return nil
}
