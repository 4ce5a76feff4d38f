package game

import (
	"math/rand"
	"testing"

	"promised-land/internal/content"
	"promised-land/internal/hex"
)

func testEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	reg, err := content.Load()
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	return NewEngine(reg, DefaultConfig(), rand.New(rand.NewSource(seed)))
}

// flatMap builds a hexagonal all-plains map of the given radius around the
// origin.
func flatMap(radius int) *GameMap {
	tiles := map[string]*Tile{}
	for _, c := range hex.Range(hex.New(0, 0), radius) {
		tiles[c.Key()] = &Tile{Coordinate: c, Terrain: TerrainPlains}
	}
	return &GameMap{Width: 2*radius + 1, Height: 2*radius + 1, Tiles: tiles}
}

// twoPlayerState builds a minimal two-player state on a flat map. Both
// players use a faction with no modifier-table entries so combat numbers in
// tests stay exact.
func twoPlayerState(radius int) *GameState {
	return &GameState{
		ID:   "test-game",
		Turn: 1,
		Players: []*PlayerState{
			{ID: "p1", Name: "north", FactionID: "wanderers", Stars: 10, Stats: PlayerStats{Faith: 50, Pride: 40, InternalDissent: 10}},
			{ID: "p2", Name: "south", FactionID: "wanderers", Stars: 10, Stats: PlayerStats{Faith: 50, Pride: 40, InternalDissent: 10}},
		},
		Units:        map[string]*Unit{},
		Map:          flatMap(radius),
		Cities:       map[string]*City{},
		Improvements: map[string]*Improvement{},
		Structures:   map[string]*Structure{},
	}
}

// putUnit places a unit with fixed baseline stats. An empty unitType has no
// combat class, so no innate bonuses apply.
func putUnit(state *GameState, id, playerID, unitType string, at hex.Coord) *Unit {
	u := &Unit{
		ID:                id,
		Type:              unitType,
		PlayerID:          playerID,
		Coordinate:        at,
		HP:                10,
		MaxHP:             10,
		Attack:            3,
		Defense:           1,
		Movement:          2,
		RemainingMovement: 2,
		VisionRadius:      2,
		AttackRange:       1,
		Status:            StatusActive,
		Level:             1,
	}
	state.Units[id] = u
	return u
}

// putCity places a city and records ownership on the owning player, if any.
func putCity(state *GameState, id, ownerID string, at hex.Coord, starProduction int) *City {
	c := &City{
		ID:             id,
		Name:           id,
		Coordinate:     at,
		OwnerID:        ownerID,
		Population:     1,
		MaxPopulation:  5,
		Level:          1,
		StarProduction: starProduction,
	}
	state.Cities[id] = c
	if tile := state.Map.TileAt(at); tile != nil {
		tile.HasCity = true
	}
	if ownerID != "" {
		if p := state.Player(ownerID); p != nil {
			p.CitiesOwned = appendUnique(p.CitiesOwned, id)
		}
	}
	return c
}
