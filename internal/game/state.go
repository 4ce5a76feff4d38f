// Package game contains the core game logic for Promised Land: a pure
// state-transition engine over a hex map. One action in, one new state out.
// This package is shared between client and server.
package game

import (
	"strconv"

	"promised-land/internal/hex"
)

// Terrain classifies a tile. String-typed so serialized states and content
// tables stay readable.
type Terrain string

const (
	TerrainPlains   Terrain = "plains"
	TerrainForest   Terrain = "forest"
	TerrainMountain Terrain = "mountain"
	TerrainWater    Terrain = "water"
	TerrainDesert   Terrain = "desert"
	TerrainSwamp    Terrain = "swamp"
)

// Passable reports whether units can enter this terrain.
func (t Terrain) Passable() bool {
	return t != TerrainWater && t != TerrainMountain
}

// BlocksSight reports whether this terrain blocks line of sight.
// Mountains block; forest does not.
func (t Terrain) BlocksSight() bool {
	return t == TerrainMountain
}

// DefenseBonus is the defensive bonus granted to a unit standing here.
func (t Terrain) DefenseBonus() int {
	if t == TerrainForest {
		return 1
	}
	return 0
}

// Tile is a single hex on the map.
type Tile struct {
	Coordinate hex.Coord `json:"coordinate"`
	Terrain    Terrain   `json:"terrain"`
	Resources  []string  `json:"resources,omitempty"`
	HasCity    bool      `json:"hasCity"`
	// ExploredBy only grows; a tile is never un-explored for a player.
	ExploredBy []string `json:"exploredBy,omitempty"`
}

// IsExploredBy reports whether the given player has ever seen this tile.
func (t *Tile) IsExploredBy(playerID string) bool {
	for _, id := range t.ExploredBy {
		if id == playerID {
			return true
		}
	}
	return false
}

// MarkExplored records that a player has seen this tile.
func (t *Tile) MarkExplored(playerID string) {
	if !t.IsExploredBy(playerID) {
		t.ExploredBy = append(t.ExploredBy, playerID)
	}
}

// Clone returns a deep copy of the tile.
func (t *Tile) Clone() *Tile {
	c := *t
	c.Resources = append([]string(nil), t.Resources...)
	c.ExploredBy = append([]string(nil), t.ExploredBy...)
	return &c
}

// GameMap holds every tile, keyed by hex.Coord.Key().
type GameMap struct {
	Width  int              `json:"width"`
	Height int              `json:"height"`
	Tiles  map[string]*Tile `json:"tiles"`
}

// TileAt returns the tile at a coordinate, or nil if off-map.
func (m *GameMap) TileAt(c hex.Coord) *Tile {
	return m.Tiles[c.Key()]
}

// Clone returns a deep copy of the map.
func (m *GameMap) Clone() *GameMap {
	tiles := make(map[string]*Tile, len(m.Tiles))
	for k, t := range m.Tiles {
		tiles[k] = t.Clone()
	}
	return &GameMap{Width: m.Width, Height: m.Height, Tiles: tiles}
}

// City is a population center. OwnerID is empty while neutral.
type City struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Coordinate         hex.Coord `json:"coordinate"`
	OwnerID            string    `json:"ownerId,omitempty"`
	Population         int       `json:"population"`
	MaxPopulation      int       `json:"maxPopulation"`
	Level              int       `json:"level"`
	StarProduction     int       `json:"starProduction"`
	HarvestedResources []string  `json:"harvestedResources,omitempty"`
}

// Clone returns a deep copy of the city.
func (c *City) Clone() *City {
	cp := *c
	cp.HarvestedResources = append([]string(nil), c.HarvestedResources...)
	return &cp
}

// Improvement is a tile-scoped economic building.
type Improvement struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Coordinate hex.Coord `json:"coordinate"`
	OwnerID    string    `json:"ownerId"`
}

// Clone returns a copy of the improvement.
func (i *Improvement) Clone() *Improvement {
	cp := *i
	return &cp
}

// Structure is a city-scoped building.
type Structure struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	CityID  string `json:"cityId"`
	OwnerID string `json:"ownerId"`
}

// Clone returns a copy of the structure.
func (s *Structure) Clone() *Structure {
	cp := *s
	return &cp
}

// ConstructionKind distinguishes what a queued construction produces.
type ConstructionKind string

const (
	ConstructUnit        ConstructionKind = "unit"
	ConstructImprovement ConstructionKind = "improvement"
	ConstructStructure   ConstructionKind = "structure"
)

// ConstructionItem is an in-progress build in a player's queue. While queued
// it contributes nothing to income.
type ConstructionItem struct {
	ID             string           `json:"id"`
	Kind           ConstructionKind `json:"kind"`
	DefID          string           `json:"defId"`
	CityID         string           `json:"cityId"`
	Coordinate     hex.Coord        `json:"coordinate"` // improvements only
	TurnsRemaining int              `json:"turnsRemaining"`
}

// GameState is the root aggregate. All mutation happens through whole-state
// replacement: handlers deep-clone, modify the clone, and return it. The
// input state is never touched.
type GameState struct {
	ID                 string                  `json:"id"`
	Turn               int                     `json:"turn"`
	CurrentPlayerIndex int                     `json:"currentPlayerIndex"`
	Players            []*PlayerState          `json:"players"`
	Units              map[string]*Unit        `json:"units"`
	Map                *GameMap                `json:"map"`
	Cities             map[string]*City        `json:"cities"`
	Improvements       map[string]*Improvement `json:"improvements"`
	Structures         map[string]*Structure   `json:"structures"`
	Winner             string                  `json:"winner,omitempty"`
	VictoryType        VictoryType             `json:"victoryType,omitempty"`
	// NextEntityID feeds mintID. It travels with the state so replaying the
	// same actions over the same snapshot mints the same identifiers.
	NextEntityID int `json:"nextEntityId"`
}

// mintID issues the next entity identifier, such as "unit-7".
func (g *GameState) mintID(prefix string) string {
	g.NextEntityID++
	return prefix + "-" + strconv.Itoa(g.NextEntityID)
}

// VictoryType names how a game was won.
type VictoryType string

const (
	VictoryFaith       VictoryType = "faith"
	VictoryTerritorial VictoryType = "territorial"
	VictoryElimination VictoryType = "elimination"
)

// Clone returns a deep copy of the entire state.
func (g *GameState) Clone() *GameState {
	players := make([]*PlayerState, len(g.Players))
	for i, p := range g.Players {
		players[i] = p.Clone()
	}
	units := make(map[string]*Unit, len(g.Units))
	for id, u := range g.Units {
		units[id] = u.Clone()
	}
	cities := make(map[string]*City, len(g.Cities))
	for id, c := range g.Cities {
		cities[id] = c.Clone()
	}
	improvements := make(map[string]*Improvement, len(g.Improvements))
	for id, imp := range g.Improvements {
		improvements[id] = imp.Clone()
	}
	structures := make(map[string]*Structure, len(g.Structures))
	for id, s := range g.Structures {
		structures[id] = s.Clone()
	}
	return &GameState{
		ID:                 g.ID,
		Turn:               g.Turn,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		Players:            players,
		Units:              units,
		Map:                g.Map.Clone(),
		Cities:             cities,
		Improvements:       improvements,
		Structures:         structures,
		Winner:             g.Winner,
		VictoryType:        g.VictoryType,
		NextEntityID:       g.NextEntityID,
	}
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *PlayerState {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex%len(g.Players)]
}

// Player returns the player with the given ID, or nil.
func (g *GameState) Player(id string) *PlayerState {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// UnitAt returns the unit occupying a coordinate, or nil. At most one unit
// occupies a tile.
func (g *GameState) UnitAt(c hex.Coord) *Unit {
	for _, u := range g.Units {
		if u.Coordinate == c {
			return u
		}
	}
	return nil
}

// CityAt returns the city on a coordinate, or nil.
func (g *GameState) CityAt(c hex.Coord) *City {
	for _, city := range g.Cities {
		if city.Coordinate == c {
			return city
		}
	}
	return nil
}

// ImprovementAt returns the improvement on a coordinate, or nil.
func (g *GameState) ImprovementAt(c hex.Coord) *Improvement {
	for _, imp := range g.Improvements {
		if imp.Coordinate == c {
			return imp
		}
	}
	return nil
}

// UnitsOwnedBy returns the IDs of all units owned by a player, sorted order
// not guaranteed.
func (g *GameState) UnitsOwnedBy(playerID string) []*Unit {
	var result []*Unit
	for _, u := range g.Units {
		if u.PlayerID == playerID {
			result = append(result, u)
		}
	}
	return result
}

// CountCityTiles returns the number of city tiles on the whole map.
func (g *GameState) CountCityTiles() int {
	return len(g.Cities)
}

// CountCitiesOwned returns the number of cities owned by a player.
func (g *GameState) CountCitiesOwned(playerID string) int {
	count := 0
	for _, c := range g.Cities {
		if c.OwnerID == playerID {
			count++
		}
	}
	return count
}

// IsOver reports whether a winner has been decided.
func (g *GameState) IsOver() bool {
	return g.Winner != ""
}
