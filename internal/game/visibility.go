package game

import (
	"sort"

	"promised-land/internal/hex"
)

// FogState is the per-player, per-tile fog classification.
type FogState string

const (
	FogVisible  FogState = "visible"  // currently in line of sight
	FogExplored FogState = "explored" // seen before, not currently visible
	FogHidden   FogState = "hidden"   // never seen
)

// Render opacities per fog state. Explored tiles render terrain dimmed but
// never units.
const (
	FogVisibleOpacity  = 1.0
	FogExploredOpacity = 0.7
	FogHiddenOpacity   = 0.15
)

// FogStateFor classifies a tile key for a player.
func FogStateFor(p *PlayerState, key string) FogState {
	if p.CanSee(key) {
		return FogVisible
	}
	if p.HasExplored(key) {
		return FogExplored
	}
	return FogHidden
}

// HasLineOfSight reports whether an unobstructed straight hex line connects
// from and to. Interior tiles with sight-blocking terrain (mountains) break
// the line; the endpoints themselves never block. A maxRange of zero or less
// means unlimited range.
func HasLineOfSight(m *GameMap, from, to hex.Coord, maxRange int) bool {
	dist := hex.Distance(from, to)
	if maxRange > 0 && dist > maxRange {
		return false
	}
	if dist <= 1 {
		return true
	}
	line := hex.Line(from, to)
	for _, c := range line[1 : len(line)-1] {
		tile := m.TileAt(c)
		if tile == nil {
			continue
		}
		if tile.Terrain.BlocksSight() {
			return false
		}
	}
	return true
}

// VisibleTiles returns every on-map tile within radius of from that has a
// direct line of sight. The origin tile is included.
func VisibleTiles(m *GameMap, from hex.Coord, radius int) []hex.Coord {
	var result []hex.Coord
	for _, c := range hex.Range(from, radius) {
		if m.TileAt(c) == nil {
			continue
		}
		if HasLineOfSight(m, from, c, radius) {
			result = append(result, c)
		}
	}
	return result
}

// ShadowCastVisibility casts along the six principal hex directions: each
// ray marks tiles visible outward until a blocking tile is reached. The
// blocking tile itself is seen; tiles beyond it on that ray are not. All
// adjacent tiles are always visible.
func ShadowCastVisibility(m *GameMap, from hex.Coord, radius int) []hex.Coord {
	seen := map[hex.Coord]bool{}
	var result []hex.Coord

	mark := func(c hex.Coord) {
		if !seen[c] && m.TileAt(c) != nil {
			seen[c] = true
			result = append(result, c)
		}
	}

	mark(from)
	for _, n := range from.Neighbors() {
		mark(n)
	}

	for _, dir := range hex.Directions {
		cur := from
		for step := 0; step < radius; step++ {
			cur = cur.Add(dir)
			tile := m.TileAt(cur)
			if tile == nil {
				break
			}
			mark(cur)
			if tile.Terrain.BlocksSight() {
				break
			}
		}
	}

	return result
}

// recomputeVisibility rebuilds a player's visibility mask from scratch out
// of every vision source the player owns (units and cities), and folds the
// newly seen tiles into the monotonic explored sets.
func (e *Engine) recomputeVisibility(state *GameState, p *PlayerState) {
	visible := map[string]bool{}

	for _, u := range state.Units {
		if u.PlayerID != p.ID {
			continue
		}
		for _, c := range VisibleTiles(state.Map, u.Coordinate, u.VisionRadius) {
			visible[c.Key()] = true
		}
	}
	for _, city := range state.Cities {
		if city.OwnerID != p.ID {
			continue
		}
		for _, c := range VisibleTiles(state.Map, city.Coordinate, cityVisionRadius) {
			visible[c.Key()] = true
		}
	}

	// Sorted so that serialized states are identical across replays.
	mask := make([]string, 0, len(visible))
	for key := range visible {
		mask = append(mask, key)
	}
	sort.Strings(mask)
	p.VisibilityMask = mask

	for _, key := range mask {
		if !p.HasExplored(key) {
			p.ExploredTiles = append(p.ExploredTiles, key)
		}
		if tile := state.Map.Tiles[key]; tile != nil {
			tile.MarkExplored(p.ID)
		}
	}
}

// cityVisionRadius is how far an owned city sees.
const cityVisionRadius = 2

// VisibleTileKeys returns the player's current visibility mask. Read-only
// query for fog rendering.
func (e *Engine) VisibleTileKeys(state *GameState, playerID string) []string {
	p := state.Player(playerID)
	if p == nil {
		return nil
	}
	return append([]string(nil), p.VisibilityMask...)
}
