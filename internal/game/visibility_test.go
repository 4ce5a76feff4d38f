package game

import (
	"sort"
	"testing"

	"promised-land/internal/hex"
)

func TestFogStateClassification(t *testing.T) {
	p := &PlayerState{
		ID:             "p1",
		VisibilityMask: []string{"0,0", "1,0"},
		ExploredTiles:  []string{"0,0", "1,0", "2,0"},
	}
	if got := FogStateFor(p, "0,0"); got != FogVisible {
		t.Errorf("0,0 = %q, want visible", got)
	}
	if got := FogStateFor(p, "2,0"); got != FogExplored {
		t.Errorf("2,0 = %q, want explored", got)
	}
	if got := FogStateFor(p, "3,0"); got != FogHidden {
		t.Errorf("3,0 = %q, want hidden", got)
	}
}

func TestMountainBlocksLineOfSight(t *testing.T) {
	m := flatMap(4)
	m.TileAt(hex.New(1, 0)).Terrain = TerrainMountain

	if HasLineOfSight(m, hex.New(0, 0), hex.New(2, 0), 4) {
		t.Error("sight through a mountain should be blocked")
	}
	// The mountain tile itself stays visible; only tiles beyond it hide.
	if !HasLineOfSight(m, hex.New(0, 0), hex.New(1, 0), 4) {
		t.Error("the blocking tile itself should be visible")
	}
	if !HasLineOfSight(m, hex.New(0, 0), hex.New(2, -2), 4) {
		t.Error("sight off the blocked line should be clear")
	}
}

func TestForestDoesNotBlockSight(t *testing.T) {
	m := flatMap(4)
	m.TileAt(hex.New(1, 0)).Terrain = TerrainForest

	if !HasLineOfSight(m, hex.New(0, 0), hex.New(2, 0), 4) {
		t.Error("forest should not block line of sight")
	}
}

func TestVisibilityMaskIsSortedAndFresh(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(5)
	putUnit(state, "u1", "p1", "", hex.New(0, 0))

	next, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(2, 0)})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	p := next.Player("p1")
	if !sort.StringsAreSorted(p.VisibilityMask) {
		t.Error("visibility mask should be sorted")
	}
	// -2,0 is 4 tiles from the new position: out of the fresh mask.
	if p.CanSee(hex.New(-2, 0).Key()) {
		t.Error("mask should be recomputed fresh, not cumulative")
	}
}

func TestExploredTilesNeverShrink(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(5)
	putUnit(state, "u1", "p1", "", hex.New(-2, 0))
	e.recomputeVisibility(state, state.Player("p1"))
	before := len(state.Player("p1").ExploredTiles)

	next, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(0, 0)})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	p := next.Player("p1")
	if len(p.ExploredTiles) < before {
		t.Errorf("explored tiles shrank: %d -> %d", before, len(p.ExploredTiles))
	}
	if !p.HasExplored(hex.New(-4, 0).Key()) {
		t.Error("previously seen tile should remain explored")
	}
	if p.CanSee(hex.New(-4, 0).Key()) {
		t.Error("out-of-sight tile should no longer be visible")
	}
}

func TestCityGrantsVision(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(5)
	putCity(state, "c1", "p1", hex.New(3, 0), 1)
	e.recomputeVisibility(state, state.Player("p1"))

	p := state.Player("p1")
	if !p.CanSee(hex.New(3, 0).Key()) {
		t.Error("city tile should be visible to its owner")
	}
	if !p.CanSee(hex.New(4, 0).Key()) {
		t.Error("tile next to the city should be visible")
	}
	if p.CanSee(hex.New(0, 0).Key()) {
		t.Error("tile far from the city should not be visible")
	}
}

func TestShadowCastStopsBehindBlocker(t *testing.T) {
	m := flatMap(5)
	m.TileAt(hex.New(2, 0)).Terrain = TerrainMountain

	visible := ShadowCastVisibility(m, hex.New(0, 0), 4)
	seen := map[hex.Coord]bool{}
	for _, c := range visible {
		seen[c] = true
	}

	if !seen[hex.New(2, 0)] {
		t.Error("blocking tile should be seen")
	}
	if seen[hex.New(3, 0)] {
		t.Error("tile behind the blocker should be hidden")
	}
	if !seen[hex.New(0, -3)] {
		t.Error("unblocked ray should reach its full length")
	}
}

func TestShadowCastAdjacentAlwaysVisible(t *testing.T) {
	m := flatMap(5)
	for _, n := range hex.New(0, 0).Neighbors() {
		m.TileAt(n).Terrain = TerrainMountain
	}

	visible := ShadowCastVisibility(m, hex.New(0, 0), 4)
	seen := map[hex.Coord]bool{}
	for _, c := range visible {
		seen[c] = true
	}
	for _, n := range hex.New(0, 0).Neighbors() {
		if !seen[n] {
			t.Errorf("adjacent tile %v should always be visible", n)
		}
	}
}

func TestTileExplorationIsMonotonicPerPlayer(t *testing.T) {
	tile := &Tile{Coordinate: hex.New(0, 0), Terrain: TerrainPlains}
	tile.MarkExplored("p1")
	tile.MarkExplored("p1")
	if len(tile.ExploredBy) != 1 {
		t.Errorf("duplicate explored entries: %v", tile.ExploredBy)
	}
	if tile.IsExploredBy("p2") {
		t.Error("p2 never saw this tile")
	}
}
