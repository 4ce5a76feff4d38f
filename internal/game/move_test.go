package game

import (
	"errors"
	"testing"

	"promised-land/internal/hex"
)

func TestMoveDeductsPathCost(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putUnit(state, "u1", "p1", "", hex.New(0, 0))

	next, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(2, 0)})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	moved := next.Units["u1"]
	if moved.Coordinate != hex.New(2, 0) {
		t.Errorf("coordinate = %v, want 2,0", moved.Coordinate)
	}
	if moved.RemainingMovement != 0 {
		t.Errorf("remaining movement = %d, want 0", moved.RemainingMovement)
	}
}

func TestMoveRejectsBeyondMovement(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putUnit(state, "u1", "p1", "", hex.New(0, 0))

	_, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(3, 0)})
	if !errors.Is(err, ErrCannotReach) {
		t.Fatalf("err = %v, want ErrCannotReach", err)
	}
}

func TestMoveRejectsOccupiedTile(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putUnit(state, "u1", "p1", "", hex.New(0, 0))
	putUnit(state, "u2", "p2", "", hex.New(1, 0))

	_, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(1, 0)})
	if !errors.Is(err, ErrTileOccupied) {
		t.Fatalf("err = %v, want ErrTileOccupied", err)
	}
}

func TestMoveRejectsImpassableTerrain(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putUnit(state, "u1", "p1", "", hex.New(0, 0))
	state.Map.TileAt(hex.New(1, 0)).Terrain = TerrainWater

	_, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(1, 0)})
	if !errors.Is(err, ErrCannotReach) {
		t.Fatalf("err = %v, want ErrCannotReach", err)
	}
}

func TestMoveRejectsOtherPlayersUnit(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putUnit(state, "u2", "p2", "", hex.New(0, 0))

	_, err := e.Reduce(state, MoveUnit{UnitID: "u2", Target: hex.New(1, 0)})
	if !errors.Is(err, ErrNotUnitOwner) {
		t.Fatalf("err = %v, want ErrNotUnitOwner", err)
	}
}

func TestMoveRoutesAroundBlockedTiles(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	u := putUnit(state, "u1", "p1", "", hex.New(0, 0))
	u.Movement = 3
	u.RemainingMovement = 3
	// Wall off the direct step so the path must detour and cost extra.
	state.Map.TileAt(hex.New(1, 0)).Terrain = TerrainMountain

	next, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(2, 0)})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	moved := next.Units["u1"]
	if moved.Coordinate != hex.New(2, 0) {
		t.Errorf("coordinate = %v, want 2,0", moved.Coordinate)
	}
	// The detour costs 3 steps instead of the direct 2.
	if moved.RemainingMovement != 0 {
		t.Errorf("remaining movement = %d, want 0", moved.RemainingMovement)
	}
}

func TestMoveBreaksStance(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	u := putUnit(state, "u1", "p1", "", hex.New(0, 0))
	u.Status = StatusDefending

	next, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(1, 0)})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := next.Units["u1"].Status; got != StatusActive {
		t.Errorf("status = %q, want active", got)
	}
}

func TestMoveRecomputesVisibility(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(5)
	putUnit(state, "u1", "p1", "", hex.New(0, 0))

	next, err := e.Reduce(state, MoveUnit{UnitID: "u1", Target: hex.New(2, 0)})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	p := next.Player("p1")
	// Vision radius 2 from the new position reaches 4,0.
	if !p.CanSee(hex.New(4, 0).Key()) {
		t.Error("tile 4,0 should be visible after the move")
	}
	if !p.HasExplored(hex.New(0, 0).Key()) {
		t.Error("origin tile should stay explored")
	}
}

func TestReachableTilesForUnitCount(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(5)
	putUnit(state, "u1", "p1", "", hex.New(0, 0))

	got := e.ReachableTilesForUnit(state, "u1")
	// Movement 2 on open ground: 18 tiles, excluding the start.
	if len(got) != 18 {
		t.Errorf("reachable tiles = %d, want 18", len(got))
	}
}

func TestPathPreviewMatchesMoveCost(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(5)
	putUnit(state, "u1", "p1", "", hex.New(0, 0))

	path := e.PathPreview(state, "u1", hex.New(2, 0))
	if len(path) != 3 {
		t.Fatalf("path length = %d, want 3", len(path))
	}
	if path[0] != hex.New(0, 0) || path[2] != hex.New(2, 0) {
		t.Errorf("path endpoints wrong: %v", path)
	}
}
