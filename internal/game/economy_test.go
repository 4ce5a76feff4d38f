package game

import (
	"errors"
	"reflect"
	"testing"

	"promised-land/internal/hex"
)

func TestResearchTechSpendsStars(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)

	next, err := e.Reduce(state, ResearchTech{PlayerID: "p1", TechID: "agriculture"})
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	p := next.Player("p1")
	if !p.HasResearched("agriculture") {
		t.Error("agriculture should be researched")
	}
	if p.Stars != 6 {
		t.Errorf("stars = %d, want 6", p.Stars)
	}
}

func TestResearchCostGrowsWithTechCount(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	state.Players[0].ResearchedTechs = []string{"archery", "riding"}

	next, err := e.Reduce(state, ResearchTech{PlayerID: "p1", TechID: "agriculture"})
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	// Base 4 plus 1 per tech already known.
	if got := next.Player("p1").Stars; got != 4 {
		t.Errorf("stars = %d, want 4", got)
	}
}

func TestResearchRejectsInsufficientStars(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	state.Players[0].Stars = 3

	_, err := e.Reduce(state, ResearchTech{PlayerID: "p1", TechID: "agriculture"})
	if !errors.Is(err, ErrInsufficientStars) {
		t.Fatalf("err = %v, want ErrInsufficientStars", err)
	}
}

func TestResearchRejectsMissingPrerequisite(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	state.Players[0].Stars = 20

	_, err := e.Reduce(state, ResearchTech{PlayerID: "p1", TechID: "engineering"})
	if !errors.Is(err, ErrMissingPrerequisite) {
		t.Fatalf("err = %v, want ErrMissingPrerequisite", err)
	}
}

func TestResearchRejectsDuplicate(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	state.Players[0].ResearchedTechs = []string{"agriculture"}

	_, err := e.Reduce(state, ResearchTech{PlayerID: "p1", TechID: "agriculture"})
	if !errors.Is(err, ErrTechAlreadyResearched) {
		t.Fatalf("err = %v, want ErrTechAlreadyResearched", err)
	}
}

func TestRecruitQueuesAndCharges(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p1", hex.New(0, 0), 1)

	next, err := e.Reduce(state, RecruitUnit{PlayerID: "p1", CityID: "c1", UnitType: "warrior"})
	if err != nil {
		t.Fatalf("recruit: %v", err)
	}
	p := next.Player("p1")
	if p.Stars != 6 {
		t.Errorf("stars = %d, want 6", p.Stars)
	}
	if len(p.Queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(p.Queue))
	}
	item := p.Queue[0]
	if item.Kind != ConstructUnit || item.DefID != "warrior" || item.TurnsRemaining != 1 {
		t.Errorf("queued item wrong: %+v", item)
	}
	if len(next.Units) != 0 {
		t.Error("no unit should exist until construction finishes")
	}
}

func TestRecruitMintsDeterministicIDs(t *testing.T) {
	run := func() *GameState {
		e := testEngine(t, 42)
		state := twoPlayerState(4)
		putCity(state, "c1", "p1", hex.New(0, 0), 1)
		next, err := e.Reduce(state, RecruitUnit{PlayerID: "p1", CityID: "c1", UnitType: "warrior"})
		if err != nil {
			t.Fatalf("recruit: %v", err)
		}
		return next
	}

	first, second := run(), run()
	if a, b := first.Player("p1").Queue[0].ID, second.Player("p1").Queue[0].ID; a != b {
		t.Errorf("queue item IDs differ across identical runs: %q vs %q", a, b)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs should produce identical states")
	}
}

func TestRecruitRejectsUngatedTech(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p1", hex.New(0, 0), 1)

	_, err := e.Reduce(state, RecruitUnit{PlayerID: "p1", CityID: "c1", UnitType: "archer"})
	if !errors.Is(err, ErrMissingTech) {
		t.Fatalf("err = %v, want ErrMissingTech", err)
	}
}

func TestRecruitRejectsForeignCity(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p2", hex.New(0, 0), 1)

	_, err := e.Reduce(state, RecruitUnit{PlayerID: "p1", CityID: "c1", UnitType: "warrior"})
	if !errors.Is(err, ErrNotCityOwner) {
		t.Fatalf("err = %v, want ErrNotCityOwner", err)
	}
}

func TestBuildImprovementQueues(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p1", hex.New(0, 0), 1)
	state.Players[0].ResearchedTechs = []string{"agriculture"}

	next, err := e.Reduce(state, BuildImprovement{
		PlayerID: "p1", CityID: "c1", ImprovementType: "farm", Target: hex.New(1, 0),
	})
	if err != nil {
		t.Fatalf("build improvement: %v", err)
	}
	p := next.Player("p1")
	if p.Stars != 6 {
		t.Errorf("stars = %d, want 6", p.Stars)
	}
	if len(p.Queue) != 1 || p.Queue[0].Kind != ConstructImprovement {
		t.Fatalf("queue wrong: %+v", p.Queue)
	}
}

func TestBuildImprovementRejectsWrongTerrain(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p1", hex.New(0, 0), 1)
	state.Players[0].ResearchedTechs = []string{"agriculture"}
	state.Map.TileAt(hex.New(1, 0)).Terrain = TerrainForest

	_, err := e.Reduce(state, BuildImprovement{
		PlayerID: "p1", CityID: "c1", ImprovementType: "farm", Target: hex.New(1, 0),
	})
	if !errors.Is(err, ErrInvalidTerrain) {
		t.Fatalf("err = %v, want ErrInvalidTerrain", err)
	}
}

func TestBuildImprovementRejectsFarTile(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(5)
	putCity(state, "c1", "p1", hex.New(0, 0), 1)
	state.Players[0].ResearchedTechs = []string{"agriculture"}

	_, err := e.Reduce(state, BuildImprovement{
		PlayerID: "p1", CityID: "c1", ImprovementType: "farm", Target: hex.New(4, 0),
	})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestBuildImprovementRejectsDuplicate(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p1", hex.New(0, 0), 1)
	state.Players[0].ResearchedTechs = []string{"agriculture"}
	state.Improvements["imp1"] = &Improvement{ID: "imp1", Type: "farm", Coordinate: hex.New(1, 0), OwnerID: "p1"}

	_, err := e.Reduce(state, BuildImprovement{
		PlayerID: "p1", CityID: "c1", ImprovementType: "farm", Target: hex.New(1, 0),
	})
	if !errors.Is(err, ErrDuplicateConstruction) {
		t.Fatalf("err = %v, want ErrDuplicateConstruction", err)
	}
}

func TestBuildStructureQueuesAndRejectsDuplicate(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p1", hex.New(0, 0), 1)

	next, err := e.Reduce(state, BuildStructure{PlayerID: "p1", CityID: "c1", StructureType: "shrine"})
	if err != nil {
		t.Fatalf("build structure: %v", err)
	}
	if got := next.Player("p1").Stars; got != 6 {
		t.Errorf("stars = %d, want 6", got)
	}

	_, err = e.Reduce(next, BuildStructure{PlayerID: "p1", CityID: "c1", StructureType: "shrine"})
	if !errors.Is(err, ErrDuplicateConstruction) {
		t.Fatalf("err = %v, want ErrDuplicateConstruction", err)
	}
}

func TestCaptureCityTransfersOwnership(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p2", hex.New(1, 0), 1)
	putUnit(state, "u1", "p1", "", hex.New(1, 0))

	next, err := e.Reduce(state, CaptureCity{PlayerID: "p1", CityID: "c1"})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if got := next.Cities["c1"].OwnerID; got != "p1" {
		t.Errorf("city owner = %q, want p1", got)
	}
	if !next.Player("p1").OwnsCity("c1") {
		t.Error("p1 ownership list should include the city")
	}
	if next.Player("p2").OwnsCity("c1") {
		t.Error("p2 ownership list should drop the city")
	}
	if got := next.Player("p1").Stats.Pride; got != 45 {
		t.Errorf("pride = %d, want 45", got)
	}
}

func TestCaptureCityRequiresOccupier(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p2", hex.New(1, 0), 1)
	putUnit(state, "u1", "p1", "", hex.New(3, 0))

	_, err := e.Reduce(state, CaptureCity{PlayerID: "p1", CityID: "c1"})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestHarvestResource(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p1", hex.New(2, 0), 1)
	putUnit(state, "u1", "p1", "worker", hex.New(0, 0))
	state.Map.TileAt(hex.New(1, 0)).Resources = []string{"gems"}

	next, err := e.Reduce(state, HarvestResource{UnitID: "u1", Target: hex.New(1, 0), CityID: "c1"})
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if got := next.Map.TileAt(hex.New(1, 0)).Resources; len(got) != 0 {
		t.Errorf("resources remaining = %v, want none", got)
	}
	c := next.Cities["c1"]
	if len(c.HarvestedResources) != 1 || c.HarvestedResources[0] != "gems" {
		t.Errorf("harvested = %v, want [gems]", c.HarvestedResources)
	}
	if c.StarProduction != 2 {
		t.Errorf("star production = %d, want 2", c.StarProduction)
	}
	if got := next.Units["u1"].RemainingMovement; got != 0 {
		t.Errorf("movement = %d, want 0", got)
	}
}

func TestHarvestRejectsEmptyTile(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	putCity(state, "c1", "p1", hex.New(2, 0), 1)
	putUnit(state, "u1", "p1", "worker", hex.New(0, 0))

	_, err := e.Reduce(state, HarvestResource{UnitID: "u1", Target: hex.New(1, 0), CityID: "c1"})
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("err = %v, want ErrResourceNotFound", err)
	}
}

func TestUpgradeUnit(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	u := putUnit(state, "u1", "p1", "", hex.New(0, 0))
	u.Experience = 3

	next, err := e.Reduce(state, UpgradeUnit{PlayerID: "p1", UnitID: "u1"})
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	up := next.Units["u1"]
	if up.Level != 2 {
		t.Errorf("level = %d, want 2", up.Level)
	}
	if up.Attack != 4 || up.Defense != 2 {
		t.Errorf("stats = %d/%d, want 4/2", up.Attack, up.Defense)
	}
	if up.MaxHP != 12 || up.HP != 12 {
		t.Errorf("hp = %d/%d, want 12/12", up.HP, up.MaxHP)
	}
	if up.Experience != 0 {
		t.Errorf("experience = %d, want 0", up.Experience)
	}
	if got := next.Player("p1").Stars; got != 6 {
		t.Errorf("stars = %d, want 6", got)
	}
}

func TestUpgradeRejectsLowExperience(t *testing.T) {
	e := testEngine(t, 1)
	state := twoPlayerState(4)
	u := putUnit(state, "u1", "p1", "", hex.New(0, 0))
	u.Experience = 2

	_, err := e.Reduce(state, UpgradeUnit{PlayerID: "p1", UnitID: "u1"})
	if !errors.Is(err, ErrInsufficientXP) {
		t.Fatalf("err = %v, want ErrInsufficientXP", err)
	}
}
