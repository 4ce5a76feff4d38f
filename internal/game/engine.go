package game

import (
	"math/rand"

	"promised-land/internal/content"
)

// Config holds the tunable rules of the engine.
type Config struct {
	// Faith victory: faith at or above the threshold while dissent stays
	// below the ceiling.
	FaithVictoryThreshold int
	DissentVictoryCeiling int
	// Territorial victory: fraction of all city tiles controlled.
	TerritorialFraction float64
	// Elimination victory by wiping every other player's units.
	EliminationEnabled bool
	// Faction resource-threshold combat bonuses.
	FaithAttackThreshold int
	PrideAttackThreshold int
	// Research cost grows by this much per tech already researched.
	TechCostGrowth int
}

// DefaultConfig returns the standard rule set.
func DefaultConfig() Config {
	return Config{
		FaithVictoryThreshold: 90,
		DissentVictoryCeiling: 30,
		TerritorialFraction:   0.6,
		EliminationEnabled:    true,
		FaithAttackThreshold:  70,
		PrideAttackThreshold:  70,
		TechCostGrowth:        1,
	}
}

// Engine applies actions to game states. It holds the static data tables and
// an injected random source; it has no per-game state of its own, so one
// engine can serve many games as long as each game's actions are applied
// from a single goroutine.
type Engine struct {
	content *content.Registry
	cfg     Config
	rng     *rand.Rand
}

// NewEngine builds an engine. The rng is the only source of randomness in
// the core; seed it to make conversion rolls reproducible.
func NewEngine(reg *content.Registry, cfg Config, rng *rand.Rand) *Engine {
	return &Engine{content: reg, cfg: cfg, rng: rng}
}

// Content exposes the static data tables.
func (e *Engine) Content() *content.Registry { return e.content }

// Reduce is the single entry point: it dispatches one action and returns the
// resulting state. On any validation failure the input state is returned
// unchanged alongside the error; the input is never mutated either way.
func (e *Engine) Reduce(state *GameState, action Action) (*GameState, error) {
	if state.IsOver() {
		return state, ErrGameOver
	}

	switch a := action.(type) {
	case MoveUnit:
		return e.moveUnit(state, a)
	case AttackUnit:
		return e.attackUnit(state, a)
	case EndTurn:
		return e.endTurn(state, a)
	case UseAbility:
		next, result := e.ApplyAbility(state, a)
		if result.Err != nil {
			return state, result.Err
		}
		return next, nil
	case ResearchTech:
		return e.researchTech(state, a)
	case RecruitUnit:
		return e.recruitUnit(state, a)
	case BuildImprovement:
		return e.buildImprovement(state, a)
	case BuildStructure:
		return e.buildStructure(state, a)
	case CaptureCity:
		return e.captureCity(state, a)
	case HarvestResource:
		return e.harvestResource(state, a)
	case DeclareWar:
		return e.declareWar(state, a)
	case FormAlliance:
		return e.formAlliance(state, a)
	case EstablishTradeRoute:
		return e.establishTradeRoute(state, a)
	case ConvertCity:
		return e.convertCity(state, a)
	case UpgradeUnit:
		return e.upgradeUnit(state, a)
	case UnitAction:
		next, result := e.ApplyUnitAction(state, a)
		if result.Err != nil {
			return state, result.Err
		}
		return next, nil
	default:
		return state, ErrInvalidAction
	}
}

// requireCurrentPlayer validates that playerID is the current player.
func (e *Engine) requireCurrentPlayer(state *GameState, playerID string) (*PlayerState, error) {
	p := state.CurrentPlayer()
	if p == nil || p.ID != playerID {
		return nil, ErrNotYourTurn
	}
	if p.IsEliminated {
		return nil, ErrNotYourTurn
	}
	return p, nil
}
