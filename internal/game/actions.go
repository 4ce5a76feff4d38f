package game

import (
	"promised-land/internal/hex"
)

// ActionKind discriminates the action union.
type ActionKind string

const (
	ActionMoveUnit            ActionKind = "move_unit"
	ActionAttackUnit          ActionKind = "attack_unit"
	ActionEndTurn             ActionKind = "end_turn"
	ActionUseAbility          ActionKind = "use_ability"
	ActionResearchTech        ActionKind = "research_tech"
	ActionRecruitUnit         ActionKind = "recruit_unit"
	ActionBuildImprovement    ActionKind = "build_improvement"
	ActionBuildStructure      ActionKind = "build_structure"
	ActionCaptureCity         ActionKind = "capture_city"
	ActionHarvestResource     ActionKind = "harvest_resource"
	ActionDeclareWar          ActionKind = "declare_war"
	ActionFormAlliance        ActionKind = "form_alliance"
	ActionEstablishTradeRoute ActionKind = "establish_trade_route"
	ActionConvertCity         ActionKind = "convert_city"
	ActionUpgradeUnit         ActionKind = "upgrade_unit"
	ActionUnitAction          ActionKind = "unit_action"
)

// Action is the discriminated union dispatched by the reducer. Each concrete
// action carries exactly the payload its kind needs.
type Action interface {
	Kind() ActionKind
}

// MoveUnit moves a unit along the shortest legal path to the target.
type MoveUnit struct {
	UnitID string    `json:"unitId"`
	Target hex.Coord `json:"target"`
}

func (MoveUnit) Kind() ActionKind { return ActionMoveUnit }

// AttackUnit resolves combat between two units.
type AttackUnit struct {
	AttackerID string `json:"attackerId"`
	TargetID   string `json:"targetId"`
}

func (AttackUnit) Kind() ActionKind { return ActionAttackUnit }

// EndTurn ends the current player's turn. A no-op unless PlayerID is the
// current player; that check is the sole authorization for end-turn.
type EndTurn struct {
	PlayerID string `json:"playerId"`
}

func (EndTurn) Kind() ActionKind { return ActionEndTurn }

// UseAbility activates a named ability at an optional target.
type UseAbility struct {
	PlayerID  string    `json:"playerId"`
	AbilityID string    `json:"abilityId"`
	CasterID  string    `json:"casterId,omitempty"` // unit channelling the ability, if any
	Target    hex.Coord `json:"target"`
}

func (UseAbility) Kind() ActionKind { return ActionUseAbility }

// ResearchTech spends stars on a technology.
type ResearchTech struct {
	PlayerID string `json:"playerId"`
	TechID   string `json:"techId"`
}

func (ResearchTech) Kind() ActionKind { return ActionResearchTech }

// RecruitUnit queues a unit in a city.
type RecruitUnit struct {
	PlayerID string `json:"playerId"`
	CityID   string `json:"cityId"`
	UnitType string `json:"unitType"`
}

func (RecruitUnit) Kind() ActionKind { return ActionRecruitUnit }

// BuildImprovement builds a tile improvement near a city.
type BuildImprovement struct {
	PlayerID        string    `json:"playerId"`
	CityID          string    `json:"cityId"`
	ImprovementType string    `json:"improvementType"`
	Target          hex.Coord `json:"target"`
}

func (BuildImprovement) Kind() ActionKind { return ActionBuildImprovement }

// BuildStructure builds a city structure.
type BuildStructure struct {
	PlayerID      string `json:"playerId"`
	CityID        string `json:"cityId"`
	StructureType string `json:"structureType"`
}

func (BuildStructure) Kind() ActionKind { return ActionBuildStructure }

// CaptureCity transfers a city occupied by one of the player's units.
type CaptureCity struct {
	PlayerID string `json:"playerId"`
	CityID   string `json:"cityId"`
}

func (CaptureCity) Kind() ActionKind { return ActionCaptureCity }

// HarvestResource sends a worker to harvest a tile resource for a city.
type HarvestResource struct {
	UnitID string    `json:"unitId"`
	Target hex.Coord `json:"target"`
	CityID string    `json:"cityId"`
}

func (HarvestResource) Kind() ActionKind { return ActionHarvestResource }

// DeclareWar breaks relations with another player.
type DeclareWar struct {
	PlayerID string `json:"playerId"`
	TargetID string `json:"targetId"`
}

func (DeclareWar) Kind() ActionKind { return ActionDeclareWar }

// FormAlliance allies two players.
type FormAlliance struct {
	PlayerID string `json:"playerId"`
	TargetID string `json:"targetId"`
}

func (FormAlliance) Kind() ActionKind { return ActionFormAlliance }

// EstablishTradeRoute links two cities for star income.
type EstablishTradeRoute struct {
	PlayerID   string `json:"playerId"`
	FromCityID string `json:"fromCityId"`
	ToCityID   string `json:"toCityId"`
}

func (EstablishTradeRoute) Kind() ActionKind { return ActionEstablishTradeRoute }

// ConvertCity attempts a faith-driven takeover of another player's city.
type ConvertCity struct {
	PlayerID string `json:"playerId"`
	CityID   string `json:"cityId"`
}

func (ConvertCity) Kind() ActionKind { return ActionConvertCity }

// UpgradeUnit levels up an experienced unit for stars.
type UpgradeUnit struct {
	PlayerID string `json:"playerId"`
	UnitID   string `json:"unitId"`
}

func (UpgradeUnit) Kind() ActionKind { return ActionUpgradeUnit }

// UnitActionType names a special per-unit action.
type UnitActionType string

const (
	UnitActionStealth     UnitActionType = "stealth"
	UnitActionHeal        UnitActionType = "heal"
	UnitActionRecon       UnitActionType = "reconnaissance"
	UnitActionDefend      UnitActionType = "defend"
	UnitActionFortify     UnitActionType = "fortify"
	UnitActionSiegeSetup  UnitActionType = "siege_setup"
	UnitActionClearForest UnitActionType = "clear_forest"
)

// UnitAction performs a special action with a unit.
type UnitAction struct {
	UnitID     string         `json:"unitId"`
	ActionType UnitActionType `json:"actionType"`
	Target     hex.Coord      `json:"target"`
}

func (UnitAction) Kind() ActionKind { return ActionUnitAction }
