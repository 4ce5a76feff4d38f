package content

// UnitClass groups units that share innate combat behavior.
type UnitClass string

const (
	ClassInfantry    UnitClass = "infantry"     // formation fighting with adjacent same-type allies
	ClassRanged      UnitClass = "ranged"
	ClassScout       UnitClass = "scout"        // high vision, counts as cavalry-class target
	ClassCavalry     UnitClass = "cavalry"      // high movement
	ClassAntiCavalry UnitClass = "anti_cavalry" // bonus vs cavalry/scout targets
	ClassSiege       UnitClass = "siege"        // must set up before attacking
	ClassStealth     UnitClass = "stealth"      // bonus while stealthed
	ClassMissionary  UnitClass = "missionary"   // non-combatant, innate attack penalty
	ClassWorker      UnitClass = "worker"       // harvests and reshapes terrain
)

// UnitDef defines a recruitable unit type.
type UnitDef struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Class        UnitClass `json:"class"`
	MaxHP        int       `json:"maxHp"`
	Attack       int       `json:"attack"`
	Defense      int       `json:"defense"`
	Movement     int       `json:"movement"`
	VisionRadius int       `json:"visionRadius"`
	AttackRange  int       `json:"attackRange"`
	Cost         int       `json:"cost"`         // stars
	RecruitTurns int       `json:"recruitTurns"` // 0 = instantaneous
	Abilities    []string  `json:"abilities,omitempty"`
	Factions     []string  `json:"factions,omitempty"` // empty = available to all
	RequiredTech string    `json:"requiredTech,omitempty"`
}

// TechDef defines a researchable technology.
type TechDef struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Cost                int      `json:"cost"` // base cost; scales with techs already researched
	Prerequisites       []string `json:"prerequisites,omitempty"`
	UnlocksUnits        []string `json:"unlocksUnits,omitempty"`
	UnlocksAbilities    []string `json:"unlocksAbilities,omitempty"`
	UnlocksImprovements []string `json:"unlocksImprovements,omitempty"`
	UnlocksStructures   []string `json:"unlocksStructures,omitempty"`
}

// AbilityEffect identifies what an active ability does.
type AbilityEffect string

const (
	EffectConvert  AbilityEffect = "convert"  // probabilistic unit conversion
	EffectBlessing AbilityEffect = "blessing" // heal friendly units in radius
	EffectZeal     AbilityEffect = "zeal"     // flat faith gain
	EffectReveal   AbilityEffect = "reveal"   // mark tiles explored in radius
)

// AbilityDef defines an active, resource-costed ability.
type AbilityDef struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Effect      AbilityEffect `json:"effect"`
	FaithCost   int           `json:"faithCost"`
	PrideCost   int           `json:"prideCost"`
	Radius      int           `json:"radius"`
	Power       int           `json:"power"`      // heal amount / faith gain / reveal strength
	BaseChance  float64       `json:"baseChance"` // probabilistic abilities only
	MaxChance   float64       `json:"maxChance"`
}

// ImprovementDef defines a tile-scoped economic building.
type ImprovementDef struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Cost              int      `json:"cost"`
	StarProduction    int      `json:"starProduction"`
	ConstructionTurns int      `json:"constructionTurns"` // 0 = instantaneous
	RequiredTech      string   `json:"requiredTech,omitempty"`
	ValidTerrain      []string `json:"validTerrain"`
}

// StructureDef defines a city-scoped building.
type StructureDef struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Cost              int    `json:"cost"`
	StarProduction    int    `json:"starProduction"`
	FaithProduction   int    `json:"faithProduction"`
	ConstructionTurns int    `json:"constructionTurns"`
	RequiredTech      string `json:"requiredTech,omitempty"`
}

// FactionDef defines a playable faction.
type FactionDef struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	StartingStars   int      `json:"startingStars"`
	StartingFaith   int      `json:"startingFaith"`
	StartingPride   int      `json:"startingPride"`
	StartingDissent int      `json:"startingDissent"`
	StartingUnits   []string `json:"startingUnits"`
	Abilities       []string `json:"abilities,omitempty"`
}

// Trigger is the reducer event a modifier reacts to.
type Trigger string

const (
	TriggerOnAttack    Trigger = "on_attack"
	TriggerOnDefend    Trigger = "on_defend"
	TriggerOnDeath     Trigger = "on_death"
	TriggerOnTurnStart Trigger = "on_turn_start"
	TriggerOnTurnEnd   Trigger = "on_turn_end"
	TriggerPassive     Trigger = "passive"
)

// TargetScope selects which units or players an effect applies to.
type TargetScope string

const (
	TargetSelf        TargetScope = "self"
	TargetNearby      TargetScope = "nearby" // requires Radius
	TargetAllFriendly TargetScope = "all_friendly"
	TargetAllEnemy    TargetScope = "all_enemy"
)

// Condition is an optional numeric gate on a player stat.
type Condition struct {
	Stat      string `json:"stat"`     // faith | pride | internalDissent | stars
	Operator  string `json:"operator"` // > >= < <= ==
	Threshold int    `json:"threshold"`
}

// StatEffect is a single stat delta applied by a modifier.
type StatEffect struct {
	Stat     string      `json:"stat"` // attack | defense | hp | maxHp | faith | pride | internalDissent
	Value    int         `json:"value"`
	Target   TargetScope `json:"target"`
	Radius   int         `json:"radius,omitempty"`
	Duration int         `json:"duration,omitempty"` // turns; 0 = permanent
}

// ModifierDef is a declarative conditional effect evaluated at its trigger.
type ModifierDef struct {
	ID        string     `json:"id"`
	Trigger   Trigger    `json:"trigger"`
	FactionID string     `json:"factionId,omitempty"` // empty = all factions
	Condition *Condition `json:"condition,omitempty"`
	Effects   []StatEffect `json:"effects"`
}
