package game

import "errors"

// Game errors. A handler returning any of these leaves the input state
// untouched: the action is rejected as a whole, never partially applied.
var (
	ErrNotYourTurn           = errors.New("not your turn")
	ErrGameOver              = errors.New("game is over")
	ErrUnitNotFound          = errors.New("unit not found")
	ErrNotUnitOwner          = errors.New("unit belongs to another player")
	ErrCannotReach           = errors.New("destination is not reachable")
	ErrTileOccupied          = errors.New("destination tile is occupied")
	ErrOutOfRange            = errors.New("target is out of range")
	ErrAlreadyAttacked       = errors.New("unit has already attacked this turn")
	ErrFriendlyFire          = errors.New("cannot attack your own unit")
	ErrTargetAllied          = errors.New("cannot attack an allied unit")
	ErrSiegeNotSetUp         = errors.New("siege unit must set up before attacking")
	ErrInsufficientStars     = errors.New("insufficient stars")
	ErrInsufficientFaith     = errors.New("insufficient faith")
	ErrInsufficientPride     = errors.New("insufficient pride")
	ErrTechNotFound          = errors.New("technology not found")
	ErrTechAlreadyResearched = errors.New("technology already researched")
	ErrMissingPrerequisite   = errors.New("missing prerequisite technology")
	ErrMissingTech           = errors.New("required technology not researched")
	ErrCityNotFound          = errors.New("city not found")
	ErrNotCityOwner          = errors.New("city belongs to another player")
	ErrCityAlreadyOwned      = errors.New("city already owned by this player")
	ErrInvalidUnitType       = errors.New("unknown unit type")
	ErrFactionRestricted     = errors.New("unit not available to this faction")
	ErrInvalidTerrain        = errors.New("invalid terrain for this build")
	ErrDuplicateConstruction = errors.New("already built or under construction")
	ErrAbilityNotFound       = errors.New("ability not found")
	ErrAbilityLocked         = errors.New("ability not unlocked by any researched technology")
	ErrInvalidTarget         = errors.New("invalid target")
	ErrResourceNotFound      = errors.New("no resource on that tile")
	ErrAlreadyAtWar          = errors.New("already at war")
	ErrAlreadyAllied         = errors.New("already allied")
	ErrAtWar                 = errors.New("cannot do that while at war")
	ErrInsufficientXP        = errors.New("unit lacks experience to upgrade")
	ErrInvalidAction         = errors.New("invalid action")
	ErrPlayerNotFound        = errors.New("player not found")
)
