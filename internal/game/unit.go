package game

import (
	"promised-land/internal/hex"
)

// UnitStatus is a unit's current stance.
type UnitStatus string

const (
	StatusActive     UnitStatus = "active"
	StatusDefending  UnitStatus = "defending"
	StatusFortified  UnitStatus = "fortified"
	StatusStealthed  UnitStatus = "stealthed"
	StatusSiegeSetup UnitStatus = "siege_setup"
)

// ActiveEffect is a timed stat delta applied by a modifier. Permanent
// effects change base stats directly and never appear here.
type ActiveEffect struct {
	Stat           string `json:"stat"`
	Value          int    `json:"value"`
	TurnsRemaining int    `json:"turnsRemaining"`
}

// Unit is a single military or civilian unit. Owned exclusively by PlayerID;
// removed from the unit collection when HP reaches 0.
type Unit struct {
	ID                string         `json:"id"`
	Type              string         `json:"type"`
	PlayerID          string         `json:"playerId"`
	Coordinate        hex.Coord      `json:"coordinate"`
	HP                int            `json:"hp"`
	MaxHP             int            `json:"maxHp"`
	Attack            int            `json:"attack"`
	Defense           int            `json:"defense"`
	Movement          int            `json:"movement"`
	RemainingMovement int            `json:"remainingMovement"`
	VisionRadius      int            `json:"visionRadius"`
	AttackRange       int            `json:"attackRange"`
	Status            UnitStatus     `json:"status"`
	Abilities         []string       `json:"abilities,omitempty"`
	Level             int            `json:"level"`
	Experience        int            `json:"experience"`
	HasAttacked       bool           `json:"hasAttacked"`
	Effects           []ActiveEffect `json:"effects,omitempty"`
}

// Clone returns a deep copy of the unit.
func (u *Unit) Clone() *Unit {
	c := *u
	c.Abilities = append([]string(nil), u.Abilities...)
	c.Effects = append([]ActiveEffect(nil), u.Effects...)
	return &c
}

// EffectiveAttack is base attack plus timed effects.
func (u *Unit) EffectiveAttack() int {
	return u.Attack + u.effectSum("attack")
}

// EffectiveDefense is base defense plus timed effects.
func (u *Unit) EffectiveDefense() int {
	return u.Defense + u.effectSum("defense")
}

func (u *Unit) effectSum(stat string) int {
	total := 0
	for _, e := range u.Effects {
		if e.Stat == stat {
			total += e.Value
		}
	}
	return total
}

// ApplyDamage reduces HP, clamping at 0. Returns true if the unit died.
func (u *Unit) ApplyDamage(amount int) bool {
	u.HP -= amount
	if u.HP < 0 {
		u.HP = 0
	}
	return u.HP == 0
}

// Heal restores HP up to MaxHP and returns the amount actually healed.
func (u *Unit) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	healed := amount
	if u.HP+healed > u.MaxHP {
		healed = u.MaxHP - u.HP
	}
	u.HP += healed
	return healed
}

// ResetTurn restores movement and attack availability at the start of the
// owner's turn, and ticks down timed effects.
func (u *Unit) ResetTurn() {
	u.RemainingMovement = u.Movement
	u.HasAttacked = false

	kept := u.Effects[:0]
	for _, e := range u.Effects {
		e.TurnsRemaining--
		if e.TurnsRemaining > 0 {
			kept = append(kept, e)
		}
	}
	u.Effects = kept
	if len(u.Effects) == 0 {
		u.Effects = nil
	}
}

// MissingHPFraction is (maxHp - hp) / maxHp, used by conversion chance.
func (u *Unit) MissingHPFraction() float64 {
	if u.MaxHP <= 0 {
		return 0
	}
	return float64(u.MaxHP-u.HP) / float64(u.MaxHP)
}
