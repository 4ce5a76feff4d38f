package game

// PlayerStats are the faith/pride/dissent meters, each clamped to [0, 100]
// at every mutation point.
type PlayerStats struct {
	Faith           int `json:"faith"`
	Pride           int `json:"pride"`
	InternalDissent int `json:"internalDissent"`
}

const (
	statMin = 0
	statMax = 100
)

func clampStat(v int) int {
	if v < statMin {
		return statMin
	}
	if v > statMax {
		return statMax
	}
	return v
}

// Get returns a stat by name; unknown names return 0.
func (s PlayerStats) Get(stat string) int {
	switch stat {
	case "faith":
		return s.Faith
	case "pride":
		return s.Pride
	case "internalDissent":
		return s.InternalDissent
	default:
		return 0
	}
}

// Adjust applies a clamped delta to a stat by name.
func (s *PlayerStats) Adjust(stat string, delta int) {
	switch stat {
	case "faith":
		s.Faith = clampStat(s.Faith + delta)
	case "pride":
		s.Pride = clampStat(s.Pride + delta)
	case "internalDissent":
		s.InternalDissent = clampStat(s.InternalDissent + delta)
	}
}

// TradeRoute is a standing income link between two cities.
type TradeRoute struct {
	FromCityID   string `json:"fromCityId"`
	ToCityID     string `json:"toCityId"`
	StarsPerTurn int    `json:"starsPerTurn"`
}

// PlayerState is everything owned by a single player.
type PlayerState struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	FactionID       string             `json:"factionId"`
	Stars           int                `json:"stars"`
	Stats           PlayerStats        `json:"stats"`
	ResearchedTechs []string           `json:"researchedTechs,omitempty"` // append-only set
	CitiesOwned     []string           `json:"citiesOwned,omitempty"`
	Queue           []ConstructionItem `json:"constructionQueue,omitempty"`
	// VisibilityMask holds currently visible tile keys. Recomputed fresh on
	// movement and turn start; never cumulative.
	VisibilityMask []string `json:"visibilityMask,omitempty"`
	// ExploredTiles holds every tile key the player has ever seen. Grows
	// monotonically.
	ExploredTiles []string     `json:"exploredTiles,omitempty"`
	TurnOrder     int          `json:"turnOrder"`
	IsEliminated  bool         `json:"isEliminated"`
	AtWarWith     []string     `json:"atWarWith,omitempty"`
	Allies        []string     `json:"allies,omitempty"`
	TradeRoutes   []TradeRoute `json:"tradeRoutes,omitempty"`
}

// Clone returns a deep copy of the player state.
func (p *PlayerState) Clone() *PlayerState {
	c := *p
	c.ResearchedTechs = append([]string(nil), p.ResearchedTechs...)
	c.CitiesOwned = append([]string(nil), p.CitiesOwned...)
	c.Queue = append([]ConstructionItem(nil), p.Queue...)
	c.VisibilityMask = append([]string(nil), p.VisibilityMask...)
	c.ExploredTiles = append([]string(nil), p.ExploredTiles...)
	c.AtWarWith = append([]string(nil), p.AtWarWith...)
	c.Allies = append([]string(nil), p.Allies...)
	c.TradeRoutes = append([]TradeRoute(nil), p.TradeRoutes...)
	return &c
}

// HasResearched reports whether the player has a technology.
func (p *PlayerState) HasResearched(techID string) bool {
	for _, t := range p.ResearchedTechs {
		if t == techID {
			return true
		}
	}
	return false
}

// HasExplored reports whether the player has ever seen a tile key.
func (p *PlayerState) HasExplored(key string) bool {
	for _, k := range p.ExploredTiles {
		if k == key {
			return true
		}
	}
	return false
}

// CanSee reports whether a tile key is in the current visibility mask.
func (p *PlayerState) CanSee(key string) bool {
	for _, k := range p.VisibilityMask {
		if k == key {
			return true
		}
	}
	return false
}

// IsAtWarWith reports whether the player is at war with another.
func (p *PlayerState) IsAtWarWith(playerID string) bool {
	for _, id := range p.AtWarWith {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsAlliedWith reports whether the player is allied with another.
func (p *PlayerState) IsAlliedWith(playerID string) bool {
	for _, id := range p.Allies {
		if id == playerID {
			return true
		}
	}
	return false
}

// OwnsCity reports whether the player owns a city ID.
func (p *PlayerState) OwnsCity(cityID string) bool {
	for _, id := range p.CitiesOwned {
		if id == cityID {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
