package game

func (e *Engine) declareWar(state *GameState, a DeclareWar) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	target := state.Player(a.TargetID)
	if target == nil || target.ID == player.ID {
		return state, ErrPlayerNotFound
	}
	if player.IsAtWarWith(target.ID) {
		return state, ErrAlreadyAtWar
	}

	next := state.Clone()
	p := next.Player(player.ID)
	t := next.Player(target.ID)
	p.AtWarWith = appendUnique(p.AtWarWith, t.ID)
	t.AtWarWith = appendUnique(t.AtWarWith, p.ID)
	// Breaking an alliance this way is treasonous: both sides drop the
	// alliance and the aggressor's people grow uneasy.
	if p.IsAlliedWith(t.ID) {
		p.Allies = removeString(p.Allies, t.ID)
		t.Allies = removeString(t.Allies, p.ID)
		p.Stats.Adjust("internalDissent", betrayalDissent)
	}
	p.Stats.Adjust("pride", warPrideGain)
	return next, nil
}

func (e *Engine) formAlliance(state *GameState, a FormAlliance) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	target := state.Player(a.TargetID)
	if target == nil || target.ID == player.ID {
		return state, ErrPlayerNotFound
	}
	if player.IsAlliedWith(target.ID) {
		return state, ErrAlreadyAllied
	}
	if player.IsAtWarWith(target.ID) {
		return state, ErrAtWar
	}

	next := state.Clone()
	p := next.Player(player.ID)
	t := next.Player(target.ID)
	p.Allies = appendUnique(p.Allies, t.ID)
	t.Allies = appendUnique(t.Allies, p.ID)
	return next, nil
}

func (e *Engine) establishTradeRoute(state *GameState, a EstablishTradeRoute) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	from := state.Cities[a.FromCityID]
	to := state.Cities[a.ToCityID]
	if from == nil || to == nil || from.ID == to.ID {
		return state, ErrCityNotFound
	}
	if from.OwnerID != player.ID {
		return state, ErrNotCityOwner
	}
	// The far end must belong to the player or to an ally.
	if to.OwnerID != player.ID {
		owner := state.Player(to.OwnerID)
		if owner == nil || !player.IsAlliedWith(owner.ID) {
			return state, ErrInvalidTarget
		}
	}
	for _, r := range player.TradeRoutes {
		if r.FromCityID == a.FromCityID && r.ToCityID == a.ToCityID {
			return state, ErrDuplicateConstruction
		}
	}
	if player.Stars < tradeRouteCost {
		return state, ErrInsufficientStars
	}

	next := state.Clone()
	p := next.Player(player.ID)
	p.Stars -= tradeRouteCost
	p.TradeRoutes = append(p.TradeRoutes, TradeRoute{
		FromCityID:   a.FromCityID,
		ToCityID:     a.ToCityID,
		StarsPerTurn: tradeRouteIncome,
	})
	return next, nil
}

// convertCity is a faith-driven takeover attempt. The faith cost is spent
// whether or not the roll succeeds.
func (e *Engine) convertCity(state *GameState, a ConvertCity) (*GameState, error) {
	player, err := e.requireCurrentPlayer(state, a.PlayerID)
	if err != nil {
		return state, err
	}
	city := state.Cities[a.CityID]
	if city == nil {
		return state, ErrCityNotFound
	}
	if city.OwnerID == player.ID {
		return state, ErrCityAlreadyOwned
	}
	if !player.HasExplored(city.Coordinate.Key()) {
		return state, ErrInvalidTarget
	}
	if player.Stats.Faith < cityConvertFaithCost {
		return state, ErrInsufficientFaith
	}

	next := state.Clone()
	p := next.Player(player.ID)
	p.Stats.Adjust("faith", -cityConvertFaithCost)

	ownerFaith := neutralCityFaith
	if city.OwnerID != "" {
		if owner := next.Player(city.OwnerID); owner != nil {
			ownerFaith = owner.Stats.Faith
		}
	}
	chance := cityConvertBaseChance + float64(p.Stats.Faith-ownerFaith)/200.0
	if chance < 0 {
		chance = 0
	}
	if chance > cityConvertMaxChance {
		chance = cityConvertMaxChance
	}
	if e.rng.Float64() >= chance {
		// Failed attempt; the cost stands.
		return next, nil
	}

	c := next.Cities[a.CityID]
	if c.OwnerID != "" {
		if prev := next.Player(c.OwnerID); prev != nil {
			prev.CitiesOwned = removeString(prev.CitiesOwned, c.ID)
			prev.Stats.Adjust("internalDissent", captureDissentPenalty)
		}
	}
	c.OwnerID = p.ID
	p.CitiesOwned = appendUnique(p.CitiesOwned, c.ID)
	e.recomputeVisibility(next, p)
	return next, nil
}

const (
	warPrideGain    = 5
	betrayalDissent = 10

	tradeRouteCost   = 5
	tradeRouteIncome = 2

	cityConvertFaithCost  = 15
	cityConvertBaseChance = 0.25
	cityConvertMaxChance  = 0.85
	neutralCityFaith      = 50
)
