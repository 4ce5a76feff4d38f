// Command simulate runs a headless game for a fixed number of rounds and
// prints a summary each round. Useful for smoke-testing map generation and
// the turn pipeline with a reproducible seed.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"promised-land/internal/content"
	"promised-land/internal/game"
	"promised-land/pkg/mapgen"
)

func main() {
	seed := flag.Int64("seed", 1, "map and engine seed")
	radius := flag.Int("radius", 10, "map radius")
	players := flag.Int("players", 2, "number of players")
	rounds := flag.Int("rounds", 20, "rounds to simulate")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger, *seed, *radius, *players, *rounds); err != nil {
		logger.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, seed int64, radius, players, rounds int) error {
	reg, err := content.Load()
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	factions := reg.Factions()
	if players > len(factions) {
		return fmt.Errorf("want %d players but only %d factions defined", players, len(factions))
	}

	opts := mapgen.DefaultOptions()
	opts.Radius = radius
	opts.Seed = seed
	if opts.Cities < players+2 {
		opts.Cities = players + 2
	}
	gameMap, cities, err := mapgen.Generate(opts)
	if err != nil {
		return fmt.Errorf("generate map: %w", err)
	}
	logger.Info("map generated", "tiles", len(gameMap.Tiles), "cities", len(cities))

	eng := game.NewEngine(reg, game.DefaultConfig(), rand.New(rand.NewSource(seed)))

	setups := make([]game.PlayerSetup, players)
	for i := range setups {
		setups[i] = game.PlayerSetup{
			Name:      fmt.Sprintf("Player %d", i+1),
			FactionID: factions[i].ID,
		}
	}

	state, err := eng.NewGame(gameMap, cities, setups)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	for state.Turn <= rounds && !state.IsOver() {
		turn := state.Turn
		for !state.IsOver() && state.Turn == turn {
			current := state.CurrentPlayer()
			next, err := eng.Reduce(state, game.EndTurn{PlayerID: current.ID})
			if err != nil {
				return fmt.Errorf("end turn for %s: %w", current.Name, err)
			}
			state = next
		}
		logRound(logger, state)
	}

	if state.IsOver() {
		winner := state.Player(state.Winner)
		logger.Info("game over", "winner", winner.Name, "victory", state.VictoryType, "turn", state.Turn)
	} else {
		logger.Info("simulation finished", "turn", state.Turn)
	}
	return nil
}

func logRound(logger *slog.Logger, state *game.GameState) {
	for _, p := range state.Players {
		logger.Info("round complete",
			"turn", state.Turn,
			"player", p.Name,
			"stars", p.Stars,
			"faith", p.Stats.Faith,
			"pride", p.Stats.Pride,
			"dissent", p.Stats.InternalDissent,
			"cities", len(p.CitiesOwned),
			"eliminated", p.IsEliminated,
		)
	}
}
