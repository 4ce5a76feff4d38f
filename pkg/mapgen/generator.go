// Package mapgen builds playable hex maps from layered simplex noise.
// Elevation and moisture fields derive terrain; city sites are picked on
// open ground with a minimum spacing so every seat gets a workable start.
package mapgen

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"promised-land/internal/game"
	"promised-land/internal/hex"
)

// Options controls map generation. The same options always produce the same
// map; Seed 0 picks a random seed first.
type Options struct {
	Radius        int
	Seed          int64
	Cities        int
	SeaLevel      float64 // elevation below this is water
	MountainLevel float64 // elevation above this is mountain
	ResourceRate  float64 // chance per eligible tile of carrying a resource
}

// DefaultOptions returns a mid-sized map suitable for 2-4 players.
func DefaultOptions() Options {
	return Options{
		Radius:        12,
		Cities:        8,
		SeaLevel:      0.30,
		MountainLevel: 0.75,
		ResourceRate:  0.10,
	}
}

var cityNames = []string{
	"Bethel", "Hebron", "Shiloh", "Gilead", "Tirzah", "Moriah",
	"Ramoth", "Kadesh", "Penuel", "Salem", "Zoar", "Adullam",
	"Gerar", "Mizpah", "Carmel", "Tekoa",
}

var resourceKinds = []string{"grain", "timber", "iron", "gems", "incense"}

// Generate builds a map and its neutral city sites. Cities are returned
// unowned; game setup claims capitals from the front of the slice.
func Generate(opts Options) (*game.GameMap, []*game.City, error) {
	if opts.Radius < 4 {
		return nil, nil, fmt.Errorf("mapgen: radius %d too small", opts.Radius)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)
	rng := rand.New(rand.NewSource(seed + 2))

	m := &game.GameMap{
		Width:  2*opts.Radius + 1,
		Height: 2*opts.Radius + 1,
		Tiles:  make(map[string]*game.Tile),
	}

	for _, c := range hex.Range(hex.New(0, 0), opts.Radius) {
		x, y := c.ToPixel(1)

		elev := octaveNoise(elevNoise, x, y, 4, 0.10, 0.5)
		moist := octaveNoise(moistNoise, x, y, 3, 0.07, 0.5)

		// Push the rim underwater so the playfield reads as an island.
		// Hex distance over the radius stays in [0, 1], so only the outer
		// ring drowns.
		distFromCenter := float64(hex.Distance(c, hex.New(0, 0))) / float64(opts.Radius)
		elev *= 1.0 - math.Pow(distFromCenter, 3.0)

		tile := &game.Tile{
			Coordinate: c,
			Terrain:    deriveTerrain(elev, moist, opts),
		}
		if tile.Terrain.Passable() && rng.Float64() < opts.ResourceRate {
			tile.Resources = []string{resourceKinds[rng.Intn(len(resourceKinds))]}
		}
		m.Tiles[c.Key()] = tile
	}

	cities, err := placeCities(m, opts, rng)
	if err != nil {
		return nil, nil, err
	}
	return m, cities, nil
}

// octaveNoise sums noise layers, each octave doubling frequency and scaling
// amplitude by persistence, normalized back to [0, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	freq := frequency
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxValue
}

func deriveTerrain(elev, moist float64, opts Options) game.Terrain {
	switch {
	case elev < opts.SeaLevel:
		return game.TerrainWater
	case elev > opts.MountainLevel:
		return game.TerrainMountain
	case moist < 0.25:
		return game.TerrainDesert
	case moist > 0.72 && elev < 0.45:
		return game.TerrainSwamp
	case moist > 0.50:
		return game.TerrainForest
	default:
		return game.TerrainPlains
	}
}

// placeCities picks spaced-out sites on open passable ground. Site order is
// deterministic for a given seed, so capital assignment replays identically.
func placeCities(m *game.GameMap, opts Options, rng *rand.Rand) ([]*game.City, error) {
	var candidates []hex.Coord
	for _, c := range hex.Range(hex.New(0, 0), opts.Radius-1) {
		tile := m.TileAt(c)
		if tile == nil || tile.Terrain != game.TerrainPlains {
			continue
		}
		if openNeighbors(m, c) < 3 {
			continue
		}
		candidates = append(candidates, c)
	}
	// hex.Range order is deterministic; the shuffle reorders it by seed.
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	minSpacing := opts.Radius / 2
	if minSpacing < 3 {
		minSpacing = 3
	}

	var cities []*game.City
	names := append([]string(nil), cityNames...)
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	for _, c := range candidates {
		if len(cities) >= opts.Cities {
			break
		}
		tooClose := false
		for _, existing := range cities {
			if hex.Distance(existing.Coordinate, c) < minSpacing {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		name := fmt.Sprintf("City %d", len(cities)+1)
		if len(cities) < len(names) {
			name = names[len(cities)]
		}
		cities = append(cities, &game.City{
			ID:             fmt.Sprintf("city-%d", len(cities)+1),
			Name:           name,
			Coordinate:     c,
			Population:     1,
			MaxPopulation:  5,
			Level:          1,
			StarProduction: 1 + rng.Intn(2),
		})
		m.TileAt(c).HasCity = true
	}

	if len(cities) < 2 {
		return nil, fmt.Errorf("mapgen: only %d viable city sites on this map, try another seed", len(cities))
	}
	return cities, nil
}

func openNeighbors(m *game.GameMap, c hex.Coord) int {
	count := 0
	for _, n := range c.Neighbors() {
		if tile := m.TileAt(n); tile != nil && tile.Terrain.Passable() {
			count++
		}
	}
	return count
}
