package worldgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds world generation parameters. Zero values are not usable;
// start from DefaultConfig and override.
type Config struct {
	WorldSeed int64 `yaml:"world_seed"`

	// Grid.
	CellSize float64 `yaml:"cell_size"` // world units per cell edge

	// Stars. Density is stars per square world unit; the per-cell average
	// is density * cellSize^2, drawn uniformly in [0.5x, 1.5x].
	StarDensity float64  `yaml:"star_density"`
	StarSizeMin float64  `yaml:"star_size_min"`
	StarSizeMax float64  `yaml:"star_size_max"`
	StarColors  []string `yaml:"star_colors"`

	// Stations.
	StationProbability float64  `yaml:"station_probability"`
	StationSizeMin     float64  `yaml:"station_size_min"`
	StationSizeMax     float64  `yaml:"station_size_max"`
	StationSpinMax     float64  `yaml:"station_spin_max"` // rad/s magnitude
	StationTypes       []string `yaml:"station_types"`
	EconomyTypes       []string `yaml:"economy_types"`
	TechLevels         []string `yaml:"tech_levels"`

	// Asteroid clusters (only rolled in cells without a station).
	AsteroidProbability    float64 `yaml:"asteroid_probability"`
	AsteroidDenseThreshold float64 `yaml:"asteroid_dense_threshold"` // density-noise cutoff for dense clusters
	AsteroidOrbitMin       float64 `yaml:"asteroid_orbit_min"`
	AsteroidOrbitMax       float64 `yaml:"asteroid_orbit_max"`
	AsteroidSizeMin        float64 `yaml:"asteroid_size_min"`
	AsteroidSizeMax        float64 `yaml:"asteroid_size_max"`
	AsteroidSpinMax        float64 `yaml:"asteroid_spin_max"`
	AsteroidOrbitSpeedMax  float64 `yaml:"asteroid_orbit_speed_max"`

	// View queries.
	ViewBufferFactor float64 `yaml:"view_buffer_factor"` // >= 1; 1 means no buffer
	MaxCellsPerQuery int     `yaml:"max_cells_per_query"`

	// Spatial hashing primes for cell seed derivation.
	Primes [3]int32 `yaml:"primes"`

	Names NameLists `yaml:"names"`
}

// DefaultConfig returns the standard world parameters.
func DefaultConfig() Config {
	return Config{
		CellSize:    250,
		StarDensity: 0.0001,
		StarSizeMin: 0.5,
		StarSizeMax: 2.5,
		StarColors:  []string{"#ffffff", "#ffe9c4", "#d4fbff", "#fff4a3", "#ffd2a1"},

		StationProbability: 0.15,
		StationSizeMin:     45,
		StationSizeMax:     90,
		StationSpinMax:     0.15,
		StationTypes:       []string{"Coriolis", "Orbis", "Ocellus", "Outpost"},
		EconomyTypes:       []string{"Agricultural", "Industrial", "Extraction", "HighTech", "Refinery"},
		TechLevels:         []string{"TL0", "TL1", "TL2", "TL3", "TL4", "TL5", "TL6", "TL7"},

		AsteroidProbability:    0.1,
		AsteroidDenseThreshold: 0.65,
		AsteroidOrbitMin:       20,
		AsteroidOrbitMax:       110,
		AsteroidSizeMin:        4,
		AsteroidSizeMax:        14,
		AsteroidSpinMax:        1.2,
		AsteroidOrbitSpeedMax:  0.08,

		ViewBufferFactor: 1.5,
		MaxCellsPerQuery: 1024,

		Primes: [3]int32{73856093, 19349663, 83492791},

		Names: DefaultNameLists(),
	}
}

// Validate rejects configurations that would produce degenerate worlds.
// Called at construction; generation itself never fails afterwards.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %v", c.CellSize)
	}
	if c.StarDensity < 0 {
		return fmt.Errorf("star density must be non-negative, got %v", c.StarDensity)
	}
	if c.StarSizeMin <= 0 || c.StarSizeMax < c.StarSizeMin {
		return fmt.Errorf("invalid star size range [%v, %v]", c.StarSizeMin, c.StarSizeMax)
	}
	if len(c.StarColors) == 0 {
		return fmt.Errorf("at least one star color is required")
	}
	if c.StationProbability < 0 || c.StationProbability > 1 {
		return fmt.Errorf("station probability must be in [0, 1], got %v", c.StationProbability)
	}
	if c.StationSizeMin <= 0 || c.StationSizeMax < c.StationSizeMin {
		return fmt.Errorf("invalid station size range [%v, %v]", c.StationSizeMin, c.StationSizeMax)
	}
	if len(c.StationTypes) == 0 || len(c.EconomyTypes) == 0 || len(c.TechLevels) == 0 {
		return fmt.Errorf("station type, economy type, and tech level lists must be non-empty")
	}
	for _, tl := range c.TechLevels {
		if TechRank(tl) < 0 {
			return fmt.Errorf("malformed tech level %q (want TL<n>)", tl)
		}
	}
	if c.AsteroidProbability < 0 || c.AsteroidProbability > 1 {
		return fmt.Errorf("asteroid probability must be in [0, 1], got %v", c.AsteroidProbability)
	}
	if c.AsteroidOrbitMin <= 0 || c.AsteroidOrbitMax < c.AsteroidOrbitMin {
		return fmt.Errorf("invalid asteroid orbit range [%v, %v]", c.AsteroidOrbitMin, c.AsteroidOrbitMax)
	}
	if c.AsteroidSizeMin <= 0 || c.AsteroidSizeMax < c.AsteroidSizeMin {
		return fmt.Errorf("invalid asteroid size range [%v, %v]", c.AsteroidSizeMin, c.AsteroidSizeMax)
	}
	if c.ViewBufferFactor < 1 {
		return fmt.Errorf("view buffer factor must be >= 1, got %v", c.ViewBufferFactor)
	}
	if c.MaxCellsPerQuery <= 0 {
		return fmt.Errorf("max cells per query must be positive, got %d", c.MaxCellsPerQuery)
	}
	for i, p := range c.Primes {
		if p <= 0 {
			return fmt.Errorf("hashing prime %d must be positive, got %d", i, p)
		}
	}
	return c.Names.validate()
}

// TechRank returns the numeric value of a tech level of the form "TL<n>",
// or -1 if the string is malformed. Market generation compares these
// ranks to gate commodities.
func TechRank(tl string) int {
	rest, ok := strings.CutPrefix(tl, "TL")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
