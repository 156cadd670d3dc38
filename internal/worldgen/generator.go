package worldgen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"starlanes/internal/prng"
)

const twoPi = 2 * math.Pi

// Sampling scale for the asteroid density field. Neighboring cells should
// land in the same noise basin so dense belts span a few cells.
const asteroidNoiseScale = 0.13

// Generator produces cell content lazily and caches it for the process
// lifetime. Cached objects are immutable; time-dependent fields (rotation
// and orbital angles) are filled in on copies at query time.
//
// Safe for concurrent use. Each cell generation seeds its own PRNG, so
// parallel queries never share generator state.
type Generator struct {
	cfg   Config
	noise opensimplex.Noise
	now   func() time.Time

	mu    sync.RWMutex
	cells map[cellKey][]Object
}

type cellKey struct {
	X, Y int
}

// New validates cfg and returns a Generator.
func New(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("world config: %w", err)
	}
	return &Generator{
		cfg:   cfg,
		noise: opensimplex.NewNormalized(cfg.WorldSeed),
		now:   time.Now,
		cells: make(map[cellKey][]Object),
	}, nil
}

// Config returns the generation parameters the generator was built with.
func (g *Generator) Config() Config { return g.cfg }

// CachedCells returns the number of cells generated so far.
func (g *Generator) CachedCells() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// CellObjects returns the content of cell (cx, cy), generating and caching
// it on first access. The returned slice is the cached one: callers must
// not mutate it. Angles are as-generated; use ObjectsInView or StationByID
// for time-refreshed objects.
func (g *Generator) CellObjects(cx, cy int) []Object {
	key := cellKey{cx, cy}

	g.mu.RLock()
	objs, ok := g.cells[key]
	g.mu.RUnlock()
	if ok {
		return objs
	}

	generated := g.generateCell(cx, cy)

	g.mu.Lock()
	defer g.mu.Unlock()
	// A concurrent query may have generated the same cell; both results are
	// identical by construction, so keeping either is fine.
	if existing, ok := g.cells[key]; ok {
		return existing
	}
	g.cells[key] = generated
	return generated
}

// generateCell produces the object list for one cell. Draw order against
// the cell PRNG is fixed: star count, per-star (x, y, size, color), the
// station roll and its attributes, then the asteroid roll and cluster.
// Changing the order changes the world.
func (g *Generator) generateCell(cx, cy int) []Object {
	cfg := g.cfg
	rng := prng.New(prng.CellSeed(cx, cy, cfg.Primes[0], cfg.Primes[1], cfg.Primes[2]))

	originX := float64(cx) * cfg.CellSize
	originY := float64(cy) * cfg.CellSize

	var objs []Object

	// Stars.
	avgStars := cfg.StarDensity * cfg.CellSize * cfg.CellSize
	starCount := rng.IntBetween(0.5*avgStars, 1.5*avgStars)
	for i := 0; i < starCount; i++ {
		objs = append(objs, Star{
			ID:    starID(cx, cy, i),
			X:     originX + rng.FloatBetween(0, cfg.CellSize),
			Y:     originY + rng.FloatBetween(0, cfg.CellSize),
			Size:  rng.FloatBetween(cfg.StarSizeMin, cfg.StarSizeMax),
			Color: cfg.StarColors[rng.IntBetween(0, float64(len(cfg.StarColors)))],
		})
	}

	// At most one station per cell. The offset fraction stays in
	// [0.3, 0.7] of the cell so stations never sit on cell seams.
	if rng.Float() < cfg.StationProbability {
		st := Station{
			ID:            stationID(cx, cy),
			X:             originX + rng.FloatBetween(0.3, 0.7)*cfg.CellSize,
			Y:             originY + rng.FloatBetween(0.3, 0.7)*cfg.CellSize,
			Size:          rng.FloatBetween(cfg.StationSizeMin, cfg.StationSizeMax),
			StationType:   cfg.StationTypes[rng.IntBetween(0, float64(len(cfg.StationTypes)))],
			Economy:       cfg.EconomyTypes[rng.IntBetween(0, float64(len(cfg.EconomyTypes)))],
			TechLevel:     cfg.TechLevels[rng.IntBetween(0, float64(len(cfg.TechLevels)))],
			InitialAngle:  rng.FloatBetween(0, twoPi),
			RotationSpeed: rng.FloatBetween(-cfg.StationSpinMax, cfg.StationSpinMax),
		}
		st.Name = generateName(rng, cfg.Names)
		objs = append(objs, st)
		return objs
	}

	// Asteroid clusters only spawn where the station roll failed. That
	// exclusivity is inherited behavior, kept as-is.
	if rng.Float() < cfg.AsteroidProbability {
		count := 1
		if g.noise.Eval2(float64(cx)*asteroidNoiseScale, float64(cy)*asteroidNoiseScale) > cfg.AsteroidDenseThreshold {
			count = rng.IntBetween(8, 17) // dense cluster: 8-16 rocks
		}
		clusterSpeed := rng.FloatBetween(-cfg.AsteroidOrbitSpeedMax, cfg.AsteroidOrbitSpeedMax)
		centerX := originX + rng.FloatBetween(0.3, 0.7)*cfg.CellSize
		centerY := originY + rng.FloatBetween(0.3, 0.7)*cfg.CellSize
		for i := 0; i < count; i++ {
			objs = append(objs, Asteroid{
				ID:                asteroidID(cx, cy, i),
				OrbitCenterX:      centerX,
				OrbitCenterY:      centerY,
				OrbitRadius:       rng.FloatBetween(cfg.AsteroidOrbitMin, cfg.AsteroidOrbitMax),
				InitialOrbitAngle: rng.FloatBetween(0, twoPi),
				OrbitAngularSpeed: clusterSpeed,
				Spin:              rng.FloatBetween(-cfg.AsteroidSpinMax, cfg.AsteroidSpinMax),
				Size:              rng.FloatBetween(cfg.AsteroidSizeMin, cfg.AsteroidSizeMax),
			})
		}
	}

	return objs
}

// ObjectsInView returns the objects visible in the camera rectangle,
// expanded by the view buffer. Results are de-duplicated by id, refreshed
// from wall-clock time, and filtered to the buffered box by their current
// position (orbital point for asteroids, anchor for everything else).
func (g *Generator) ObjectsInView(camX, camY, viewW, viewH float64) ([]Object, error) {
	cfg := g.cfg
	bufX := viewW * (cfg.ViewBufferFactor - 1) / 2
	bufY := viewH * (cfg.ViewBufferFactor - 1) / 2

	minX, maxX := camX-bufX, camX+viewW+bufX
	minY, maxY := camY-bufY, camY+viewH+bufY

	c0x := int(math.Floor(minX / cfg.CellSize))
	c1x := int(math.Floor(maxX / cfg.CellSize))
	c0y := int(math.Floor(minY / cfg.CellSize))
	c1y := int(math.Floor(maxY / cfg.CellSize))

	// Count cells in float64: a huge-but-finite view would overflow an int
	// product and slip past the cap into a near-endless loop. The negated
	// comparison also traps NaN spans from non-finite inputs.
	cells := (float64(c1x) - float64(c0x) + 1) * (float64(c1y) - float64(c0y) + 1)
	if !(cells <= float64(cfg.MaxCellsPerQuery)) {
		return nil, fmt.Errorf("view covers %.0f cells, max is %d", cells, cfg.MaxCellsPerQuery)
	}

	ts := g.nowSeconds()
	seen := make(map[string]struct{})
	var out []Object

	for cx := c0x; cx <= c1x; cx++ {
		for cy := c0y; cy <= c1y; cy++ {
			for _, obj := range g.CellObjects(cx, cy) {
				// Refresh before filtering: an asteroid's returned
				// position is its current orbital point, which can sit
				// up to one orbit radius away from its anchor.
				refreshed := refreshAngles(obj, ts)
				x, y := viewPosition(refreshed)
				if x < minX || x > maxX || y < minY || y > maxY {
					continue
				}
				id := refreshed.ObjectID()
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, refreshed)
			}
		}
	}
	return out, nil
}

// viewPosition is the position an object occupies right now: the refreshed
// orbital point for asteroids, the anchor for everything else.
func viewPosition(obj Object) (float64, float64) {
	if a, ok := obj.(Asteroid); ok {
		return a.X, a.Y
	}
	return obj.Anchor()
}

// StationByID parses a "station_{cx}_{cy}" id, regenerates the owning cell
// if needed, and returns the station with a refreshed rotation angle.
// Malformed or unknown ids return ok=false; lookups never fail hard.
func (g *Generator) StationByID(id string) (Station, bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 || parts[0] != "station" {
		return Station{}, false
	}
	cx, err := strconv.Atoi(parts[1])
	if err != nil {
		return Station{}, false
	}
	cy, err := strconv.Atoi(parts[2])
	if err != nil {
		return Station{}, false
	}

	for _, obj := range g.CellObjects(cx, cy) {
		if st, ok := obj.(Station); ok && st.ID == id {
			st.CurrentAngle = normalizeAngle(st.InitialAngle + st.RotationSpeed*g.nowSeconds())
			return st, true
		}
	}
	return Station{}, false
}

// EnemiesToDespawn returns the ids of entities whose squared distance from
// the focus point exceeds radius squared.
func EnemiesToDespawn(entities []Entity, focusX, focusY, radius float64) []string {
	r2 := radius * radius
	var ids []string
	for _, e := range entities {
		dx, dy := e.X-focusX, e.Y-focusY
		if dx*dx+dy*dy > r2 {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func (g *Generator) nowSeconds() float64 {
	return float64(g.now().UnixNano()) / float64(time.Second)
}

// refreshAngles returns a copy of obj with time-dependent fields set.
// Cached objects are never mutated.
func refreshAngles(obj Object, ts float64) Object {
	switch o := obj.(type) {
	case Station:
		o.CurrentAngle = normalizeAngle(o.InitialAngle + o.RotationSpeed*ts)
		return o
	case Asteroid:
		o.CurrentAngle = normalizeAngle(o.InitialOrbitAngle + o.OrbitAngularSpeed*ts)
		o.X = o.OrbitCenterX + o.OrbitRadius*math.Cos(o.CurrentAngle)
		o.Y = o.OrbitCenterY + o.OrbitRadius*math.Sin(o.CurrentAngle)
		return o
	default:
		return obj
	}
}

// normalizeAngle folds an angle into [0, 2pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
