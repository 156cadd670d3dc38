// Package worldgen provides deterministic procedural generation for an
// infinite 2D space: stars, trading stations, and asteroid clusters,
// generated lazily per grid cell and cached. Regenerating a cell with the
// same configuration always yields the same objects, so nothing generated
// here ever needs persisting.
package worldgen

import "fmt"

// Kind discriminates the background object variants.
type Kind string

const (
	KindStar     Kind = "star"
	KindStation  Kind = "station"
	KindAsteroid Kind = "asteroid"
)

// Object is the closed set of background objects a cell can contain.
// Consumers switch on ObjectKind and assert the concrete type; the three
// implementations below are the only ones.
type Object interface {
	ObjectID() string
	ObjectKind() Kind
	// Anchor is the object's fixed reference position: where it was
	// generated. For asteroids this is the orbit center, not the
	// time-dependent orbital position.
	Anchor() (x, y float64)
}

// Star is a static background star.
type Star struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

func (s Star) ObjectID() string { return s.ID }
func (s Star) ObjectKind() Kind { return KindStar }
func (s Star) Anchor() (float64, float64) { return s.X, s.Y }

// Station is a trading station. CurrentAngle is recomputed from wall-clock
// time on every query and is never cached.
type Station struct {
	ID            string  `json:"id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Size          float64 `json:"size"`
	StationType   string  `json:"station_type"`
	Economy       string  `json:"economy"`
	TechLevel     string  `json:"tech_level"`
	Name          string  `json:"name"`
	InitialAngle  float64 `json:"initial_angle"`
	RotationSpeed float64 `json:"rotation_speed"` // rad/s, signed
	CurrentAngle  float64 `json:"current_angle"`
}

func (s Station) ObjectID() string { return s.ID }
func (s Station) ObjectKind() Kind { return KindStation }
func (s Station) Anchor() (float64, float64) { return s.X, s.Y }

// Asteroid orbits its cluster center. X, Y, and CurrentAngle are derived
// from wall-clock time at query time; the orbital parameters are fixed.
type Asteroid struct {
	ID                string  `json:"id"`
	OrbitCenterX      float64 `json:"orbit_center_x"`
	OrbitCenterY      float64 `json:"orbit_center_y"`
	OrbitRadius       float64 `json:"orbit_radius"`
	InitialOrbitAngle float64 `json:"initial_orbit_angle"`
	OrbitAngularSpeed float64 `json:"orbit_angular_speed"` // rad/s, shared per cluster
	Spin              float64 `json:"spin"`                // rad/s, visual self-rotation
	Size              float64 `json:"size"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	CurrentAngle      float64 `json:"current_angle"`
}

func (a Asteroid) ObjectID() string { return a.ID }
func (a Asteroid) ObjectKind() Kind { return KindAsteroid }
func (a Asteroid) Anchor() (float64, float64) { return a.OrbitCenterX, a.OrbitCenterY }

// Entity is a positioned external object (enemy ships, mostly) handed in
// for despawn-distance queries. This core never creates entities.
type Entity struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func starID(cx, cy, i int) string     { return fmt.Sprintf("star_%d_%d_%d", cx, cy, i) }
func stationID(cx, cy int) string     { return fmt.Sprintf("station_%d_%d", cx, cy) }
func asteroidID(cx, cy, i int) string { return fmt.Sprintf("asteroid_%d_%d_%d", cx, cy, i) }
