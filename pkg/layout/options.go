package layout

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/arrange/pkg/graph"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSeed seeds the random source when Options carries neither Rand nor Seed.
	DefaultSeed = uint64(42)

	// DefaultIterations is the number of force relaxation steps.
	DefaultIterations = 500

	// DefaultBarnesHutThreshold is the node count above which repulsion
	// switches from exact pairwise sums to the quad-tree approximation.
	DefaultBarnesHutThreshold = 100

	// DefaultBarnesHutTheta is the opening criterion of the quad-tree.
	DefaultBarnesHutTheta = 0.5

	// DefaultGravity is the strength of the pull toward the origin.
	DefaultGravity = 1.0

	// DefaultScalingRatio multiplies node-to-node repulsion.
	DefaultScalingRatio = 10.0

	// DefaultSlowDown divides every displacement.
	DefaultSlowDown = 1.0

	// DefaultMinDistance is the rendered footprint of a node; overlap
	// resolution pushes closer pairs apart.
	DefaultMinDistance = 280.0

	// DefaultOverlapPasses bounds the overlap resolution work.
	DefaultOverlapPasses = 5

	// DefaultInitialSpread is the side of the square unplaced nodes start in.
	DefaultInitialSpread = 1000.0
)

// Upper bounds for ForceSettings. They keep a single request from running
// for hours; Validate reports values above them.
const (
	MaxIterations         = 5000
	MaxBarnesHutThreshold = 2000
	MaxBarnesHutTheta     = 2.0
	MaxOverlapPasses      = 50
	MaxInitialSpread      = 1e7
	MaxMinDistance        = 1e5
	MaxForceFactor        = 1e4 // gravity, scaling ratio and slow-down
)

// =============================================================================
// Options
// =============================================================================

// Options configures a layout call. The engine never modifies the caller's value.
type Options struct {
	// Center is where the result is centered. Nil lets Compute use the
	// centroid of the placed input nodes.
	Center *graph.Position `json:"center,omitempty"`

	// Scale is algorithm specific: circle radius, grid cell size, random
	// square side, or the force layout's normalized footprint.
	// Zero selects DefaultScale.
	Scale float64 `json:"scale,omitempty"`

	// Seed seeds the random source. Zero means DefaultSeed.
	Seed uint64 `json:"seed,omitempty"`

	// Rand, when set, is used instead of a source derived from Seed.
	Rand *rand.Rand `json:"-"`

	// Force tunes the force-directed simulation.
	Force ForceSettings `json:"force,omitempty"`
}

// ForceSettings tunes the force-directed layout. Zero fields take defaults.
type ForceSettings struct {
	Iterations         int     `json:"iterations,omitempty" toml:"iterations"`
	BarnesHutThreshold int     `json:"barnes_hut_threshold,omitempty" toml:"barnes_hut_threshold"`
	BarnesHutTheta     float64 `json:"barnes_hut_theta,omitempty" toml:"barnes_hut_theta"`
	Gravity            float64 `json:"gravity,omitempty" toml:"gravity"`
	ScalingRatio       float64 `json:"scaling_ratio,omitempty" toml:"scaling_ratio"`
	SlowDown           float64 `json:"slow_down,omitempty" toml:"slow_down"`
	LinearAttraction   bool    `json:"linear_attraction,omitempty" toml:"linear_attraction"`
	MinDistance        float64 `json:"min_distance,omitempty" toml:"min_distance"`
	OverlapPasses      int     `json:"overlap_passes,omitempty" toml:"overlap_passes"`
	InitialSpread      float64 `json:"initial_spread,omitempty" toml:"initial_spread"`
}

// DefaultForceSettings returns the settings used when none are given.
// Attraction is log-scaled unless LinearAttraction is set.
func DefaultForceSettings() ForceSettings {
	return ForceSettings{
		Iterations:         DefaultIterations,
		BarnesHutThreshold: DefaultBarnesHutThreshold,
		BarnesHutTheta:     DefaultBarnesHutTheta,
		Gravity:            DefaultGravity,
		ScalingRatio:       DefaultScalingRatio,
		SlowDown:           DefaultSlowDown,
		MinDistance:        DefaultMinDistance,
		OverlapPasses:      DefaultOverlapPasses,
		InitialSpread:      DefaultInitialSpread,
	}
}

// Validate reports the first field that is negative, not finite or above
// its Max bound. Zero fields are valid and take defaults.
func (s ForceSettings) Validate() error {
	ints := []struct {
		name  string
		v, hi int
	}{
		{"iterations", s.Iterations, MaxIterations},
		{"barnes_hut_threshold", s.BarnesHutThreshold, MaxBarnesHutThreshold},
		{"overlap_passes", s.OverlapPasses, MaxOverlapPasses},
	}
	for _, f := range ints {
		if f.v < 0 || f.v > f.hi {
			return fmt.Errorf("force.%s: %d out of range [0, %d]", f.name, f.v, f.hi)
		}
	}
	floats := []struct {
		name  string
		v, hi float64
	}{
		{"barnes_hut_theta", s.BarnesHutTheta, MaxBarnesHutTheta},
		{"gravity", s.Gravity, MaxForceFactor},
		{"scaling_ratio", s.ScalingRatio, MaxForceFactor},
		{"slow_down", s.SlowDown, MaxForceFactor},
		{"min_distance", s.MinDistance, MaxMinDistance},
		{"initial_spread", s.InitialSpread, MaxInitialSpread},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || f.v < 0 || f.v > f.hi {
			return fmt.Errorf("force.%s: %v out of range [0, %v]", f.name, f.v, f.hi)
		}
	}
	return nil
}

// withDefaults fills zero fields from DefaultForceSettings.
func (s ForceSettings) withDefaults() ForceSettings {
	d := DefaultForceSettings()
	if s.Iterations <= 0 {
		s.Iterations = d.Iterations
	}
	if s.BarnesHutThreshold <= 0 {
		s.BarnesHutThreshold = d.BarnesHutThreshold
	}
	if s.BarnesHutTheta <= 0 {
		s.BarnesHutTheta = d.BarnesHutTheta
	}
	if s.Gravity <= 0 {
		s.Gravity = d.Gravity
	}
	if s.ScalingRatio <= 0 {
		s.ScalingRatio = d.ScalingRatio
	}
	if s.SlowDown <= 0 {
		s.SlowDown = d.SlowDown
	}
	if s.MinDistance <= 0 {
		s.MinDistance = d.MinDistance
	}
	if s.OverlapPasses <= 0 {
		s.OverlapPasses = d.OverlapPasses
	}
	if s.InitialSpread <= 0 {
		s.InitialSpread = d.InitialSpread
	}
	return s
}

// DefaultScale returns the scale an algorithm uses for n nodes when the
// caller does not supply one.
func DefaultScale(a Algorithm, n int) float64 {
	switch a {
	case Force:
		return NormalizedSize(n)
	case Circular:
		return max(300, float64(n)*50)
	case Grid:
		return 120
	case Random:
		return max(400, math.Sqrt(float64(n))*100)
	}
	return 0
}

// center returns the requested center, or the origin.
func (o Options) center() graph.Position {
	if o.Center != nil {
		return *o.Center
	}
	return graph.Position{}
}

// scale returns Scale, or the default for a over n nodes.
func (o Options) scale(a Algorithm, n int) float64 {
	if o.Scale > 0 {
		return o.Scale
	}
	return DefaultScale(a, n)
}

// rng returns the injected random source or a PCG seeded from Seed.
func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	seed := o.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
