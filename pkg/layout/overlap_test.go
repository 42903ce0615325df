package layout

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/arrange/pkg/graph"
)

func TestResolveOverlapsPair(t *testing.T) {
	pos := []graph.Position{{X: 0, Y: 0}, {X: 100, Y: 0}}

	counts := ResolveOverlaps(pos, 280, 2, rand.New(rand.NewPCG(1, 1)))

	if want := []int{1, 0, 0}; !slices.Equal(counts, want) {
		t.Errorf("counts = %v, want %v", counts, want)
	}
	if pos[0] != (graph.Position{X: -90, Y: 0}) || pos[1] != (graph.Position{X: 190, Y: 0}) {
		t.Errorf("positions = %v, want [(-90, 0) (190, 0)]", pos)
	}
}

func TestResolveOverlapsCoincident(t *testing.T) {
	pos := []graph.Position{{X: 5, Y: 5}, {X: 5, Y: 5}}

	ResolveOverlaps(pos, 280, 1, rand.New(rand.NewPCG(2, 2)))

	if pos[0] != (graph.Position{X: 5, Y: 5}) {
		t.Errorf("first node moved to %v", pos[0])
	}
	if pos[1] == pos[0] || !pos[1].IsFinite() {
		t.Errorf("second node = %v, want a finite, distinct position", pos[1])
	}
	if d := pos[1].Sub(pos[0]); d.X < -140 || d.X >= 140 || d.Y < -140 || d.Y >= 140 {
		t.Errorf("offset %v outside [-140, 140)", d)
	}
}

func TestResolveOverlapsLeavesSpacedNodes(t *testing.T) {
	pos := []graph.Position{{X: 0, Y: 0}, {X: 300, Y: 0}, {X: 0, Y: 300}}
	before := slices.Clone(pos)

	counts := ResolveOverlaps(pos, 280, 5, rand.New(rand.NewPCG(3, 3)))

	if !slices.Equal(pos, before) {
		t.Errorf("positions changed: %v", pos)
	}
	if len(counts) != 6 || slices.Max(counts) != 0 {
		t.Errorf("counts = %v, want six zeros", counts)
	}
}

func TestResolveOverlapsReducesOverlaps(t *testing.T) {
	nodes, edges := chain(60)
	g := graph.Build(nodes, edges)
	rng := rand.New(rand.NewPCG(9, 9))
	pos := simulate(g, ForceSettings{Iterations: 100}.withDefaults(), rng)

	counts := ResolveOverlaps(pos, 280, 5, rng)

	if len(counts) != 6 {
		t.Fatalf("len(counts) = %d, want 6", len(counts))
	}
	if counts[0] == 0 {
		t.Fatal("simulation left no overlaps to resolve")
	}
	if counts[5] >= counts[0] {
		t.Errorf("counts = %v, want fewer overlaps after resolution", counts)
	}
}

func TestResolveOverlapsMonotonic(t *testing.T) {
	tests := []struct {
		nodes int
		seeds uint64
	}{
		{10, 5},
		{100, 5},
		{500, 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d nodes", tt.nodes), func(t *testing.T) {
			if tt.nodes > 100 && testing.Short() {
				t.Skip("Skipping large graph in short mode")
			}
			nodes, edges := randomGraph(tt.nodes)
			g := graph.Build(nodes, edges)
			for seed := uint64(1); seed <= tt.seeds; seed++ {
				rng := rand.New(rand.NewPCG(seed, seed))
				pos := simulate(g, ForceSettings{}.withDefaults(), rng)

				counts := ResolveOverlaps(pos, DefaultMinDistance, DefaultOverlapPasses, rng)

				if len(counts) != DefaultOverlapPasses+1 {
					t.Fatalf("seed %d: len(counts) = %d", seed, len(counts))
				}
				for i := 1; i < len(counts); i++ {
					if counts[i] > counts[i-1] {
						t.Errorf("seed %d: counts = %v, pass %d added overlaps", seed, counts, i)
						break
					}
				}
				if got := CountOverlaps(pos, DefaultMinDistance); got != counts[len(counts)-1] {
					t.Errorf("seed %d: final count %d, positions have %d", seed, counts[len(counts)-1], got)
				}
			}
		})
	}
}

func TestResolveOverlapsDenseCluster(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11))
	pos := make([]graph.Position, 120)
	for i := range pos {
		pos[i] = graph.Position{X: rng.Float64() * 600, Y: rng.Float64() * 600}
	}

	counts := ResolveOverlaps(pos, 280, 10, rng)

	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Fatalf("counts = %v, pass %d added overlaps", counts, i)
		}
	}
	for _, p := range pos {
		if !p.IsFinite() {
			t.Fatalf("non-finite position %v", p)
		}
	}
}

func TestCountOverlaps(t *testing.T) {
	pos := []graph.Position{{X: 0}, {X: 100}, {X: 200}, {X: 1000}}
	if got := CountOverlaps(pos, 150); got != 2 {
		t.Errorf("CountOverlaps() = %d, want 2", got)
	}
	if got := CountOverlaps(nil, 150); got != 0 {
		t.Errorf("CountOverlaps(nil) = %d, want 0", got)
	}
}
