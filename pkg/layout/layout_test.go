package layout

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/arrange/pkg/graph"
)

// chain returns n unplaced nodes n0..n(n-1) linked in a path.
func chain(n int) ([]graph.Node, []graph.Edge) {
	nodes := make([]graph.Node, n)
	var edges []graph.Edge
	for i := range n {
		nodes[i] = graph.Node{ID: fmt.Sprintf("n%d", i)}
		if i > 0 {
			edges = append(edges, graph.Edge{From: nodes[i-1].ID, To: nodes[i].ID})
		}
	}
	return nodes, edges
}

func TestList(t *testing.T) {
	want := []Algorithm{Force, Circular, Grid, Random}
	if got := List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestDescribe(t *testing.T) {
	for _, a := range List() {
		name, desc := Describe(a)
		if name == "" || desc == "" {
			t.Errorf("Describe(%q) = (%q, %q), want non-empty", a, name, desc)
		}
	}

	name, desc := Describe("spiral")
	if name != "spiral" || desc != "" {
		t.Errorf("Describe(spiral) = (%q, %q), want (spiral, \"\")", name, desc)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"force", Force, false},
		{"Circular", Circular, false},
		{"  grid ", Grid, false},
		{"RANDOM", Random, false},
		{"spiral", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAlgorithm) {
					t.Fatalf("Parse(%q) error = %v, want ErrUnknownAlgorithm", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestComputeUnknownAlgorithm(t *testing.T) {
	nodes, edges := chain(3)

	if _, err := Compute("spiral", nodes, edges, Options{}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Compute(spiral) error = %v, want ErrUnknownAlgorithm", err)
	}
	if _, err := Compute("spiral", nil, nil, Options{}); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Compute(spiral, empty) error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestComputeEmpty(t *testing.T) {
	for _, a := range List() {
		t.Run(string(a), func(t *testing.T) {
			res, err := Compute(a, nil, []graph.Edge{{From: "x", To: "y"}}, Options{})
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if res == nil || len(res) != 0 {
				t.Errorf("Compute() = %v, want empty non-nil result", res)
			}
		})
	}
}

func TestComputeCoversEveryNode(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a"},
		graph.At("b", 10, 10),
		{ID: "c"},
		{ID: "a"},
		{ID: "d"},
	}
	edges := []graph.Edge{
		{From: "a", To: "b"},
		{From: "b", To: "a"},
		{From: "c", To: "c"},
		{From: "c", To: "ghost"},
		{From: "c", To: "d"},
	}

	for _, a := range List() {
		t.Run(string(a), func(t *testing.T) {
			res, err := Compute(a, nodes, edges, Options{Seed: 3})
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if len(res) != 4 {
				t.Fatalf("len(result) = %d, want 4", len(res))
			}
			for _, id := range []string{"a", "b", "c", "d"} {
				if _, ok := res[id]; !ok {
					t.Errorf("result missing %q", id)
				}
			}
			if !res.AllFinite() {
				t.Errorf("result has non-finite coordinates: %v", res)
			}
		})
	}
}

func TestComputeDeterministic(t *testing.T) {
	nodes, edges := chain(25)

	for _, a := range List() {
		t.Run(string(a), func(t *testing.T) {
			first, err := Compute(a, nodes, edges, Options{Seed: 99})
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			second, _ := Compute(a, nodes, edges, Options{Seed: 99})
			if !reflect.DeepEqual(first, second) {
				t.Error("same seed produced different layouts")
			}
		})
	}
}

func TestComputeSeedChangesRandomLayout(t *testing.T) {
	nodes, edges := chain(10)
	a, _ := Compute(Random, nodes, edges, Options{Seed: 1})
	b, _ := Compute(Random, nodes, edges, Options{Seed: 2})
	if reflect.DeepEqual(a, b) {
		t.Error("different seeds produced identical random layouts")
	}
}

func TestComputeInjectedRand(t *testing.T) {
	nodes, edges := chain(12)
	run := func() graph.Result {
		res, err := Compute(Force, nodes, edges, Options{
			Rand:  rand.New(rand.NewPCG(5, 6)),
			Force: ForceSettings{Iterations: 50},
		})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		return res
	}
	if !reflect.DeepEqual(run(), run()) {
		t.Error("identical injected sources produced different layouts")
	}
}

func TestComputeDefaultCenter(t *testing.T) {
	nodes := []graph.Node{
		graph.At("a", 100, 100),
		graph.At("b", 300, 300),
		{ID: "c"},
	}

	res, err := Compute(Grid, nodes, nil, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// 3 nodes form a 2x2 grid around the centroid (200, 200).
	want := graph.Result{
		"a": {X: 140, Y: 140},
		"b": {X: 260, Y: 140},
		"c": {X: 140, Y: 260},
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("Compute() = %v, want %v", res, want)
	}
}

func TestComputeDefaultCenterIgnoresDroppedDuplicates(t *testing.T) {
	nodes := []graph.Node{
		graph.At("a", 0, 0),
		graph.At("b", 120, 0),
		graph.At("a", 9000, 9000),
	}

	res, err := Compute(Grid, nodes, nil, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// The kept nodes average to (60, 0); the one-row grid sits on it.
	want := graph.Result{"a": {X: 0, Y: 0}, "b": {X: 120, Y: 0}}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("Compute() = %v, want %v", res, want)
	}
}

func TestComputeExtremeInputsStayFinite(t *testing.T) {
	inputs := map[string][]graph.Node{
		"huge": {graph.At("a", 1e308, 0), graph.At("b", 1e308, 10), graph.At("c", -1e308, 5)},
		"nan":  {graph.At("a", math.NaN(), 0), graph.At("b", 3, 4)},
		"inf":  {graph.At("a", math.Inf(-1), math.Inf(1)), {ID: "b"}},
	}

	for name, nodes := range inputs {
		for _, a := range List() {
			t.Run(name+"/"+string(a), func(t *testing.T) {
				res, err := Compute(a, nodes, nil, Options{Force: ForceSettings{Iterations: 50}})
				if err != nil {
					t.Fatalf("Compute() error = %v", err)
				}
				if len(res) != len(nodes) {
					t.Fatalf("len(result) = %d, want %d", len(res), len(nodes))
				}
				if !res.AllFinite() {
					t.Errorf("Compute() = %v, want finite coordinates", res)
				}
			})
		}
	}
}

func TestComputeDoesNotModifyInput(t *testing.T) {
	nodes := []graph.Node{graph.At("a", 1, 2), graph.At("b", 3, 4), {ID: "c"}}
	edges := []graph.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}
	center := graph.Position{X: 7, Y: 8}
	opts := Options{Center: &center, Force: ForceSettings{Iterations: 20}}

	if _, err := Compute(Force, nodes, edges, opts); err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if *nodes[0].Position != (graph.Position{X: 1, Y: 2}) || *nodes[1].Position != (graph.Position{X: 3, Y: 4}) {
		t.Errorf("input positions modified: %v, %v", *nodes[0].Position, *nodes[1].Position)
	}
	if nodes[2].Position != nil {
		t.Errorf("unplaced input node was given a position")
	}
	if center != (graph.Position{X: 7, Y: 8}) || opts.Scale != 0 || opts.Force.Iterations != 20 {
		t.Errorf("options modified: center=%v scale=%v", center, opts.Scale)
	}
}

func TestDefaultScale(t *testing.T) {
	tests := []struct {
		a    Algorithm
		n    int
		want float64
	}{
		{Force, 4, 1500},
		{Force, 100, 2500},
		{Circular, 2, 300},
		{Circular, 10, 500},
		{Grid, 50, 120},
		{Random, 4, 400},
		{Random, 100, 1000},
		{"spiral", 10, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.a, tt.n), func(t *testing.T) {
			if got := DefaultScale(tt.a, tt.n); got != tt.want {
				t.Errorf("DefaultScale(%s, %d) = %v, want %v", tt.a, tt.n, got, tt.want)
			}
		})
	}
}

func TestForceSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       ForceSettings
		wantErr bool
	}{
		{"zero", ForceSettings{}, false},
		{"defaults", DefaultForceSettings(), false},
		{"at bounds", ForceSettings{Iterations: MaxIterations, OverlapPasses: MaxOverlapPasses, BarnesHutTheta: MaxBarnesHutTheta}, false},
		{"too many iterations", ForceSettings{Iterations: 1_000_000_000}, true},
		{"negative iterations", ForceSettings{Iterations: -1}, true},
		{"threshold", ForceSettings{BarnesHutThreshold: MaxBarnesHutThreshold + 1}, true},
		{"passes", ForceSettings{OverlapPasses: MaxOverlapPasses + 1}, true},
		{"spread", ForceSettings{InitialSpread: math.Inf(1)}, true},
		{"nan gravity", ForceSettings{Gravity: math.NaN()}, true},
		{"theta", ForceSettings{BarnesHutTheta: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
