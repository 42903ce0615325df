package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/arrange/pkg/graph"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     []graph.Position
		center graph.Position
		n      int
		want   []graph.Position
	}{
		{
			name:   "wide box scaled to 1500",
			in:     []graph.Position{{X: 0, Y: 0}, {X: 10, Y: 5}},
			center: graph.Position{},
			n:      2,
			want:   []graph.Position{{X: -750, Y: -375}, {X: 750, Y: 375}},
		},
		{
			name:   "recentered",
			in:     []graph.Position{{X: 100, Y: 100}, {X: 100, Y: 400}},
			center: graph.Position{X: 10, Y: 20},
			n:      2,
			want:   []graph.Position{{X: 10, Y: -730}, {X: 10, Y: 770}},
		},
		{
			name:   "target grows with node count",
			in:     []graph.Position{{X: 0, Y: 0}, {X: 1, Y: 0}},
			center: graph.Position{},
			n:      100,
			want:   []graph.Position{{X: -1250, Y: 0}, {X: 1250, Y: 0}},
		},
		{
			name:   "zero extent collapses onto center",
			in:     []graph.Position{{X: 3, Y: 3}, {X: 3, Y: 3}},
			center: graph.Position{X: -1, Y: 1},
			n:      2,
			want:   []graph.Position{{X: -1, Y: 1}, {X: -1, Y: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := append([]graph.Position(nil), tt.in...)
			Normalize(pos, tt.center, tt.n)
			for i := range pos {
				if math.Abs(pos[i].X-tt.want[i].X) > 1e-9 || math.Abs(pos[i].Y-tt.want[i].Y) > 1e-9 {
					t.Errorf("pos[%d] = %v, want %v", i, pos[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeEmpty(t *testing.T) {
	Normalize(nil, graph.Position{X: 1, Y: 1}, 0)
}

func TestNormalizedSize(t *testing.T) {
	if got := NormalizedSize(1); got != 1500 {
		t.Errorf("NormalizedSize(1) = %v, want 1500", got)
	}
	if got := NormalizedSize(400); got != 5000 {
		t.Errorf("NormalizedSize(400) = %v, want 5000", got)
	}
}
