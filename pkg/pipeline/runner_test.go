package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arrange/pkg/cache"
	arrerrors "github.com/matzehuels/arrange/pkg/errors"
	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/layout"
	"github.com/matzehuels/arrange/pkg/observability"
	"github.com/matzehuels/arrange/pkg/offload"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// countingExecutor runs jobs in-process and counts them. When release is
// set, every job waits for it to close after signalling started.
type countingExecutor struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
}

func (e *countingExecutor) Execute(ctx context.Context, job offload.Job) (graph.Result, error) {
	if e.calls.Add(1) == 1 && e.started != nil {
		close(e.started)
	}
	if e.release != nil {
		<-e.release
	}
	if e.err != nil {
		return nil, e.err
	}
	return offload.InProcess{}.Execute(ctx, job)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func ring(n int) ([]graph.Node, []graph.Edge) {
	nodes := make([]graph.Node, n)
	edges := make([]graph.Edge, n)
	for i := range n {
		nodes[i] = graph.Node{ID: fmt.Sprintf("n%d", i)}
		edges[i] = graph.Edge{From: fmt.Sprintf("n%d", i), To: fmt.Sprintf("n%d", (i+1)%n)}
	}
	return nodes, edges
}

func TestRunnerComputeMatchesDirect(t *testing.T) {
	nodes, edges := ring(12)
	r := NewRunner(newMemCache(), nil, nil, quietLogger())

	for _, a := range layout.List() {
		t.Run(string(a), func(t *testing.T) {
			res, err := r.Compute(context.Background(), Options{Algorithm: string(a), Nodes: nodes, Edges: edges})
			if err != nil {
				t.Fatalf("Compute() error: %v", err)
			}
			want, err := layout.Compute(a, nodes, edges, layout.Options{Seed: DefaultSeed})
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Positions) != len(want) {
				t.Fatalf("got %d positions, want %d", len(res.Positions), len(want))
			}
			for id, p := range want {
				if res.Positions[id] != p {
					t.Errorf("%s: got %v, want %v", id, res.Positions[id], p)
				}
			}
			if res.Stats.NodeCount != 12 || res.Stats.EdgeCount != 12 {
				t.Errorf("Stats = %+v", res.Stats)
			}
			if res.JobID == "" {
				t.Error("computed result should carry a job id")
			}
		})
	}
}

func TestRunnerCacheHit(t *testing.T) {
	nodes, edges := ring(5)
	c := newMemCache()
	exec := &countingExecutor{}
	r := NewRunner(c, nil, exec, quietLogger())
	opts := Options{Algorithm: "circular", Nodes: nodes, Edges: edges}

	first, err := r.Compute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first call should miss the cache")
	}

	second, err := r.Compute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second call should hit the cache")
	}
	if exec.calls.Load() != 1 {
		t.Errorf("executor called %d times, want 1", exec.calls.Load())
	}
	for id, p := range first.Positions {
		if second.Positions[id] != p {
			t.Errorf("%s: cached %v, computed %v", id, second.Positions[id], p)
		}
	}

	opts.Refresh = true
	if res, err := r.Compute(context.Background(), opts); err != nil || res.CacheHit {
		t.Errorf("Refresh should bypass the cache: hit=%v err=%v", res != nil && res.CacheHit, err)
	}
	if exec.calls.Load() != 2 {
		t.Errorf("executor called %d times after refresh, want 2", exec.calls.Load())
	}
}

func TestRunnerCacheKeyDependsOnInput(t *testing.T) {
	nodes, edges := ring(5)
	exec := &countingExecutor{}
	r := NewRunner(newMemCache(), nil, exec, quietLogger())
	ctx := context.Background()

	requests := []Options{
		{Algorithm: "force", Nodes: nodes, Edges: edges},
		{Algorithm: "force", Nodes: nodes, Edges: edges, Seed: 7},
		{Algorithm: "grid", Nodes: nodes, Edges: edges},
		{Algorithm: "force", Nodes: nodes, Edges: edges[:2]},
		{Algorithm: "force", Nodes: append([]graph.Node{graph.At("x", 1, 1)}, nodes...), Edges: edges},
	}
	for _, opts := range requests {
		if _, err := r.Compute(ctx, opts); err != nil {
			t.Fatal(err)
		}
	}
	if got := exec.calls.Load(); got != int32(len(requests)) {
		t.Errorf("executor called %d times, want %d", got, len(requests))
	}
}

func TestRunnerSingleFlight(t *testing.T) {
	nodes, edges := ring(8)
	exec := &countingExecutor{started: make(chan struct{}), release: make(chan struct{})}
	r := NewRunner(newMemCache(), nil, exec, quietLogger())
	opts := Options{Algorithm: "force", Nodes: nodes, Edges: edges}

	const callers = 5
	results := make([]*Result, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = r.Compute(context.Background(), opts)
	}()
	<-exec.started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Compute(context.Background(), opts)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(exec.release)
	wg.Wait()

	if exec.calls.Load() != 1 {
		t.Errorf("executor called %d times, want 1", exec.calls.Load())
	}
	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		for id, p := range results[0].Positions {
			if results[i].Positions[id] != p {
				t.Errorf("caller %d: %s = %v, want %v", i, id, results[i].Positions[id], p)
			}
		}
	}

	// Each caller owns its map.
	results[1].Positions["n0"] = graph.Position{X: 1e9}
	if results[0].Positions["n0"].X == 1e9 {
		t.Error("shared results must not alias")
	}
}

func TestRunnerCallerCancel(t *testing.T) {
	nodes, edges := ring(4)
	c := newMemCache()
	exec := &countingExecutor{started: make(chan struct{}), release: make(chan struct{})}
	r := NewRunner(c, nil, exec, quietLogger())
	opts := Options{Algorithm: "grid", Nodes: nodes, Edges: edges}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.Compute(ctx, opts)
		done <- err
	}()
	<-exec.started
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Compute() = %v, want context.Canceled", err)
	}

	// The abandoned computation still completes and is reused.
	close(exec.release)
	res, err := r.Compute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Positions) != 4 {
		t.Errorf("got %d positions, want 4", len(res.Positions))
	}
	if exec.calls.Load() != 1 {
		t.Errorf("executor called %d times, want 1", exec.calls.Load())
	}
}

func TestRunnerEmptyInput(t *testing.T) {
	exec := &countingExecutor{}
	r := NewRunner(nil, nil, exec, quietLogger())

	res, err := r.Compute(context.Background(), Options{Algorithm: "force"})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if res.Positions == nil || len(res.Positions) != 0 {
		t.Errorf("Positions = %v, want empty map", res.Positions)
	}
	if exec.calls.Load() != 0 {
		t.Error("empty input should not reach the executor")
	}

	_, err = r.Compute(context.Background(), Options{Algorithm: "spiral"})
	if !arrerrors.Is(err, arrerrors.ErrCodeUnknownAlgorithm) {
		t.Errorf("unknown algorithm on empty input = %v, want UNKNOWN_ALGORITHM", err)
	}
}

func TestRunnerExecutorErrors(t *testing.T) {
	nodes, edges := ring(3)
	tests := []struct {
		name string
		err  error
		want arrerrors.Code
	}{
		{"plain", errors.New("boom"), arrerrors.ErrCodeInternal},
		{"unknown algorithm", fmt.Errorf("worker: %w", layout.ErrUnknownAlgorithm), arrerrors.ErrCodeUnknownAlgorithm},
		{"coded", arrerrors.New(arrerrors.ErrCodeOffloadFailed, "worker died"), arrerrors.ErrCodeOffloadFailed},
		{"deadline", context.DeadlineExceeded, arrerrors.ErrCodeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMemCache()
			r := NewRunner(c, nil, &countingExecutor{err: tt.err}, quietLogger())
			_, err := r.Compute(context.Background(), Options{Nodes: nodes, Edges: edges})
			if got := arrerrors.GetCode(err); got != tt.want {
				t.Errorf("code = %s, want %s (err %v)", got, tt.want, err)
			}
			if c.sets != 0 {
				t.Error("failed layouts must not be cached")
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopLayoutHooks
	mu    sync.Mutex
	paths []string
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, _, path string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.paths = append(h.paths, path)
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetLayoutHooks(hooks)
	t.Cleanup(observability.Reset)

	nodes, edges := ring(3)
	r := NewRunner(newMemCache(), nil, offload.InProcess{}, quietLogger())
	opts := Options{Algorithm: "grid", Nodes: nodes, Edges: edges}
	for range 2 {
		if _, err := r.Compute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{offload.ModeInProcess, "cache"}
	if len(hooks.paths) != len(want) {
		t.Fatalf("paths = %v, want %v", hooks.paths, want)
	}
	for i := range want {
		if hooks.paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, hooks.paths[i], want[i])
		}
	}
}

func TestRunnerRenderCached(t *testing.T) {
	nodes, edges := ring(3)
	r := NewRunner(newMemCache(), cache.NewScopedKeyer(nil, "test:"), nil, quietLogger())
	opts := Options{Algorithm: "circular", Nodes: nodes, Edges: edges, Format: "dot"}

	res, err := r.Compute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	dot, hit, err := r.RenderWithCacheInfo(context.Background(), opts, res.Positions)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}
	if !strings.Contains(string(dot), `"n0" [pos=`) {
		t.Errorf("Render(dot) output missing pinned node:\n%s", dot)
	}

	again, hit, err := r.RenderWithCacheInfo(context.Background(), opts, res.Positions)
	if err != nil {
		t.Fatal(err)
	}
	if !hit || string(again) != string(dot) {
		t.Error("second render should come from the cache")
	}
}

func TestRunnerClose(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
