// Package pkg provides the core libraries of arrange, a layout engine for
// node-link diagrams.
//
// # Overview
//
// Arrange assigns a 2D position to every element of a diagram. Callers
// hand over nodes (with optional current positions) and edges, pick an
// algorithm, and get back a map from node id to position. The pkg
// directory is organized into these areas:
//
//  1. [graph] - Node, edge and position types, and the per-call graph
//  2. [layout] - The algorithm catalog: force, circular, grid and random
//  3. [offload] - Executors that run layouts in-process, on a goroutine or
//     in a worker process, with in-process fallback
//  4. [pipeline] - Orchestration (validate → cache → offload → store)
//  5. [cache] - File, Redis and MongoDB caches keyed by request content
//  6. [render] - Graphviz previews of computed layouts
//  7. [observability] - Hooks for metrics, with a Prometheus implementation
//  8. [errors] - Coded errors shared by the CLI and the HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	nodes + edges + algorithm
//	         ↓
//	    [pipeline] Options (validate, defaults)
//	         ↓
//	    [cache] lookup ──hit──→ positions
//	         ↓ miss
//	    [offload] Executor → [layout] Compute
//	         ↓
//	    positions → [render] (optional SVG/PNG/PDF preview)
//
// # Quick Start
//
// Compute a layout directly:
//
//	import (
//	    "github.com/matzehuels/arrange/pkg/graph"
//	    "github.com/matzehuels/arrange/pkg/layout"
//	)
//
//	nodes := []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
//	edges := []graph.Edge{{From: "a", To: "b"}}
//	positions, err := layout.Compute(layout.Force, nodes, edges, layout.Options{Seed: 7})
//
// Or through the pipeline, which adds caching and offloading:
//
//	runner := pipeline.NewRunner(c, nil, executor, logger)
//	res, err := runner.Compute(ctx, pipeline.Options{
//	    Algorithm: "circular",
//	    Nodes:     nodes,
//	    Edges:     edges,
//	})
//
// # Determinism
//
// Every algorithm is deterministic for a given input and seed. Random
// choices come from a seeded generator, never from global state, so
// cached results and recomputed results agree.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/arrange/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/arrange/pkg/layout
// [offload]: https://pkg.go.dev/github.com/matzehuels/arrange/pkg/offload
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/arrange/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/arrange/pkg/cache
// [render]: https://pkg.go.dev/github.com/matzehuels/arrange/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/arrange/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/arrange/pkg/errors
package pkg
