// Package layout computes 2D positions for the nodes of a diagram.
//
// # Algorithms
//
// Four strategies are available, listed by [List] and described by
// [Describe]:
//
//   - [Force]: a ForceAtlas2-style simulation. Nodes repel each other in
//     proportion to their degree, edges pull their endpoints together and
//     a weak gravity keeps disconnected parts from drifting off. Above
//     [DefaultBarnesHutThreshold] nodes the repulsion is approximated with a
//     Barnes-Hut quad-tree. The result is then de-overlapped with
//     [ResolveOverlaps] and rescaled with [Normalize].
//   - [Circular]: equal angular spacing on a circle.
//   - [Grid]: row-major placement in a near-square grid.
//   - [Random]: uniform scatter in a square.
//
// # Usage
//
//	res, err := layout.Compute(layout.Force, nodes, edges, layout.Options{Seed: 7})
//	if err != nil {
//	    return err // only layout.ErrUnknownAlgorithm
//	}
//	p := res["app"]
//
// # Determinism
//
// Every random draw comes from the source described by [Options]: an
// injected *rand.Rand, or a PCG seeded from Options.Seed (or [DefaultSeed]).
// The same input and seed always produce the same positions.
package layout
