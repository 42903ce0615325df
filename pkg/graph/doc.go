// Package graph provides the graph model and serialization types used by the
// layout engine.
//
// # Core Types
//
//   - [Node], [Edge]: caller input; a node's position is optional
//   - [Graph]: per-call structure built by [Build] (input order, deduplicated edges)
//   - [Result]: node id → final [Position]
//   - [Document]: JSON form of a layout input
//
// # Building a Graph
//
// [Build] never fails. Edges that reference unknown nodes, repeat an existing
// pair (in either direction), or loop back to their own node are dropped
// silently, and repeated node ids keep their first occurrence:
//
//	g := graph.Build(nodes, edges)
//	g.Order()     // distinct nodes
//	g.EdgeCount() // retained edges
//
// # Serialization
//
// Inputs use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "position": {"x": 0, "y": 0}}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Results are a JSON object keyed by node id:
//
//	{"a": {"x": -60, "y": -60}, "b": {"x": 60, "y": -60}}
//
// # Concurrency
//
// A Graph is read-only once built and safe for concurrent reads.
package graph
