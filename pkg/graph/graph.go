package graph

// =============================================================================
// Graph - Per-Call Layout Structure
// =============================================================================

// Graph is the internal structure layouts operate on. It is built fresh for
// every layout call from the caller's node and edge lists and is not safe for
// concurrent mutation.
//
// Nodes keep their input order, which is the order deterministic layouts
// place them in. Edges are deduplicated as unordered pairs.
type Graph struct {
	nodes []Node
	index map[string]int
	edges []Edge
	pairs map[[2]int]struct{}
	adj   [][]int
}

// Build constructs a Graph from caller input. It never fails:
//   - a node whose id was already seen is ignored (first occurrence wins)
//   - an edge with an endpoint that is not a node is dropped
//   - an edge duplicating an existing pair, in either direction, is dropped
//   - a self-loop is dropped
func Build(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes: make([]Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
		pairs: make(map[[2]int]struct{}, len(edges)),
	}
	for _, n := range nodes {
		if _, dup := g.index[n.ID]; dup {
			continue
		}
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}
	g.adj = make([][]int, len(g.nodes))
	for _, e := range edges {
		g.addEdge(e)
	}
	return g
}

func (g *Graph) addEdge(e Edge) {
	from, okFrom := g.index[e.From]
	to, okTo := g.index[e.To]
	if !okFrom || !okTo || from == to {
		return
	}
	key := [2]int{min(from, to), max(from, to)}
	if _, dup := g.pairs[key]; dup {
		return
	}
	g.pairs[key] = struct{}{}
	g.edges = append(g.edges, e)
	g.adj[from] = append(g.adj[from], to)
	g.adj[to] = append(g.adj[to], from)
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.nodes) }

// EdgeCount returns the number of valid, distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the nodes in input order. The slice must not be modified.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns the retained edges in input order. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Index returns the input-order index of id, or -1 when absent.
func (g *Graph) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// HasEdge reports whether a and b are connected, in either direction.
func (g *Graph) HasEdge(a, b string) bool {
	i, okA := g.index[a]
	j, okB := g.index[b]
	if !okA || !okB {
		return false
	}
	_, ok := g.pairs[[2]int{min(i, j), max(i, j)}]
	return ok
}

// Neighbors returns the indices adjacent to node index i.
func (g *Graph) Neighbors(i int) []int { return g.adj[i] }

// Degree returns the number of distinct neighbors of id.
func (g *Graph) Degree(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.adj[i])
}

// EdgeIndices returns each retained edge as a pair of node indices.
func (g *Graph) EdgeIndices() [][2]int {
	out := make([][2]int, len(g.edges))
	for k, e := range g.edges {
		out[k] = [2]int{g.index[e.From], g.index[e.To]}
	}
	return out
}
