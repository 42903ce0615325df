package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Result Serialization API
// =============================================================================

// MarshalResult serializes a Result to pretty-printed JSON bytes.
// encoding/json sorts map keys, so equal results produce identical bytes.
func MarshalResult(r Result) ([]byte, error) {
	if r == nil {
		r = Result{}
	}
	return json.MarshalIndent(r, "", "  ")
}

// UnmarshalResult deserializes JSON bytes into a Result.
func UnmarshalResult(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	if r == nil {
		r = Result{}
	}
	for id, p := range r {
		if !p.IsFinite() {
			return nil, fmt.Errorf("node %q has a non-finite position", id)
		}
	}
	return r, nil
}

// WriteResultFile writes a Result to a JSON file.
func WriteResultFile(r Result, path string) error {
	data, err := MarshalResult(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadResultFile reads a Result from a JSON file.
func ReadResultFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalResult(data)
}

// Apply returns a copy of nodes with positions taken from r. Nodes absent
// from r keep their current position.
func (r Result) Apply(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		if p, ok := r[n.ID]; ok {
			n.Position = &p
		}
		out[i] = n
	}
	return out
}
