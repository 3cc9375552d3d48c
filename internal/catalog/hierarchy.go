package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ErrInconsistentHierarchy is returned when an entry would be placed where
// the hierarchy already holds an entry of the other kind.
var ErrInconsistentHierarchy = errors.New("catalog: hierarchy was inconsistent")

// Node is either a leaf URL or a nested hierarchy.
type Node struct {
	URL      string
	Children Hierarchy
}

// IsLeaf reports whether n is a catalog entry.
func (n Node) IsLeaf() bool {
	return n.Children == nil
}

// Hierarchy maps a path segment to a sub-hierarchy or an entry URL.
type Hierarchy map[string]Node

// Flatten returns every leaf URL at any depth, visiting keys in sorted
// order.
func (h Hierarchy) Flatten() []string {
	var out []string
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n := h[k]
		if n.IsLeaf() {
			out = append(out, n.URL)
			continue
		}
		out = append(out, n.Children.Flatten()...)
	}
	return out
}

// PathParts splits a URL path into its non-empty segments.
func PathParts(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// BuildHierarchy nests each URL under its path segments, the last segment
// holding the URL itself.
func BuildHierarchy(urls []*url.URL) (Hierarchy, error) {
	root := Hierarchy{}
	for _, u := range urls {
		parts := PathParts(u.Path)
		if len(parts) == 0 {
			return nil, fmt.Errorf("catalog: %q has no path", u.String())
		}
		h := root
		for _, part := range parts[:len(parts)-1] {
			n, ok := h[part]
			if !ok {
				n = Node{Children: Hierarchy{}}
				h[part] = n
			}
			if n.IsLeaf() {
				return nil, fmt.Errorf("%w: found an entry at %q where a parent was expected", ErrInconsistentHierarchy, part)
			}
			h = n.Children
		}
		last := parts[len(parts)-1]
		if n, ok := h[last]; ok && !n.IsLeaf() {
			return nil, fmt.Errorf("%w: found a parent at %q where an entry was expected", ErrInconsistentHierarchy, last)
		}
		h[last] = Node{URL: u.String()}
	}
	return root, nil
}

// HierarchyFromMap converts a decoded document of nested tables with
// string leaves into a Hierarchy.
func HierarchyFromMap(m map[string]any) (Hierarchy, error) {
	h := make(Hierarchy, len(m))
	for k, v := range m {
		switch v := v.(type) {
		case string:
			h[k] = Node{URL: v}
		case map[string]any:
			children, err := HierarchyFromMap(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%w", k, err)
			}
			h[k] = Node{Children: children}
		default:
			return nil, fmt.Errorf("%s: %w: unexpected %T", k, ErrInconsistentHierarchy, v)
		}
	}
	return h, nil
}
