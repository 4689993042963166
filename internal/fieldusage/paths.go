package fieldusage

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// propertiesKey is the mapping wrapper that introduces nested field definitions.
const propertiesKey = "properties"

// pathSeparator joins path segments into the external dotted field name.
const pathSeparator = "."

// Path is an ordered list of field name segments, e.g. ["user", "name"].
type Path []string

// ParsePath splits a dotted field name into its segments.
func ParsePath(field string) Path {
	return Path(strings.Split(field, pathSeparator))
}

// String joins the segments into the dotted field name.
func (p Path) String() string {
	return strings.Join(p, pathSeparator)
}

// Tree is a nested field tree. Values are either a Tree (an object field) or
// an int64 count (a leaf field).
type Tree map[string]any

// ZeroedTree converts the properties of an index mapping into a Tree whose
// leaves are all 0. A field definition carrying a "properties" map becomes an
// internal node built from that map; any other definition is a leaf. Values
// that are not field definitions are skipped.
func ZeroedTree(mapping map[string]any) Tree {
	tree := make(Tree, len(mapping))
	for name, raw := range mapping {
		def, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if nested, hasProps := def[propertiesKey].(map[string]any); hasProps {
			tree[name] = ZeroedTree(nested)
			continue
		}
		tree[name] = int64(0)
	}
	return tree
}

// LeafPaths yields one Path per leaf of tree, depth first, visiting keys in
// ascending order. Every yielded Path is a fresh slice owned by the caller.
func LeafPaths(tree Tree) iter.Seq[Path] {
	return func(yield func(Path) bool) {
		walkLeaves(tree, nil, yield)
	}
}

func walkLeaves(tree Tree, prefix Path, yield func(Path) bool) bool {
	for _, key := range slices.Sorted(maps.Keys(tree)) {
		path := append(slices.Clip(prefix), key)
		if child, ok := tree[key].(Tree); ok {
			if !walkLeaves(child, path, yield) {
				return false
			}
			continue
		}
		if !yield(path) {
			return false
		}
	}
	return true
}

// ValueAt walks tree along path and returns the value found at its end.
func ValueAt(tree Tree, path Path) (any, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrPathNotFound)
	}
	var node any = tree
	for i, key := range path {
		current, ok := node.(Tree)
		if !ok {
			return nil, fmt.Errorf("%w: %q is a leaf", ErrPathNotFound, path[:i].String())
		}
		next, exists := current[key]
		if !exists {
			return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path[:i+1].String())
		}
		node = next
	}
	return node, nil
}

// Flatten linearises tree into dotted field counts in LeafPaths order.
func Flatten(tree Tree) (Counts, error) {
	var out Counts
	for path := range LeafPaths(tree) {
		value, err := ValueAt(tree, path)
		if err != nil {
			return nil, err
		}
		count, ok := value.(int64)
		if !ok {
			return nil, fmt.Errorf("leaf %q holds %T, want int64", path.String(), value)
		}
		out = append(out, FieldCount{Field: path.String(), Count: count})
	}
	return out, nil
}

// Unflatten rebuilds a nested Tree from dotted field counts. A later entry that
// collides with an existing node replaces it.
func Unflatten(counts Counts) Tree {
	root := make(Tree)
	for _, fc := range counts {
		path := ParsePath(fc.Field)
		node := root
		for _, key := range path[:len(path)-1] {
			child, ok := node[key].(Tree)
			if !ok {
				child = make(Tree)
				node[key] = child
			}
			node = child
		}
		node[path[len(path)-1]] = fc.Count
	}
	return root
}
