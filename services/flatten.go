package services

import (
	"sort"
	"strconv"

	"github.com/gondgesagar/Web-scrapper-alert/models"
)

// maxFlattenDepth bounds recursion on pathological payloads. Freshly
// deserialized JSON is tree-shaped, so the guard truncates instead of
// cycle-checking.
const maxFlattenDepth = 64

// Flatten walks a raw nested record depth-first and returns every scalar
// leaf as a (path, value) pair. Object keys are visited in sorted order so
// pair order is deterministic (decoded Go maps carry no insertion order);
// sequence elements keep their index order. Nil is a scalar.
func Flatten(node any) []models.FlatPair {
	pairs := make([]models.FlatPair, 0, 16)
	flattenInto(&pairs, node, "", 0)
	return pairs
}

func flattenInto(pairs *[]models.FlatPair, node any, prefix string, depth int) {
	if depth > maxFlattenDepth {
		*pairs = append(*pairs, models.FlatPair{Path: prefix, Value: node})
		return
	}

	switch n := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			flattenInto(pairs, n[k], path, depth+1)
		}
	case []any:
		for i, v := range n {
			path := "[" + strconv.Itoa(i) + "]"
			if prefix != "" {
				path = prefix + path
			}
			flattenInto(pairs, v, path, depth+1)
		}
	default:
		*pairs = append(*pairs, models.FlatPair{Path: prefix, Value: node})
	}
}
