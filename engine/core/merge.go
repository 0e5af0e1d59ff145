package core

import "github.com/mohae/deepcopy"

// Merge combines override into base and returns a fresh document; neither
// input is mutated. The precedence rule, applied per override key:
//
//   - both sides are maps: merge recursively;
//   - both sides are sequences: the override sequence replaces the base one
//     wholesale, elements are never appended or interleaved;
//   - anything else: the override value wins outright, including explicit
//     nulls.
//
// Keys present only in base are carried through. Merge is total over
// map/sequence/scalar inputs: there is no error case.
func Merge(base, override Document) Document {
	merged := make(Document, len(base)+len(override))
	for key, value := range base {
		merged[key] = cloneValue(value)
	}
	for key, overrideValue := range override {
		if baseMap, ok := merged[key].(map[string]any); ok {
			if overrideMap, ok := overrideValue.(map[string]any); ok {
				merged[key] = Merge(baseMap, overrideMap)
				continue
			}
		}
		merged[key] = cloneValue(overrideValue)
	}
	return merged
}

// cloneValue copies container values so the merged document shares no
// structure with either input. Scalars are returned as-is.
func cloneValue(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return deepcopy.Copy(v)
	default:
		return v
	}
}
