package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// -----------------------------------------------------------------------------
// Document
// -----------------------------------------------------------------------------

// Document is a raw configuration document: string-keyed maps, []any
// sequences, and scalar leaves, as produced by a JSON or YAML decoder.
type Document = map[string]any

// CopyDocument returns a deep copy of doc. A nil document copies to an empty
// one so callers can write into the result unconditionally.
func CopyDocument(doc Document) (Document, error) {
	if doc == nil {
		return Document{}, nil
	}
	copied, ok := deepcopy.Copy(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to copy document")
	}
	return copied, nil
}

// DeepCopy returns a deep copy of v, falling back to the generic copier for
// any type it does not special-case.
func DeepCopy[T any](v T) (T, error) {
	var zero T
	switch src := any(v).(type) {
	case Document:
		copied, err := CopyDocument(src)
		if err != nil {
			return zero, err
		}
		result, ok := any(copied).(T)
		if !ok {
			return zero, fmt.Errorf("failed to cast copied document to type %T", zero)
		}
		return result, nil
	default:
		copied, ok := deepcopy.Copy(v).(T)
		if !ok {
			return zero, fmt.Errorf("failed to copy value of type %T", zero)
		}
		return copied, nil
	}
}
