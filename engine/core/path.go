package core

import (
	"fmt"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Path expressions
// -----------------------------------------------------------------------------

// PathSyntaxError reports a malformed path expression. A batch of overrides
// is aborted on the first one of these, before any write lands.
type PathSyntaxError struct {
	Path   string
	Reason string
}

func (e *PathSyntaxError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// PathStep is a single access step produced by ParsePath: a field name,
// optionally followed by one sequence index (`field[3]`).
type PathStep struct {
	Field    string
	Index    int
	HasIndex bool
}

// ParsePath tokenizes a dotted path expression such as "card.skills[2].id"
// into its access steps. Each segment carries at most one bracketed
// non-negative index; anything else is a PathSyntaxError.
func ParsePath(path string) ([]PathStep, error) {
	if path == "" {
		return nil, &PathSyntaxError{Path: path, Reason: "path is empty"}
	}
	segments := strings.Split(path, ".")
	steps := make([]PathStep, 0, len(segments))
	for _, segment := range segments {
		step, err := parseSegment(path, segment)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseSegment(path, segment string) (PathStep, error) {
	if segment == "" {
		return PathStep{}, &PathSyntaxError{Path: path, Reason: "empty segment"}
	}
	open := strings.IndexByte(segment, '[')
	if open == -1 {
		if strings.IndexByte(segment, ']') != -1 {
			return PathStep{}, &PathSyntaxError{
				Path:   path,
				Reason: fmt.Sprintf("unbalanced bracket in segment %q", segment),
			}
		}
		return PathStep{Field: segment}, nil
	}
	if open == 0 {
		return PathStep{}, &PathSyntaxError{
			Path:   path,
			Reason: fmt.Sprintf("segment %q has no field name", segment),
		}
	}
	if segment[len(segment)-1] != ']' {
		return PathStep{}, &PathSyntaxError{
			Path:   path,
			Reason: fmt.Sprintf("unbalanced bracket in segment %q", segment),
		}
	}
	index := segment[open+1 : len(segment)-1]
	if strings.ContainsAny(index, "[]") {
		return PathStep{}, &PathSyntaxError{
			Path:   path,
			Reason: fmt.Sprintf("segment %q carries more than one index", segment),
		}
	}
	if index == "" {
		return PathStep{}, &PathSyntaxError{
			Path:   path,
			Reason: fmt.Sprintf("empty index in segment %q", segment),
		}
	}
	for i := 0; i < len(index); i++ {
		if index[i] < '0' || index[i] > '9' {
			return PathStep{}, &PathSyntaxError{
				Path:   path,
				Reason: fmt.Sprintf("index %q in segment %q is not a non-negative integer", index, segment),
			}
		}
	}
	idx, err := strconv.Atoi(index)
	if err != nil {
		return PathStep{}, &PathSyntaxError{
			Path:   path,
			Reason: fmt.Sprintf("index %q in segment %q is out of range", index, segment),
		}
	}
	return PathStep{Field: segment[:open], Index: idx, HasIndex: true}, nil
}

// -----------------------------------------------------------------------------
// Set / Get
// -----------------------------------------------------------------------------

// SetPath writes value at the location named by path, creating intermediate
// containers as it descends: a map for a plain segment, a sequence for an
// indexed one. Sequences are padded with empty maps when the path descends
// past the index, and with nil when the final segment is the indexed one.
// An intermediate of the wrong container type is replaced. Sibling fields are
// never touched.
func SetPath(doc Document, path string, value any) error {
	steps, err := ParsePath(path)
	if err != nil {
		return err
	}
	current := doc
	for i, step := range steps {
		last := i == len(steps)-1
		if !step.HasIndex {
			if last {
				current[step.Field] = value
				return nil
			}
			next, ok := current[step.Field].(map[string]any)
			if !ok {
				next = map[string]any{}
				current[step.Field] = next
			}
			current = next
			continue
		}
		seq, _ := current[step.Field].([]any)
		if last {
			for len(seq) <= step.Index {
				seq = append(seq, nil)
			}
			seq[step.Index] = value
			current[step.Field] = seq
			return nil
		}
		for len(seq) <= step.Index {
			seq = append(seq, map[string]any{})
		}
		current[step.Field] = seq
		next, ok := seq[step.Index].(map[string]any)
		if !ok {
			next = map[string]any{}
			seq[step.Index] = next
		}
		current = next
	}
	return nil
}

// GetPath reads the value at path. The second return is false when any step
// along the way is missing, of the wrong container type, or indexed out of
// range.
func GetPath(doc Document, path string) (any, bool, error) {
	steps, err := ParsePath(path)
	if err != nil {
		return nil, false, err
	}
	var current any = doc
	for _, step := range steps {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false, nil
		}
		value, ok := m[step.Field]
		if !ok {
			return nil, false, nil
		}
		if step.HasIndex {
			seq, ok := value.([]any)
			if !ok || step.Index >= len(seq) {
				return nil, false, nil
			}
			value = seq[step.Index]
		}
		current = value
	}
	return current, true, nil
}
