package agent

import (
	"strings"

	"github.com/agentforge/agentforge/engine/core"
)

// ComposeOptions carries the override instructions for one composition run.
type ComposeOptions struct {
	// Overrides is a file-sourced partial document merged into the base
	// before any Sets apply. Nil means no file override.
	Overrides core.Document
	// Sets are "path=value" expressions applied in order after the merge;
	// later expressions may overwrite earlier ones.
	Sets []string
	// Strict compares the composed result against Saved and fails on any
	// schema drift.
	Strict bool
	// Saved is the previously saved configuration used by the strict check.
	Saved *Config
}

// Compose layers overrides onto a base configuration and returns a new,
// validated Config. The base, the override document, and the saved
// configuration are never mutated. A malformed Set expression aborts the
// whole batch: no partial application is ever observable.
func Compose(base *Config, opts *ComposeOptions) (*Config, error) {
	if opts == nil {
		opts = &ComposeOptions{}
	}
	doc, err := base.AsMap()
	if err != nil {
		return nil, err
	}
	if opts.Overrides != nil {
		doc = core.Merge(doc, opts.Overrides)
	}
	if len(opts.Sets) > 0 {
		doc, err = applySets(doc, opts.Sets)
		if err != nil {
			return nil, err
		}
	}
	result, err := FromDocument(doc)
	if err != nil {
		return nil, err
	}
	if opts.Strict && opts.Saved != nil {
		if err := ValidateConsistency(opts.Saved, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// applySets applies a batch of path=value expressions to a scratch copy so a
// syntax error partway through leaves the incoming document untouched.
func applySets(doc core.Document, sets []string) (core.Document, error) {
	type write struct {
		path  string
		value any
	}
	writes := make([]write, 0, len(sets))
	for _, expr := range sets {
		path, raw, err := ParseSetExpr(expr)
		if err != nil {
			return nil, err
		}
		if _, err := core.ParsePath(path); err != nil {
			return nil, err
		}
		writes = append(writes, write{path: path, value: core.ParseValue(raw)})
	}
	work, err := core.CopyDocument(doc)
	if err != nil {
		return nil, err
	}
	for _, w := range writes {
		if err := core.SetPath(work, w.path, w.value); err != nil {
			return nil, err
		}
	}
	return work, nil
}

// ParseSetExpr splits a single override expression into its path and raw
// value. The value may itself contain '='; only the first one delimits.
func ParseSetExpr(expr string) (path, raw string, err error) {
	idx := strings.Index(expr, "=")
	if idx <= 0 {
		return "", "", &core.PathSyntaxError{
			Path:   expr,
			Reason: "override expression must have the form path=value",
		}
	}
	return expr[:idx], expr[idx+1:], nil
}
