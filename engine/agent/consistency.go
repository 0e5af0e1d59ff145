package agent

import (
	"fmt"
	"sort"

	"github.com/agentforge/agentforge/engine/schema"
)

// ConsistencyError reports schema drift between a previously saved
// configuration and a freshly composed one. Schemas come from live
// integrations, so a silent change means the upstream tool moved underneath
// the deployment; in strict mode this blocks startup instead of degrading.
type ConsistencyError struct {
	SkillID string // empty when the skill identifier sets differ
	Field   string // "input" or "output", empty for a set mismatch
	Message string
}

func (e *ConsistencyError) Error() string {
	return e.Message
}

// ValidateConsistency compares the skill collections of two configurations.
// It fails when the skill identifier sets differ, or when a skill common to
// both has a recorded input or output schema that is structurally different.
// Identifier comparison is set-wise; schema comparison is deep and
// order-sensitive within sequences. Read-only on both arguments.
func ValidateConsistency(original, current *Config) error {
	originalIDs := skillIDs(original)
	currentIDs := skillIDs(current)
	if !sameIDSet(originalIDs, currentIDs) {
		return &ConsistencyError{
			Message: fmt.Sprintf(
				"skill mismatch between saved and current configuration: saved=%v current=%v",
				sortedIDs(originalIDs), sortedIDs(currentIDs),
			),
		}
	}
	for i := range original.Card.Skills {
		saved := &original.Card.Skills[i]
		live := current.FindSkill(saved.ID)
		if saved.InputSchema != nil && !schema.Equal(saved.InputSchema, live.InputSchema) {
			return &ConsistencyError{
				SkillID: saved.ID,
				Field:   "input",
				Message: fmt.Sprintf("input schema changed for skill %q", saved.ID),
			}
		}
		if saved.OutputSchema != nil && !schema.Equal(saved.OutputSchema, live.OutputSchema) {
			return &ConsistencyError{
				SkillID: saved.ID,
				Field:   "output",
				Message: fmt.Sprintf("output schema changed for skill %q", saved.ID),
			}
		}
	}
	return nil
}

func skillIDs(c *Config) map[string]struct{} {
	ids := make(map[string]struct{}, len(c.Card.Skills))
	for i := range c.Card.Skills {
		ids[c.Card.Skills[i].ID] = struct{}{}
	}
	return ids
}

func sameIDSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

func sortedIDs(ids map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
