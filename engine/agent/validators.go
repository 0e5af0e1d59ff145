package agent

import "fmt"

// -----------------------------------------------------------------------------
// SkillsValidator
// -----------------------------------------------------------------------------

// SkillsValidator enforces the card invariant that every skill identifier is
// unique within a configuration.
type SkillsValidator struct {
	skills []SkillConfig
}

func NewSkillsValidator(skills []SkillConfig) *SkillsValidator {
	return &SkillsValidator{skills: skills}
}

func (v *SkillsValidator) Validate() error {
	seen := make(map[string]struct{}, len(v.skills))
	for i := range v.skills {
		id := v.skills[i].ID
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate skill id %q in agent card", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
