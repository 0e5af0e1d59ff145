package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentforge/agentforge/engine/core"
	"github.com/agentforge/agentforge/engine/schema"
)

func Test_Compose(t *testing.T) {
	t.Run("Should apply a file-sourced override document", func(t *testing.T) {
		base := sampleConfig(t)
		overrides := core.Document{
			"card": map[string]any{
				"name": "Modified Agent",
				"skills": []any{
					map[string]any{
						"id":          "mcp_new_tool",
						"name":        "new_tool",
						"description": "New tool",
						"tags":        []any{"new"},
						"mcp_config":  map[string]any{"transport": "http", "url": "http://localhost:8000"},
					},
				},
			},
			"deployment": map[string]any{
				"llm": map[string]any{"temperature": 0.5},
			},
		}

		result, err := Compose(base, &ComposeOptions{Overrides: overrides})
		require.NoError(t, err)

		assert.Equal(t, "Modified Agent", result.Card.Name)
		require.Len(t, result.Card.Skills, 1)
		assert.Equal(t, "mcp_new_tool", result.Card.Skills[0].ID)
		require.NotNil(t, result.Deployment.LLM.Temperature)
		assert.InDelta(t, 0.5, *result.Deployment.LLM.Temperature, 0.0001)
		// Preserved from the base.
		assert.Equal(t, "claude-3-5-sonnet-20241022", result.Deployment.LLM.Model)
	})

	t.Run("Should compose overrides and path expressions end to end", func(t *testing.T) {
		base := sampleConfig(t)
		// Sequences replace wholesale, so an override file adding a skill
		// lists the full skill set.
		overrides := core.Document{
			"card": map[string]any{
				"skills": []any{
					map[string]any{"id": "mcp_tool1", "name": "tool1", "description": "Tool 1"},
					map[string]any{"id": "mcp_tool2", "name": "tool2", "description": "Tool 2"},
				},
			},
		}

		result, err := Compose(base, &ComposeOptions{
			Overrides: overrides,
			Sets:      []string{"deployment.llm.temperature=0.5"},
		})
		require.NoError(t, err)

		require.Len(t, result.Card.Skills, 2)
		assert.NotNil(t, result.FindSkill("mcp_tool1"))
		assert.NotNil(t, result.FindSkill("mcp_tool2"))
		require.NotNil(t, result.Deployment.LLM.Temperature)
		assert.InDelta(t, 0.5, *result.Deployment.LLM.Temperature, 0.0001)
		assert.Equal(t, "Test Agent", result.Card.Name)
		assert.Equal(t, "You are a test agent.", result.Deployment.LLM.SystemPrompt)
	})

	t.Run("Should apply later expressions over earlier ones", func(t *testing.T) {
		base := sampleConfig(t)
		result, err := Compose(base, &ComposeOptions{
			Sets: []string{
				"deployment.llm.max_tokens=1000",
				"deployment.llm.max_tokens=2000",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2000, result.Deployment.LLM.MaxTokens)
	})

	t.Run("Should coerce expression values", func(t *testing.T) {
		base := sampleConfig(t)
		result, err := Compose(base, &ComposeOptions{
			Sets: []string{
				`card.skills[0].tags=["a","b"]`,
				"card.description=plain text",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, result.Card.Skills[0].Tags)
		assert.Equal(t, "plain text", result.Card.Description)
	})

	t.Run("Should never mutate the base configuration", func(t *testing.T) {
		base := sampleConfig(t)
		overrides := core.Document{"card": map[string]any{"name": "Changed"}}
		_, err := Compose(base, &ComposeOptions{
			Overrides: overrides,
			Sets:      []string{"deployment.llm.temperature=0.1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Test Agent", base.Card.Name)
		assert.InDelta(t, 0.7, *base.Deployment.LLM.Temperature, 0.0001)
		// The override document is consumed read-only too.
		assert.Equal(t, core.Document{"card": map[string]any{"name": "Changed"}}, overrides)
	})

	t.Run("Should abort the whole batch on a malformed expression", func(t *testing.T) {
		base := sampleConfig(t)
		_, err := Compose(base, &ComposeOptions{
			Sets: []string{
				"card.name=First",
				"card.skills[x].id=bad",
			},
		})
		require.Error(t, err)
		var pathErr *core.PathSyntaxError
		require.ErrorAs(t, err, &pathErr)
		assert.Equal(t, "Test Agent", base.Card.Name)
	})

	t.Run("Should reject an expression without a value", func(t *testing.T) {
		base := sampleConfig(t)
		_, err := Compose(base, &ComposeOptions{Sets: []string{"card.name"}})
		var pathErr *core.PathSyntaxError
		require.ErrorAs(t, err, &pathErr)
	})

	t.Run("Should surface validation failures of the composed document", func(t *testing.T) {
		base := sampleConfig(t)
		_, err := Compose(base, &ComposeOptions{Sets: []string{"card.skills=5"}})
		require.Error(t, err)
	})

	t.Run("Should pass strict mode when schemas are unchanged", func(t *testing.T) {
		saved := configWithSchemas(t)
		result, err := Compose(saved, &ComposeOptions{
			Sets:   []string{"deployment.llm.temperature=0.2"},
			Strict: true,
			Saved:  saved,
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.2, *result.Deployment.LLM.Temperature, 0.0001)
	})

	t.Run("Should fail strict mode when a skill disappears", func(t *testing.T) {
		saved := configWithSchemas(t)
		overrides := core.Document{
			"card": map[string]any{
				"skills": []any{
					map[string]any{"id": "mcp_other", "name": "other"},
				},
			},
		}
		_, err := Compose(saved, &ComposeOptions{
			Overrides: overrides,
			Strict:    true,
			Saved:     saved,
		})
		var consistencyErr *ConsistencyError
		require.ErrorAs(t, err, &consistencyErr)
		assert.Contains(t, consistencyErr.Message, "skill mismatch")
	})

	t.Run("Should fail strict mode when a recorded schema drifts", func(t *testing.T) {
		saved := configWithSchemas(t)
		_, err := Compose(saved, &ComposeOptions{
			Sets:   []string{`card.skills[0].input_schema={"type":"object","properties":{"different":{"type":"string"}}}`},
			Strict: true,
			Saved:  saved,
		})
		var consistencyErr *ConsistencyError
		require.ErrorAs(t, err, &consistencyErr)
		assert.Equal(t, "mcp_tool1", consistencyErr.SkillID)
		assert.Equal(t, "input", consistencyErr.Field)
	})
}

func Test_ParseSetExpr(t *testing.T) {
	t.Run("Should split on the first equals sign", func(t *testing.T) {
		path, raw, err := ParseSetExpr("card.url=https://example.com/a=b")
		require.NoError(t, err)
		assert.Equal(t, "card.url", path)
		assert.Equal(t, "https://example.com/a=b", raw)
	})

	t.Run("Should allow an empty value", func(t *testing.T) {
		path, raw, err := ParseSetExpr("card.description=")
		require.NoError(t, err)
		assert.Equal(t, "card.description", path)
		assert.Equal(t, "", raw)
	})

	t.Run("Should reject expressions without a path or equals", func(t *testing.T) {
		for _, expr := range []string{"", "=value", "no-equals"} {
			_, _, err := ParseSetExpr(expr)
			require.Error(t, err, "expr %q", expr)
		}
	})
}

func Test_ValidateConsistency(t *testing.T) {
	t.Run("Should pass when skills and schemas match", func(t *testing.T) {
		saved := configWithSchemas(t)
		current, err := saved.DeepCopy()
		require.NoError(t, err)
		require.NoError(t, ValidateConsistency(saved, current))
	})

	t.Run("Should pass when the saved config recorded no schemas", func(t *testing.T) {
		saved := sampleConfig(t)
		current := configWithSchemas(t)
		require.NoError(t, ValidateConsistency(saved, current))
	})

	t.Run("Should report a skill set mismatch with both sets", func(t *testing.T) {
		saved := configWithSchemas(t)
		current, err := saved.DeepCopy()
		require.NoError(t, err)
		current.Card.Skills = append(current.Card.Skills, SkillConfig{ID: "mcp_tool2", Name: "tool2"})

		err = ValidateConsistency(saved, current)
		var consistencyErr *ConsistencyError
		require.ErrorAs(t, err, &consistencyErr)
		assert.Contains(t, consistencyErr.Error(), "skill mismatch")
		assert.Contains(t, consistencyErr.Error(), "mcp_tool1")
		assert.Contains(t, consistencyErr.Error(), "mcp_tool2")
	})

	t.Run("Should report a changed input schema with the skill id", func(t *testing.T) {
		saved := configWithSchemas(t)
		current, err := saved.DeepCopy()
		require.NoError(t, err)
		current.Card.Skills[0].InputSchema = &schema.Schema{
			"type":       "object",
			"properties": map[string]any{"different": map[string]any{"type": "string"}},
		}

		err = ValidateConsistency(saved, current)
		var consistencyErr *ConsistencyError
		require.ErrorAs(t, err, &consistencyErr)
		assert.Equal(t, "mcp_tool1", consistencyErr.SkillID)
		assert.Equal(t, "input", consistencyErr.Field)
		assert.Contains(t, consistencyErr.Error(), "input schema changed")
	})

	t.Run("Should report a changed output schema with the skill id", func(t *testing.T) {
		saved := configWithSchemas(t)
		current, err := saved.DeepCopy()
		require.NoError(t, err)
		current.Card.Skills[0].OutputSchema = &schema.Schema{
			"type":       "object",
			"properties": map[string]any{"different": map[string]any{"type": "string"}},
		}

		err = ValidateConsistency(saved, current)
		var consistencyErr *ConsistencyError
		require.ErrorAs(t, err, &consistencyErr)
		assert.Equal(t, "mcp_tool1", consistencyErr.SkillID)
		assert.Equal(t, "output", consistencyErr.Field)
		assert.Contains(t, consistencyErr.Error(), "output schema changed")
	})

	t.Run("Should not flag structurally identical schemas built separately", func(t *testing.T) {
		saved := configWithSchemas(t)
		current := configWithSchemas(t)
		require.NoError(t, ValidateConsistency(saved, current))
	})
}
