package agent

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/agentforge/agentforge/engine/core"
	"github.com/agentforge/agentforge/engine/schema"
)

const (
	DefaultModel          = "claude-3-5-sonnet-20241022"
	DefaultTemperature    = 0.7
	DefaultSystemPrompt   = "You are a helpful AI assistant."
	DefaultVersion        = "1.0.0"
	DefaultCPU            = 1.0
	DefaultMemoryMB       = 2048
	DefaultTimeoutSeconds = 300
)

// -----------------------------------------------------------------------------
// Skill
// -----------------------------------------------------------------------------

// MCPConfig describes how the tool backing a skill is reached. It is opaque
// to composition; the harness consumes it when it connects to the
// integration.
type MCPConfig struct {
	Transport    string            `json:"transport,omitempty"`
	Command      string            `json:"command,omitempty"`
	URL          string            `json:"url,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	AllowedTools []string          `json:"allowed_tools,omitempty"`
}

// SkillConfig is a named capability entry in the agent card. Input and output
// schemas are not authored: the harness discovers them from the live
// integration and attaches them after the fact.
type SkillConfig struct {
	ID           string         `json:"id"                      validate:"required"`
	Name         string         `json:"name"                    validate:"required"`
	Description  string         `json:"description,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	MCP          *MCPConfig     `json:"mcp_config,omitempty"`
	InputSchema  *schema.Schema `json:"input_schema,omitempty"`
	OutputSchema *schema.Schema `json:"output_schema,omitempty"`
}

// GetInputSchema implements the schema container accessors used by the
// harness callback.
func (s *SkillConfig) GetInputSchema() *schema.Schema {
	return s.InputSchema
}

func (s *SkillConfig) SetInputSchema(inputSchema *schema.Schema) {
	s.InputSchema = inputSchema
}

func (s *SkillConfig) GetOutputSchema() *schema.Schema {
	return s.OutputSchema
}

func (s *SkillConfig) SetOutputSchema(outputSchema *schema.Schema) {
	s.OutputSchema = outputSchema
}

// ValidateParams checks a call payload against the skill's discovered input
// schema. Skills without a discovered schema accept anything.
func (s *SkillConfig) ValidateParams(params map[string]any) error {
	return schema.NewParamsValidator(params, s.InputSchema, s.ID).Validate()
}

// -----------------------------------------------------------------------------
// Card / Deployment
// -----------------------------------------------------------------------------

// CardConfig is the public face of the agent: what it is called, what it can
// do, and at which version.
type CardConfig struct {
	Name        string        `json:"name"                  validate:"required"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
	Version     string        `json:"version"               validate:"required"`
	Skills      []SkillConfig `json:"skills,omitempty"      validate:"dive"`
}

type LLMConfig struct {
	Model        string   `json:"model"                   validate:"required"`
	Temperature  *float64 `json:"temperature,omitempty"   validate:"omitempty,gte=0,lte=2"`
	MaxTokens    int      `json:"max_tokens,omitempty"    validate:"gte=0"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
}

// InfraConfig sizes the deployed process.
type InfraConfig struct {
	CPU            float64  `json:"cpu,omitempty"             validate:"gte=0"`
	MemoryMB       int      `json:"memory_mb,omitempty"       validate:"gte=0"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" validate:"gte=0"`
	KeepWarm       int      `json:"keep_warm,omitempty"       validate:"gte=0"`
	Secrets        []string `json:"secrets,omitempty"`
}

// DeploymentConfig is the private half of the configuration: model parameters
// and infrastructure sizing.
type DeploymentConfig struct {
	LLM   LLMConfig   `json:"llm"`
	Infra InfraConfig `json:"infra,omitempty"`
}

// -----------------------------------------------------------------------------
// Config
// -----------------------------------------------------------------------------

// Config is a validated agent deployment configuration. Instances are built
// from raw documents by FromDocument and treated as immutable by the
// composition pipeline: Compose always produces a new instance.
type Config struct {
	Card       CardConfig       `json:"card"       validate:"required"`
	Deployment DeploymentConfig `json:"deployment"`
}

func (c *Config) Validate() error {
	v := schema.NewCompositeValidator(
		NewSkillsValidator(c.Card.Skills),
		schema.NewStructValidator(c),
	)
	return v.Validate()
}

// AsMap converts the configuration into a raw document for the composition
// pipeline. The result shares no structure with c.
func (c *Config) AsMap() (core.Document, error) {
	return core.AsMapDefault(c)
}

// FromDocument parses and validates a raw document into a new Config. The
// document is not mutated. Structural failures surface with the underlying
// field-level diagnostics intact.
func FromDocument(doc core.Document) (*Config, error) {
	config, err := core.FromMapDefault[Config](doc)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration document: %w", err)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// DeepCopy returns an independent copy of the configuration.
func (c *Config) DeepCopy() (*Config, error) {
	return core.DeepCopy(c)
}

// Merge overlays another typed configuration onto this one. The raw-document
// merge in Compose is the composition path; this is the typed convenience for
// callers that already hold two Configs.
func (c *Config) Merge(other any) error {
	otherConfig, ok := other.(*Config)
	if !ok {
		return fmt.Errorf("failed to merge agent configs: invalid type for merge")
	}
	return mergo.Merge(c, otherConfig, mergo.WithOverride)
}

// FindSkill returns the skill with the given ID, or nil.
func (c *Config) FindSkill(id string) *SkillConfig {
	for i := range c.Card.Skills {
		if c.Card.Skills[i].ID == id {
			return &c.Card.Skills[i]
		}
	}
	return nil
}

// AttachSkillSchemas records the schemas the harness discovered for a skill.
// Attaching to an unknown skill is an error so a drifted integration list
// cannot pass silently.
func (c *Config) AttachSkillSchemas(id string, input, output *schema.Schema) error {
	skill := c.FindSkill(id)
	if skill == nil {
		return fmt.Errorf("cannot attach schemas: skill %q not found", id)
	}
	skill.SetInputSchema(input)
	skill.SetOutputSchema(output)
	return nil
}

// HasDiscoveredSchemas reports whether any skill already carries discovered
// schemas, i.e. the configuration was saved after a harness run.
func (c *Config) HasDiscoveredSchemas() bool {
	for i := range c.Card.Skills {
		if c.Card.Skills[i].InputSchema != nil || c.Card.Skills[i].OutputSchema != nil {
			return true
		}
	}
	return false
}

func (c *Config) applyDefaults() {
	if c.Card.Version == "" {
		c.Card.Version = DefaultVersion
	}
	if c.Deployment.LLM.Model == "" {
		c.Deployment.LLM.Model = DefaultModel
	}
	if c.Deployment.LLM.Temperature == nil {
		temperature := DefaultTemperature
		c.Deployment.LLM.Temperature = &temperature
	}
	if c.Deployment.LLM.SystemPrompt == "" {
		c.Deployment.LLM.SystemPrompt = DefaultSystemPrompt
	}
	if c.Deployment.Infra.CPU == 0 {
		c.Deployment.Infra.CPU = DefaultCPU
	}
	if c.Deployment.Infra.MemoryMB == 0 {
		c.Deployment.Infra.MemoryMB = DefaultMemoryMB
	}
	if c.Deployment.Infra.TimeoutSeconds == 0 {
		c.Deployment.Infra.TimeoutSeconds = DefaultTimeoutSeconds
	}
}
