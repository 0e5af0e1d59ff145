package agent

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/agentforge/agentforge/engine/core"
	"github.com/agentforge/agentforge/pkg/logger"
)

// Load reads an agent configuration file (JSON or YAML), expands environment
// placeholders in string leaves, and parses it into a validated Config.
func Load(path string) (*Config, error) {
	logger.Debug("loading agent configuration", "path", path)
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	config, err := FromDocument(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load agent configuration from %s", path)
	}
	return config, nil
}

// LoadDocument reads a raw document from a JSON or YAML file and expands
// `${VAR}` environment placeholders in its string leaves. Unset variables are
// left as-is so a missing secret is visible rather than silently blanked.
func LoadDocument(path string) (core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read configuration file")
	}
	var doc core.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to decode configuration file %s", path)
	}
	expanded, ok := expandEnv(doc).(map[string]any)
	if !ok {
		return nil, errors.Errorf("configuration file %s is not a mapping at the top level", path)
	}
	return expanded, nil
}

// Save writes the configuration as indented JSON, creating parent directories
// as needed. Saving after a harness run persists the discovered skill schemas
// alongside the authored fields.
func (c *Config) Save(path string) error {
	logger.Debug("saving agent configuration", "path", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create configuration directory")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal configuration")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write configuration to %s", path)
	}
	return nil
}

// LoadEnv loads a .env file from dir into the process environment so that
// Load can resolve placeholders against it. A missing file is not an error.
func LoadEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to load .env file")
	}
	logger.Debug("loaded environment file", "path", envPath)
	return nil
}

// expandEnv walks the document and expands ${VAR} references in every string
// leaf, keeping the placeholder text when the variable is unset.
func expandEnv(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k := range v {
			v[k] = expandEnv(v[k])
		}
		return v
	case []any:
		for i := range v {
			v[i] = expandEnv(v[i])
		}
		return v
	case string:
		return os.Expand(v, func(name string) string {
			if val, ok := os.LookupEnv(name); ok {
				return val
			}
			return "${" + name + "}"
		})
	default:
		return value
	}
}
