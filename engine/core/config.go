package core

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// AsMapDefault converts a typed configuration into a raw Document via a JSON
// roundtrip, so json tags drive the key names.
func AsMapDefault(config any) (Document, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var configMap Document
	if err := json.Unmarshal(bytes, &configMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config to map: %w", err)
	}
	return configMap, nil
}

// FromMapDefault decodes a raw document into a typed configuration, accepting
// weakly typed scalars (e.g. "0.5" for a float field) the way hand-written
// override files tend to carry them.
func FromMapDefault[T any](data any) (T, error) {
	var config T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &config,
	})
	if err != nil {
		return config, err
	}
	return config, decoder.Decode(data)
}
