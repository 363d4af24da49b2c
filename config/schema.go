package config

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchemaJSON describes the shape a serialized Config (loaded by an
// embedder from TOML, JSON, or anywhere else — the format itself is outside
// the core contract) must satisfy before the compiler will accept it.
const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "variables": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "kind": {"enum": ["integer", "float", "bool", "enum"]},
          "values": {"type": "array", "items": {"type": "string"}}
        },
        "required": ["kind"]
      }
    },
    "reputations": {"type": "array", "items": {"type": "string"}},
    "locales": {"type": "array", "items": {"type": "string"}},
    "default_locale": {"type": "string"},
    "runtime": {
      "type": "object",
      "properties": {
        "chosen_event_frequency_penalty": {"type": "integer"},
        "event_frequency_cooldown": {"type": "integer", "minimum": 0},
        "met_requirement_frequency_boost": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var compiledConfigSchema *jsonschema.Schema

func compileConfigSchema() (*jsonschema.Schema, error) {
	if compiledConfigSchema != nil {
		return compiledConfigSchema, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	// This schema is a fixed literal shipped with the package; refuse to
	// resolve any external reference it (or a caller-supplied variant of it)
	// might name.
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("external schema references are not allowed: %s", url)
	}

	url := "schema://config.json"
	if err := compiler.AddResource(url, strings.NewReader(configSchemaJSON)); err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	compiledConfigSchema = schema
	return schema, nil
}

// Validate checks the Config's shape (declared variable kinds, enum value
// lists, locale/reputation lists) against the package's JSON Schema. It
// catches malformed declarations an embedder assembled by hand or loaded
// from an external format, before the compiler ever sees a story source.
func (c *Config) Validate() error {
	schema, err := compileConfigSchema()
	if err != nil {
		return err
	}

	asMap, err := c.toValidationMap()
	if err != nil {
		return fmt.Errorf("marshaling config for validation: %w", err)
	}

	if err := schema.Validate(asMap); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return c.validateSemantics()
}

// toValidationMap round-trips through JSON to get a generic document the
// jsonschema validator accepts (map[string]any / []any / primitives).
func (c *Config) toValidationMap() (any, error) {
	type wireVariable struct {
		Kind   string   `json:"kind"`
		Values []string `json:"values,omitempty"`
	}
	type wireConfig struct {
		Variables     map[string]wireVariable `json:"variables"`
		Reputations   []string                 `json:"reputations"`
		Locales       []string                 `json:"locales"`
		DefaultLocale string                   `json:"default_locale"`
		Runtime       struct {
			ChosenEventFrequencyPenalty int32  `json:"chosen_event_frequency_penalty"`
			EventFrequencyCooldown      uint32 `json:"event_frequency_cooldown"`
			MetRequirementFrequencyBoost uint32 `json:"met_requirement_frequency_boost"`
		} `json:"runtime"`
	}

	wire := wireConfig{Variables: make(map[string]wireVariable, len(c.Variables))}
	for name, kind := range c.Variables {
		wire.Variables[name] = wireVariable{Kind: kind.Kind.String(), Values: kind.Values}
	}
	for name := range c.Reputations {
		wire.Reputations = append(wire.Reputations, name)
	}
	// An unset list is sent as an empty array, not JSON null, which the
	// schema's array types would reject.
	if wire.Reputations == nil {
		wire.Reputations = []string{}
	}
	wire.Locales = c.Locales
	if wire.Locales == nil {
		wire.Locales = []string{}
	}
	wire.DefaultLocale = c.DefaultLocale
	wire.Runtime.ChosenEventFrequencyPenalty = c.Runtime.ChosenEventFrequencyPenalty
	wire.Runtime.EventFrequencyCooldown = c.Runtime.EventFrequencyCooldown
	wire.Runtime.MetRequirementFrequencyBoost = c.Runtime.MetRequirementFrequencyBoost

	raw, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// validateSemantics checks rules the JSON Schema shape alone can't express:
// enum variables must declare at least one value, and DefaultLocale (if set)
// must be one of Locales.
func (c *Config) validateSemantics() error {
	for name, kind := range c.Variables {
		if kind.Kind == Enum && len(kind.Values) == 0 {
			return fmt.Errorf("variable %q declared as enum with no values", name)
		}
	}
	if c.DefaultLocale != "" {
		found := false
		for _, l := range c.Locales {
			if l == c.DefaultLocale {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("default_locale %q is not in locales", c.DefaultLocale)
		}
	}
	return nil
}
