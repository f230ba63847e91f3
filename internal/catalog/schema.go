package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	yaml "gopkg.in/yaml.v3"
)

func GetJSONSchema() string {
	return `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"additionalProperties": false,
		"anyOf": [
			{"required": ["positive"]},
			{"required": ["negative"]},
			{"required": ["ui"]}
		],
		"properties": {
			"name": {
				"type": "string",
				"minLength": 1
			},
			"description": {
				"type": "string"
			},
			"positive": {
				"type": "array",
				"items": {"$ref": "#/definitions/scenario"}
			},
			"negative": {
				"type": "array",
				"items": {"$ref": "#/definitions/scenario"}
			},
			"ui": {
				"$ref": "#/definitions/scenario"
			}
		},
		"definitions": {
			"scenario": {
				"type": "object",
				"required": ["input", "expected"],
				"additionalProperties": false,
				"properties": {
					"id": {
						"type": "string",
						"pattern": "^[A-Za-z][A-Za-z0-9_-]*$"
					},
					"input": {"type": "string"},
					"expected": {"type": "string"},
					"length": {
						"type": "string",
						"enum": ["S", "M", "L"]
					},
					"input_domain": {"type": "string"},
					"grammar_focus": {"type": "string"},
					"quality_focus": {"type": "string"},
					"checks": {
						"type": "array",
						"items": {"$ref": "#/definitions/check"}
					}
				}
			},
			"check": {
				"type": "object",
				"required": ["type"],
				"additionalProperties": false,
				"properties": {
					"type": {
						"type": "string",
						"enum": ["empty", "non_empty", "tamil", "max_latin_run", "word_count", "script"]
					},
					"max": {
						"type": "integer",
						"minimum": 1
					},
					"script": {
						"type": "string",
						"minLength": 1
					}
				},
				"allOf": [
					{
						"if": {"properties": {"type": {"enum": ["max_latin_run"]}}},
						"then": {"required": ["max"]}
					},
					{
						"if": {"properties": {"type": {"enum": ["script"]}}},
						"then": {"required": ["script"]}
					}
				]
			}
		}
	}`
}

// ValidateYAMLWithSchema checks a catalog document against the JSON schema.
func ValidateYAMLWithSchema(yamlPayload []byte) error {
	var data interface{}
	if err := yaml.Unmarshal(yamlPayload, &data); err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(GetJSONSchema())
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if !result.Valid() {
		var errMsg string
		for _, desc := range result.Errors() {
			errMsg += fmt.Sprintf("- %s\n", desc)
		}
		return fmt.Errorf("schema validation failed:\n%s", errMsg)
	}

	return nil
}

// Validate runs the schema check and then the structural checks of ParseYAML.
func Validate(yamlPayload []byte) error {
	if err := ValidateYAMLWithSchema(yamlPayload); err != nil {
		return err
	}
	_, err := ParseYAML(yamlPayload)
	return err
}
