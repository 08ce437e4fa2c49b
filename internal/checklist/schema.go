package checklist

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// checklistSchemaURL anchors the compiled schema; never fetched.
const checklistSchemaURL = "https://spt-forge.schemas.local/requirement-checklist.schema.json"

// checklistSchema mirrors the output format the generation prompt demands.
// Enumerations here must stay in lockstep with the enum types in types.go
// and with the prompt text in the engine package.
const checklistSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["checklistMetadata", "policyIntent", "requirements", "resolutionGuidance"],
  "properties": {
    "checklistMetadata": {
      "type": "object",
      "required": ["status", "totalRequirements", "resolvedRequirements", "ambiguityLevel"],
      "properties": {
        "version": {"type": "string"},
        "status": {"enum": ["INCOMPLETE", "AMBIGUOUS", "COMPLETE"]},
        "totalRequirements": {"type": "integer", "minimum": 0},
        "resolvedRequirements": {"type": "integer", "minimum": 0},
        "ambiguityLevel": {"enum": ["HIGH", "MEDIUM", "LOW", "NONE"]},
        "validationErrors": {"type": "array", "items": {"type": "string"}},
        "validationWarnings": {"type": "array", "items": {"type": "string"}}
      }
    },
    "policyIntent": {
      "type": "object",
      "required": ["originalNL", "parsedIntent", "scope"],
      "properties": {
        "originalNL": {"type": "string"},
        "parsedIntent": {"type": "string"},
        "scope": {"enum": ["SINGLE_RULE", "MULTI_RULE", "POLICY_SET"]}
      }
    },
    "requirements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["ruleId", "status", "effect", "principal", "actions", "resources", "conditions"],
        "properties": {
          "ruleId": {"type": "string"},
          "status": {"enum": ["RESOLVED", "AMBIGUOUS", "INCOMPLETE"]},
          "effect": {
            "type": "object",
            "required": ["value", "confidence"],
            "properties": {
              "value": {"type": "string"},
              "confidence": {"enum": ["EXPLICIT", "INFERRED", "MISSING"]},
              "nlSource": {"type": "string"}
            }
          },
          "principal": {
            "type": "object",
            "required": ["type", "value", "confidence"],
            "properties": {
              "type": {"type": "string"},
              "value": {"type": "string"},
              "confidence": {"enum": ["EXPLICIT", "INFERRED", "AMBIGUOUS", "MISSING"]},
              "ambiguityReason": {"type": "string"},
              "resolutionRequired": {"type": "array", "items": {"type": "string"}},
              "nlSource": {"type": "string"}
            }
          },
          "actions": {
            "type": "object",
            "required": ["service", "operations", "confidence"],
            "properties": {
              "service": {"type": "string"},
              "operations": {"type": "array", "items": {"type": "string"}},
              "pattern": {"type": "string"},
              "confidence": {"enum": ["EXPLICIT", "INFERRED", "AMBIGUOUS", "MISSING"]},
              "ambiguityReason": {"type": "string"},
              "nlSource": {"type": "string"}
            }
          },
          "resources": {
            "type": "object",
            "required": ["type", "values", "confidence"],
            "properties": {
              "type": {"type": "string"},
              "values": {"type": "array", "items": {"type": "string"}},
              "variables": {"type": "array", "items": {"type": "string"}},
              "confidence": {"enum": ["EXPLICIT", "INFERRED", "AMBIGUOUS", "MISSING"]},
              "ambiguityReason": {"type": "string"},
              "resolutionRequired": {"type": "array", "items": {"type": "string"}},
              "nlSource": {"type": "string"}
            }
          },
          "conditions": {
            "type": "object",
            "required": ["present"],
            "properties": {
              "present": {"type": "boolean"},
              "expressions": {"type": "array", "items": {"type": "string"}},
              "nlSource": {"type": "string"}
            }
          }
        }
      }
    },
    "resolutionGuidance": {
      "type": "object",
      "required": ["missingRequired", "ambiguousElements"],
      "properties": {
        "missingRequired": {"type": "array", "items": {"type": "string"}},
        "ambiguousElements": {"type": "array", "items": {"type": "string"}},
        "potentialPolicies": {"type": "integer"},
        "reason": {"type": "string"}
      }
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

// compiledChecklistSchema compiles the embedded schema exactly once.
// A compile failure means the constant above is broken, so it is
// surfaced to callers rather than panicking at init.
func compiledChecklistSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(checklistSchemaURL, strings.NewReader(checklistSchema)); err != nil {
			compileSchemaError = err
			return
		}
		compiledSchema, compileSchemaError = c.Compile(checklistSchemaURL)
	})
	return compiledSchema, compileSchemaError
}
