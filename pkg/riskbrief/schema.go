package riskbrief

import "encoding/json"

// Schema is the strict JSON schema sent with schema-aware providers.
var Schema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "summary": {"type": "string"},
    "disclaimer": {"type": "string"},
    "threat_level": {"type": "string", "enum": ["LOW", "MODERATE", "ELEVATED", "HIGH"]},
    "primary_risk_drivers": {"type": "array", "items": {"type": "string"}},
    "planning_confidence": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
    "confidence_rationale": {"type": "string"},
    "vulnerabilities": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {"title": {"type": "string"}, "note": {"type": "string"}},
        "required": ["title", "note"]
      }
    },
    "recommended_mitigations": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {"title": {"type": "string"}, "steps": {"type": "string"}},
        "required": ["title", "steps"]
      }
    },
    "go_no_go": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "go_if": {"type": "array", "items": {"type": "string"}},
        "no_go_if": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["go_if", "no_go_if"]
    },
    "day_of_operator_focus": {"type": "array", "items": {"type": "string"}},
    "missing_info_questions": {"type": "array", "items": {"type": "string"}}
  },
  "required": [
    "summary", "disclaimer", "threat_level", "primary_risk_drivers",
    "planning_confidence", "confidence_rationale", "vulnerabilities",
    "recommended_mitigations", "go_no_go", "day_of_operator_focus",
    "missing_info_questions"
  ]
}`)
