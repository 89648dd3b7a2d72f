package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var errInvalidBody = errors.New("invalid request body")

/* ─── JSON schemas ───────────────────────────────────────────────────── */

// profileProperties is shared by the register and patch schemas.
const profileProperties = `{
	"sex":            {"type": "string", "enum": ["male", "female"]},
	"age":            {"type": "integer", "minimum": 0, "maximum": 130},
	"height_cm":      {"type": "number", "exclusiveMinimum": 0, "maximum": 300},
	"weight_kg":      {"type": "number", "exclusiveMinimum": 0, "maximum": 700},
	"activity_level": {"type": "string", "enum": ["inactive", "low_active", "active", "very_active"]},
	"goal":           {"type": "string", "enum": ["muscle_gain", "fat_loss"]}
}`

var registerSchema = mustSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["username", "password", "confirm_password", "profile"],
	"properties": {
		"username":         {"type": "string", "minLength": 3, "maxLength": 64},
		"password":         {"type": "string", "minLength": 4},
		"confirm_password": {"type": "string"},
		"email":            {"type": "string"},
		"profile": {
			"type": "object",
			"required": ["sex", "age", "height_cm", "weight_kg", "activity_level", "goal"],
			"additionalProperties": false,
			"properties": ` + profileProperties + `
		}
	}
}`)

var patchProfileSchema = mustSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"minProperties": 1,
	"additionalProperties": false,
	"properties": ` + profileProperties + `
}`)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON schema: %v", err))
	}
	return s
}

// decodeValidated checks body against schema and, when it passes, decodes it
// into out. The returned error message lists every violation.
func decodeValidated(schema *gojsonschema.Schema, body []byte, out interface{}) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errInvalidBody
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("validation failed: %s", strings.Join(errs, "; "))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errInvalidBody
	}
	return nil
}
