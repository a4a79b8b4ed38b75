package viva

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/saulo-duarte/viva-lambda/internal/llm"
)

var QuestionSetSchema = mustReflectSchema[QuestionSet](
	"viva-questions",
	"A list of viva questions generated from the study material",
)

// reflectSchema derives the JSON Schema of T so the schema sent to the model
// and the type we decode into cannot drift apart.
func reflectSchema[T any](name, description string) (*llm.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", name, err)
	}

	var def map[string]any
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode %s schema: %w", name, err)
	}
	// providers reject meta keywords in inline schemas
	delete(def, "$schema")
	delete(def, "$id")

	return &llm.Schema{Name: name, Description: description, Definition: def}, nil
}

func mustReflectSchema[T any](name, description string) *llm.Schema {
	s, err := reflectSchema[T](name, description)
	if err != nil {
		panic(err)
	}
	return s
}
