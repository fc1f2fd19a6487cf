package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/pipeline.schema.json
var embeddedSchema []byte

const schemaURL = "https://tabprep.local/schemas/pipeline/v1.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaInitErr  error
)

// ErrInvalid is returned for a configuration that fails validation.
var ErrInvalid = errors.New("invalid pipeline configuration")

func getCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(embeddedSchema))
		if err != nil {
			schemaInitErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			schemaInitErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaInitErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaInitErr
}

// ValidateDocument checks a decoded YAML or JSON document against the
// embedded pipeline schema.
func ValidateDocument(doc map[string]any) error {
	schema, err := getCompiledSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so YAML scalar types become JSON numbers.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
