package inquiry

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMissingFields is returned when a payload fails its schema.
var ErrMissingFields = errors.New("missing required fields")

const (
	schemaContact = "contact"
	schemaBooking = "booking"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var compiledSchemas = mustCompileSchemas()

func mustCompileSchemas() map[string]*jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	compiler.AssertFormat = true

	paths, err := fs.Glob(schemaFiles, "schemas/*.json")
	if err != nil {
		panic(fmt.Sprintf("failed to list inquiry schemas: %v", err))
	}
	for _, path := range paths {
		file, err := schemaFiles.Open(path)
		if err != nil {
			panic(fmt.Sprintf("failed to open schema %s: %v", path, err))
		}
		err = compiler.AddResource(path, file)
		file.Close()
		if err != nil {
			panic(fmt.Sprintf("failed to add schema resource %s: %v", path, err))
		}
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			panic(fmt.Sprintf("failed to compile schema %s: %v", path, err))
		}
		key := strings.TrimSuffix(strings.TrimPrefix(path, "schemas/"), ".json")
		compiled[key] = schema
	}
	return compiled
}

// validatePayload checks body against the named schema and decodes it into out.
func validatePayload(name string, body []byte, out interface{}) error {
	schema, ok := compiledSchemas[name]
	if !ok {
		return fmt.Errorf("schema %q not found", name)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: body is not valid JSON: %v", ErrMissingFields, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	return nil
}
