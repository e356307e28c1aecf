// Where: internal/dkletfile/validate.go
// What: JSON schema validation for application files.
// Why: Reject typos and malformed hook steps before anything is registered.
package dkletfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

const schemaURL = "https://dklet.dev/schema/dkletfile.schema.json"

//go:embed schema/dkletfile.schema.json
var schemaSource []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// Validate checks YAML content against the application file schema.
func Validate(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := yaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	// an empty file is an empty profile
	if document == nil {
		document = map[string]any{}
	}
	return sch.Validate(document)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
