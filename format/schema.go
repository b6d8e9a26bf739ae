package format

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tree.schema.json
var treeSchema string

const treeSchemaURL = "schema://tree.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(treeSchemaURL, strings.NewReader(treeSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(treeSchemaURL)
	})
	return schema, schemaErr
}

// ValidateJSON checks a document written by ASTJSONEncoder against the tree
// schema.
func ValidateJSON(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile tree schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode tree document: %w", err)
	}
	if t, _ := dec.Token(); t != nil {
		return fmt.Errorf("decode tree document: invalid character %v after top-level value", t)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("invalid tree document: %w", err)
	}
	return nil
}
