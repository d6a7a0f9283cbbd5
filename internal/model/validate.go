package model

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaError reports every constraint a document violated. It is fatal to
// the run: nothing downstream sees an invalid document.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Violations, "; "))
}

// ValidateBytes validates raw JSON against the schema file before any
// decoding happens downstream.
func ValidateBytes(schemaPath string, data []byte) error {
	// Use an absolute canonical file:// path for the schema so loaders on
	// all platforms resolve file references correctly.
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return err
	}
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	docLoader := gojsonschema.NewBytesLoader(data)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if res.Valid() {
		return nil
	}
	violations := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		violations = append(violations, e.String())
	}
	return &SchemaError{Violations: violations}
}

// Validate marshals the document and validates it against the schema file.
func Validate(schemaPath string, doc *ResumeDocument) error {
	doc.normalize()
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal for validation: %w", err)
	}
	return ValidateBytes(schemaPath, b)
}
