package hookcfg

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var embeddedSchemaContent []byte

const (
	schemaResourceNameConstant            = "hookcfg.schema.json"
	schemaParseErrorTemplateConstant      = "failed to parse embedded schema: %w"
	schemaResourceErrorTemplateConstant   = "failed to register schema resource: %w"
	schemaCompileErrorTemplateConstant    = "failed to compile embedded schema: %w"
	schemaDocumentErrorTemplateConstant   = "failed to decode declaration for schema validation: %w"
	schemaValidationErrorTemplateConstant = "declaration does not match the expected structure: %w"
	schemaConversionErrorTemplateConstant = "failed to convert declaration to JSON: %w"
)

// SchemaValidator validates serialized declarations against the embedded JSON Schema.
type SchemaValidator struct {
	compiledSchema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded declaration schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	schemaDocument, parseError := jsonschema.UnmarshalJSON(bytes.NewReader(embeddedSchemaContent))
	if parseError != nil {
		return nil, fmt.Errorf(schemaParseErrorTemplateConstant, parseError)
	}

	compiler := jsonschema.NewCompiler()
	if resourceError := compiler.AddResource(schemaResourceNameConstant, schemaDocument); resourceError != nil {
		return nil, fmt.Errorf(schemaResourceErrorTemplateConstant, resourceError)
	}

	compiledSchema, compileError := compiler.Compile(schemaResourceNameConstant)
	if compileError != nil {
		return nil, fmt.Errorf(schemaCompileErrorTemplateConstant, compileError)
	}

	return &SchemaValidator{compiledSchema: compiledSchema}, nil
}

// ValidateContent checks the raw serialized declaration against the schema.
//
// The declaration is decoded generically and re-encoded through JSON so the
// schema library receives the value types it expects.
func (validator *SchemaValidator) ValidateContent(documentContent []byte) error {
	var genericDocument any
	if unmarshalError := yaml.Unmarshal(documentContent, &genericDocument); unmarshalError != nil {
		return fmt.Errorf(schemaDocumentErrorTemplateConstant, unmarshalError)
	}

	jsonContent, marshalError := json.Marshal(genericDocument)
	if marshalError != nil {
		return fmt.Errorf(schemaConversionErrorTemplateConstant, marshalError)
	}

	jsonDocument, decodeError := jsonschema.UnmarshalJSON(bytes.NewReader(jsonContent))
	if decodeError != nil {
		return fmt.Errorf(schemaDocumentErrorTemplateConstant, decodeError)
	}

	if validationError := validator.compiledSchema.Validate(jsonDocument); validationError != nil {
		return fmt.Errorf(schemaValidationErrorTemplateConstant, validationError)
	}

	return nil
}
