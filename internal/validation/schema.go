// Package validation checks decoded prediction rows against the embedded
// prediction record schema.
package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/relbench/relbench/internal/models"
	"github.com/relbench/relbench/schemas"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// recordSchema is the compiled JSON Schema for a single prediction row.
var recordSchema *jsonschema.Schema

func init() {
	recordSchema = mustCompileSchema(schemas.PredictionRecordSchemaJSON, "prediction_record.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// CheckColumns returns a file-wide SchemaError when any required column is
// absent from a tabular file's header.
func CheckColumns(file string, columns []string) error {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	var problems []string
	for _, c := range models.RequiredColumns {
		if !have[c] {
			problems = append(problems, fmt.Sprintf("missing column %q", c))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &models.SchemaError{File: file, Problems: problems}
}

// ValidateRecord validates one decoded row and returns a message per violation.
func ValidateRecord(row map[string]any) []string {
	return validateAgainstSchema(recordSchema, convertToJSONCompatible(row))
}

// ValidateRows validates every row of a file, failing on the first invalid
// row. Row numbers in the returned SchemaError are 1-based.
func ValidateRows(file string, rows []map[string]any) error {
	for i, row := range rows {
		if errs := ValidateRecord(row); len(errs) > 0 {
			return &models.SchemaError{File: file, Row: i + 1, Problems: errs}
		}
	}
	return nil
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	sort.Strings(errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// convertToJSONCompatible maps decoder-specific scalar types (parquet and CSV
// produce sized integers and float32) onto the types encoding/json would yield.
func convertToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = convertToJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = convertToJSONCompatible(v2)
		}
		return result
	case []float64:
		result := make([]any, len(val))
		for i, f := range val {
			result[i] = f
		}
		return result
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}
