// Package schemas embeds the JSON Schemas used to validate prediction files.
package schemas

import _ "embed"

// PredictionRecordSchemaJSON is the schema every decoded prediction row must satisfy.
//
//go:embed prediction_record.schema.json
var PredictionRecordSchemaJSON string
