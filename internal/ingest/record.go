package ingest

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/relbench/relbench/internal/models"
)

// toRecord decodes a schema-valid row. Input is weakly typed so a numeric
// user id becomes a string and an integral float seed becomes an int.
func toRecord(row map[string]any) (models.PredictionRecord, error) {
	var rec models.PredictionRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
		DecodeHook:       unwrapSingleton,
	})
	if err != nil {
		return rec, err
	}
	if err := dec.Decode(row); err != nil {
		return rec, fmt.Errorf("decoding record: %w", err)
	}
	return rec, nil
}

// unwrapSingleton turns a one-element list into its element when the target
// field is a scalar.
func unwrapSingleton(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Slice || to.Kind() == reflect.Slice {
		return data, nil
	}
	v := reflect.ValueOf(data)
	if v.Len() != 1 {
		return data, nil
	}
	return v.Index(0).Interface(), nil
}
