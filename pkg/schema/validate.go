package schema

import (
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Schema is a map of field names to their expected types.
type Schema map[string]Type

// Validate checks if data conforms to the schema. Fields are checked in
// name order and every failure is reported. Keys of data that the schema
// does not mention are accepted.
func Validate(schema Schema, data map[string]any) error {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result *multierror.Error
	for _, key := range keys {
		fieldType := schema[key]
		value, exists := data[key]
		if !exists {
			if _, optional := fieldType.(*OptionalType); !optional {
				result = multierror.Append(result, &ValidationError{Key: key, Reason: "required"})
			}
			continue
		}
		if err := fieldType.Validate(value); err != nil {
			result = multierror.Append(result, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}
	return result.ErrorOrNil()
}
