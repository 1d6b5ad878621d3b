// Package schema validates decoded literal data, such as a module manifest,
// against a set of field types.
//
// Schemas map field names to types. Fields are required unless wrapped with
// Optional:
//
//	manifest := schema.Schema{
//	    "name":    schema.String(),
//	    "version": schema.Optional(schema.Pattern("version", `^\d+(\.\d+)*$`)),
//	    "depends": schema.Optional(schema.Slice(schema.String())),
//	}
//
//	if err := schema.Validate(manifest, data); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        // Handle each field failure
//	    }
//	}
//
// Values are expected in the shapes produced by the literal package: int64
// for integers, float64 for floats and slices (or tuples) for sequences.
package schema
