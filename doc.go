// Package formadapt normalizes schema-validation libraries into a single
// Adapter shape for form handling.
//
// An Adapter carries the library handle, a JSON Schema describing the
// validated output, and optionally pre-computed defaults and input
// constraints. MapAdapter enriches it once per adapter identity:
//
//   - Defaults: an instance matching the schema, reused when supplied
//   - Constraints: HTML input constraints per field path, reused when supplied
//   - Objects: which fields are nested objects or arrays, always derived
//
// Library-specific constructors live in subpackages (playground, kaptinlin,
// santhosh); the analyzers live in jsonschema and the CLI under
// cmd/formadapt.
//
// Typical usage:
//
//	a, err := kaptinlin.Adapter(schema)
//	m, err := formadapt.MapAdapter(a)
//	form := m.Defaults
package formadapt
