// Package jsonschema generates JSON Schema documents from Go types, such as
// the simulator's scenario file format.
package jsonschema
