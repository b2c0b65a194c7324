// Package descriptor defines the port and parameter descriptors a GAM declares,
// and the validation pass that turns a raw, loosely-typed declaration into a
// typed Descriptor.
//
// A raw descriptor (Raw) is what manifests and Go modules hand over at load
// time. Validate checks it in a fixed order and stops at the first violation:
//
//  1. layout: only known field keys, default_values only on parameters
//  2. container kind: every field except "name" is an ordered sequence
//  3. length consistency: every sequence has the same length N
//  4. element types: every entry denotes a type, not a value
//  5. dimensions: every entry is a (rows, cols) pair of positive integers,
//     classified as SCALAR, VECTOR or MATRIX
//  6. names: every entry is a non-empty string, unique within the descriptor
//  7. defaults (parameters only): nesting and length agree with the shape
//
// Every failure is a *SchemaError whose Kind is one of the Err* sentinels, so
// callers can branch with errors.Is.
package descriptor
