// Package types defines the core type system for goremap.
//
// This package contains type definitions for:
//   - Value: the runtime value model (Bytes, Integer, Float, Boolean,
//     Timestamp, Regex, Null, Map, Array)
//   - Kind: bit sets of value variants used by the static checker
//   - TypeDef: the static kind and fallibility of an expression
//   - Object: the path-addressable event an expression runs against
//   - Error: structured errors with codes
package types
