// Package config reads remap programs written as YAML documents and compiles
// them against a function registry.
//
// A document lists statements. Each statement is a node, optionally assigned
// to an event path or a variable:
//
//	allow_fallible: true
//	statements:
//	  - target: .timestamp
//	    call: parse_timestamp
//	    args:
//	      value: { path: .ts }
//	      format: { literal: "%d/%m/%Y:%H:%M:%S %z" }
//	  - target: $level
//	    call: upcase
//	    args: [ { path: .level } ]
//
// Node forms: literal, path, var, regex, call (with args as a mapping of
// keyword arguments or a sequence of positional ones), array, map and block.
// A block evaluates its nodes in order and yields the last result.
// Documents are validated against an embedded JSON Schema before decoding.
package config

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/goremap/pkg/types"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema.json"

var (
	schema     *jsonschema.Schema
	schemaErr  error
	schemaOnce sync.Once
)

func programSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Document is a decoded program document.
type Document struct {
	AllowFallible bool        `yaml:"allow_fallible"`
	Statements    []Statement `yaml:"statements"`

	hash string
}

// Statement is one top-level node with an optional assignment target:
// ".path" for an event field or "$name" for a variable.
type Statement struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
	Node   `yaml:",inline"`
}

// Hash returns the hex BLAKE2b-256 digest of the document's canonical CBOR
// encoding. Documents that differ only in formatting, comments or key order
// share a hash.
func (d *Document) Hash() string {
	return d.hash
}

// Parse validates and decodes a YAML program document.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, invalid("malformed YAML", err)
	}

	var raw interface{}
	if err := root.Decode(&raw); err != nil {
		return nil, invalid("malformed YAML", err)
	}
	generic, err := normalize(raw)
	if err != nil {
		return nil, invalid("unsupported YAML content", err)
	}

	sch, err := programSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling program schema: %w", err)
	}
	if err := sch.Validate(generic); err != nil {
		return nil, invalid("document does not match the program schema", err)
	}

	var doc Document
	if err := root.Decode(&doc); err != nil {
		return nil, invalid("decoding document", err)
	}

	hash, err := canonicalHash(&root)
	if err != nil {
		return nil, fmt.Errorf("hashing document: %w", err)
	}
	doc.hash = hash
	return &doc, nil
}

// ParseFile reads and parses the document at name.
func ParseFile(name string) (*Document, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

func invalid(msg string, cause error) error {
	return types.NewError(types.ErrInvalidDocument, msg).WithCause(cause)
}

// normalize turns decoded YAML into the plain JSON data model the schema
// validator and the hash expect.
func normalize(raw interface{}) (interface{}, error) {
	data, err := json.Marshal(jsonCompatible(raw))
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonCompatible(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = jsonCompatible(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = jsonCompatible(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = jsonCompatible(item)
		}
		return out
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	}
	return v
}

func canonicalHash(root *yaml.Node) (string, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return "", err
	}
	data, err := em.Marshal(canonicalNode(root))
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalNode reduces a YAML tree to plain data that keeps each scalar's
// resolved tag, so `1`, `"1"` and `1.0` hash differently while comments,
// layout and key order do not matter.
func canonicalNode(n *yaml.Node) interface{} {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return canonicalNode(n.Content[0])
	case yaml.AliasNode:
		return canonicalNode(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = canonicalNode(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		out := make([]interface{}, len(n.Content))
		for i, item := range n.Content {
			out[i] = canonicalNode(item)
		}
		return out
	case yaml.ScalarNode:
		return []string{n.ShortTag(), n.Value}
	}
	return nil
}
