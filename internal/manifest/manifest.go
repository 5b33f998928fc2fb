// Package manifest loads chain definitions for the subq CLI.
//
// A manifest is an ordered list of Solr request URLs plus an optional
// name. Two file formats are supported: CUE (validated against the
// embedded schema) and YAML (strict field checking). The loader only
// establishes the file's shape; URL validation belongs to the core.
package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Manifest is a named, ordered list of Solr request URLs to fold.
type Manifest struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Queries []string `json:"queries" yaml:"queries"`
}

// Load reads a manifest from path, dispatching on the file extension.
// Supported: .cue, .yaml, .yml.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".cue":
		return loadCUE(path, data)
	case ".yaml", ".yml":
		return loadYAML(path, data)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q (want .cue, .yaml, or .yml)", ext)
	}
}

// loadCUE compiles the manifest, unifies it with the embedded schema,
// and decodes the validated value.
func loadCUE(path string, data []byte) (*Manifest, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile manifest: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}

	var m Manifest
	if err := unified.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// loadYAML decodes the manifest strictly: unknown fields are errors.
func loadYAML(path string, data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode manifest %s: file is empty", path)
		}
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if m.Queries == nil {
		return nil, fmt.Errorf("manifest %s has no queries list", path)
	}
	return &m, nil
}
