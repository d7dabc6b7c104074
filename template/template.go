// Package template compiles resource graphs into AWS CloudFormation
// templates.
package template

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/meshstack/meshstack/resource/hash"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the CloudFormation template format version of emitted
// templates.
const FormatVersion = "2010-09-09"

// A Template is a compiled CloudFormation template.
type Template struct {
	Description string

	// Resources in deployment order.
	Resources []*Resource

	// Outputs sorted by name.
	Outputs []*Output
}

// A Resource is a single resource in a template.
type Resource struct {
	// Name is the name of the resource in the graph.
	Name string

	LogicalID  string
	Type       string
	Properties map[string]interface{}

	// DependsOn contains the logical IDs of explicitly declared dependencies.
	DependsOn []string

	Metadata map[string]interface{}
}

// An Output is a stack output.
type Output struct {
	LogicalID   string
	Description string
	Value       interface{}
}

// Resource returns the resource with the given graph name. Returns nil if the
// template does not contain such a resource.
func (t *Template) Resource(name string) *Resource {
	for _, r := range t.Resources {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Digests returns a digest for every resource in the template, keyed by
// resource name. The digest of a resource changes if its type or properties
// change.
func (t *Template) Digests() map[string]string {
	out := make(map[string]string, len(t.Resources))
	for _, r := range t.Resources {
		out[r.Name] = hash.Compute(r.Type, r.Properties)
	}
	return out
}

func (t *Template) document() orderedMap {
	doc := orderedMap{}
	doc.set("AWSTemplateFormatVersion", FormatVersion)
	if t.Description != "" {
		doc.set("Description", t.Description)
	}
	resources := make(orderedMap, 0, len(t.Resources))
	for _, r := range t.Resources {
		body := orderedMap{}
		body.set("Type", r.Type)
		if len(r.Properties) > 0 {
			body.set("Properties", r.Properties)
		}
		if len(r.DependsOn) > 0 {
			body.set("DependsOn", r.DependsOn)
		}
		if len(r.Metadata) > 0 {
			body.set("Metadata", r.Metadata)
		}
		resources.set(r.LogicalID, body)
	}
	doc.set("Resources", resources)
	if len(t.Outputs) > 0 {
		outputs := make(orderedMap, 0, len(t.Outputs))
		for _, o := range t.Outputs {
			body := orderedMap{}
			if o.Description != "" {
				body.set("Description", o.Description)
			}
			body.set("Value", o.Value)
			outputs.set(o.LogicalID, body)
		}
		doc.set("Outputs", outputs)
	}
	return doc
}

// MarshalJSON marshals the template to compact JSON.
func (t *Template) MarshalJSON() ([]byte, error) {
	return marshal(t.document())
}

// WriteJSON writes the template as indented JSON. Resources are written in
// deployment order.
func (t *Template) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(t.document()), "encode json")
}

// WriteYAML writes the template as YAML. Resources are written in deployment
// order.
func (t *Template) WriteYAML(w io.Writer) error {
	b, err := marshal(t.document())
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	// JSON is valid YAML. Decoding it into a node keeps the key order.
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(b)).Decode(&doc); err != nil {
		return errors.Wrap(err, "decode yaml node")
	}
	plain(&doc)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return errors.Wrap(enc.Close(), "close yaml encoder")
}

// plain resets the style of all nodes, so that flow style JSON mappings and
// quoted strings are written in block style.
func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}
