package stack

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/meshstack/meshstack/template"
	"github.com/pkg/errors"
)

// A Format is a template file format.
type Format string

// Supported template formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(str string) (Format, error) {
	switch Format(str) {
	case JSON, YAML:
		return Format(str), nil
	case "yml":
		return YAML, nil
	}
	return "", errors.Errorf("unsupported format %q, must be json or yaml", str)
}

// Write writes a template in the format.
func (f Format) Write(w io.Writer, tmpl *template.Template) error {
	switch f {
	case JSON:
		return tmpl.WriteJSON(w)
	case YAML:
		return tmpl.WriteYAML(w)
	}
	return errors.Errorf("unsupported format %q", string(f))
}

// An Assembly is the output of synthesizing an app.
type Assembly struct {
	RunID   string
	Created time.Time

	// Stacks in the order they were added to the app.
	Stacks []*Artifact
}

// An Artifact is a synthesized stack.
type Artifact struct {
	Name        string
	Environment Environment
	Template    *template.Template
}

// Stack returns the artifact for a stack, or nil if the assembly does not
// contain the stack.
func (a *Assembly) Stack(name string) *Artifact {
	for _, s := range a.Stacks {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Templates returns the templates keyed by stack name.
func (a *Assembly) Templates() map[string]*template.Template {
	out := make(map[string]*template.Template, len(a.Stacks))
	for _, s := range a.Stacks {
		out[s.Name] = s.Template
	}
	return out
}

// ManifestFile is the name of the manifest written to an assembly directory.
const ManifestFile = "manifest.json"

// A Manifest lists the stacks in an assembly directory.
type Manifest struct {
	Version string          `json:"version"`
	RunID   string          `json:"run_id"`
	Created time.Time       `json:"created"`
	Stacks  []ManifestEntry `json:"stacks"`
}

// A ManifestEntry is a single stack in a manifest.
type ManifestEntry struct {
	Name        string      `json:"name"`
	Environment Environment `json:"environment"`
	Template    string      `json:"template"`
	Resources   int         `json:"resources"`
}

// TemplateFile returns the file name for a stack's template.
func TemplateFile(stack string, format Format) string {
	return stack + ".template." + string(format)
}

// WriteAssembly writes the templates of an assembly to dir, one file per
// stack, and a manifest.json listing them. The directory is created if it
// does not exist.
func WriteAssembly(dir string, asm *Assembly, format Format) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	man := Manifest{
		Version: "1",
		RunID:   asm.RunID,
		Created: asm.Created,
	}
	for _, s := range asm.Stacks {
		name := TemplateFile(s.Name, format)
		if err := writeTemplate(filepath.Join(dir, name), s.Template, format); err != nil {
			return errors.Wrapf(err, "write %s", name)
		}
		man.Stacks = append(man.Stacks, ManifestEntry{
			Name:        s.Name,
			Environment: s.Environment,
			Template:    name,
			Resources:   len(s.Template.Resources),
		})
	}
	b, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}
	if err := ioutil.WriteFile(filepath.Join(dir, ManifestFile), append(b, '\n'), 0644); err != nil {
		return errors.Wrap(err, "write manifest")
	}
	return nil
}

func writeTemplate(filename string, tmpl *template.Template, format Format) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := format.Write(f, tmpl); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadManifest reads the manifest from an assembly directory.
func ReadManifest(dir string) (*Manifest, error) {
	b, err := ioutil.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var man Manifest
	if err := json.Unmarshal(b, &man); err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}
	return &man, nil
}
