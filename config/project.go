package config

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Dir is the directory that marks a project root.
const Dir = ".meshstack"

// DefaultOutputDir is where synthesized templates are written unless the
// project sets an output directory. Relative to the project root.
const DefaultOutputDir = "meshstack.out"

// A Project is a directory tree holding a .meshstack/project file.
type Project struct {
	// RootDir is the absolute path of the directory holding Dir.
	RootDir string `json:"-"`

	// Name scopes the project's snapshots in the state store.
	Name string `json:"name"`

	// OutputDir is the template directory, absolute or relative to RootDir.
	OutputDir string `json:"output_dir,omitempty"`

	// Format is json or yaml. Empty means json.
	Format string `json:"format,omitempty"`
}

func projectFile(root string) string {
	return filepath.Join(root, Dir, "project")
}

// FindProject returns the project dir belongs to, looking in dir and then in
// each of its parents. A nil project and error mean dir is not in a project.
func FindProject(dir string) (*Project, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "absolute path")
	}
	for {
		data, err := ioutil.ReadFile(projectFile(abs))
		switch {
		case err == nil:
			return readProject(abs, data)
		case !os.IsNotExist(err):
			return nil, errors.Wrap(err, "read project")
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return nil, nil
		}
		abs = parent
	}
}

func readProject(root string, data []byte) (*Project, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	p := &Project{RootDir: root}
	if err := dec.Decode(p); err != nil {
		return nil, errors.Wrap(err, "parse project")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the project settings.
func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.New("project name is empty")
	}
	switch p.Format {
	case "", "json", "yaml":
		return nil
	}
	return errors.Errorf("unsupported template format %q", p.Format)
}

// Output returns the absolute path of the template directory.
func (p *Project) Output() string {
	switch {
	case p.OutputDir == "":
		return filepath.Join(p.RootDir, DefaultOutputDir)
	case filepath.IsAbs(p.OutputDir):
		return p.OutputDir
	}
	return filepath.Join(p.RootDir, p.OutputDir)
}

// Write saves the project file, creating Dir if needed.
func (p *Project) Write() error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal project")
	}
	if err := os.MkdirAll(filepath.Join(p.RootDir, Dir), 0755); err != nil {
		return errors.Wrap(err, "create project dir")
	}
	return errors.Wrap(ioutil.WriteFile(projectFile(p.RootDir), append(data, '\n'), 0644), "write project")
}
