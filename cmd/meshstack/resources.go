package main

import (
	"os"
	"reflect"
	"text/template"

	"github.com/meshstack/meshstack/resource"
	"github.com/meshstack/meshstack/resource/schema"
	"github.com/meshstack/meshstack/stacks/appmesh"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var resourcesTemplate = template.Must(template.New("resources").Parse(`{{range .}}{{.Name}}{{if .CloudFormation}} ({{.CloudFormation}}){{end}}
{{- range .Inputs}}
  input  {{.Name}}{{if .Required}} (required){{end}}{{if .Validate}} [{{.Validate}}]{{end}}
{{- end}}
{{- range .Outputs}}
  output {{.Name}}
{{- end}}

{{end}}`))

type typeDoc struct {
	Name           string
	CloudFormation string
	Inputs         []fieldDoc
	Outputs        []fieldDoc
}

type fieldDoc struct {
	Name     string
	Required bool
	Validate string
}

var resourcesCommand = &cobra.Command{
	Use:   "resources [type...]",
	Short: "Document the supported resource types",
	Run: func(cmd *cobra.Command, args []string) {
		reg := appmesh.NewApp().Registry
		docs, err := resourceDocs(reg, args)
		if err != nil {
			fatal(err)
		}
		if err := resourcesTemplate.Execute(os.Stdout, docs); err != nil {
			fatal(err)
		}
	},
}

func init() {
	cmd.AddCommand(resourcesCommand)
}

// resourceDocs documents the given types, or all registered types if none
// are given.
func resourceDocs(reg *resource.Registry, typenames []string) ([]typeDoc, error) {
	if len(typenames) == 0 {
		typenames = reg.Typenames()
	}
	docs := make([]typeDoc, 0, len(typenames))
	for _, name := range typenames {
		t := reg.Type(name)
		if t == nil {
			return nil, errors.WithStack(resource.NotSupportedError{Type: name, Suggestion: reg.SuggestType(name)})
		}
		doc := typeDoc{Name: name}
		if cfn, ok := reflect.New(t).Interface().(interface{ CloudFormationType() string }); ok {
			doc.CloudFormation = cfn.CloudFormationType()
		}
		fields := schema.Fields(t)
		inputs := fields.Inputs()
		for _, n := range inputs.Names() {
			f := inputs[n]
			doc.Inputs = append(doc.Inputs, fieldDoc{Name: n, Required: f.Required, Validate: f.Tags["validate"]})
		}
		for _, n := range fields.Outputs().Names() {
			doc.Outputs = append(doc.Outputs, fieldDoc{Name: n})
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
