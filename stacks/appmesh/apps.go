package appmesh

import (
	"sort"

	"github.com/meshstack/meshstack/provider/aws"
	"github.com/meshstack/meshstack/stack"
)

// An AppFunc declares an app for an environment.
type AppFunc func(app *stack.App, env stack.Environment)

// Apps are the apps that can be synthesized, by name.
var Apps = map[string]AppFunc{
	"colors": func(app *stack.App, env stack.Environment) {
		NewColorsStack(app, ColorsStackName, env)
	},
	"vpc": func(app *stack.App, env stack.Environment) {
		NewVpcStack(app, env)
	},
}

// AppNames returns the names of all apps, sorted.
func AppNames() []string {
	names := make([]string, 0, len(Apps))
	for name := range Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewApp returns a new app with all AWS resources registered. The app does
// not have any stacks.
func NewApp() *stack.App {
	return stack.NewApp(aws.NewRegistry())
}
