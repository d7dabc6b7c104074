package main

import (
	"context"
	"os"
	"strings"

	"github.com/meshstack/meshstack/config"
	"github.com/meshstack/meshstack/provider/aws"
	"github.com/meshstack/meshstack/resource/graph/hcldecoder"
	"github.com/meshstack/meshstack/stack"
	"github.com/meshstack/meshstack/stacks/appmesh"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// A workspace is an app ready to be synthesized.
type workspace struct {
	app     *stack.App
	name    string
	project *config.Project
	logger  *zap.Logger
}

func (w *workspace) synth(ctx context.Context) (*stack.Assembly, error) {
	asm, err := w.app.Synth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "synthesize")
	}
	return asm, nil
}

// load loads the app in dir. The project in dir is optional unless the
// stacks are loaded from config files.
func load(ctx context.Context, cmd *cobra.Command, dir string) (*workspace, error) {
	logger := logger(cmd)
	flags := cmd.Flags()
	lookup, _ := flags.GetBool("lookup")
	fromConfig, _ := flags.GetBool("config")
	appName, _ := flags.GetString("app")

	project, err := config.FindProject(dir)
	if err != nil {
		return nil, errors.Wrap(err, "find project")
	}

	env, err := aws.ResolveEnvironment(ctx, stack.FromEnv(), aws.ResolveOptions{
		LookupAccount: lookup,
		Logger:        logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "resolve environment")
	}
	logger.Debug("Environment", zap.Stringer("env", env))

	app := appmesh.NewApp()
	app.Logger = logger
	ws := &workspace{app: app, name: appName, project: project, logger: logger}
	if project != nil {
		ws.name = project.Name
	}

	if !fromConfig {
		fn, ok := appmesh.Apps[appName]
		if !ok {
			return nil, errors.Errorf("unknown app %q, available apps: %s", appName, strings.Join(appmesh.AppNames(), ", "))
		}
		fn(app, env)
		return ws, nil
	}

	if project == nil {
		return nil, errors.Errorf("no project found in %s, create one with meshstack project new", dir)
	}
	loader := &config.Loader{}
	body, diags := loader.Load(project.RootDir)
	if diags.HasErrors() {
		loader.WriteDiagnostics(os.Stderr, diags)
		return nil, errors.New("could not load stack files")
	}
	logger.Debug("Loaded stack files", zap.Strings("files", loader.Files()))

	dec := &hcldecoder.Decoder{Resources: app.Registry}
	stacks, diags := dec.DecodeBody(body)
	if diags.HasErrors() {
		loader.WriteDiagnostics(os.Stderr, diags)
		return nil, errors.New("could not decode stack files")
	}
	if len(stacks) == 0 {
		return nil, errors.Errorf("project %s does not declare any stacks", project.Name)
	}
	for _, s := range stacks {
		app.NewStackFromGraph(s.Name, env, s.Graph, stack.WithDescription(s.Description))
	}
	return ws, nil
}

func targetDir(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
