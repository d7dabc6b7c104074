// Package stack provides the API for declaring stacks of resources in Go and
// synthesizing them into CloudFormation templates.
//
//   app := stack.NewApp(reg)
//   s := app.NewStack("network", stack.FromEnv())
//   vpc := s.Add("vpc", &aws.EC2VPC{CidrBlock: "10.0.0.0/16"})
//   s.Add("subnet", &aws.EC2Subnet{VpcID: vpc.Ref(), CidrBlock: "10.0.0.0/24"})
//   asm, err := app.Synth(ctx)
package stack

import (
	"context"
	"sync"
	"time"

	"github.com/meshstack/meshstack/resource"
	"github.com/meshstack/meshstack/resource/graph"
	"github.com/meshstack/meshstack/template"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// An App is a collection of stacks.
type App struct {
	Registry *resource.Registry
	Logger   *zap.Logger

	mu     sync.Mutex
	stacks []*Stack
	errs   error
}

// NewApp creates a new app. Resources added to the app's stacks must be
// registered in reg.
func NewApp(reg *resource.Registry) *App {
	if reg == nil {
		reg = &resource.Registry{}
	}
	return &App{Registry: reg}
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// NewStack adds a new stack to the app. Stack names must be unique within
// the app.
func (a *App) NewStack(name string, env Environment, opts ...StackOption) *Stack {
	s := &Stack{
		Name:  name,
		Env:   env,
		app:   a,
		graph: graph.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if name == "" {
		a.errs = multierr.Append(a.errs, errors.New("stack has no name"))
		return s
	}
	if a.stack(name) != nil {
		a.errs = multierr.Append(a.errs, errors.Errorf("stack %q already defined", name))
		return s
	}
	a.stacks = append(a.stacks, s)
	return s
}

// NewStackFromGraph adds a stack whose resources have already been declared
// in a graph, such as a graph decoded from stack files.
func (a *App) NewStackFromGraph(name string, env Environment, g *graph.Graph, opts ...StackOption) *Stack {
	s := a.NewStack(name, env, opts...)
	s.graph = g
	return s
}

// Stack returns the stack with the given name, or nil if the app does not
// have such a stack.
func (a *App) Stack(name string) *Stack {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stack(name)
}

func (a *App) stack(name string) *Stack {
	for _, s := range a.stacks {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Stacks returns the stacks in the order they were added.
func (a *App) Stacks() []*Stack {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*Stack, len(a.stacks))
	copy(out, a.stacks)
	return out
}

// Synth synthesizes all stacks in the app concurrently.
//
// Errors from all stacks are collected and returned together. The context
// only cancels stacks that have not been synthesized yet.
func (a *App) Synth(ctx context.Context) (*Assembly, error) {
	runID := ksuid.New().String()
	logger := a.logger().With(zap.String("run", runID))

	a.mu.Lock()
	if a.errs != nil {
		a.mu.Unlock()
		return nil, a.errs
	}
	stacks := make([]*Stack, len(a.stacks))
	copy(stacks, a.stacks)
	a.mu.Unlock()

	logger.Info("Synthesize app", zap.Int("stacks", len(stacks)))

	templates := make([]*template.Template, len(stacks))
	errs := make([]error, len(stacks))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range stacks {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			tmpl, err := s.Synth()
			if err != nil {
				errs[i] = errors.Wrapf(err, "stack %q", s.Name)
				logger.Debug("Stack failed", zap.String("stack", s.Name), zap.Error(err))
				return nil
			}
			templates[i] = tmpl
			logger.Debug("Stack synthesized",
				zap.String("stack", s.Name),
				zap.Int("resources", len(tmpl.Resources)),
				zap.Duration("dur", time.Since(start)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}

	asm := &Assembly{
		RunID:   runID,
		Created: time.Now().UTC(),
	}
	for i, s := range stacks {
		asm.Stacks = append(asm.Stacks, &Artifact{
			Name:        s.Name,
			Environment: s.Env,
			Template:    templates[i],
		})
	}
	return asm, nil
}
