package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var graphCommand = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Print the resource graph of a stack in Graphviz DOT format",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signalContext(context.Background())
		if err := runGraph(ctx, cmd, targetDir(args)); err != nil {
			fatal(err)
		}
	},
}

func init() {
	graphCommand.Flags().String("stack", "", "Stack to print (default the first stack)")
	cmd.AddCommand(graphCommand)
}

func runGraph(ctx context.Context, cmd *cobra.Command, dir string) error {
	ws, err := load(ctx, cmd, dir)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("stack")
	stacks := ws.app.Stacks()
	if len(stacks) == 0 {
		return errors.New("app has no stacks")
	}
	s := stacks[0]
	if name != "" {
		s = ws.app.Stack(name)
		if s == nil {
			return errors.Errorf("stack %q not found", name)
		}
	}
	if err := s.Err(); err != nil {
		return err
	}

	dot, err := s.Graph().MarshalDOT(s.Name)
	if err != nil {
		return errors.Wrap(err, "marshal graph")
	}
	_, err = os.Stdout.Write(append(dot, '\n'))
	return err
}
