package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCommand = &cobra.Command{
	Use:     "list [dir]",
	Aliases: []string{"ls"},
	Short:   "List stacks and resources in deployment order",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signalContext(context.Background())
		if err := runList(ctx, cmd, targetDir(args)); err != nil {
			fatal(err)
		}
	},
}

func init() {
	cmd.AddCommand(listCommand)
}

func runList(ctx context.Context, cmd *cobra.Command, dir string) error {
	ws, err := load(ctx, cmd, dir)
	if err != nil {
		return err
	}
	asm, err := ws.synth(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	for _, a := range asm.Stacks {
		fmt.Printf("Stack %s %s\n", bold(a.Name), faint(a.Environment.String()))
		for _, r := range a.Template.Resources {
			fmt.Printf("  %-40s %-45s %s\n", r.LogicalID, cyan(r.Type), faint(r.Name))
		}
		for _, o := range a.Template.Outputs {
			fmt.Printf("  Output %s %s\n", o.LogicalID, faint(o.Description))
		}
	}
	return nil
}
