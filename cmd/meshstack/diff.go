package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/meshstack/meshstack/storage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var diffCommand = &cobra.Command{
	Use:   "diff [dir]",
	Short: "Compare stacks with the last recorded synthesis",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signalContext(context.Background())
		if err := runDiff(ctx, cmd, targetDir(args)); err != nil {
			fatal(err)
		}
	},
}

func init() {
	addStateFlag(diffCommand)
	cmd.AddCommand(diffCommand)
}

func runDiff(ctx context.Context, cmd *cobra.Command, dir string) (err error) {
	ws, err := load(ctx, cmd, dir)
	if err != nil {
		return err
	}
	asm, err := ws.synth(ctx)
	if err != nil {
		return err
	}

	snaps, done, err := openState(cmd)
	if err != nil {
		return err
	}
	defer closeState(&err, done)

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	for _, a := range asm.Stacks {
		prev, err := snaps.Get(ctx, ws.name, a.Name)
		if err != nil && !storage.IsNotFound(err) {
			return errors.Wrapf(err, "get snapshot %s", a.Name)
		}
		next, err := storage.NewSnapshot(ws.name, a.Name, asm.RunID, asm.Created, a.Template)
		if err != nil {
			return errors.Wrapf(err, "snapshot %s", a.Name)
		}

		fmt.Printf("Stack %s\n", bold(a.Name))
		if prev == nil {
			fmt.Println(faint("  Not recorded before"))
		}
		changes := storage.Diff(prev, next)
		if changes.Empty() {
			fmt.Println(faint("  No changes"))
			continue
		}
		for _, c := range changes.Added {
			fmt.Printf("  %s %s %s\n", green("+"), c.Name, faint(c.Type))
		}
		for _, c := range changes.Removed {
			fmt.Printf("  %s %s %s\n", red("-"), c.Name, faint(c.Type))
		}
		for _, c := range changes.Changed {
			fmt.Printf("  %s %s %s\n", yellow("~"), c.Name, faint(c.Type))
		}
		fmt.Println(faint(fmt.Sprintf("  %d unchanged", changes.Unchanged)))
	}
	return nil
}
