package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/meshstack/meshstack/config"
	"github.com/meshstack/meshstack/stack"
	"github.com/meshstack/meshstack/storage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var synthCommand = &cobra.Command{
	Use:   "synth [dir]",
	Short: "Synthesize CloudFormation templates",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signalContext(context.Background())
		if err := runSynth(ctx, cmd, targetDir(args)); err != nil {
			fatal(err)
		}
	},
}

func init() {
	synthCommand.Flags().StringP("out", "o", "", "Output directory (default from project, or "+config.DefaultOutputDir+")")
	synthCommand.Flags().StringP("format", "f", "", "Template format, json or yaml (default from project, or json)")
	synthCommand.Flags().Bool("no-record", false, "Do not record snapshots of the synthesized stacks")
	addStateFlag(synthCommand)

	cmd.AddCommand(synthCommand)
}

func runSynth(ctx context.Context, cmd *cobra.Command, dir string) error {
	ws, err := load(ctx, cmd, dir)
	if err != nil {
		return err
	}
	asm, err := ws.synth(ctx)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	out, _ := flags.GetString("out")
	formatName, _ := flags.GetString("format")
	noRecord, _ := flags.GetBool("no-record")

	if out == "" {
		out = config.DefaultOutputDir
		if ws.project != nil {
			out = ws.project.Output()
		}
	}
	if formatName == "" && ws.project != nil {
		formatName = ws.project.Format
	}
	format := stack.JSON
	if formatName != "" {
		format, err = stack.ParseFormat(formatName)
		if err != nil {
			return err
		}
	}

	if err := stack.WriteAssembly(out, asm, format); err != nil {
		return errors.Wrap(err, "write assembly")
	}
	ws.logger.Debug("Wrote assembly", zap.String("dir", out), zap.String("run", asm.RunID))

	green := color.New(color.FgGreen).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for _, a := range asm.Stacks {
		file := filepath.Join(out, stack.TemplateFile(a.Name, format))
		fmt.Printf("%s %s %s %s\n",
			green("✓"), a.Name,
			faint(fmt.Sprintf("(%d resources)", len(a.Template.Resources))),
			file,
		)
	}

	if noRecord {
		return nil
	}
	return record(ctx, cmd, ws.name, asm)
}

// record stores snapshots of all stacks in the assembly.
func record(ctx context.Context, cmd *cobra.Command, project string, asm *stack.Assembly) (err error) {
	snaps, done, err := openState(cmd)
	if err != nil {
		return err
	}
	defer closeState(&err, done)

	for _, a := range asm.Stacks {
		snap, err := storage.NewSnapshot(project, a.Name, asm.RunID, asm.Created, a.Template)
		if err != nil {
			return errors.Wrapf(err, "snapshot %s", a.Name)
		}
		if err := snaps.Put(ctx, snap); err != nil {
			return errors.Wrapf(err, "record %s", a.Name)
		}
	}
	return nil
}
