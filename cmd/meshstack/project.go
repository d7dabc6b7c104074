package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/meshstack/meshstack/config"
	"github.com/spf13/cobra"
)

var projectCommand = &cobra.Command{
	Use:   "project [dir]",
	Short: "Show meshstack project",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		project, err := config.FindProject(targetDir(args))
		if err != nil {
			fatal(err)
		}
		if project == nil {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintln(os.Stderr, "Project not found")
			fmt.Fprintf(os.Stderr, "Set up a new project with %s\n", green("meshstack project new"))
			os.Exit(2)
			return
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		fmt.Printf("Name:   %s\n", cyan(project.Name))
		fmt.Printf("Root:   %s\n", faint(project.RootDir))
		fmt.Printf("Output: %s\n", faint(project.Output()))
		if project.Format != "" {
			fmt.Printf("Format: %s\n", project.Format)
		}
	},
}

func init() {
	cmd.AddCommand(projectCommand)
}
