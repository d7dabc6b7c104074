package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/meshstack/meshstack/config"
	"github.com/meshstack/meshstack/stack"
	"github.com/spf13/cobra"
)

var projectNewCommand = &cobra.Command{
	Use:   "new [dir]",
	Short: "Create a new project",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := targetDir(args)
		if err := os.MkdirAll(dir, 0755); err != nil {
			fatal(err)
		}
		project, err := config.FindProject(dir)
		if err != nil {
			fatal(err)
		}
		if project != nil {
			fmt.Fprintf(os.Stderr, "Project already found in %s\n", project.RootDir)
			os.Exit(2)
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			fatal(err)
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			faint := color.New(color.Faint).SprintFunc()
			green := color.New(color.FgGreen).SprintFunc()
			cyan := color.New(color.FgCyan).SprintFunc()

			defaultName := filepath.Base(abs)
			reader := bufio.NewReader(os.Stdin)
			fmt.Fprint(os.Stderr, "Set up new project in "+green(abs)+"\n")
			fmt.Fprint(os.Stderr, faint("Cancel with ctrl-c\n\n"))
			fmt.Fprintf(os.Stderr, faint("› ")+"Project name [%s]: ", cyan(defaultName))
			name, _ = reader.ReadString('\n')
			name = strings.TrimSuffix(name, "\n")
			if name == "" {
				name = defaultName
			}
		}

		name = strings.TrimSpace(name)
		if len(name) == 0 {
			fmt.Fprintln(os.Stderr, "Project name must be set")
			os.Exit(1)
		}
		if strings.Contains(name, "/") {
			fmt.Fprintln(os.Stderr, "Project name cannot contain a slash")
			os.Exit(1)
		}

		format, _ := cmd.Flags().GetString("format")
		if format != "" {
			if _, err := stack.ParseFormat(format); err != nil {
				fatal(err)
			}
		}
		out, _ := cmd.Flags().GetString("out")

		project = &config.Project{
			Name:      name,
			RootDir:   abs,
			OutputDir: out,
			Format:    format,
		}
		if err := project.Write(); err != nil {
			fatal(err)
		}
	},
}

func init() {
	projectNewCommand.Flags().String("name", "", "New project name")
	projectNewCommand.Flags().String("out", "", "Output directory, relative to the project")
	projectNewCommand.Flags().String("format", "", "Template format, json or yaml")
	projectCommand.AddCommand(projectNewCommand)
}
