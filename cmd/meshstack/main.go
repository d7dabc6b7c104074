package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:           "meshstack",
	Short:         "Compile App Mesh stacks to CloudFormation templates",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	err := cmd.Execute()
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func init() {
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output")
	cmd.PersistentFlags().String("app", "colors", "Built-in app to synthesize")
	cmd.PersistentFlags().Bool("config", false, "Synthesize the project's .hcl stack files instead of a built-in app")
	cmd.PersistentFlags().Bool("lookup", false, "Look up a missing account from the current AWS credentials")
}
