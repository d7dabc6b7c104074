package main

import (
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// logger builds a development logger. Only errors are logged unless
// --verbose is set.
func logger(cmd *cobra.Command) *zap.Logger {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		log.Fatalf("Get verbose: %v", err)
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	if verbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := logCfg.Build()
	if err != nil {
		log.Fatalf("Build logger: %v", err)
	}
	return l
}
