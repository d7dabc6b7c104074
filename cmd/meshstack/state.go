package main

import (
	"github.com/meshstack/meshstack/storage"
	"github.com/meshstack/meshstack/storage/kvbackend"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// memoryState selects a state store that is discarded on exit.
const memoryState = ":memory:"

func addStateFlag(c *cobra.Command) {
	c.Flags().String("state", "", "State database file, or "+memoryState+" (default ~/.meshstack/state.db)")
}

// openState opens the snapshot store. The returned function closes it.
func openState(cmd *cobra.Command) (*storage.Snapshots, func() error, error) {
	file, _ := cmd.Flags().GetString("state")
	if file == memoryState {
		return &storage.Snapshots{Backend: &kvbackend.Memory{}}, func() error { return nil }, nil
	}
	if file == "" {
		f, err := kvbackend.DefaultBoltFile()
		if err != nil {
			return nil, nil, err
		}
		file = f
	}
	db, err := kvbackend.OpenBolt(file)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open state")
	}
	return &storage.Snapshots{Backend: db}, db.Close, nil
}

// closeState calls done and adds its error to *err.
func closeState(err *error, done func() error) {
	*err = multierr.Append(*err, errors.Wrap(done(), "close state"))
}
