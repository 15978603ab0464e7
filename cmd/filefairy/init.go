package main

import (
	"fmt"
	"github.com/orangeandblueleague/filefairy/plugins"
	"github.com/orangeandblueleague/filefairy/store"
	"github.com/spf13/cobra"
	"io"
)

// statefulPlugins are the bundled plugins holding a state document
var statefulPlugins = []string{plugins.PollerPluginName}

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the empty state documents of the bundled plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(flags)
			if err != nil {
				return err
			}

			storer, err := newStorer(v)
			if err != nil {
				return err
			}
			defer storer.Close()

			return seedStates(cmd.OutOrStdout(), storer, statefulPlugins)
		},
	}
}

// seedStates writes an empty document for every name that has none. Existing documents are
// left untouched
func seedStates(w io.Writer, storer store.DocumentStorer, names []string) (err error) {
	for _, n := range names {
		_, rerr := storer.Read(n)
		if rerr == nil {
			fmt.Fprintf(w, "State [%s] already exists\n", n)
			continue
		}

		if !store.IsNotFound(rerr) {
			return rerr
		}

		if err = storer.Write(n, store.Document{}); err != nil {
			return err
		}
		fmt.Fprintf(w, "Created state [%s]\n", n)
	}

	return nil
}
