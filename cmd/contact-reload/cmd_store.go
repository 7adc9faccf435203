package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/banshee-data/contact.report/internal/trace"
	"github.com/banshee-data/contact.report/internal/tracedb"
)

var errNoDB = errors.New("--db is required")

func newImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.json...]",
		Short: "Store JSON trajectory files in the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			n := 0
			for _, path := range args {
				trajs, err := readJSONFile(path)
				if err != nil {
					return err
				}
				for _, t := range trajs {
					if err := store.InsertTrajectory(cmd.Context(), t); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
				}
				n += len(trajs)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d trajectories into %s\n", n, g.dbPath)
			return nil
		},
	}
}

func newExportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "export file.json",
		Short: "Write every stored trajectory to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			trajs, err := store.LoadTrajectories(cmd.Context())
			if err != nil {
				return err
			}
			return writeFile(args[0], func(w io.Writer) error { return tracedb.WriteJSON(w, trajs) })
		},
	}
}

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored trajectory IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := g.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := store.TrajectoryIDs(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func readJSONFile(path string) ([]*trace.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	trajs, err := tracedb.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return trajs, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
