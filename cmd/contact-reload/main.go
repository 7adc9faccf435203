// Command contact-reload merges stored or imported trajectories into a
// contact recording, prints a summary and optionally renders or plays it.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/banshee-data/contact.report/internal/config"
	"github.com/banshee-data/contact.report/internal/tracedb"
	"github.com/banshee-data/contact.report/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalf("contact-reload: %v", err)
	}
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	dbPath     string
	configPath string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "contact-reload",
		Short:         "Merge trajectories into a proximity graph recording",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "SQLite trajectory database (created and migrated if missing)")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "JSON or YAML tuning file (defaults apply when empty)")

	root.AddCommand(
		newRunCmd(g),
		newImportCmd(g),
		newExportCmd(g),
		newListCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)
	return root
}

// tuning loads the tuning file, if any, and applies CONTACT_* overrides.
func (g *globals) tuning() (*config.TuningConfig, error) {
	tuning := config.EmptyTuningConfig()
	if g.configPath != "" {
		var err error
		if tuning, err = config.LoadTuningConfig(g.configPath); err != nil {
			return nil, err
		}
	}
	if err := tuning.ApplyEnv(); err != nil {
		return nil, err
	}
	return tuning, nil
}

// openStore opens and migrates the database named by --db.
func (g *globals) openStore() (*tracedb.Store, error) {
	if g.dbPath == "" {
		return nil, errNoDB
	}
	store, err := tracedb.Open(g.dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.MigrateUp(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
