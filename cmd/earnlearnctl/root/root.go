package root

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/earnlearn/internal/config"
	"github.com/dukerupert/earnlearn/internal/database"
	"github.com/dukerupert/earnlearn/internal/family"
	"github.com/dukerupert/earnlearn/internal/logging"
)

// app is shared state for one command invocation.
type app struct {
	dbPath  string
	verbose bool
	db      *sql.DB
	svc     *family.Service
}

// open connects to the database and applies migrations.
func (a *app) open() error {
	db, err := database.Open(a.dbPath)
	if err != nil {
		return err
	}
	level := "error"
	if a.verbose {
		level = "debug"
	}
	a.db = db
	a.svc = family.NewService(db, logging.New(os.Stderr, level, "text"))
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	defaultPath := "earnlearn.db"
	if cfg, err := config.Load(".env"); err == nil {
		defaultPath = cfg.DBPath
	}

	cmd := &cobra.Command{
		Use:           "earnlearnctl",
		Short:         "Administer an Earn & Learn family database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["db"] == "none" {
				return nil
			}
			return a.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", defaultPath, "SQLite database path")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log service activity")

	cmd.AddCommand(
		newMigrateCmd(a),
		newAddChildCmd(a),
		newAddUserCmd(a),
		newPaydayCmd(a),
		newSpawnCmd(a),
		newLeaderboardCmd(a),
		newVAPIDKeysCmd(),
	)
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
