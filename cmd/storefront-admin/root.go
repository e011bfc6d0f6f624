package main

import (
	"io"
	"log/slog"
	"storefront/config"
	"storefront/config/setup"
	"storefront/database"
	"storefront/services"
	"storefront/session"

	"github.com/spf13/cobra"
)

// env is the opened database and services shared by the commands
type env struct {
	db   *database.DB
	repo *database.Repository
	auth *services.AuthService
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
}

type rootOptions struct {
	dbPath  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront-admin",
		Short: "Administrative tasks for the storefront database",
		Long: `storefront-admin seeds and maintains the storefront database.

It reads the same environment (and .env file) as the server, so DB_PATH
points both at the same SQLite file unless --db is given.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to the SQLite database (defaults to DB_PATH)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log database initialization")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newCreateSuperAdminCmd(opts),
		newResetPasswordCmd(opts),
		newListUsersCmd(opts),
	)

	return cmd
}

// open loads config, opens and migrates the database
func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	dbPath := o.dbPath
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if o.verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	}

	db, err := setup.InitDatabase(dbPath, logger)
	if err != nil {
		return nil, err
	}

	repo := database.NewRepository(db)
	sessions := session.NewStore(db.DB, cfg.SessionTTL)

	return &env{
		db:   db,
		repo: repo,
		auth: services.NewAuthService(repo, sessions, cfg.GoogleClientID),
	}, nil
}
