package tokenctl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/cryptox"
	"github.com/dmitrijs2005/tokenprovider/internal/flagx"
	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/auth"
	"github.com/dmitrijs2005/tokenprovider/internal/server/config"
	"github.com/dmitrijs2005/tokenprovider/internal/server/renewal"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
)

const usage = "usage: tokenctl <migrate|purge|validate <token>> [flags]"

var ErrUsage = errors.New(usage)

type App struct {
	config  *config.Config
	out     io.Writer
	logger  logging.Logger
	clock   timex.Clock
	manager repomanager.RepositoryManager
	openDB  func(dsn string) (*sql.DB, error)
}

func NewApp(c *config.Config, out io.Writer, logger logging.Logger) *App {
	clock := timex.SystemClock()
	return &App{
		config:  c,
		out:     out,
		logger:  logger,
		clock:   clock,
		manager: repomanager.NewPostgresRepositoryManager(clock),
		openDB: func(dsn string) (*sql.DB, error) {
			return sql.Open("pgx", dsn)
		},
	}
}

// Run dispatches the first non-flag argument to its command. Flags read by
// config.LoadConfig may appear anywhere and are skipped.
func (a *App) Run(ctx context.Context, args []string) error {
	args = flagx.StripArgs(args, config.Flags())
	if len(args) == 0 {
		return ErrUsage
	}

	switch args[0] {
	case "migrate":
		return a.withDB(ctx, a.migrate)
	case "purge":
		return a.withDB(ctx, a.purge)
	case "validate":
		if len(args) < 2 {
			return ErrUsage
		}
		return a.validate(args[1])
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
}

func (a *App) withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	db, err := a.openDB(a.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()
	return fn(ctx, db)
}

func (a *App) migrate(ctx context.Context, db *sql.DB) error {
	if err := a.manager.RunMigrations(ctx, db); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func (a *App) purge(ctx context.Context, db *sql.DB) error {
	sweeper := renewal.NewSweeper(a.manager.Renewals(db), a.clock, 0, a.logger)
	n, err := sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "purged %d expired renewal records\n", n)
	return nil
}

func (a *App) validate(token string) error {
	secret := []byte(a.config.SecretKey)
	if len(secret) == 0 {
		s, err := GetSecret(a.out)
		if err != nil {
			return err
		}
		defer cryptox.Wipe(s)
		secret = s
	}

	signer := auth.NewSigner(secret, a.config.Issuer, a.config.Audience, a.clock)
	claims, err := signer.Verify(token)
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}

	fmt.Fprintf(a.out, "user:       %s\n", claims.UserID)
	if claims.Email != "" {
		fmt.Fprintf(a.out, "email:      %s\n", claims.Email)
	}
	fmt.Fprintf(a.out, "issued at:  %s\n", claims.IssuedAt.Format(time.RFC3339))
	fmt.Fprintf(a.out, "expires at: %s\n", claims.ExpiresAt.Format(time.RFC3339))
	return nil
}
