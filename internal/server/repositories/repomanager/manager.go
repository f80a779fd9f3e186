package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tokenprovider/internal/dbx"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/renewals"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Renewals(db dbx.DBTX) renewals.Repository
}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)

// clockOrSystem returns c, or the system clock when c is nil.
func clockOrSystem(c timex.Clock) timex.Clock {
	if c == nil {
		return timex.SystemClock()
	}
	return c
}
