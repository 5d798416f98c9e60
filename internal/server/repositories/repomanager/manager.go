package repomanager

import (
	"context"
	"database/sql"

	"github.com/wealflow/wealflow/internal/dbx"
	"github.com/wealflow/wealflow/internal/server/repositories/refreshtokens"
	"github.com/wealflow/wealflow/internal/server/repositories/transactions"
	"github.com/wealflow/wealflow/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or an open
// transaction, so services can group writes with dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Transactions(db dbx.DBTX) transactions.Repository
}
