package repomanager

import (
	"context"
	"database/sql"

	"github.com/walletscope/walletscope/internal/dbx"
	"github.com/walletscope/walletscope/internal/server/repositories/diarymeta"
	"github.com/walletscope/walletscope/internal/server/repositories/notes"
	"github.com/walletscope/walletscope/internal/server/repositories/users"
	"github.com/walletscope/walletscope/internal/server/repositories/wallets"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	DiaryMeta(db dbx.DBTX) diarymeta.Repository
	Notes(db dbx.DBTX) notes.Repository
	Wallets(db dbx.DBTX) wallets.Repository
}
