package main

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

// openStore returns the ledger store and a function releasing it. The
// in-memory store keeps nothing across restarts.
func (a *app) openStore(ctx context.Context, inMemory bool) (portsrepo.RepositoryProvider, func(), error) {
	if inMemory {
		a.logger.Warn("Using in-memory ledger store; data is lost on exit")
		return memory.NewStore().Provider(), func() {}, nil
	}

	pool, err := database.NewPgxPool(ctx, a.cfg.DatabaseURL, database.PoolOptions{
		StatementTimeout: a.cfg.PostingTimeout,
		Ping:             a.cfg.EnableDBCheck,
	})
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}
