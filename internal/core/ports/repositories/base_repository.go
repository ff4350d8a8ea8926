package repositories

import (
	"context"
)

// TransactionManager runs work as a single atomic unit against the store.
type TransactionManager interface {
	// WithinTransaction runs fn inside a store transaction. Repository calls made
	// with the context passed to fn join that transaction. If ctx already carries
	// a transaction, fn joins it instead of starting a new one. Any error returned
	// by fn rolls back every write made through that context.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
