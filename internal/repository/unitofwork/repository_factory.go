package unitofwork

import "context"

// RepositoryFactory hands out request-scoped units of work. Services hold the
// factory rather than a live UnitOfWork so each operation gets a fresh one.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
