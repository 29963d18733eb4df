package unitofwork

import "context"

// RepositoryFactory hands services a fresh unit of work per operation.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
