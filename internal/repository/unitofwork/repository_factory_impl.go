package unitofwork

import (
	"context"

	"gorm.io/gorm"
)

type gormRepositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &gormRepositoryFactory{db: db}
}

func (f *gormRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	// A unit of work lives for one request. Transactions start only when the
	// caller invokes Begin; until then repositories run on the shared handle.
	return NewUnitOfWork(f.db)
}
