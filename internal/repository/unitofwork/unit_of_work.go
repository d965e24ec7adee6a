package unitofwork

import (
	"context"

	"github.com/CodeTanzania/emis-feature/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FeatureRepository() contract.FeatureRepository
}
