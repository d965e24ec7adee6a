package memory

import (
	"context"
	"fmt"

	"github.com/CodeTanzania/emis-feature/internal/repository/contract"
	"github.com/CodeTanzania/emis-feature/internal/repository/unitofwork"
)

// Factory is a unitofwork.RepositoryFactory backed by the in-memory
// repository. Transactions are no-ops; the memory store applies every
// write immediately.
type Factory struct {
	features contract.FeatureRepository
}

func NewFactory() *Factory {
	return &Factory{features: NewFeatureRepository()}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{features: f.features}
}

// Features exposes the shared repository for test assertions.
func (f *Factory) Features() contract.FeatureRepository {
	return f.features
}

type unitOfWork struct {
	features contract.FeatureRepository
	inTx     bool
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.inTx = false
	return nil
}

func (u *unitOfWork) FeatureRepository() contract.FeatureRepository {
	return u.features
}
