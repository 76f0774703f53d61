package memory

import (
	"context"
	"fmt"

	"edugen-be/internal/repository/contract"
	"edugen-be/internal/repository/unitofwork"
)

// UnitOfWork mirrors the gorm-backed unit of work over an in-memory Store.
// Begin snapshots the store and Rollback restores it, so service code that
// relies on all-or-nothing semantics behaves the same under test.
type UnitOfWork struct {
	store *Store
	inTx  bool
}

func NewUnitOfWork(store *Store) unitofwork.UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.store.takeSnapshot()
	u.inTx = true
	return nil
}

func (u *UnitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.store.dropSnapshot()
	u.inTx = false
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.store.restoreSnapshot()
	u.inTx = false
	return nil
}

func (u *UnitOfWork) UserRepository() contract.UserRepository {
	return NewUserRepository(u.store)
}

func (u *UnitOfWork) FolderRepository() contract.FolderRepository {
	return NewFolderRepository(u.store)
}

func (u *UnitOfWork) GenerationRepository() contract.GenerationRepository {
	return NewGenerationRepository(u.store)
}

func (u *UnitOfWork) GenerationEmbeddingRepository() contract.GenerationEmbeddingRepository {
	return NewGenerationEmbeddingRepository(u.store)
}

func (u *UnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return NewSubscriptionRepository(u.store)
}

func (u *UnitOfWork) BillingRepository() contract.BillingRepository {
	return NewBillingRepository(u.store)
}

// Factory hands every unit of work the same Store.
type Factory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &Factory{store: store}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return NewUnitOfWork(f.store)
}
