package unitofwork

import (
	"context"

	"edugen-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	FolderRepository() contract.FolderRepository
	GenerationRepository() contract.GenerationRepository
	GenerationEmbeddingRepository() contract.GenerationEmbeddingRepository

	SubscriptionRepository() contract.SubscriptionRepository
	BillingRepository() contract.BillingRepository
}
