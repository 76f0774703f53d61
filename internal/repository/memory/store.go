package memory

import (
	"sync"

	"edugen-be/internal/entity"

	"github.com/google/uuid"
)

// Store is the shared backing state for the in-memory repositories. A single
// Store is handed to every unit of work produced by the factory so that
// separate uows observe the same data, the way they would against one
// database.
type Store struct {
	mu sync.Mutex

	Folders       map[uuid.UUID]*entity.Folder
	Generations   map[uuid.UUID]*entity.Generation
	Embeddings    map[uuid.UUID]*entity.GenerationEmbedding
	Users         map[uuid.UUID]*entity.User
	Plans         map[uuid.UUID]*entity.SubscriptionPlan
	Subscriptions map[uuid.UUID]*entity.UserSubscription
	Billing       map[uuid.UUID]*entity.BillingAddress

	snapshot *storeSnapshot

	// FailFolderDeleteID, when set, makes FolderRepository.DeleteMany fail if
	// the batch contains this id. Used to exercise rollback paths.
	FailFolderDeleteID *uuid.UUID
	// FailGenerationDelete makes GenerationRepository.DeleteMany fail
	// unconditionally.
	FailGenerationDelete bool
}

type storeSnapshot struct {
	folders       map[uuid.UUID]*entity.Folder
	generations   map[uuid.UUID]*entity.Generation
	embeddings    map[uuid.UUID]*entity.GenerationEmbedding
	users         map[uuid.UUID]*entity.User
	plans         map[uuid.UUID]*entity.SubscriptionPlan
	subscriptions map[uuid.UUID]*entity.UserSubscription
	billing       map[uuid.UUID]*entity.BillingAddress
}

func NewStore() *Store {
	return &Store{
		Folders:       make(map[uuid.UUID]*entity.Folder),
		Generations:   make(map[uuid.UUID]*entity.Generation),
		Embeddings:    make(map[uuid.UUID]*entity.GenerationEmbedding),
		Users:         make(map[uuid.UUID]*entity.User),
		Plans:         make(map[uuid.UUID]*entity.SubscriptionPlan),
		Subscriptions: make(map[uuid.UUID]*entity.UserSubscription),
		Billing:       make(map[uuid.UUID]*entity.BillingAddress),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// takeSnapshot records the current state so a later restore can undo every
// mutation made since. Repositories always store fresh copies of entities, so
// copying the maps is enough.
func (s *Store) takeSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &storeSnapshot{
		folders:       copyMap(s.Folders),
		generations:   copyMap(s.Generations),
		embeddings:    copyMap(s.Embeddings),
		users:         copyMap(s.Users),
		plans:         copyMap(s.Plans),
		subscriptions: copyMap(s.Subscriptions),
		billing:       copyMap(s.Billing),
	}
}

func (s *Store) dropSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}

func (s *Store) restoreSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return
	}
	s.Folders = s.snapshot.folders
	s.Generations = s.snapshot.generations
	s.Embeddings = s.snapshot.embeddings
	s.Users = s.snapshot.users
	s.Plans = s.snapshot.plans
	s.Subscriptions = s.snapshot.subscriptions
	s.Billing = s.snapshot.billing
	s.snapshot = nil
}
