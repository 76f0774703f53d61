package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"edugen-be/internal/entity"
	"edugen-be/internal/repository/contract"
	"edugen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository struct {
	store *Store

	mu                 sync.Mutex
	passwordTokens     map[uuid.UUID]*entity.PasswordResetToken
	verificationTokens map[uuid.UUID]*entity.EmailVerificationToken
	refreshTokens      map[string]*entity.UserRefreshToken
	providers          []*entity.UserProvider
}

func NewUserRepository(store *Store) contract.UserRepository {
	return &UserRepository{
		store:              store,
		passwordTokens:     make(map[uuid.UUID]*entity.PasswordResetToken),
		verificationTokens: make(map[uuid.UUID]*entity.EmailVerificationToken),
		refreshTokens:      make(map[string]*entity.UserRefreshToken),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	r.store.Users[cp.Id] = &cp
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.Users[user.Id]; !ok {
		return fmt.Errorf("user %s not found", user.Id)
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.store.Users[cp.Id] = &cp
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.Users, id)
	return nil
}

func (r *UserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	users, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (r *UserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.User
	for _, u := range r.store.Users {
		ok := true
		for _, spec := range specs {
			if !matchUser(spec, u) {
				ok = false
				break
			}
		}
		if ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

func (r *UserRepository) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	cp := *token
	r.passwordTokens[cp.Id] = &cp
	return nil
}

func (r *UserRepository) FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.passwordTokens {
		ok := true
		for _, spec := range specs {
			if byToken, isToken := spec.(specification.ByToken); isToken {
				if t.Token != byToken.Token {
					ok = false
				}
				continue
			}
			if !ok {
				break
			}
		}
		if ok {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) MarkTokenUsed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.passwordTokens[id]; ok {
		t.Used = true
	}
	return nil
}

func (r *UserRepository) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	cp := *token
	r.verificationTokens[cp.Id] = &cp
	return nil
}

func (r *UserRepository) FindEmailVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.verificationTokens {
		match := true
		for _, spec := range specs {
			if byToken, isToken := spec.(specification.ByToken); isToken && t.Token != byToken.Token {
				match = false
				break
			}
		}
		if match {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) DeleteEmailVerificationToken(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.verificationTokens, id)
	return nil
}

func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	cp := *token
	r.refreshTokens[cp.TokenHash] = &cp
	return nil
}

func (r *UserRepository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.refreshTokens[tokenHash]; ok {
		t.Revoked = true
	}
	return nil
}

func (r *UserRepository) ActivateUser(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.Users[userId]; ok {
		cp := *u
		cp.Status = entity.UserStatusActive
		cp.EmailVerified = true
		now := time.Now()
		cp.EmailVerifiedAt = &now
		r.store.Users[userId] = &cp
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.Users[userId]; ok {
		cp := *u
		cp.AvatarURL = &avatarURL
		r.store.Users[userId] = &cp
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.Users[userId]; ok {
		cp := *u
		cp.PasswordHash = &hash
		r.store.Users[userId] = &cp
	}
	return nil
}

func (r *UserRepository) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *provider
	r.providers = append(r.providers, &cp)
	return nil
}
