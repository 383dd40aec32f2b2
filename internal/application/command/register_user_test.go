package command

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/shared"
	"github.com/gradepoint/gradepoint/internal/domain/user"
)

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*user.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return shared.ErrUserAlreadyExists
		}
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *memUserRepo) ListIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestRegisterUserStoresHashNotSecret(t *testing.T) {
	repo := newMemUserRepo()
	h := NewRegisterUserHandler(repo)

	created, err := h.Handle(context.Background(), RegisterUserCommand{
		Email:       "Ada@Example.COM",
		DisplayName: "Ada",
		Secret:      "s3cret",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.NotContains(t, stored.SecretHash, "s3cret")
	assert.True(t, stored.VerifySecret("s3cret"))
}

func TestRegisterUserRejectsDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	h := NewRegisterUserHandler(repo)

	_, err := h.Handle(context.Background(), RegisterUserCommand{Email: "a@b.c", Secret: "x"})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), RegisterUserCommand{Email: "A@B.C", Secret: "y"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestRegisterUserValidation(t *testing.T) {
	repo := newMemUserRepo()
	h := NewRegisterUserHandler(repo)

	_, err := h.Handle(context.Background(), RegisterUserCommand{Email: "", Secret: "x"})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = h.Handle(context.Background(), RegisterUserCommand{Email: "a@b.c", Secret: ""})
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}
