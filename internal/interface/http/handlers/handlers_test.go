package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/shared"
	"github.com/gradepoint/gradepoint/internal/domain/user"
)

type singleUserRepo struct {
	u *user.User
}

func (r *singleUserRepo) Create(context.Context, *user.User) error { return nil }

func (r *singleUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	if r.u != nil && r.u.ID == id {
		return r.u, nil
	}
	return nil, shared.ErrUserNotFound
}

func (r *singleUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if r.u != nil && r.u.Email == email {
		return r.u, nil
	}
	return nil, shared.ErrUserNotFound
}

func (r *singleUserRepo) ListIDs(context.Context) ([]string, error) {
	if r.u == nil {
		return nil, nil
	}
	return []string{r.u.ID}, nil
}

func TestBearerAuthenticator(t *testing.T) {
	u, err := user.New("u-1", "ada@example.com", "Ada", "hunter2")
	require.NoError(t, err)

	auth := NewBearerAuthenticator(&singleUserRepo{u: u})
	ctx := context.Background()

	t.Run("valid token resolves user", func(t *testing.T) {
		id, err := auth.Authenticate(ctx, "u-1:hunter2")
		require.NoError(t, err)
		assert.Equal(t, "u-1", id)
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "u-1:wrong")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("unknown user is unauthorized", func(t *testing.T) {
		_, err := auth.Authenticate(ctx, "u-2:hunter2")
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("malformed token is unauthorized", func(t *testing.T) {
		for _, token := range []string{"", "u-1", ":secret", "u-1:"} {
			_, err := auth.Authenticate(ctx, token)
			assert.ErrorIs(t, err, shared.ErrUnauthorized, "token %q", token)
		}
	})
}

func TestUserIDContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "u-9")
	assert.Equal(t, "u-9", UserIDFromContext(ctx))
	assert.Equal(t, "", UserIDFromContext(context.Background()))
}

func TestChainAppliesMiddlewareInOrder(t *testing.T) {
	var order []string
	tag := func(name string) MiddlewareFunc {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(tag("outer"), tag("inner"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestCompositeHealthChecker(t *testing.T) {
	hc := NewCompositeHealthChecker("0.1.0")
	hc.AddCheck("ok", func(context.Context) error { return nil })

	status := hc.Check(context.Background())
	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
	assert.Equal(t, "0.1.0", status.Version)

	hc.AddCheck("broken", func(context.Context) error { return errors.New("down") })
	status = hc.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.False(t, status.Ready)
	assert.Equal(t, "down", status.Checks["broken"].Message)
	assert.True(t, status.Checks["ok"].Healthy)
}
