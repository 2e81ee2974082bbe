package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"
	"go-dulceria-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	users map[uuid.UUID]*model.User
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) FindAll(context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUsers) Create(_ context.Context, u *model.User) error {
	if _, err := r.FindByEmail(context.Background(), u.Email); err == nil {
		return repository.ErrDuplicate
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUsers) Update(_ context.Context, u *model.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUsers) ReplacePrivileges(_ context.Context, u *model.User, privileges []model.Privilege) error {
	r.users[u.ID].Privileges = privileges
	u.Privileges = privileges
	return nil
}

func (r *memUsers) StartSession(_ context.Context, id uuid.UUID, tokenVersion string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.TokenVersion = tokenVersion
	u.LastLoginAt = &at
	return nil
}

func newAuthFixture(t *testing.T) (*memUsers, *model.User, AuthService) {
	t.Helper()
	users := &memUsers{users: map[uuid.UUID]*model.User{}}
	owner := &model.User{
		Email:      "duena@dulceria.co",
		FullName:   "Marta Díaz",
		IsActive:   true,
		Role:       &model.Role{ID: 1, Code: model.RoleOwner},
		Privileges: []model.Privilege{{Code: model.PrivOrderView}, {Code: model.PrivOrderUpdate}},
	}
	require.NoError(t, owner.SetPassword("secreto123"))
	require.NoError(t, users.Create(context.Background(), owner))

	return users, owner, NewAuthService(users, jwt.NewManager("test-secret", time.Hour))
}

func TestLogin(t *testing.T) {
	users, owner, svc := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &LoginRequest{Email: " DUENA@dulceria.co ", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, []string{model.PrivOrderView, model.PrivOrderUpdate}, resp.Privileges)
	assert.NotEmpty(t, users.users[owner.ID].TokenVersion)
	assert.NotNil(t, users.users[owner.ID].LastLoginAt)

	user, claims, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, user.ID)
	assert.Equal(t, model.RoleOwner, claims.RoleCode)
}

func TestLoginFailures(t *testing.T) {
	users, owner, svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &LoginRequest{Email: "duena@dulceria.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &LoginRequest{Email: "nadie@dulceria.co", Password: "secreto123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email looks like a bad password")

	_, err = svc.Login(ctx, &LoginRequest{Email: "no-es-correo", Password: "x"})
	require.Error(t, err)

	users.users[owner.ID].IsActive = false
	_, err = svc.Login(ctx, &LoginRequest{Email: "duena@dulceria.co", Password: "secreto123"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestNewLoginReplacesPreviousSession(t *testing.T) {
	_, _, svc := newAuthFixture(t)
	ctx := context.Background()
	req := func() *LoginRequest { return &LoginRequest{Email: "duena@dulceria.co", Password: "secreto123"} }

	first, err := svc.Login(ctx, req())
	require.NoError(t, err)
	second, err := svc.Login(ctx, req())
	require.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, first.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	_, _, err = svc.Authenticate(ctx, second.Token)
	assert.NoError(t, err)

	_, _, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	users, owner, svc := newAuthFixture(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, owner.ID, &ChangePasswordRequest{OldPassword: "mala-clave", NewPassword: "nuevaClave1"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, owner.ID, &ChangePasswordRequest{OldPassword: "secreto123", NewPassword: "corta"})
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, owner.ID, &ChangePasswordRequest{OldPassword: "secreto123", NewPassword: "nuevaClave1"}))
	assert.True(t, users.users[owner.ID].CheckPassword("nuevaClave1"))

	err = svc.ChangePassword(ctx, uuid.New(), &ChangePasswordRequest{OldPassword: "secreto123", NewPassword: "nuevaClave1"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
