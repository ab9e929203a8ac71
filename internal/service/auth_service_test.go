package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/model"
	"jewel-erp/pkg/jwt"
)

type memUsers struct {
	byID map[uuid.UUID]*model.User
}

func newMemUsers(users ...*model.User) *memUsers {
	m := &memUsers{byID: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) FindAll(context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	c := *u
	m.byID[u.ID] = &c
	return nil
}

func (m *memUsers) Update(_ context.Context, u *model.User) error {
	c := *u
	if existing, ok := m.byID[u.ID]; ok {
		c.Privileges = existing.Privileges
	}
	m.byID[u.ID] = &c
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID, _ string) error {
	delete(m.byID, id)
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	m.byID[id].Password = hashed
	return nil
}

func (m *memUsers) ReplacePrivileges(_ context.Context, id uuid.UUID, privileges []model.Privilege) error {
	m.byID[id].Privileges = privileges
	return nil
}

func (m *memUsers) UpdateTokenVersion(_ context.Context, id uuid.UUID, version string) error {
	m.byID[id].TokenVersion = version
	return nil
}

func (m *memUsers) TouchLastSeen(_ context.Context, id uuid.UUID) error {
	now := clock()
	m.byID[id].LastSeenAt = &now
	return nil
}

func newUser(t *testing.T, email, password string) *model.User {
	t.Helper()
	u := &model.User{
		Email:      email,
		FullName:   "Meena",
		IsActive:   true,
		Role:       &model.Role{Code: model.RoleCashier},
		Privileges: []model.Privilege{{Code: model.PrivInvoiceCreate}},
	}
	require.NoError(t, u.SetPassword(password))
	return u
}

func newAuthFixture(t *testing.T, users *memUsers) (*authService, *eventRecorder) {
	events := &eventRecorder{}
	svc := NewAuthService(users, jwt.NewManager("test-secret", time.Hour), events).(*authService)
	svc.now = clock
	return svc, events
}

func TestLoginAndValidate(t *testing.T) {
	users := newMemUsers(newUser(t, "meena@example.com", "secret1"))
	svc, _ := newAuthFixture(t, users)
	ctx := context.Background()

	resp, err := svc.Login(ctx, "meena@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, []string{model.PrivInvoiceCreate}, resp.Privileges)

	validated, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "meena@example.com", validated.User.Email)

	// a second login replaces the first session
	_, err = svc.Login(ctx, "meena@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)
}

func TestLoginFailures(t *testing.T) {
	inactive := newUser(t, "old@example.com", "secret1")
	inactive.IsActive = false
	svc, _ := newAuthFixture(t, newMemUsers(newUser(t, "meena@example.com", "secret1"), inactive))
	ctx := context.Background()

	_, err := svc.Login(ctx, "meena@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "old@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUserInactive)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestValidateTokenIdleTimeout(t *testing.T) {
	users := newMemUsers(newUser(t, "meena@example.com", "secret1"))
	svc, _ := newAuthFixture(t, users)
	ctx := context.Background()

	resp, err := svc.Login(ctx, "meena@example.com", "secret1")
	require.NoError(t, err)

	svc.now = func() time.Time { return clock().Add(SessionIdleTimeout + time.Second) }
	_, err = svc.ValidateToken(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrSessionTimeout)

	_, err = svc.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestResetPasswordAndHeartbeat(t *testing.T) {
	u := newUser(t, "meena@example.com", "secret1")
	users := newMemUsers(u)
	svc, events := newAuthFixture(t, users)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ResetPassword(ctx, "meena@example.com", "nope", "secret2"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "meena@example.com", "secret1", "x"), apperr.ErrInvalidArgument)
	require.NoError(t, svc.ResetPassword(ctx, "meena@example.com", "secret1", "secret2"))

	_, err := svc.Login(ctx, "meena@example.com", "secret2")
	require.NoError(t, err)

	require.NoError(t, svc.Heartbeat(ctx, u.ID))
	assert.Equal(t, []string{EventUserStatus}, events.types())
}
