package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/repository"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type mockUserRepo struct {
	users      map[string]*models.User
	listUsers  []models.User
	listCount  int
	listErr    error
	lastFilter models.UserFilter
	createErr  error
	auditLogs  []*models.AuditLog
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	if m.listUsers != nil {
		return m.listUsers, m.listCount, nil
	}
	var users []models.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, len(users), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id string) error {
	if user, ok := m.users[id]; ok {
		user.Active = false
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestUserServiceList(t *testing.T) {
	repo := &mockUserRepo{listUsers: []models.User{{ID: "1", Username: "ana"}}, listCount: 1}
	svc := NewUserService(repo, validator.New(), zap.NewNop())
	users, pagination, err := svc.List(context.Background(), models.UserFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 10, pagination.PageSize)
}

func TestUserServiceListTutors(t *testing.T) {
	repo := &mockUserRepo{listUsers: []models.User{}, listCount: 0}
	svc := NewUserService(repo, nil, nil)
	tutors, err := svc.ListTutors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tutors)
	require.NotNil(t, repo.lastFilter.Role)
	assert.Equal(t, models.RoleTutor, *repo.lastFilter.Role)
	require.NotNil(t, repo.lastFilter.Active)
	assert.True(t, *repo.lastFilter.Active)
	assert.Equal(t, "full_name", repo.lastFilter.SortBy)
}

func TestUserServiceCreate(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	svc := NewUserService(repo, validator.New(), zap.NewNop())
	user, err := svc.Create(context.Background(), CreateUserRequest{Username: " LDiaz ", FullName: "Laura Díaz", Password: "secret123"}, "actor", models.LoginRequest{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "ldiaz", user.Username)
	assert.Equal(t, models.RoleTutor, user.Role)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, "10.0.0.1", repo.auditLogs[0].IPAddress)

	_, err = svc.Create(context.Background(), CreateUserRequest{Username: "ldiaz", FullName: "Otra", Password: "secret123"}, "actor", models.LoginRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Create(context.Background(), CreateUserRequest{Username: "x", FullName: "Corto", Password: "short"}, "actor", models.LoginRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), CreateUserRequest{Username: "nuevo", FullName: "Rol", Password: "secret123", Role: "ADMIN"}, "actor", models.LoginRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestUserServiceCreateRaceMapsUniqueViolation(t *testing.T) {
	repo := &mockUserRepo{
		users:     make(map[string]*models.User),
		createErr: fmt.Errorf("create user: %w", &repository.ConstraintError{Kind: repository.ErrUniqueViolation, Constraint: "users_username_key", Err: errors.New("dup")}),
	}
	svc := NewUserService(repo, nil, nil)
	_, err := svc.Create(context.Background(), CreateUserRequest{Username: "ana", FullName: "Ana", Password: "secret123"}, "actor", models.LoginRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestUserServiceUpdate(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{"1": {ID: "1", Username: "ana", FullName: "Old", Role: models.RoleTeacher, Active: true}}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())
	active := false
	program := " Sistemas "
	user, err := svc.Update(context.Background(), "1", UpdateUserRequest{FullName: "New", Role: models.RoleDivisionHead, Program: &program, Active: &active}, "actor", models.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDivisionHead, user.Role)
	require.NotNil(t, user.Program)
	assert.Equal(t, "Sistemas", *user.Program)
	assert.False(t, user.Active)
	assert.NotEmpty(t, repo.auditLogs)

	_, err = svc.Update(context.Background(), "missing", UpdateUserRequest{FullName: "x"}, "actor", models.LoginRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestUserServiceDelete(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{"1": {ID: "1", Username: "ana", FullName: "Old", Role: models.RoleTutor, Active: true}}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "1", "1", models.LoginRequest{})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	require.NoError(t, svc.Delete(context.Background(), "1", "actor", models.LoginRequest{}))
	assert.False(t, repo.users["1"].Active)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserDelete, repo.auditLogs[0].Action)
}
