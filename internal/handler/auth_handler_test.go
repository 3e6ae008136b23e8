package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/service"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type authServiceStub struct {
	loginErr  error
	lastLogin models.LoginRequest
	loggedOut string
}

func (s *authServiceStub) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	s.lastLogin = req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil
}

func (s *authServiceStub) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.LoginResponse, error) {
	return &models.LoginResponse{AccessToken: "access-2"}, nil
}

func (s *authServiceStub) Logout(ctx context.Context, userID string, req models.RefreshTokenRequest) error {
	s.loggedOut = userID
	return nil
}

func (s *authServiceStub) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: userID, Role: models.RoleTutor}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	stub := &authServiceStub{}
	h := NewAuthHandler(stub)

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"username":"tutor1","password":"secret123"}`))
	c.Request.Header.Set("User-Agent", "test-agent")
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tutor1", stub.lastLogin.Username)
	assert.Equal(t, "test-agent", stub.lastLogin.UserAgent)
	assert.Contains(t, w.Body.String(), `"access_token":"access"`)
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{loginErr: appErrors.ErrInvalidCredentials})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"username":"x","password":"y"}`))
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerMeRequiresClaims(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{})

	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLogout(t *testing.T) {
	stub := &authServiceStub{}
	h := NewAuthHandler(stub)

	c, w := newGinContext(http.MethodPost, "/auth/logout", []byte(`{"refresh_token":"refresh"}`))
	asTutor(c, "tutor-1")
	h.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "tutor-1", stub.loggedOut)
}

type userServiceStub struct {
	lastFilter models.UserFilter
	actorID    string
}

func (s *userServiceStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	s.lastFilter = filter
	return nil, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (s *userServiceStub) ListTutors(ctx context.Context) ([]models.User, error) {
	return []models.User{{ID: "tutor-1", Role: models.RoleTutor}}, nil
}

func (s *userServiceStub) Get(ctx context.Context, id string) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (s *userServiceStub) Create(ctx context.Context, req service.CreateUserRequest, actorID string, meta models.LoginRequest) (*models.User, error) {
	s.actorID = actorID
	return &models.User{ID: "u-1", Username: req.Username}, nil
}

func (s *userServiceStub) Update(ctx context.Context, id string, req service.UpdateUserRequest, actorID string, meta models.LoginRequest) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (s *userServiceStub) Delete(ctx context.Context, id string, actorID string, meta models.LoginRequest) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot deactivate yourself")
	}
	return nil
}

func TestUserHandlerListRoleFilter(t *testing.T) {
	stub := &userServiceStub{}
	h := NewUserHandler(stub)

	c, w := newGinContext(http.MethodGet, "/users?role=tutor&active=false", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.lastFilter.Role)
	assert.Equal(t, models.RoleTutor, *stub.lastFilter.Role)
	require.NotNil(t, stub.lastFilter.Active)
	assert.False(t, *stub.lastFilter.Active)
}

func TestUserHandlerCreateRecordsActor(t *testing.T) {
	stub := &userServiceStub{}
	h := NewUserHandler(stub)

	c, w := newGinContext(http.MethodPost, "/users", []byte(`{"username":"tutor2","full_name":"Luis","password":"secret123"}`))
	asCoordinator(c)
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "coord-1", stub.actorID)
}

func TestUserHandlerDeleteSelfForbidden(t *testing.T) {
	h := NewUserHandler(&userServiceStub{})

	c, w := newGinContext(http.MethodDelete, "/users/coord-1", nil)
	c.Params = append(c.Params, ginParam("id", "coord-1"))
	asCoordinator(c)
	h.Delete(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
