package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-api/internal/models"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

type recordingAudit struct {
	logs []*models.AuditLog
	err  error
}

func (r *recordingAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	r.logs = append(r.logs, log)
	return r.err
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleTutor}
	r := gin.New()
	r.Use(JWT(stubValidator{claims: claims}))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "Bearer bad").Code)

	rec := serve(r, http.MethodGet, "/me", "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newRouter := func(role models.UserRole) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(ContextUserKey, &models.JWTClaims{UserID: "u1", Role: role})
		})
		r.POST("/periods", RequireRoles(models.RoleCoordination, models.RoleDivisionHead), func(c *gin.Context) { c.Status(http.StatusCreated) })
		r.GET("/users/:id", RBAC(string(models.RoleCoordination), RoleSelf), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	assert.Equal(t, http.StatusCreated, serve(newRouter(models.RoleDivisionHead), http.MethodPost, "/periods", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(models.RoleTutor), http.MethodPost, "/periods", "").Code)
	assert.Equal(t, http.StatusOK, serve(newRouter(models.RoleTutor), http.MethodGet, "/users/u1", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(models.RoleTutor), http.MethodGet, "/users/u2", "").Code)

	bare := gin.New()
	bare.GET("/x", RequireRoles(models.RoleCoordination), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(bare, http.MethodGet, "/x", "").Code)
}

func TestAuditRecordsSuccessfulRequestsOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	writer := &recordingAudit{}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "coord", Role: models.RoleCoordination})
	})
	r.PUT("/periods/:id/activate", Audit(writer, nil, models.AuditActionPeriodActivate, "periods"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/periods/:id", Audit(writer, nil, "PERIOD_DELETE", "periods"), func(c *gin.Context) { c.Status(http.StatusForbidden) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPut, "/periods/p1/activate", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodDelete, "/periods/p1", "").Code)

	require.Len(t, writer.logs, 1)
	entry := writer.logs[0]
	assert.Equal(t, models.AuditActionPeriodActivate, entry.Action)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "coord", *entry.UserID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "p1", *entry.ResourceID)

	writer.err = errors.New("db down")
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPut, "/periods/p2/activate", "").Code)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured map[string]interface{}
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/stats", func(c *gin.Context) {
		SetCacheHit(c, true)
		captured = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/stats", "")
	require.NotNil(t, captured)
	assert.Equal(t, true, captured[cacheHitKey])
	assert.Contains(t, captured, "processing_time_ms")
	assert.Nil(t, ExtractMeta(nil))
}
