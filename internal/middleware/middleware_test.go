package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/academia/internal/app/models"
	"github.com/yigit/academia/internal/app/models/dto"
	"github.com/yigit/academia/internal/pkg/apperrors"
	"github.com/yigit/academia/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Error *dto.ErrorDetail `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		field  string
	}{
		{"validation", apperrors.NewFieldValidationError("reason", "a promotion reason is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "reason"},
		{"not found", apperrors.ErrSessionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
		{"state conflict", apperrors.NewStateConflictError("session is locked"), http.StatusConflict, dto.ErrorCodeStateConflict, ""},
		{"concurrency", apperrors.NewConcurrencyConflictError("stale"), http.StatusConflict, dto.ErrorCodeConcurrencyConflict, ""},
		{"capacity", apperrors.NewCapacityExceededError("full"), http.StatusUnprocessableEntity, dto.ErrorCodeCapacityExceeded, ""},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden, dto.ErrorCodeForbidden, ""},
		{"duplicate", fmt.Errorf("create: %w", apperrors.ErrSessionAlreadyExists), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, ""},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			detail := decodeError(t, w)
			assert.Equal(t, tt.code, detail.Code)
			assert.Equal(t, tt.field, detail.Field)
		})
	}
}

func TestHandleAPIErrorCarriesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", nil)

	HandleAPIError(c, apperrors.NewCapacityExceededError("enrolling 5 would exceed the intake capacity of 60").
		WithDetails(map[string]interface{}{"intakeCapacity": 60}))

	detail := decodeError(t, w)
	assert.Equal(t, "enrolling 5 would exceed the intake capacity of 60", detail.Message)
	assert.Equal(t, map[string]interface{}{"intakeCapacity": float64(60)}, detail.Details)
}

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "academia.test"})
	m := NewAuthMiddleware(jwtService)

	router := gin.New()
	router.GET("/principal", m.JWTAuth(), m.RoleRequired(models.RolePrincipal), func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, actor)
	})
	return router, jwtService
}

func TestAuthMiddleware(t *testing.T) {
	router, jwtService := newAuthRouter(t)

	principalToken, err := jwtService.GenerateToken(models.Actor{ID: 1, Role: models.RolePrincipal})
	require.NoError(t, err)
	hodToken, err := jwtService.GenerateToken(models.Actor{ID: 2, Role: models.RoleHOD})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		status int
		code   dto.ErrorCode
	}{
		{"no token", "", "", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"garbage token", "Bearer nope", "", http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"wrong role", "Bearer " + hodToken, "", http.StatusForbidden, dto.ErrorCodeForbidden},
		{"header token", "Bearer " + principalToken, "", http.StatusOK, ""},
		{"query token", "", principalToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/principal"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, w).Code)
				return
			}
			var actor models.Actor
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &actor))
			assert.Equal(t, models.Actor{ID: 1, Role: models.RolePrincipal}, actor)
		})
	}
}

func TestBindJSONReportsFieldNames(t *testing.T) {
	RegisterJSONTagNames()

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req dto.CreateSessionRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"startYear":2025}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Code)
	assert.Contains(t, w.Body.String(), "intakeCapacity")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"startYear":2025,"intakeCapacity":0}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
