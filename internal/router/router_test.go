package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starwars/internal/auth"
	"starwars/internal/config"
	apperrors "starwars/internal/errors"
	"starwars/internal/handler"
	"starwars/internal/logger"
	"starwars/internal/service"
)

// stubAuth accepts exactly one token.
type stubAuth struct {
	service.AuthService
}

func (stubAuth) Authenticate(_ context.Context, token string) (auth.Identity, error) {
	if token == "good" {
		return auth.Identity{UserID: 7, TokenID: "jti"}, nil
	}
	return auth.Identity{}, apperrors.Unauthorized("invalid token")
}

func TestBearerAuth(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		ident := c.Get(handler.IdentityContextKey).(auth.Identity)
		return c.JSON(http.StatusOK, map[string]uint{"user_id": ident.UserID})
	}, BearerAuth(stubAuth{}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer good", http.StatusOK},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func newTestRouter() *echo.Echo {
	e := echo.New()
	log := logger.Discard()
	Register(e, &config.Config{CORSOrigins: []string{"*"}}, log, stubAuth{}, Handlers{
		Auth:       handler.NewAuthHandler(nil),
		Users:      handler.NewUserHandler(nil, nil),
		Characters: handler.NewCharacterHandler(nil),
		Planets:    handler.NewPlanetHandler(nil),
		Favorites:  handler.NewFavoriteHandler(nil),
		Population: handler.NewPopulationHandler(nil, nil, nil, log),
		Health:     handler.NewHealthHandler(nil, nil),
	})
	return e
}

func TestRegister_Routes(t *testing.T) {
	e := newTestRouter()

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"POST /population/characters",
		"POST /population/planets",
		"POST /register",
		"POST /login",
		"GET /users",
		"POST /users",
		"DELETE /users",
		"GET /characters",
		"POST /characters",
		"GET /characters/:id",
		"DELETE /characters/:id",
		"GET /planets",
		"POST /planets",
		"GET /planets/:id",
		"DELETE /planets/:id",
		"GET /users/favorites",
		"POST /favorites/character/:nature_id",
		"DELETE /favorites/character/:nature_id",
		"POST /favorites/planet/:nature_id",
		"DELETE /favorites/planet/:nature_id",
		"GET /healthz",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestRegister_ProtectedRoutesRequireToken(t *testing.T) {
	e := newTestRouter()

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/users"},
		{http.MethodDelete, "/users"},
		{http.MethodGet, "/users/favorites"},
		{http.MethodPost, "/favorites/character/5"},
		{http.MethodDelete, "/favorites/planet/1"},
	} {
		req := httptest.NewRequest(r.method, r.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
	}
}

func TestCustomValidator(t *testing.T) {
	cv := &CustomValidator{validator: newValidator()}
	assert.Error(t, cv.Validate(&handler.CredentialsRequest{Email: "nope"}))
	assert.NoError(t, cv.Validate(&handler.CredentialsRequest{Email: "a@b.com", Password: "x"}))
	assert.Error(t, cv.Validate(&handler.FavoriteRequest{}))
}
