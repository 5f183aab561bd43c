package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "starwars/internal/errors"
	"starwars/internal/logger"
	"starwars/internal/model"
)

func discardLogger() *slog.Logger { return logger.Discard() }

func TestFavoriteHandler_Add(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(*FavoriteHandler) echo.HandlerFunc
		param      string
		body       string
		setupMock  func(*MockFavoriteService)
		wantStatus int
	}{
		{
			name:    "character",
			handler: func(h *FavoriteHandler) echo.HandlerFunc { return h.AddCharacterFavorite },
			param:   "5",
			body:    `{"name":"Luke","nature_id":5}`,
			setupMock: func(m *MockFavoriteService) {
				m.On("Add", mock.Anything, uint(1), model.CharacterTarget(5), "Luke").
					Return(&model.Favorite{ID: 1, UserID: 1, Name: "Luke", Nature: model.NatureCharacter, NatureID: 5}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "planet without body id",
			handler: func(h *FavoriteHandler) echo.HandlerFunc { return h.AddPlanetFavorite },
			param:   "1",
			body:    `{"name":"Tatooine"}`,
			setupMock: func(m *MockFavoriteService) {
				m.On("Add", mock.Anything, uint(1), model.PlanetTarget(1), "Tatooine").
					Return(&model.Favorite{ID: 2, UserID: 1, Name: "Tatooine", Nature: model.NaturePlanet, NatureID: 1}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "duplicate",
			handler: func(h *FavoriteHandler) echo.HandlerFunc { return h.AddCharacterFavorite },
			param:   "5",
			body:    `{"name":"Luke","nature_id":5}`,
			setupMock: func(m *MockFavoriteService) {
				m.On("Add", mock.Anything, uint(1), model.CharacterTarget(5), "Luke").Return(nil, apperrors.Conflict("favorite already exists"))
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "body id disagrees with path",
			handler:    func(h *FavoriteHandler) echo.HandlerFunc { return h.AddCharacterFavorite },
			param:      "5",
			body:       `{"name":"Luke","nature_id":6}`,
			setupMock:  func(m *MockFavoriteService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing name",
			handler:    func(h *FavoriteHandler) echo.HandlerFunc { return h.AddPlanetFavorite },
			param:      "1",
			body:       `{}`,
			setupMock:  func(m *MockFavoriteService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad path id",
			handler:    func(h *FavoriteHandler) echo.HandlerFunc { return h.AddPlanetFavorite },
			param:      "-1",
			body:       `{"name":"Tatooine"}`,
			setupMock:  func(m *MockFavoriteService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockFavoriteService)
			tt.setupMock(svc)
			h := NewFavoriteHandler(svc)

			rec := call(newTestEcho(), tt.handler(h), http.MethodPost, "/favorites/x/"+tt.param, tt.body, asUser(1, withParam("nature_id", tt.param)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestFavoriteHandler_RemoveAndList(t *testing.T) {
	svc := new(MockFavoriteService)
	svc.On("Remove", mock.Anything, uint(1), model.PlanetTarget(3)).Return(nil)
	svc.On("Remove", mock.Anything, uint(1), model.CharacterTarget(3)).Return(apperrors.NotFound("favorite character 3 not found"))
	svc.On("List", mock.Anything, uint(1)).Return([]model.Favorite{}, nil)
	h := NewFavoriteHandler(svc)
	e := newTestEcho()

	rec := call(e, h.RemovePlanetFavorite, http.MethodDelete, "/favorites/planet/3", "", asUser(1, withParam("nature_id", "3")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, h.RemoveCharacterFavorite, http.MethodDelete, "/favorites/character/3", "", asUser(1, withParam("nature_id", "3")))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(e, h.ListFavorites, http.MethodGet, "/users/favorites", "", asUser(1, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = call(e, h.ListFavorites, http.MethodGet, "/users/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("down") }

	rec := call(newTestEcho(), NewHealthHandler(map[string]Check{"database": ok}, map[string]Check{"redis": down}).Health,
		http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"degraded: down"`)

	rec = call(newTestEcho(), NewHealthHandler(map[string]Check{"database": down}, nil).Health,
		http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
