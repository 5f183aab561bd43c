package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"starwars/internal/model"
	"starwars/internal/service"
)

// FavoriteHandler serves the authenticated favorites endpoints.
type FavoriteHandler struct {
	svc service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(svc service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

// FavoriteRequest is the body of an add-favorite call. NatureID is optional
// and, when present, must match the path.
type FavoriteRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	NatureID *uint  `json:"nature_id"`
}

// ListFavorites godoc
// @Summary List the caller's favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Favorite
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/favorites [get]
func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	favorites, err := h.svc.List(c.Request().Context(), ident.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, favorites)
}

// AddCharacterFavorite godoc
// @Summary Add a character to the caller's favorites
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param nature_id path int true "Character ID"
// @Param request body FavoriteRequest true "Favorite"
// @Success 200 {object} model.Favorite
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /favorites/character/{nature_id} [post]
func (h *FavoriteHandler) AddCharacterFavorite(c echo.Context) error {
	return h.add(c, model.CharacterTarget)
}

// AddPlanetFavorite godoc
// @Summary Add a planet to the caller's favorites
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param nature_id path int true "Planet ID"
// @Param request body FavoriteRequest true "Favorite"
// @Success 200 {object} model.Favorite
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /favorites/planet/{nature_id} [post]
func (h *FavoriteHandler) AddPlanetFavorite(c echo.Context) error {
	return h.add(c, model.PlanetTarget)
}

// RemoveCharacterFavorite godoc
// @Summary Remove a character from the caller's favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param nature_id path int true "Character ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /favorites/character/{nature_id} [delete]
func (h *FavoriteHandler) RemoveCharacterFavorite(c echo.Context) error {
	return h.remove(c, model.CharacterTarget)
}

// RemovePlanetFavorite godoc
// @Summary Remove a planet from the caller's favorites
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param nature_id path int true "Planet ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /favorites/planet/{nature_id} [delete]
func (h *FavoriteHandler) RemovePlanetFavorite(c echo.Context) error {
	return h.remove(c, model.PlanetTarget)
}

func (h *FavoriteHandler) add(c echo.Context, target func(uint) model.FavoriteTarget) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	natureID, err := parseID(c, "nature_id")
	if err != nil {
		return err
	}

	var req FavoriteRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}
	if req.NatureID != nil && *req.NatureID != natureID {
		return badRequest("nature_id in body (%d) does not match path (%d)", *req.NatureID, natureID)
	}

	favorite, err := h.svc.Add(c.Request().Context(), ident.UserID, target(natureID), req.Name)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, favorite)
}

func (h *FavoriteHandler) remove(c echo.Context, target func(uint) model.FavoriteTarget) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	natureID, err := parseID(c, "nature_id")
	if err != nil {
		return err
	}

	if err := h.svc.Remove(c.Request().Context(), ident.UserID, target(natureID)); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Favorite has been deleted"})
}
