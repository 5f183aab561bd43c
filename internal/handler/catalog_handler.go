package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"starwars/internal/model"
	"starwars/internal/service"
)

// CatalogHandler serves CRUD endpoints for characters or planets.
type CatalogHandler[T model.CatalogEntity] struct {
	svc  service.CatalogService[T]
	kind string
}

// NewCharacterHandler serves /characters.
func NewCharacterHandler(svc service.CharacterService) *CatalogHandler[model.Character] {
	return &CatalogHandler[model.Character]{svc: svc, kind: "Character"}
}

// NewPlanetHandler serves /planets.
func NewPlanetHandler(svc service.PlanetService) *CatalogHandler[model.Planet] {
	return &CatalogHandler[model.Planet]{svc: svc, kind: "Planet"}
}

// List godoc
// @Summary List all characters or planets
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Character
// @Router /characters [get]
// @Router /planets [get]
func (h *CatalogHandler[T]) List(c echo.Context) error {
	entities, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entities)
}

// Get godoc
// @Summary Get a character or planet by id
// @Tags catalog
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} model.Character
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /characters/{id} [get]
// @Router /planets/{id} [get]
func (h *CatalogHandler[T]) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	entity, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entity)
}

// Create godoc
// @Summary Create a character or planet
// @Description Unknown fields are ignored. Every known field must have the right type.
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body object true "Entity fields"
// @Success 200 {object} model.Character
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /characters [post]
// @Router /planets [post]
func (h *CatalogHandler[T]) Create(c echo.Context) error {
	var fields map[string]any
	if err := bindJSON(c, &fields); err != nil {
		return err
	}
	entity, err := h.svc.Create(c.Request().Context(), fields)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, entity)
}

// Delete godoc
// @Summary Delete a character or planet
// @Tags catalog
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /characters/{id} [delete]
// @Router /planets/{id} [delete]
func (h *CatalogHandler[T]) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: h.kind + " deleted"})
}
