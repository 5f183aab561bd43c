package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"starwars/internal/catalog"
	apperrors "starwars/internal/errors"
	"starwars/internal/model"
	"starwars/internal/service"
)

// HeaderImportSkipped carries the number of catalog records that were not imported.
const HeaderImportSkipped = "X-Import-Skipped"

// CatalogFetcher reads every record of a catalog resource.
type CatalogFetcher interface {
	FetchAll(ctx context.Context, resource string) ([]map[string]any, error)
}

// PopulationHandler imports the external catalog into the store.
type PopulationHandler struct {
	fetcher    CatalogFetcher
	characters service.CharacterService
	planets    service.PlanetService
	log        *slog.Logger
}

// NewPopulationHandler creates a new population handler.
func NewPopulationHandler(fetcher CatalogFetcher, characters service.CharacterService, planets service.PlanetService, log *slog.Logger) *PopulationHandler {
	return &PopulationHandler{
		fetcher:    fetcher,
		characters: characters,
		planets:    planets,
		log:        log.With("handler", "population"),
	}
}

// PopulateCharacters godoc
// @Summary Import characters from the external catalog
// @Description Records that fail validation or clash with an existing name are skipped.
// @Tags population
// @Produce json
// @Success 200 {array} model.Character
// @Failure 502 {object} errors.ErrorResponse
// @Router /population/characters [post]
func (h *PopulationHandler) PopulateCharacters(c echo.Context) error {
	return populate(c, h, catalog.ResourcePeople, h.characters)
}

// PopulatePlanets godoc
// @Summary Import planets from the external catalog
// @Description Records that fail validation or clash with an existing name are skipped.
// @Tags population
// @Produce json
// @Success 200 {array} model.Planet
// @Failure 502 {object} errors.ErrorResponse
// @Router /population/planets [post]
func (h *PopulationHandler) PopulatePlanets(c echo.Context) error {
	return populate(c, h, catalog.ResourcePlanets, h.planets)
}

func populate[T model.CatalogEntity](c echo.Context, h *PopulationHandler, resource string, svc service.CatalogService[T]) error {
	ctx := c.Request().Context()

	records, err := h.fetcher.FetchAll(ctx, resource)
	if err != nil {
		h.log.Error("catalog fetch failed", "resource", resource, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, apperrors.ErrorResponse{
			Message: fmt.Sprintf("failed to fetch %s from catalog", resource),
			Code:    "CATALOG_UNAVAILABLE",
		}).SetInternal(err)
	}

	result, err := svc.BulkImport(ctx, records)
	if err != nil {
		return respondError(err)
	}

	c.Response().Header().Set(HeaderImportSkipped, strconv.Itoa(len(result.Skipped)))
	return c.JSON(http.StatusOK, result.Created)
}
