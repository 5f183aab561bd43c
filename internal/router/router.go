package router

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"starwars/internal/config"
	apperrors "starwars/internal/errors"
	"starwars/internal/handler"
	"starwars/internal/logger"
	"starwars/internal/model"
	"starwars/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Characters *handler.CatalogHandler[model.Character]
	Planets    *handler.CatalogHandler[model.Planet]
	Favorites  *handler.FavoriteHandler
	Population *handler.PopulationHandler
	Health     *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log *slog.Logger, authService service.AuthService, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = &CustomValidator{validator: newValidator()}

	e.GET("/healthz", h.Health.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := BearerAuth(authService)

	// Catalog import
	e.POST("/population/characters", h.Population.PopulateCharacters)
	e.POST("/population/planets", h.Population.PopulatePlanets)

	// Accounts
	e.POST("/register", h.Auth.Register)
	e.POST("/login", h.Auth.Login)
	e.POST("/users", h.Auth.Register)
	e.GET("/users", h.Users.ListUsers, requireAuth)
	e.DELETE("/users", h.Users.DeleteCurrentUser, requireAuth)

	// Catalog CRUD
	e.GET("/characters", h.Characters.List)
	e.POST("/characters", h.Characters.Create)
	e.GET("/characters/:id", h.Characters.Get)
	e.DELETE("/characters/:id", h.Characters.Delete)

	e.GET("/planets", h.Planets.List)
	e.POST("/planets", h.Planets.Create)
	e.GET("/planets/:id", h.Planets.Get)
	e.DELETE("/planets/:id", h.Planets.Delete)

	// Favorites
	e.GET("/users/favorites", h.Favorites.ListFavorites, requireAuth)
	favorites := e.Group("/favorites", requireAuth)
	favorites.POST("/character/:nature_id", h.Favorites.AddCharacterFavorite)
	favorites.DELETE("/character/:nature_id", h.Favorites.RemoveCharacterFavorite)
	favorites.POST("/planet/:nature_id", h.Favorites.AddPlanetFavorite)
	favorites.DELETE("/planet/:nature_id", h.Favorites.RemovePlanetFavorite)
}

// BearerAuth resolves the Authorization bearer token through authService and
// stores the resulting auth.Identity under handler.IdentityContextKey.
func BearerAuth(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.IdentityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			authErr := err
			if !errors.Is(err, apperrors.ErrUnauthorized) {
				// Header absent or not a bearer credential.
				authErr = apperrors.Unauthorized("missing or malformed token")
			}
			httpErr := apperrors.MapErrorToHTTP(authErr)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
		},
	})
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
