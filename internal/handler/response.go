package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"starwars/internal/auth"
	apperrors "starwars/internal/errors"
)

// IdentityContextKey is where the auth middleware stores the caller's auth.Identity.
const IdentityContextKey = "identity"

// MessageResponse is the body of operations that return no entity.
type MessageResponse struct {
	Message string `json:"msg"`
}

// respondError converts a service error into the JSON error body.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func badRequest(format string, args ...any) error {
	return respondError(apperrors.Validation(format, args...))
}

// validationError turns a validator error into a 400.
func validationError(err error) error {
	return badRequest("%s", err.Error())
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, badRequest("%s must be a positive integer", name)
	}
	return uint(id), nil
}

func currentIdentity(c echo.Context) (auth.Identity, error) {
	ident, ok := c.Get(IdentityContextKey).(auth.Identity)
	if !ok || ident.UserID == 0 {
		return auth.Identity{}, respondError(apperrors.Unauthorized("missing identity"))
	}
	return ident, nil
}

// bindJSON decodes the request body without touching path or query parameters.
func bindJSON(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return badRequest("request body must be JSON")
		}
		return badRequest("invalid request body")
	}
	return nil
}
