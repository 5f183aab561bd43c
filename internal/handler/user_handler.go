package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"starwars/internal/service"
)

// UserHandler serves the authenticated /users endpoints.
type UserHandler struct {
	svc         service.UserService
	authService service.AuthService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, authService service.AuthService) *UserHandler {
	return &UserHandler{svc: svc, authService: authService}
}

// UserSummary is the public view of a user.
type UserSummary struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	out := make([]UserSummary, len(users))
	for i, u := range users {
		out[i] = UserSummary{ID: u.ID, Email: u.Email}
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteCurrentUser godoc
// @Summary Delete the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users [delete]
func (h *UserHandler) DeleteCurrentUser(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.authService.DeleteCurrentUser(c.Request().Context(), ident); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User has been deleted"})
}
