package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/middleware"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

// UserHandler handles the self-profile endpoint.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Profile returns the authenticated user's record. The password hash is
// excluded from the JSON encoding at the domain level.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  msgResponse
// @Router       /api/user/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserID).(string)

	user, err := h.service.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
