package handler

import (
	"net/http"
	"strings"

	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminUserHandler struct {
	uc *usecase.AuthUsecase
}

func NewAdminUserHandler(uc *usecase.AuthUsecase) *AdminUserHandler {
	return &AdminUserHandler{uc: uc}
}

// gは /admin
func (h *AdminUserHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/users/:id/force-logout", h.ForceLogout)
}

// token_versionを上げて既存トークンを全て無効にする
func (h *AdminUserHandler) ForceLogout(c echo.Context) error {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		return badRequest(c, "invalid user_id")
	}

	res, err := h.uc.ForceLogout(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}
