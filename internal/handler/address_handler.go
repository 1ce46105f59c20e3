package handler

import (
	"net/http"

	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文時に選ぶ配送先
type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

func (h *AddressHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/addresses", withUser(h.list))
	g.POST("/addresses", withUser(h.create))
	g.PATCH("/addresses/:id", withUser(h.update))
	g.DELETE("/addresses/:id", withUser(h.remove))
	g.POST("/addresses/:id/default", withUser(h.setDefault))
}

func (h *AddressHandler) list(c echo.Context, userID string) error {
	list, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AddressHandler) create(c echo.Context, userID string) error {
	var req usecase.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "validation error")
	}

	created, err := h.uc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, created)
}

func (h *AddressHandler) update(c echo.Context, userID string) error {
	var req usecase.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "validation error")
	}
	return done(c, "updated", h.uc.Update(c.Request().Context(), userID, c.Param("id"), req))
}

func (h *AddressHandler) remove(c echo.Context, userID string) error {
	return done(c, "deleted", h.uc.Delete(c.Request().Context(), userID, c.Param("id")))
}

func (h *AddressHandler) setDefault(c echo.Context, userID string) error {
	return done(c, "default updated", h.uc.SetDefault(c.Request().Context(), userID, c.Param("id")))
}

func done(c echo.Context, msg string, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}
