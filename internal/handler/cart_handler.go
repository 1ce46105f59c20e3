package handler

import (
	"net/http"

	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

// どのルートもカート全体を返す
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/cart", withUser(h.getCart))
	g.POST("/cart", withUser(h.addToCart))
	g.PATCH("/cart/:id", withUser(h.patchItem))
	g.DELETE("/cart/:id", withUser(h.deleteItem))
}

func (h *CartHandler) getCart(c echo.Context, userID string) error {
	return cartJSON(c)(h.uc.GetCart(c.Request().Context(), userID))
}

func (h *CartHandler) addToCart(c echo.Context, userID string) error {
	var req usecase.AddCartInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return cartJSON(c)(h.uc.AddToCart(c.Request().Context(), userID, req))
}

func (h *CartHandler) patchItem(c echo.Context, userID string) error {
	var req usecase.UpdateCartItemInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return cartJSON(c)(h.uc.UpdateCartItem(c.Request().Context(), userID, c.Param("id"), req))
}

func (h *CartHandler) deleteItem(c echo.Context, userID string) error {
	return cartJSON(c)(h.uc.DeleteCartItem(c.Request().Context(), userID, c.Param("id")))
}

func cartJSON(c echo.Context) func(usecase.CartResponse, error) error {
	return func(out usecase.CartResponse, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}
