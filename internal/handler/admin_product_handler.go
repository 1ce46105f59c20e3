package handler

import (
	"net/http"

	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

// InventoryUpdateRequest は在庫更新の入力です。
type InventoryUpdateRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

// /admin/products, /admin/inventory, /admin/fabrics, /admin/models をまとめる
type AdminProductHandler struct {
	uc      *usecase.ProductUsecase
	catalog *usecase.CatalogUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase, catalog *usecase.CatalogUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, catalog: catalog}
}

// gは /admin
func (h *AdminProductHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
	g.PUT("/inventory/:product_id", h.updateInventory)

	g.GET("/fabrics", h.listFabrics)
	g.POST("/fabrics", h.createFabric)
	g.PUT("/fabrics/:id", h.updateFabric)
	g.DELETE("/fabrics/:id", h.deleteFabric)

	g.GET("/models", h.listModels)
	g.POST("/models", h.createModel)
	g.PUT("/models/:id", h.updateModel)
	g.DELETE("/models/:id", h.deleteModel)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req usecase.AdminProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var req usecase.AdminProductInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, c.Param("id"), req); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "updated"})
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), adminID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "deleted"})
}

func (h *AdminProductHandler) updateInventory(c echo.Context) error {
	var req InventoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.AdminUpdateInventory(
		c.Request().Context(),
		adminID,
		c.Param("product_id"),
		req.Stock,
		req.Reason,
	); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "stock updated"})
}

// 管理画面は非アクティブも含めて返す
func (h *AdminProductHandler) listFabrics(c echo.Context) error {
	list, err := h.catalog.ListFabrics(c.Request().Context(), false)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"fabrics": list})
}

func (h *AdminProductHandler) createFabric(c echo.Context) error {
	var req usecase.FabricInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	f, err := h.catalog.CreateFabric(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *AdminProductHandler) updateFabric(c echo.Context) error {
	var req usecase.FabricInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	if err := h.catalog.UpdateFabric(c.Request().Context(), c.Param("id"), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "updated"})
}

func (h *AdminProductHandler) deleteFabric(c echo.Context) error {
	if err := h.catalog.DeleteFabric(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "deleted"})
}

func (h *AdminProductHandler) listModels(c echo.Context) error {
	list, err := h.catalog.ListModels(c.Request().Context(), c.QueryParam("category"), c.QueryParam("side"), false)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"models": list})
}

func (h *AdminProductHandler) createModel(c echo.Context) error {
	var req usecase.DesignModelInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	m, err := h.catalog.CreateModel(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *AdminProductHandler) updateModel(c echo.Context) error {
	var req usecase.DesignModelInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	if err := h.catalog.UpdateModel(c.Request().Context(), c.Param("id"), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "updated"})
}

func (h *AdminProductHandler) deleteModel(c echo.Context) error {
	if err := h.catalog.DeleteModel(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "deleted"})
}
