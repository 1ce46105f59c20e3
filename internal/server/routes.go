package server

import (
	"net/http"

	"atelier/internal/handler"
	"atelier/internal/middleware"
	"atelier/internal/realtime"
	"atelier/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Handlers はルートに載せるハンドラ一式。
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Cart         *handler.CartHandler
	Address      *handler.AddressHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminProduct *handler.AdminProductHandler
	AdminUser    *handler.AdminUserHandler
	Hub          *realtime.Hub
}

// Guards は認証・認可ミドルウェアの部品。
type Guards struct {
	Tokens middleware.TokenVerifier
	Users  repository.UserRepository
	Authz  middleware.Authorizer
	Log    logrus.FieldLogger
}

// RegisterRoutes は /api（公開・認証済み）と /admin を登録する。
func RegisterRoutes(e *echo.Echo, h Handlers, g Guards) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	//認証不要
	public := e.Group("/api")
	h.Auth.RegisterPublicRoutes(public)
	h.Product.RegisterRoutes(public)

	// JWT必須 + token_version一致 + ロール判定
	guard := []echo.MiddlewareFunc{
		middleware.AuthJWT(g.Tokens),
		middleware.TokenVersionGuard(g.Users),
		middleware.Authorize(g.Authz, g.Log),
	}

	api := e.Group("/api", guard...)
	h.Auth.RegisterRoutes(api)
	h.Order.RegisterRoutes(api)
	h.Cart.RegisterRoutes(api)
	h.Address.RegisterRoutes(api)

	admin := e.Group("/admin", guard...)
	h.AdminOrder.RegisterRoutes(admin)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminUser.RegisterRoutes(admin)
	if h.Hub != nil {
		admin.GET("/ws", h.Hub.Handler)
	}
}
