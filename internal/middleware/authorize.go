package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type Authorizer interface {
	Allow(role, path, method string) (bool, error)
}

// contextのroleでパスとメソッドへのアクセス可否を判定する。
func Authorize(authz Authorizer, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			req := c.Request()
			allowed, err := authz.Allow(role, req.URL.Path, req.Method)
			if err != nil {
				log.WithError(err).Error("authorization check failed")
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}
			if !allowed {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}
