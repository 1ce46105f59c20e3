package middleware

import (
	"context"
	"errors"
	"net/http"

	"atelier/internal/domain/model"
	"atelier/internal/repository"

	"github.com/labstack/echo/v4"
)

var errStaleSession = errors.New("stale session")

// AuthJWTの後ろに置く。強制ログアウト済み・停止済みのユーザーを401で弾き、
// DB上のユーザーとロールをcontextに入れ直す。
func TokenVersionGuard(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserIDKey).(string)
			tv, hasTV := c.Get(CtxTokenVersionKey).(int)
			if userID == "" || !hasTV {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			user, err := currentUser(c.Request().Context(), users, userID, tv)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			// ロールはトークンではなくDBの値
			c.Set(CtxUserRoleKey, string(user.Role))
			c.Set(CtxUserKey, *user)
			return next(c)
		}
	}
}

func currentUser(ctx context.Context, users repository.UserRepository, userID string, tv int) (*model.User, error) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || user.TokenVersion != tv {
		return nil, errStaleSession
	}
	return user, nil
}
