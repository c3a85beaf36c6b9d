package middleware

import (
	"net/http"

	"sweetshop/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのsub（username）から最新のユーザーを引く。
// トークン発行後に削除されたユーザーは401。
func CurrentUser(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたusernameを取得する
			rawUsername := c.Get(CtxUsernameKey)
			username, ok := rawUsername.(string)
			if !ok || username == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgCouldNotValidate))
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByUsername(c.Request().Context(), username)
			if err != nil || user == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON(msgCouldNotValidate))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, user.ID)
			c.Set(CtxIsAdminKey, user.IsAdmin)

			return next(c)
		}
	}
}
