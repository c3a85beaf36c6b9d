package validator

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"sweetshop/internal/usecase"
)

type authValidator struct{}

// Usecaseは interface を依存注入
// 重複チェック（username/email）は順序が決まっているのでusecase側で行う。
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, username string, email string, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// username 3〜50文字
	if len(username) < 3 || len(username) > 50 {
		return usecase.NewHTTPError(http.StatusUnprocessableEntity, "username must be 3-50 characters")
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.NewHTTPError(http.StatusUnprocessableEntity, "invalid email format")
	}

	// パスワード最低文字数（6）
	if len(password) < 6 {
		return usecase.NewHTTPError(http.StatusUnprocessableEntity, "password must be at least 6 characters")
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	// 必須チェック
	if strings.TrimSpace(username) == "" || password == "" {
		return usecase.NewHTTPError(http.StatusUnprocessableEntity, "username and password are required")
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
