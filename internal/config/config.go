package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret      string        // JWT署名シークレット
	JWTAlgorithm   string        // 署名アルゴリズム（HS256）
	AccessTokenTTL time.Duration // アクセストークンの有効期限

	UploadDir string // 画像アップロードの保存先
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		JWTSecret:    os.Getenv("SECRET_KEY"),
		JWTAlgorithm: getenv("ALGORITHM", "HS256"),

		UploadDir: getenv("UPLOAD_DIR", "uploads"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("SECRET_KEY is required")
	}

	//TTL（分、デフォルト30）
	minutes := 30
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be number: %w", err)
		}
		minutes = m
	}
	cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
