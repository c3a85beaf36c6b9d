package main

import (
	"sweetshop/internal/config"
	"sweetshop/internal/domain/model"
	"sweetshop/internal/handler"
	"sweetshop/internal/infra/db"
	infraRepo "sweetshop/internal/infra/repository"
	"sweetshop/internal/server"
	"sweetshop/internal/storage"
	"sweetshop/internal/usecase"
	"sweetshop/internal/validator"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Sweet{},
	); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	sweetRepo := infraRepo.NewSweetGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, validator.NewAuthValidator())
	sweetUC := usecase.NewSweetUsecase(sweetRepo, txManager)

	//画像保存先
	store := storage.NewLocalStorage(cfg.UploadDir)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	sweetH := handler.NewSweetHandler(sweetUC, store)

	//Server起動
	e := server.New(cfg, logger)
	server.RegisterRoutes(e, cfg, userRepo, authH, sweetH)

	addr := ":" + cfg.Port
	logger.Info("server starting", zap.String("addr", addr))

	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
