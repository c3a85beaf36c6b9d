package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"sweetshop/internal/infra/db"
	infraRepo "sweetshop/internal/infra/repository"
	"sweetshop/internal/repository"

	"github.com/joho/godotenv"
)

// ユーザーを管理者に昇格させるオフラインスクリプト。
// 公開APIにはis_adminを変更するエンドポイントは無い。
//
//	usage: makeadmin            既存ユーザー一覧
//	       makeadmin <username> 指定ユーザーを管理者にする
func main() {
	_ = godotenv.Load()

	gormDB, err := db.Connect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "db connect failed: %v\n", err)
		os.Exit(1)
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	ctx := context.Background()

	if len(os.Args) < 2 {
		users, err := userRepo.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list users failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Existing users:")
		for _, u := range users {
			role := "USER"
			if u.IsAdmin {
				role = "ADMIN"
			}
			fmt.Printf("  %-5s | %s | %s\n", role, u.Username, u.Email)
		}
		fmt.Println("\nusage: makeadmin <username>")
		return
	}

	username := os.Args[1]

	user, err := userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fmt.Fprintf(os.Stderr, "user %q not found\n", username)
		} else {
			fmt.Fprintf(os.Stderr, "find user failed: %v\n", err)
		}
		os.Exit(1)
	}

	user.IsAdmin = true
	if err := userRepo.Update(ctx, user); err != nil {
		fmt.Fprintf(os.Stderr, "update failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s is now an admin\n", username)
}
