package repository

import (
	"context"
	"errors"

	"sweetshop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 検索条件。未指定のフィルタは条件なし。
type SweetSearchQuery struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// 商品の永続化（保存・取得）だけを約束。
type SweetRepository interface {
	List(ctx context.Context) ([]model.Sweet, error)
	Search(ctx context.Context, q SweetSearchQuery) ([]model.Sweet, error)
	FindByID(ctx context.Context, id int64) (model.Sweet, error)

	Create(ctx context.Context, s model.Sweet) (model.Sweet, error)
	// 渡されたカラムだけ更新する（部分更新）
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	// 在庫が足りるときだけ減算
	DecreaseQuantityIfEnough(ctx context.Context, id int64, qty int64) (bool, error)
	// 在庫追加（上限なし）
	IncreaseQuantity(ctx context.Context, id int64, qty int64) error
}
