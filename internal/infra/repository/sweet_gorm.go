package repository

import (
	"context"
	"errors"
	"strings"

	"sweetshop/internal/domain/model"
	repo "sweetshop/internal/repository"

	"gorm.io/gorm"
)

type SweetGormRepository struct {
	db *gorm.DB
}

// DI
func NewSweetGormRepository(db *gorm.DB) *SweetGormRepository {
	return &SweetGormRepository{db: db}
}

// 全商品を返す
func (r *SweetGormRepository) List(ctx context.Context) ([]model.Sweet, error) {
	var sweets []model.Sweet
	if err := r.db.WithContext(ctx).Order("id asc").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

// 名前/カテゴリ/価格帯でAND検索。部分一致は大文字小文字を区別しない。
func (r *SweetGormRepository) Search(ctx context.Context, q repo.SweetSearchQuery) ([]model.Sweet, error) {
	var sweets []model.Sweet

	tx := r.db.WithContext(ctx).Model(&model.Sweet{})

	if strings.TrimSpace(q.Name) != "" {
		like := "%" + strings.TrimSpace(q.Name) + "%"
		tx = tx.Where("name ILIKE ?", like)
	}

	if strings.TrimSpace(q.Category) != "" {
		like := "%" + strings.TrimSpace(q.Category) + "%"
		tx = tx.Where("category ILIKE ?", like)
	}

	//価格帯（両端を含む）
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	if err := tx.Order("id asc").Find(&sweets).Error; err != nil {
		return nil, err
	}

	return sweets, nil
}

// IDで商品を取得
func (r *SweetGormRepository) FindByID(ctx context.Context, id int64) (model.Sweet, error) {
	var s model.Sweet
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sweet{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sweet{}, err
	}
	return s, nil
}

// 商品の作成
func (r *SweetGormRepository) Create(ctx context.Context, s model.Sweet) (model.Sweet, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.Sweet{}, err
	}
	return s, nil
}

// 渡されたカラムだけ更新（部分更新）。省略フィールドは触らない。
func (r *SweetGormRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Sweet{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品削除（物理削除）
func (r *SweetGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Sweet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りるときだけ減らす。
// 条件付きUPDATE一発なので、同時購入でも在庫がマイナスにならない。
func (r *SweetGormRepository) DecreaseQuantityIfEnough(ctx context.Context, id int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Sweet{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫追加（上限なし）
func (r *SweetGormRepository) IncreaseQuantity(ctx context.Context, id int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Sweet{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
