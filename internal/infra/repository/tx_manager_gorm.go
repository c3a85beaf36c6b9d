package repository

import (
	"context"

	repo "sweetshop/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	sweets repo.SweetRepository
}

func (r *txReposGorm) Sweets() repo.SweetRepository { return r.sweets }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			sweets: NewSweetGormRepository(tx),
		}
		return fn(r)
	})
}
