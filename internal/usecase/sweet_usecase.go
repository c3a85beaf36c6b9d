package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sweetshop/internal/domain/model"
	repo "sweetshop/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type SweetUsecase struct {
	sweets repo.SweetRepository
	tx     repo.TransactionManager
}

// DI
func NewSweetUsecase(sweets repo.SweetRepository, tx repo.TransactionManager) *SweetUsecase {
	return &SweetUsecase{
		sweets: sweets,
		tx:     tx,
	}
}

type CreateSweetInput struct {
	Name        string
	Category    string
	Price       float64
	Quantity    int64
	Description string
	ImageURL    string
}

func (u *SweetUsecase) Create(ctx context.Context, in CreateSweetInput) (model.Sweet, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "category is required")
	}
	if in.Price < 0 {
		return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "price must be >= 0")
	}
	if in.Quantity < 0 {
		return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "quantity must be >= 0")
	}

	s, err := u.sweets.Create(ctx, model.Sweet{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return model.Sweet{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *SweetUsecase) List(ctx context.Context) ([]model.Sweet, error) {
	sweets, err := u.sweets.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sweets, nil
}

type SearchSweetsInput struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (u *SweetUsecase) Search(ctx context.Context, in SearchSweetsInput) ([]model.Sweet, error) {
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return nil, NewHTTPError(http.StatusUnprocessableEntity, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return nil, NewHTTPError(http.StatusUnprocessableEntity, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return nil, NewHTTPError(http.StatusUnprocessableEntity, "min_price must be <= max_price")
	}

	sweets, err := u.sweets.Search(ctx, repo.SweetSearchQuery{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return sweets, nil
}

func (u *SweetUsecase) GetByID(ctx context.Context, sweetID int64) (model.Sweet, error) {
	s, err := u.sweets.FindByID(ctx, sweetID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Sweet{}, NewHTTPError(http.StatusNotFound, "Sweet not found")
	}
	if err != nil {
		return model.Sweet{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

type UpdateSweetInput struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *int64
	Description *string
	ImageURL    *string
}

// 部分更新。渡されたフィールドだけ上書きし、省略分は元の値のまま。
func (u *SweetUsecase) Update(ctx context.Context, sweetID int64, in UpdateSweetInput) (model.Sweet, error) {
	fields := map[string]interface{}{}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "name is required")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		if strings.TrimSpace(*in.Category) == "" {
			return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "category is required")
		}
		fields["category"] = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "price must be >= 0")
		}
		fields["price"] = *in.Price
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "quantity must be >= 0")
		}
		fields["quantity"] = *in.Quantity
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}

	if len(fields) > 0 {
		err := u.sweets.UpdateFields(ctx, sweetID, fields)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Sweet{}, NewHTTPError(http.StatusNotFound, "Sweet not found")
		}
		if err != nil {
			return model.Sweet{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.GetByID(ctx, sweetID)
}

func (u *SweetUsecase) Delete(ctx context.Context, sweetID int64) error {
	err := u.sweets.Delete(ctx, sweetID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Sweet not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 購入。数量チェック→条件付き減算をトランザクション内で行う。
func (u *SweetUsecase) Purchase(ctx context.Context, sweetID int64, quantity int64) (model.Sweet, error) {
	if quantity <= 0 {
		return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "quantity must be > 0")
	}

	var out model.Sweet

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Sweets().FindByID(ctx, sweetID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Sweet not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//在庫が足りるときだけ減らす（同時購入でもマイナスにならない）
		ok, err := r.Sweets().DecreaseQuantityIfEnough(ctx, sweetID, quantity)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Not enough stock. Available: %d", s.Quantity))
		}

		out, err = r.Sweets().FindByID(ctx, sweetID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return model.Sweet{}, err
	}

	return out, nil
}

// 補充。上限なしで加算する。
func (u *SweetUsecase) Restock(ctx context.Context, sweetID int64, quantity int64) (model.Sweet, error) {
	if quantity <= 0 {
		return model.Sweet{}, NewHTTPError(http.StatusUnprocessableEntity, "quantity must be > 0")
	}

	var out model.Sweet

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Sweets().IncreaseQuantity(ctx, sweetID, quantity)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Sweet not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = r.Sweets().FindByID(ctx, sweetID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return model.Sweet{}, err
	}

	return out, nil
}
