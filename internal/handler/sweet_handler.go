package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"sweetshop/internal/config"
	"sweetshop/internal/middleware"
	"sweetshop/internal/repository"
	"sweetshop/internal/storage"
	"sweetshop/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// SweetCreateRequest は商品作成の入力です。
type SweetCreateRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// SweetUpdateRequest は部分更新の入力です。nilのフィールドは触らない。
type SweetUpdateRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int64   `json:"quantity"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
}

// QuantityRequest は購入/補充の入力です。
type QuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// ImageUploadResponse は画像アップロードの出力です。
type ImageUploadResponse struct {
	ImageURL string `json:"image_url"`
}

// /api/sweets をまとめる
type SweetHandler struct {
	uc    *usecase.SweetUsecase
	store *storage.LocalStorage
}

// DI
func NewSweetHandler(uc *usecase.SweetUsecase, store *storage.LocalStorage) *SweetHandler {
	return &SweetHandler{uc: uc, store: store}
}

// sweetsのルートを登録。全部ログイン必須、delete/restockは管理者のみ。
func (h *SweetHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/sweets")

	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.CurrentUser(userRepo))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/search", h.search)
	g.POST("/upload-image", h.uploadImage)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete, middleware.AdminRoleGuard())
	g.POST("/:id/purchase", h.purchase)
	g.POST("/:id/restock", h.restock, middleware.AdminRoleGuard())
}

func (h *SweetHandler) create(c echo.Context) error {
	var req SweetCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Create(c.Request().Context(), usecase.CreateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, s)
}

func (h *SweetHandler) list(c echo.Context) error {
	sweets, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, sweets)
}

func (h *SweetHandler) search(c echo.Context) error {
	in := usecase.SearchSweetsInput{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}

	if v := c.QueryParam("min_price"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid min_price"})
		}
		in.MinPrice = &x
	}

	if v := c.QueryParam("max_price"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid max_price"})
		}
		in.MaxPrice = &x
	}

	sweets, err := h.uc.Search(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, sweets)
}

func (h *SweetHandler) get(c echo.Context) error {
	id, err := parseSweetID(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid id"})
	}

	s, err := h.uc.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

func (h *SweetHandler) update(c echo.Context) error {
	id, err := parseSweetID(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid id"})
	}

	var req SweetUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Update(c.Request().Context(), id, usecase.UpdateSweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

func (h *SweetHandler) delete(c echo.Context) error {
	id, err := parseSweetID(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *SweetHandler) purchase(c echo.Context) error {
	id, err := parseSweetID(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid id"})
	}

	var req QuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Purchase(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

func (h *SweetHandler) restock(c echo.Context) error {
	id, err := parseSweetID(c)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid id"})
	}

	var req QuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid body"})
	}

	s, err := h.uc.Restock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, s)
}

// 許可する画像拡張子
var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

func (h *SweetHandler) uploadImage(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "file is required"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid file type. Allowed types: .jpg, .jpeg, .png, .gif, .webp",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
	}
	defer src.Close()

	//ファイル名の衝突を避ける
	filename := uuid.NewString() + ext

	if err := h.store.Save(filepath.Join("sweets", filename), src); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
	}

	return c.JSON(http.StatusOK, ImageUploadResponse{ImageURL: "/uploads/sweets/" + filename})
}

func parseSweetID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
