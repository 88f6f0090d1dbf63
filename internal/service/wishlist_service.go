package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"github.com/rs/zerolog"
)

type IWishlistService interface {
	// Toggle 商品不在收藏清單時加入，已在清單時移除
	Toggle(ctx context.Context, userID int64, productID string) (*WishlistToggleResult, error)
	List(ctx context.Context, userID int64) ([]WishlistEntry, error)
}

// WishlistToggleResult Added=false 表示這次是移除
type WishlistToggleResult struct {
	Added bool
	Entry *WishlistEntry
}

// WishlistEntry 收藏項目加上目前的商品資料
type WishlistEntry struct {
	ID        int64
	Product   model.Product
	CreatedAt time.Time
}

type WishlistService struct {
	store  repository.UnifiedDB
	logger *zerolog.Logger
}

func NewWishlistService(store repository.UnifiedDB, logger *zerolog.Logger) *WishlistService {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &WishlistService{store: store, logger: logger}
}

// Toggle 只有上架中的商品可以加入，移除不檢查商品狀態
func (s *WishlistService) Toggle(ctx context.Context, userID int64, productID string) (*WishlistToggleResult, error) {
	if userID <= 0 {
		return nil, apperr.Forbidden(CodeForbidden, "identity required")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperr.Validation(CodeInvalidProductID, "product id is required")
	}

	var result WishlistToggleResult
	err := s.store.ExecTx(ctx, func(tx repository.UnifiedDB) error {
		_, err := tx.GetWishlistItem(ctx, userID, productID)
		switch {
		case err == nil:
			result = WishlistToggleResult{Added: false}
			return tx.DeleteWishlistItem(ctx, userID, productID)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		product, err := tx.GetProductByID(ctx, productID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return apperr.NotFound(CodeProductNotFound, "product not found")
		}

		item := &model.WishlistItem{UserID: userID, ProductID: productID}
		created, err := tx.CreateWishlistItemIfNotExists(ctx, item)
		if err != nil {
			return err
		}
		if !created {
			// 同時有另一個請求先寫入
			if item, err = tx.GetWishlistItem(ctx, userID, productID); err != nil {
				return err
			}
		}
		result = WishlistToggleResult{
			Added: true,
			Entry: &WishlistEntry{ID: item.ID, Product: *product, CreatedAt: item.CreatedAt},
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, CodeProductNotFound, "product not found")
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Str("product_id", productID).
		Bool("added", result.Added).
		Msg("wishlist toggled")
	return &result, nil
}

// List 已下架或不存在的商品不列出
func (s *WishlistService) List(ctx context.Context, userID int64) ([]WishlistEntry, error) {
	if userID <= 0 {
		return nil, apperr.Forbidden(CodeForbidden, "identity required")
	}
	items, err := s.store.ListWishlistItemsByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Unavailable(CodeStoreUnavailable, err)
	}
	if len(items) == 0 {
		return []WishlistEntry{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Unavailable(CodeStoreUnavailable, err)
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	out := make([]WishlistEntry, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok || !p.IsActive {
			continue
		}
		out = append(out, WishlistEntry{ID: item.ID, Product: p, CreatedAt: item.CreatedAt})
	}
	return out, nil
}

var _ IWishlistService = (*WishlistService)(nil)
