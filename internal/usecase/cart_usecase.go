package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /api/cart の業務ロジック。
// カートはユーザーごとにACTIVEが1つ。既製品だけを入れる
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(cartRepo repo.CartRepository, cartItemRepo repo.CartItemRepository, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartRepo: cartRepo, cartItemRepo: cartItemRepo, productRepo: productRepo}
}

// Priceは追加した時点の単価
type CartItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type UpdateCartItemInput struct {
	Quantity int64 `json:"quantity"`
}

func errCartDB() error { return NewHTTPError(http.StatusInternalServerError, "db error") }

func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartResponse, error) {
	cart, err := u.activeCart(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}
	return u.buildCartResponse(ctx, cart.ID)
}

// 同じ商品はまとめる。合計数量が在庫を超えたら400
func (u *CartUsecase) AddToCart(ctx context.Context, userID string, in AddCartInput) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	cart, err := u.activeCart(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}
	p, err := u.sellable(ctx, in.ProductID)
	if err != nil {
		return CartResponse{}, err
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, errCartDB()
	}
	inCart := int64(0)
	for _, it := range items {
		if it.ProductID == in.ProductID {
			inCart = it.Quantity
			break
		}
	}
	if inCart+in.Quantity > p.Stock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, p.ID, in.Quantity, p.Price); err != nil {
		return CartResponse{}, errCartDB()
	}
	return u.buildCartResponse(ctx, cart.ID)
}

// 数量の置き換え。他人の明細は404
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID string, cartItemID string, in UpdateCartItemInput) (CartResponse, error) {
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if err := u.checkOwner(ctx, userID, cartItemID); err != nil {
		return CartResponse{}, err
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err != nil {
		return CartResponse{}, cartItemErr(err)
	}
	p, err := u.sellable(ctx, item.ProductID)
	if err != nil {
		return CartResponse{}, err
	}
	if in.Quantity > p.Stock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		return CartResponse{}, cartItemErr(err)
	}
	return u.buildCartResponse(ctx, item.CartID)
}

func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID string, cartItemID string) (CartResponse, error) {
	if err := u.checkOwner(ctx, userID, cartItemID); err != nil {
		return CartResponse{}, err
	}
	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		return CartResponse{}, cartItemErr(err)
	}
	return u.GetCart(ctx, userID)
}

func (u *CartUsecase) activeCart(ctx context.Context, userID string) (model.Cart, error) {
	if userID == "" {
		return model.Cart{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	cart, err := u.cartRepo.GetOrCreateActiveByUserID(ctx, userID)
	if err != nil {
		return model.Cart{}, errCartDB()
	}
	return cart, nil
}

// 非公開・削除済みの商品はカートに入れられない
func (u *CartUsecase) sellable(ctx context.Context, productID string) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, productID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid")
	case err != nil:
		return model.Product{}, errCartDB()
	case !p.IsActive:
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	return p, nil
}

// 他人の明細は存在しない扱い
func (u *CartUsecase) checkOwner(ctx context.Context, userID, cartItemID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return errCartDB()
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}

func cartItemErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return errCartDB()
}

// 公開が止まった商品の明細は表示にも合計にも含めない
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID string) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, errCartDB()
	}

	res := CartResponse{Items: make([]CartItemResponse, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil || !p.IsActive {
			continue
		}
		res.Items = append(res.Items, CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
		res.Total = res.Total.Add(it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return res, nil
}
