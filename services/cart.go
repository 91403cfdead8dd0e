package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/storefront-api/apierr"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/models"
)

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartItemView is a cart line expanded with the product's current name, price
// and images. Prices are never copied onto cart rows.
type CartItemView struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   CartItemProduct `json:"product"`
}

type CartItemProduct struct {
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Images []string `json:"images"`
}

type CartView struct {
	ID    string         `json:"id"`
	Items []CartItemView `json:"items"`
}

type CartService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartService(db *gorm.DB, log *logger.Logger) *CartService {
	return &CartService{db: db, log: log.With("service", "CartService")}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (CartView, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC") }).
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartView{}, apierr.NotFound("cart not found")
		}
		return CartView{}, apierr.Internal(err)
	}

	items, err := s.expandItems(ctx, cart.Items)
	if err != nil {
		return CartView{}, err
	}
	return CartView{ID: cart.ID, Items: items}, nil
}

// AddItem adds a product to the user's cart. When the cart already holds that
// product the stored quantity is incremented in a single upsert, so two
// concurrent adds of the same product can never duplicate the row.
func (s *CartService) AddItem(ctx context.Context, userID string, in AddItemInput) (CartItemView, error) {
	cart, err := s.cartByUser(ctx, userID)
	if err != nil {
		return CartItemView{}, err
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartItemView{}, apierr.NotFound("product not found")
		}
		return CartItemView{}, apierr.Internal(err)
	}

	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  in.Quantity,
		AddedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + ?", in.Quantity),
		}),
	}).Create(&item).Error; err != nil {
		return CartItemView{}, apierr.Internal(err)
	}

	// The upsert may have hit an existing row, whose ID differs from the one
	// generated above. Read the row back.
	var row models.CartItem
	if err := s.db.WithContext(ctx).
		First(&row, "cart_id = ? AND product_id = ?", cart.ID, product.ID).Error; err != nil {
		return CartItemView{}, apierr.Internal(err)
	}

	s.log.Debug("cart item added", "cart_id", cart.ID, "product_id", product.ID, "quantity", row.Quantity)
	return toItemView(row, product), nil
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (CartItemView, error) {
	cart, err := s.cartByUser(ctx, userID)
	if err != nil {
		return CartItemView{}, err
	}

	res := s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		Update("quantity", quantity)
	if res.Error != nil {
		return CartItemView{}, apierr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return CartItemView{}, apierr.NotFound("cart item not found")
	}

	var row models.CartItem
	if err := s.db.WithContext(ctx).First(&row, "id = ?", itemID).Error; err != nil {
		return CartItemView{}, apierr.Internal(err)
	}
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", row.ProductID).Error; err != nil {
		return CartItemView{}, apierr.Internal(err)
	}
	return toItemView(row, product), nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	cart, err := s.cartByUser(ctx, userID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return apierr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("cart item not found")
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	cart, err := s.cartByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Where("cart_id = ?", cart.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		return apierr.Internal(err)
	}
	return nil
}

// CartTotal sums quantity times the product's current price over the cart.
// The total is derived on every call, never stored.
func (s *CartService) CartTotal(ctx context.Context, userID string) (float64, error) {
	cart, err := s.cartByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total float64
	if err := s.db.WithContext(ctx).
		Table("cart_items").
		Select("COALESCE(SUM(cart_items.quantity * products.price), 0)").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cart.ID).
		Scan(&total).Error; err != nil {
		return 0, apierr.Internal(err)
	}
	return total, nil
}

func (s *CartService) cartByUser(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	if err := s.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cart{}, apierr.NotFound("cart not found")
		}
		return models.Cart{}, apierr.Internal(err)
	}
	return cart, nil
}

func (s *CartService) expandItems(ctx context.Context, items []models.CartItem) ([]CartItemView, error) {
	views := make([]CartItemView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		views = append(views, toItemView(item, product))
	}
	return views, nil
}

func toItemView(item models.CartItem, product models.Product) CartItemView {
	return CartItemView{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Product: CartItemProduct{
			Name:   product.Name,
			Price:  product.Price,
			Images: product.Images,
		},
	}
}
