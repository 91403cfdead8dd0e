package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/apierr"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/models"
)

// Pagination is the metadata block attached to every paginated listing.
type Pagination struct {
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	Current int   `json:"current"`
	Limit   int   `json:"limit"`
}

type ProductQuery struct {
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
}

type CreateProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price" binding:"gte=0"`
	Description string   `json:"description"`
	Images      []string `json:"images" binding:"required,min=1,dive,url"`
}

type UpdateProductInput struct {
	Name        *string  `json:"name" binding:"omitempty,min=1"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Images      []string `json:"images" binding:"omitempty,min=1,dive,url"`
}

// escapeLike quotes LIKE metacharacters so user-supplied search terms match
// literally instead of acting as wildcards.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type ProductService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductService(db *gorm.DB, log *logger.Logger) *ProductService {
	return &ProductService{db: db, log: log.With("service", "ProductService")}
}

// FindMany lists products newest first. When search is set it matches a
// case-insensitive substring of name or description.
func (s *ProductService) FindMany(ctx context.Context, q ProductQuery) ([]models.Product, Pagination, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&models.Product{})
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, apierr.Internal(err)
	}

	var products []models.Product
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, Pagination{}, apierr.Internal(err)
	}

	return products, Pagination{
		Total:   total,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
		Current: page,
		Limit:   limit,
	}, nil
}

// All returns the full catalog, newest first. Used by the Excel export.
func (s *ProductService) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, apierr.Internal(err)
	}
	return products, nil
}

func (s *ProductService) FindByID(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, apierr.NotFound("product not found")
		}
		return models.Product{}, apierr.Internal(err)
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (models.Product, error) {
	product := models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Images:      datatypes.NewJSONSlice(in.Images),
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return models.Product{}, apierr.Internal(err)
	}
	s.log.Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in UpdateProductInput) (models.Product, error) {
	product, err := s.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Images != nil {
		product.Images = datatypes.NewJSONSlice(in.Images)
	}

	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return models.Product{}, apierr.Internal(err)
	}
	return product, nil
}

// Delete removes a product together with any cart items that reference it, so
// carts never hold orphaned lines.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	}); err != nil {
		return apierr.Internal(err)
	}

	s.log.Info("product deleted", "product_id", product.ID)
	return nil
}
