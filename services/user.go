package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/apierr"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/models"
)

const bcryptCost = 12

// UserView is a user record without the password hash. It is the only user
// shape that leaves the service.
type UserView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type UserQuery struct {
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=ADMIN USER"`
}

type CreateUserInput struct {
	Name     string       `json:"name" binding:"required"`
	Email    string       `json:"email" binding:"required,email"`
	Password string       `json:"password" binding:"required,min=8"`
	Role     *models.Role `json:"role" binding:"omitempty,oneof=ADMIN USER"`
}

type UpdateUserInput struct {
	Name            *string      `json:"name" binding:"omitempty,min=1"`
	Email           *string      `json:"email" binding:"omitempty,email"`
	Password        *string      `json:"password" binding:"omitempty,min=8"`
	CurrentPassword *string      `json:"current_password"`
	Role            *models.Role `json:"role" binding:"omitempty,oneof=ADMIN USER"`
}

type UserService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserService(db *gorm.DB, log *logger.Logger) *UserService {
	return &UserService{db: db, log: log.With("service", "UserService")}
}

func (s *UserService) FindMany(ctx context.Context, q UserQuery) ([]UserView, Pagination, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	query := s.db.WithContext(ctx).Model(&models.User{})
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, apierr.Internal(err)
	}

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, Pagination{}, apierr.Internal(err)
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return views, Pagination{
		Total:   total,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
		Current: page,
		Limit:   limit,
	}, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (UserView, error) {
	user, err := s.userByID(ctx, id)
	if err != nil {
		return UserView{}, err
	}
	return toUserView(user), nil
}

// Create stores a new user and provisions their cart in the same transaction.
// A duplicate email is rejected before any hashing or writes happen; one that
// slips in between the check and the insert is caught by the unique index.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (UserView, error) {
	email := normalizeEmail(in.Email)

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return UserView{}, apierr.Internal(err)
	}
	if count > 0 {
		return UserView{}, apierr.Validation("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return UserView{}, apierr.Internal(err)
	}
	hashed := string(hash)

	role := models.RoleUser
	if in.Role != nil {
		role = *in.Role
	}

	user := models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: &hashed,
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Cart{UserID: user.ID}).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return UserView{}, apierr.Validation("email already exists")
		}
		return UserView{}, apierr.Internal(err)
	}

	s.log.Info("user created", "user_id", user.ID, "role", user.Role)
	return toUserView(user), nil
}

// Update applies a partial update. Changing the password requires the current
// one to verify; role changes are gated by policy at the handler.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (UserView, error) {
	user, err := s.userByID(ctx, id)
	if err != nil {
		return UserView{}, err
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			var count int64
			if err := s.db.WithContext(ctx).
				Model(&models.User{}).
				Where("email = ? AND id <> ?", email, user.ID).
				Count(&count).Error; err != nil {
				return UserView{}, apierr.Internal(err)
			}
			if count > 0 {
				return UserView{}, apierr.Validation("email already exists")
			}
			user.Email = email
		}
	}

	if in.Password != nil {
		if in.CurrentPassword == nil {
			return UserView{}, apierr.Validation("current password is required to set a new password")
		}
		if user.Password == nil {
			return UserView{}, apierr.Validation("invalid current password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(*in.CurrentPassword)); err != nil {
			return UserView{}, apierr.Validation("invalid current password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return UserView{}, apierr.Internal(err)
		}
		hashed := string(hash)
		user.Password = &hashed
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return UserView{}, apierr.Internal(err)
	}
	return toUserView(user), nil
}

// Delete removes a user and their cart. The last remaining admin can never be
// deleted, not even by themselves.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.userByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleAdmin {
		var admins int64
		if err := s.db.WithContext(ctx).
			Model(&models.User{}).
			Where("role = ?", models.RoleAdmin).
			Count(&admins).Error; err != nil {
			return apierr.Internal(err)
		}
		if admins <= 1 {
			return apierr.Validation("cannot delete the last admin account")
		}
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.First(&cart, "user_id = ?", user.ID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	}); err != nil {
		return apierr.Internal(err)
	}

	s.log.Info("user deleted", "user_id", user.ID)
	return nil
}

// VerifyCredentials checks a submitted password against the stored hash.
// Accounts without a password hash (federated logins) always fail here.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (UserView, error) {
	invalid := apierr.Unauthorized("invalid email or password")

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserView{}, invalid
		}
		return UserView{}, apierr.Internal(err)
	}
	if user.Password == nil {
		return UserView{}, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return UserView{}, invalid
	}
	return toUserView(user), nil
}

func (s *UserService) userByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apierr.NotFound("user not found")
		}
		return models.User{}, apierr.Internal(err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserView(u models.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
