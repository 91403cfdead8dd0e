package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/apierr"
	"github.com/junaidrashid-git/storefront-api/models"
)

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	_, err := svc.Create(context.Background(), CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "Secret12345"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserInput{Name: "Imposter", Email: "Alice@Example.com", Password: "Another12345"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.Status(err))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateHashesPasswordAndCreatesCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	view, err := svc.Create(context.Background(), CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "Secret12345"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, view.Role)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", view.ID).Error)
	require.NotNil(t, user.Password)
	assert.NotEqual(t, "Secret12345", *user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte("Secret12345")))

	var cart models.Cart
	require.NoError(t, db.First(&cart, "user_id = ?", view.ID).Error)
}

func TestCreateProvisionsUsableCart(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db, testLogger())
	carts := NewCartService(db, testLogger())
	product := seedProduct(t, db, "Blue Shirt", 19.99, "", time.Now())

	view, err := users.Create(context.Background(), CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "Secret12345"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", view.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)

	// The very first add must land in the cart created alongside the user.
	item, err := carts.AddItem(context.Background(), view.ID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestCreateMapsRacingDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	// Sneak a conflicting row in after the duplicate check has passed, right
	// before the insert, so only the unique index can catch it.
	raced := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("race_duplicate_email", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "users" {
			return
		}
		raced = true
		err := tx.Session(&gorm.Session{NewDB: true}).
			Create(&models.User{Name: "First", Email: "race@example.com", Role: models.RoleUser}).Error
		if err != nil {
			t.Errorf("seeding conflicting user: %v", err)
		}
	}))

	_, err := svc.Create(context.Background(), CreateUserInput{Name: "Second", Email: "race@example.com", Password: "Secret12345"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.Status(err))
}

func TestVerifyCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	created, err := svc.Create(context.Background(), CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "Secret12345"})
	require.NoError(t, err)

	view, err := svc.VerifyCredentials(context.Background(), "alice@example.com", "Secret12345")
	require.NoError(t, err)
	assert.Equal(t, created.ID, view.ID)

	_, err = svc.VerifyCredentials(context.Background(), "alice@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apierr.Status(err))

	_, err = svc.VerifyCredentials(context.Background(), "nobody@example.com", "Secret12345")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apierr.Status(err))
}

func TestVerifyCredentialsFederatedAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	// No password hash stored, as for accounts created through federated login.
	seedUserWithCart(t, db, "federated@example.com", models.RoleUser)

	_, err := svc.VerifyCredentials(context.Background(), "federated@example.com", "anything")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apierr.Status(err))
}

func TestUpdatePasswordRequiresCurrentPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	created, err := svc.Create(context.Background(), CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "Secret12345"})
	require.NoError(t, err)

	newPassword := "Changed12345"
	_, err = svc.Update(context.Background(), created.ID, UpdateUserInput{Password: &newPassword})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.Status(err))

	wrong := "not-the-password"
	_, err = svc.Update(context.Background(), created.ID, UpdateUserInput{Password: &newPassword, CurrentPassword: &wrong})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.Status(err))

	current := "Secret12345"
	_, err = svc.Update(context.Background(), created.ID, UpdateUserInput{Password: &newPassword, CurrentPassword: &current})
	require.NoError(t, err)

	_, err = svc.VerifyCredentials(context.Background(), "alice@example.com", "Changed12345")
	require.NoError(t, err)
}

func TestUpdateRejectsEmailConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	_, err := svc.Create(context.Background(), CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "Secret12345"})
	require.NoError(t, err)
	bob, err := svc.Create(context.Background(), CreateUserInput{Name: "Bob", Email: "bob@example.com", Password: "Secret12345"})
	require.NoError(t, err)

	email := "alice@example.com"
	_, err = svc.Update(context.Background(), bob.ID, UpdateUserInput{Email: &email})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.Status(err))
}

func TestDeleteLastAdminRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	admin := seedUserWithCart(t, db, "admin@example.com", models.RoleAdmin)

	err := svc.Delete(context.Background(), admin.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.Status(err))

	// With a second admin around the delete goes through.
	seedUserWithCart(t, db, "admin2@example.com", models.RoleAdmin)
	require.NoError(t, svc.Delete(context.Background(), admin.ID))

	_, err = svc.FindByID(context.Background(), admin.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierr.Status(err))
}

func TestDeleteRemovesCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	user := seedUserWithCart(t, db, "alice@example.com", models.RoleUser)
	require.NoError(t, svc.Delete(context.Background(), user.ID))

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFindManyFiltersByRoleAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, testLogger())

	seedUserWithCart(t, db, "admin@example.com", models.RoleAdmin)
	seedUserWithCart(t, db, "alice@example.com", models.RoleUser)
	seedUserWithCart(t, db, "bob@example.com", models.RoleUser)

	views, pagination, err := svc.FindMany(context.Background(), UserQuery{Page: 1, Limit: 10, Role: "USER"})
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, int64(2), pagination.Total)

	views, _, err = svc.FindMany(context.Background(), UserQuery{Page: 1, Limit: 10, Search: "ALICE"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "alice@example.com", views[0].Email)
}
