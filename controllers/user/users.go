package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/api"
	"github.com/junaidrashid-git/storefront-api/apierr"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/services"
)

func subject(c *gin.Context) (models.Role, string) {
	return models.Role(c.GetString("role")), c.GetString("user_id")
}

// GET /users (admin)
func GetAllUsers(users *services.UserService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, uid := subject(c)
		if !services.Authorize(role, uid, services.ActionUserList, "") {
			api.Fail(c, log, apierr.Forbidden("forbidden"))
			return
		}

		var q services.UserQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			api.ValidationError(c, err)
			return
		}

		views, pagination, err := users.FindMany(c.Request.Context(), q)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.Paginated(c, views, pagination)
	}
}

// POST /users (admin)
func CreateUser(users *services.UserService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, uid := subject(c)
		if !services.Authorize(role, uid, services.ActionUserCreate, "") {
			api.Fail(c, log, apierr.Forbidden("forbidden"))
			return
		}

		var in services.CreateUserInput
		if err := c.ShouldBindJSON(&in); err != nil {
			api.ValidationError(c, err)
			return
		}

		user, err := users.Create(c.Request.Context(), in)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.OK(c, http.StatusCreated, user)
	}
}

// GET /users/:id
func GetUser(users *services.UserService, carts *services.CartService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("id")
		role, uid := subject(c)
		if !services.Authorize(role, uid, services.ActionUserRead, targetID) {
			api.Fail(c, log, apierr.Forbidden("forbidden"))
			return
		}

		user, err := users.FindByID(c.Request.Context(), targetID)
		if err != nil {
			api.Fail(c, log, err)
			return
		}

		if c.Query("include") == "cart" {
			cart, err := carts.GetCart(c.Request.Context(), targetID)
			if err != nil {
				api.Fail(c, log, err)
				return
			}
			api.OK(c, http.StatusOK, gin.H{"user": user, "cart": cart})
			return
		}
		api.OK(c, http.StatusOK, user)
	}
}

// PUT /users/:id
func UpdateUser(users *services.UserService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("id")
		role, uid := subject(c)
		if !services.Authorize(role, uid, services.ActionUserUpdate, targetID) {
			api.Fail(c, log, apierr.Forbidden("forbidden"))
			return
		}

		var in services.UpdateUserInput
		if err := c.ShouldBindJSON(&in); err != nil {
			api.ValidationError(c, err)
			return
		}

		// Only admins may assign roles.
		if in.Role != nil && role != models.RoleAdmin {
			api.Fail(c, log, apierr.Forbidden("cannot change role"))
			return
		}

		user, err := users.Update(c.Request.Context(), targetID, in)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.OK(c, http.StatusOK, user)
	}
}

// DELETE /users/:id (admin)
func DeleteUser(users *services.UserService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID := c.Param("id")
		role, uid := subject(c)
		if !services.Authorize(role, uid, services.ActionUserDelete, targetID) {
			api.Fail(c, log, apierr.Forbidden("forbidden"))
			return
		}

		if err := users.Delete(c.Request.Context(), targetID); err != nil {
			api.Fail(c, log, err)
			return
		}
		api.NoContent(c)
	}
}
