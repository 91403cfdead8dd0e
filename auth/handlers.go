package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/api"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/services"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a regular user account and logs it straight in.
func Register(users *services.UserService, cfg config.Config, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateUserInput
		if err := c.ShouldBindJSON(&in); err != nil {
			api.ValidationError(c, err)
			return
		}
		in.Role = nil // self-registration never picks a role

		user, err := users.Create(c.Request.Context(), in)
		if err != nil {
			api.Fail(c, log, err)
			return
		}

		token, err := IssueToken(cfg.JWTSecret, cfg.JWTTTL, user.ID, user.Role)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.OK(c, http.StatusCreated, gin.H{"user": user, "token": token})
	}
}

func Login(users *services.UserService, cfg config.Config, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in LoginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			api.ValidationError(c, err)
			return
		}

		user, err := users.VerifyCredentials(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			api.Fail(c, log, err)
			return
		}

		token, err := IssueToken(cfg.JWTSecret, cfg.JWTTTL, user.ID, user.Role)
		if err != nil {
			api.Fail(c, log, err)
			return
		}
		api.OK(c, http.StatusOK, gin.H{"user": user, "token": token})
	}
}
