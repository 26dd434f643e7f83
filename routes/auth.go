package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chaletprop-server/database"
	"chaletprop-server/middleware"
	"chaletprop-server/models"
	"chaletprop-server/services"
	"chaletprop-server/utils"
)

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	jwtService := services.NewJWTService()

	auth := router.Group("/auth")
	auth.Use(middleware.AuthRateLimitMiddleware())
	{
		auth.POST("/register", func(c *gin.Context) {
			var req struct {
				FirstName string `json:"first_name" binding:"required,min=2,max=100"`
				LastName  string `json:"last_name" binding:"required,max=100"`
				Email     string `json:"email" binding:"required,email"`
				Password  string `json:"password" binding:"required,min=8,max=128"`
				Role      string `json:"role" binding:"omitempty,oneof=proprio pro"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			req.Email = strings.ToLower(strings.TrimSpace(req.Email))

			var existing models.User
			if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{
					"error":   "User already exists",
					"message": "An account with this email already exists",
				})
				return
			}

			hashedPassword, err := utils.HashPassword(req.Password)
			if err != nil {
				log.Printf("❌ Password hashing failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to process password",
				})
				return
			}

			role := models.RoleProprio
			if req.Role == "pro" {
				role = models.RolePro
			}

			user := models.User{
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				Email:        req.Email,
				PasswordHash: hashedPassword,
				Role:         role,
				IsActive:     true,
			}
			if err := database.DB.Create(&user).Error; err != nil {
				log.Printf("❌ User creation failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to create account",
				})
				return
			}

			tokens, err := jwtService.GenerateTokenPair(user.ID, user.Role)
			if err != nil {
				log.Printf("❌ Token generation failed for user %d: %v", user.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Account created but login failed, please sign in",
				})
				return
			}

			log.Printf("✅ New %s registered: %s", role, user.Email)
			c.JSON(http.StatusCreated, gin.H{
				"user":   user,
				"tokens": tokens,
			})
		})

		auth.POST("/login", func(c *gin.Context) {
			var req struct {
				Email    string `json:"email" binding:"required,email"`
				Password string `json:"password" binding:"required"`
			}

			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			var user models.User
			err := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
				First(&user).Error
			if err != nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "Invalid credentials",
					"message": "Email or password is incorrect",
				})
				return
			}
			if !user.IsActive {
				c.JSON(http.StatusForbidden, gin.H{
					"error":   "Account disabled",
					"message": "This account has been deactivated",
				})
				return
			}

			tokens, err := jwtService.GenerateTokenPair(user.ID, user.Role)
			if err != nil {
				log.Printf("❌ Token generation failed for user %d: %v", user.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to sign in",
				})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"user":   user,
				"tokens": tokens,
			})
		})

		auth.POST("/refresh", func(c *gin.Context) {
			var req struct {
				RefreshToken string `json:"refresh_token" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			tokens, err := jwtService.RefreshAccessToken(req.RefreshToken)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "Invalid refresh token",
					"message": "Please sign in again",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"tokens": tokens})
		})

		auth.POST("/logout", middleware.AuthMiddleware(), func(c *gin.Context) {
			var req struct {
				RefreshToken string `json:"refresh_token"`
			}
			_ = c.ShouldBindJSON(&req)
			if req.RefreshToken != "" {
				if err := jwtService.RevokeRefreshToken(req.RefreshToken); err != nil {
					log.Printf("⚠️ Failed to revoke refresh token: %v", err)
				}
			}
			c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
		})
	}

	router.GET("/auth/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		user, _ := c.Get("user")
		c.JSON(http.StatusOK, gin.H{"user": user})
	})
}
