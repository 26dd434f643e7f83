package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chaletprop-server/database"
	"chaletprop-server/middleware"
	"chaletprop-server/models"
)

// RegisterNotificationRoutes registers in-app notification routes.
func RegisterNotificationRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", func(c *gin.Context) {
			var list []models.Notification
			err := database.DB.Where("user_id = ?", middleware.CurrentUserID(c)).
				Order("created_at DESC").
				Limit(50).
				Find(&list).Error
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to load notifications",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"notifications": list})
		})

		notifications.GET("/unread-count", func(c *gin.Context) {
			var count int64
			database.DB.Model(&models.Notification{}).
				Where("user_id = ? AND read_at IS NULL", middleware.CurrentUserID(c)).
				Count(&count)
			c.JSON(http.StatusOK, gin.H{"count": count})
		})

		notifications.PUT("/:id/read", func(c *gin.Context) {
			id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
			now := time.Now()

			result := database.DB.Model(&models.Notification{}).
				Where("id = ? AND user_id = ? AND read_at IS NULL", id, middleware.CurrentUserID(c)).
				Update("read_at", now)
			if result.RowsAffected == 0 {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "Not found",
					"message": "Notification not found or already read",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
		})

		notifications.PUT("/read-all", func(c *gin.Context) {
			now := time.Now()
			result := database.DB.Model(&models.Notification{}).
				Where("user_id = ? AND read_at IS NULL", middleware.CurrentUserID(c)).
				Update("read_at", now)
			c.JSON(http.StatusOK, gin.H{"updated": result.RowsAffected})
		})
	}
}
