package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chaletprop-server/middleware"
	"chaletprop-server/services"
)

// RegisterChecklistRoutes registers per-request checklist progress routes.
func RegisterChecklistRoutes(router *gin.RouterGroup, checklistService *services.ChecklistService) {
	checklist := router.Group("/requests/:id/checklist")
	checklist.Use(middleware.AuthMiddleware())
	{
		checklist.PUT("/:templateId", func(c *gin.Context) {
			requestID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
			templateID, _ := strconv.ParseUint(c.Param("templateId"), 10, 32)

			var req struct {
				IsDone   bool   `json:"is_done"`
				PhotoURL string `json:"photo_url"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			progress, err := checklistService.UpdateChecklistItem(
				middleware.CurrentUserID(c), uint(requestID), uint(templateID), req.IsDone, req.PhotoURL)
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"progress": progress})
		})

		// Upload the room photo and record completion in one call. This is
		// what the mobile client uses after taking the picture.
		checklist.POST("/:templateId/photo", func(c *gin.Context) {
			requestID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
			templateID, _ := strconv.ParseUint(c.Param("templateId"), 10, 32)

			file, err := c.FormFile("photo")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": "A photo file is required",
				})
				return
			}

			publicID := fmt.Sprintf("requests/%d/%d-%d", requestID, templateID, time.Now().Unix())
			url, err := uploadPhoto(file, publicID)
			if err != nil {
				log.Printf("❌ Room photo upload failed for request %d: %v", requestID, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Upload failed",
					"message": "Failed to upload the photo",
				})
				return
			}

			progress, err := checklistService.UpdateChecklistItem(
				middleware.CurrentUserID(c), uint(requestID), uint(templateID), true, url)
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"progress": progress, "photo_url": url})
		})

		checklist.GET("/progress", func(c *gin.Context) {
			requestID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
			percent, err := checklistService.CompletionPercent(uint(requestID))
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"percent": percent})
		})
	}
}
