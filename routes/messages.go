package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chaletprop-server/database"
	"chaletprop-server/middleware"
	"chaletprop-server/models"
	"chaletprop-server/services"
)

// RegisterMessageRoutes registers the per-request message thread. Only the
// two participants (owner and assigned pro) can read or write it.
func RegisterMessageRoutes(router *gin.RouterGroup, notifier *services.Notifier) {
	messages := router.Group("/requests/:id/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.GET("", func(c *gin.Context) {
			request, ok := loadParticipantRequest(c)
			if !ok {
				return
			}
			userID := middleware.CurrentUserID(c)

			var list []models.Message
			database.DB.Where("request_id = ?", request.ID).
				Order("created_at ASC").
				Find(&list)

			// Reading the thread marks the other side's messages as read.
			now := time.Now()
			database.DB.Model(&models.Message{}).
				Where("request_id = ? AND sender_id <> ? AND read_at IS NULL", request.ID, userID).
				Update("read_at", now)

			c.JSON(http.StatusOK, gin.H{"messages": list})
		})

		messages.POST("", func(c *gin.Context) {
			request, ok := loadParticipantRequest(c)
			if !ok {
				return
			}
			userID := middleware.CurrentUserID(c)

			var req models.MessageCreate
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			message := models.Message{
				RequestID: request.ID,
				SenderID:  userID,
				Body:      req.Body,
			}
			if err := database.DB.Create(&message).Error; err != nil {
				log.Printf("❌ Message creation failed on request %d: %v", request.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to send message",
				})
				return
			}

			recipientID := request.OwnerID
			if userID == request.OwnerID && request.AssignedProID != nil {
				recipientID = *request.AssignedProID
			}
			if recipientID != userID {
				var sender models.User
				database.DB.First(&sender, userID)
				body := req.Body
				if len(body) > 80 {
					body = body[:77] + "..."
				}
				title := fmt.Sprintf("Message de %s", sender.DisplayName())
				if _, err := notifier.Notify(recipientID, models.NotifNewMessage, title, body, &services.NotificationContext{
					RequestID: request.ID,
					SenderID:  userID,
				}); err != nil {
					log.Printf("⚠️ Failed to notify user %d about message: %v", recipientID, err)
				}
			}

			c.JSON(http.StatusCreated, gin.H{"message": message})
		})
	}
}

// loadParticipantRequest resolves :id to a request the current user is a
// participant of and writes the error response itself when it cannot.
func loadParticipantRequest(c *gin.Context) (*models.CleaningRequest, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "Invalid request id",
		})
		return nil, false
	}

	var request models.CleaningRequest
	if err := database.DB.First(&request, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": "Cleaning request not found",
		})
		return nil, false
	}
	if !isParticipant(&request, middleware.CurrentUserID(c)) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "You are not part of this request",
		})
		return nil, false
	}
	return &request, true
}
