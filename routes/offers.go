package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chaletprop-server/database"
	"chaletprop-server/middleware"
	"chaletprop-server/models"
	"chaletprop-server/services"
)

// RegisterOfferRoutes registers offer submission and acceptance routes.
func RegisterOfferRoutes(router *gin.RouterGroup, requestService *services.RequestService) {
	offers := router.Group("/requests/:id/offers")
	offers.Use(middleware.AuthMiddleware())
	{
		offers.POST("", middleware.RequireRole(models.RolePro), func(c *gin.Context) {
			requestID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

			var req models.OfferCreate
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			offer, err := requestService.SubmitOffer(middleware.CurrentUserID(c), uint(requestID), &req)
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"offer": offer})
		})

		offers.GET("", middleware.RequireRole(models.RoleProprio), func(c *gin.Context) {
			requestID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
			userID := middleware.CurrentUserID(c)

			var request models.CleaningRequest
			if err := database.DB.First(&request, requestID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "Not found",
					"message": "Cleaning request not found",
				})
				return
			}
			if request.OwnerID != userID {
				c.JSON(http.StatusForbidden, gin.H{
					"error":   "Forbidden",
					"message": "This request does not belong to you",
				})
				return
			}

			var list []models.Offer
			database.DB.Preload("Pro").Where("request_id = ?", requestID).
				Order("created_at DESC").Find(&list)
			c.JSON(http.StatusOK, gin.H{"offers": list})
		})

		offers.POST("/:offerId/accept", middleware.RequireRole(models.RoleProprio), func(c *gin.Context) {
			requestID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
			offerID, _ := strconv.ParseUint(c.Param("offerId"), 10, 32)

			offer, err := requestService.AcceptOffer(middleware.CurrentUserID(c), uint(requestID), uint(offerID))
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"offer": offer})
		})
	}
}
