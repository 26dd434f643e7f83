package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chaletprop-server/database"
	"chaletprop-server/middleware"
	"chaletprop-server/models"
	"chaletprop-server/services"
)

// RegisterRequestRoutes registers the cleaning request lifecycle routes.
func RegisterRequestRoutes(router *gin.RouterGroup, requestService *services.RequestService) {
	requests := router.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", middleware.RequireRole(models.RoleProprio), func(c *gin.Context) {
			var req models.CleaningRequestCreate
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			request, err := requestService.CreateRequest(middleware.CurrentUserID(c), &req)
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"request": request})
		})

		// Owners see their own requests; pros see open requests plus the
		// ones assigned to them.
		requests.GET("", func(c *gin.Context) {
			userID := middleware.CurrentUserID(c)
			var list []models.CleaningRequest

			query := database.DB.Preload("Chalet").Order("created_at DESC")
			if c.GetString("role") == string(models.RolePro) {
				query = query.Where("status = ? OR assigned_pro_id = ?", models.RequestStatusOpen, userID)
			} else {
				query = query.Preload("Offers").Preload("Offers.Pro").
					Where("owner_id = ?", userID)
			}
			if err := query.Find(&list).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to load requests",
				})
				return
			}

			// Access details stay hidden from pros until acceptance.
			if c.GetString("role") == string(models.RolePro) {
				for i := range list {
					if !isDisclosedTo(&list[i], userID) {
						list[i].Chalet.RedactAccess()
					}
				}
			}
			c.JSON(http.StatusOK, gin.H{"requests": list})
		})

		requests.GET("/:id", func(c *gin.Context) {
			id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
			userID := middleware.CurrentUserID(c)

			var request models.CleaningRequest
			err := database.DB.Preload("Chalet").Preload("Chalet.ChecklistTemplates").
				Preload("AssignedPro").Preload("ChecklistCompletions").
				First(&request, id).Error
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "Not found",
					"message": "Cleaning request not found",
				})
				return
			}

			isOwner := request.OwnerID == userID
			if !isOwner {
				if request.Status != models.RequestStatusOpen && !isParticipant(&request, userID) {
					c.JSON(http.StatusForbidden, gin.H{
						"error":   "Forbidden",
						"message": "You are not part of this request",
					})
					return
				}
				if !isDisclosedTo(&request, userID) {
					request.Chalet.RedactAccess()
				}
			}

			if isOwner {
				database.DB.Preload("Pro").Where("request_id = ?", request.ID).
					Order("created_at DESC").Find(&request.Offers)
			}
			c.JSON(http.StatusOK, gin.H{"request": request})
		})

		requests.POST("/:id/complete", func(c *gin.Context) {
			id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

			request, err := requestService.CompleteRequest(middleware.CurrentUserID(c), uint(id))
			if err != nil {
				respondServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"request": request})
		})
	}
}

func isParticipant(request *models.CleaningRequest, userID uint) bool {
	if request.OwnerID == userID {
		return true
	}
	return request.AssignedProID != nil && *request.AssignedProID == userID
}

// isDisclosedTo reports whether userID may see the chalet's access details
// for this request.
func isDisclosedTo(request *models.CleaningRequest, userID uint) bool {
	return request.AccessDisclosedAt != nil &&
		request.AssignedProID != nil && *request.AssignedProID == userID
}

// respondServiceError maps service errors to HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrChaletNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrOfferNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrNotChaletOwner),
		errors.Is(err, services.ErrNotRequestOwner),
		errors.Is(err, services.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrRequestNotOpen):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Request no longer open",
			"message": "This request has already been assigned or closed",
		})
	case errors.Is(err, services.ErrRequestNotConfirmed),
		errors.Is(err, services.ErrTemplateMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Invalid state",
			"message": err.Error(),
		})
	default:
		log.Printf("❌ Unexpected service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Something went wrong",
		})
	}
}
