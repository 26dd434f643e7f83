package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"chaletprop-server/database"
	"chaletprop-server/middleware"
	"chaletprop-server/models"
	"chaletprop-server/utils"
)

// RegisterProRoutes registers professional profile routes.
func RegisterProRoutes(router *gin.RouterGroup, geocoder *utils.Geocoder) {
	pros := router.Group("/pros")
	pros.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RolePro))
	{
		pros.GET("/me", func(c *gin.Context) {
			var profile models.ProProfile
			err := database.DB.Where("user_id = ?", middleware.CurrentUserID(c)).
				First(&profile).Error
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "Not found",
					"message": "No professional profile yet",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"profile": profile})
		})

		// Creating and updating a profile is the same upsert: one profile
		// per pro.
		pros.PUT("/me", func(c *gin.Context) {
			var req models.ProProfileRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			userID := middleware.CurrentUserID(c)

			var profile models.ProProfile
			err := database.DB.Where("user_id = ?", userID).First(&profile).Error
			if err != nil {
				profile = models.ProProfile{UserID: userID}
			}

			locationChanged := profile.City != req.City || profile.Province != req.Province
			profile.City = req.City
			profile.Province = req.Province
			profile.Bio = req.Bio
			if req.RadiusKM != nil && *req.RadiusKM > 0 {
				profile.RadiusKM = *req.RadiusKM
			}
			if profile.RadiusKM <= 0 {
				profile.RadiusKM = utils.DefaultProRadiusKM
			}

			if locationChanged || !profile.HasCoordinates() {
				if coords := geocoder.Geocode("", req.City, req.Province, ""); coords != nil {
					profile.Lat = &coords.Lat
					profile.Lng = &coords.Lng
				}
			}

			if err := database.DB.Save(&profile).Error; err != nil {
				log.Printf("❌ Pro profile save failed for user %d: %v", userID, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to save profile",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"profile": profile})
		})
	}
}
