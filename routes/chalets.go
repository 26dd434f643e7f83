package routes

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"chaletprop-server/config"
	"chaletprop-server/database"
	"chaletprop-server/middleware"
	"chaletprop-server/models"
	"chaletprop-server/utils"
)

// RegisterChaletRoutes registers chalet and checklist template management
// routes. All of them require a proprio account.
func RegisterChaletRoutes(router *gin.RouterGroup, geocoder *utils.Geocoder) {
	chalets := router.Group("/chalets")
	chalets.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleProprio))
	{
		chalets.POST("", func(c *gin.Context) {
			var req models.ChaletCreate
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			chalet := models.Chalet{
				OwnerID:      middleware.CurrentUserID(c),
				Name:         req.Name,
				Address:      req.Address,
				City:         req.City,
				Province:     req.Province,
				PostalCode:   req.PostalCode,
				Bedrooms:     req.Bedrooms,
				Bathrooms:    req.Bathrooms,
				AccessCode:   req.AccessCode,
				KeyBox:       req.KeyBox,
				ParkingInfo:  req.ParkingInfo,
				WifiName:     req.WifiName,
				WifiPassword: req.WifiPassword,
				SpecialNotes: req.SpecialNotes,
			}

			// Best effort: a chalet without coordinates is still usable, the
			// background job retries geocoding later.
			if coords := geocoder.Geocode(req.Address, req.City, req.Province, req.PostalCode); coords != nil {
				chalet.Lat = &coords.Lat
				chalet.Lng = &coords.Lng
			}

			if err := database.DB.Create(&chalet).Error; err != nil {
				log.Printf("❌ Chalet creation failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to create chalet",
				})
				return
			}

			log.Printf("✅ Chalet %d created: %s (%s)", chalet.ID, chalet.Name, chalet.City)
			c.JSON(http.StatusCreated, gin.H{"chalet": chalet})
		})

		chalets.GET("", func(c *gin.Context) {
			var list []models.Chalet
			err := database.DB.Where("owner_id = ?", middleware.CurrentUserID(c)).
				Order("created_at DESC").
				Find(&list).Error
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to load chalets",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"chalets": list})
		})

		chalets.PUT("/:id", func(c *gin.Context) {
			chalet, ok := loadOwnedChalet(c)
			if !ok {
				return
			}

			var req models.ChaletCreate
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			addressChanged := chalet.Address != req.Address || chalet.City != req.City ||
				chalet.Province != req.Province || chalet.PostalCode != req.PostalCode

			chalet.Name = req.Name
			chalet.Address = req.Address
			chalet.City = req.City
			chalet.Province = req.Province
			chalet.PostalCode = req.PostalCode
			chalet.Bedrooms = req.Bedrooms
			chalet.Bathrooms = req.Bathrooms
			chalet.AccessCode = req.AccessCode
			chalet.KeyBox = req.KeyBox
			chalet.ParkingInfo = req.ParkingInfo
			chalet.WifiName = req.WifiName
			chalet.WifiPassword = req.WifiPassword
			chalet.SpecialNotes = req.SpecialNotes

			if addressChanged {
				chalet.Lat = nil
				chalet.Lng = nil
				if coords := geocoder.Geocode(req.Address, req.City, req.Province, req.PostalCode); coords != nil {
					chalet.Lat = &coords.Lat
					chalet.Lng = &coords.Lng
				}
			}

			if err := database.DB.Save(chalet).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to update chalet",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"chalet": chalet})
		})

		// Re-saving the checklist replaces the whole set: positions are
		// owner-assigned and template IDs are not stable across edits.
		chalets.PUT("/:id/checklist", func(c *gin.Context) {
			chalet, ok := loadOwnedChalet(c)
			if !ok {
				return
			}

			var req struct {
				Rooms []struct {
					RoomName          string `json:"room_name" binding:"required"`
					PhotoReferenceURL string `json:"photo_reference_url"`
				} `json:"rooms" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": err.Error(),
				})
				return
			}

			templates := make([]models.ChecklistTemplate, 0, len(req.Rooms))
			for i, room := range req.Rooms {
				templates = append(templates, models.ChecklistTemplate{
					ChaletID:          chalet.ID,
					RoomName:          room.RoomName,
					Position:          i,
					PhotoReferenceURL: room.PhotoReferenceURL,
				})
			}

			err := database.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Where("chalet_id = ?", chalet.ID).
					Delete(&models.ChecklistTemplate{}).Error; err != nil {
					return err
				}
				if len(templates) == 0 {
					return nil
				}
				return tx.Create(&templates).Error
			})
			if err != nil {
				log.Printf("❌ Checklist template save failed for chalet %d: %v", chalet.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to save checklist",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{"templates": templates})
		})

		chalets.GET("/:id/checklist", func(c *gin.Context) {
			chalet, ok := loadOwnedChalet(c)
			if !ok {
				return
			}
			var templates []models.ChecklistTemplate
			database.DB.Where("chalet_id = ?", chalet.ID).Order("position").Find(&templates)
			c.JSON(http.StatusOK, gin.H{"templates": templates})
		})

		chalets.POST("/:id/checklist/:templateId/reference-photo", func(c *gin.Context) {
			chalet, ok := loadOwnedChalet(c)
			if !ok {
				return
			}
			templateID, _ := strconv.ParseUint(c.Param("templateId"), 10, 32)

			var template models.ChecklistTemplate
			err := database.DB.Where("id = ? AND chalet_id = ?", templateID, chalet.ID).
				First(&template).Error
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{
					"error":   "Not found",
					"message": "Checklist room not found for this chalet",
				})
				return
			}

			file, err := c.FormFile("photo")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Invalid request",
					"message": "A photo file is required",
				})
				return
			}

			url, err := uploadPhoto(file, fmt.Sprintf("chalets/%d/reference-%d", chalet.ID, template.ID))
			if err != nil {
				log.Printf("❌ Reference photo upload failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "Upload failed",
					"message": "Failed to upload the photo",
				})
				return
			}

			template.PhotoReferenceURL = url
			database.DB.Save(&template)
			c.JSON(http.StatusOK, gin.H{"template": template})
		})
	}
}

// loadOwnedChalet resolves :id to a chalet owned by the current user and
// writes the error response itself when it cannot.
func loadOwnedChalet(c *gin.Context) (*models.Chalet, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": "Invalid chalet id",
		})
		return nil, false
	}

	var chalet models.Chalet
	if err := database.DB.First(&chalet, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": "Chalet not found",
		})
		return nil, false
	}
	if chalet.OwnerID != middleware.CurrentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "This chalet does not belong to you",
		})
		return nil, false
	}
	return &chalet, true
}

// uploadPhoto pushes a multipart file to Cloudinary and returns its URL.
func uploadPhoto(file *multipart.FileHeader, publicID string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	cld, err := cloudinary.NewFromParams(
		config.AppConfig.Cloudinary.CloudName,
		config.AppConfig.Cloudinary.APIKey,
		config.AppConfig.Cloudinary.APISecret,
	)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{
		PublicID: publicID,
		Folder:   "chaletprop",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
