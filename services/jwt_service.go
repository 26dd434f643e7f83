package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"chaletprop-server/config"
	"chaletprop-server/database"
	"chaletprop-server/models"
	"chaletprop-server/utils"
)

// JWTService handles access/refresh token issuance and revocation
type JWTService struct{}

// NewJWTService creates a new JWT service
func NewJWTService() *JWTService {
	return &JWTService{}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GenerateTokenPair generates both access and refresh tokens
func (js *JWTService) GenerateTokenPair(userID uint, role models.UserRole) (*TokenPair, error) {
	accessToken, err := utils.GenerateToken(userID, string(role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := js.generateRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(config.AppConfig.JWT.ExpiryHours * 3600),
		TokenType:    "Bearer",
	}, nil
}

// generateRefreshToken generates and persists a long-lived refresh token
func (js *JWTService) generateRefreshToken(userID uint) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:  tokenString,
		UserID: userID,
	}

	if err := database.DB.Create(refreshToken).Error; err != nil {
		return "", err
	}

	return tokenString, nil
}

// RefreshAccessToken issues a new access token against a valid refresh token
func (js *JWTService) RefreshAccessToken(refreshTokenString string) (*TokenPair, error) {
	var refreshToken models.RefreshToken
	if err := database.DB.Where("token = ?", refreshTokenString).First(&refreshToken).Error; err != nil {
		return nil, errors.New("refresh token not found")
	}
	if !refreshToken.IsValid() {
		return nil, errors.New("refresh token is invalid or expired")
	}

	var user models.User
	if err := database.DB.First(&user, refreshToken.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}

	accessToken, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(config.AppConfig.JWT.ExpiryHours * 3600),
		TokenType:    "Bearer",
	}, nil
}

// RevokeRefreshToken revokes a refresh token
func (js *JWTService) RevokeRefreshToken(tokenString string) error {
	result := database.DB.Model(&models.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", tokenString, false).
		Update("is_revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("refresh token not found")
	}
	return nil
}

// CleanupExpiredTokens deletes expired or revoked refresh tokens
func (js *JWTService) CleanupExpiredTokens() error {
	result := database.DB.
		Where("expires_at < ? OR is_revoked = ?", time.Now(), true).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("🧹 Cleaned up %d refresh tokens", result.RowsAffected)
	}
	return nil
}
