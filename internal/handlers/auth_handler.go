package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eventhub/internal/helpers"
	"eventhub/internal/logger"
	"eventhub/internal/middleware"
	"eventhub/internal/models"
)

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if req.PhoneNumber != "" && !helpers.ValidPhoneNumber(req.PhoneNumber) {
		helpers.RespondWithValidationError(c, map[string]string{"phone_number": "Enter a valid phone number."})
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var existingUser models.User
	if result := gormDB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "User already exists.")
		return
	}

	// New accounts always start in the participant role; staff roles
	// are granted separately.
	var participantRole models.Role
	if err := gormDB.Where("name = ?", "participant").First(&participantRole).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Default role not found.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	user := models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashedPassword),
		PhoneNumber: req.PhoneNumber,
		IsActive:    false,
		Roles:       []models.Role{participantRole},
	}

	if err := gormDB.Create(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create user.")
		return
	}

	cfg := middleware.GetConfig(c)
	m := middleware.GetMailer(c)
	if cfg != nil && m != nil {
		token := newActivationToken(user.ID.String(), cfg.JWTSecret)
		activationURL := fmt.Sprintf("%s/activate?token=%s", cfg.FrontendURL, token)
		body := fmt.Sprintf(
			"Hi %s,\n\nPlease click the link to activate your account:\n%s\n\nIf you did not sign up, ignore this email.",
			user.Username, activationURL,
		)
		go func(email string) {
			if err := m.Send(email, "Activate your account", body); err != nil {
				logger.New("mail").Warn("activation email failed", "to", email, "error", err)
			}
		}(user.Email)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully. Check your email to activate your account."})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Preload("Roles").Where("email = ?", req.Email).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if !user.IsActive {
		helpers.RespondWithError(c, http.StatusForbidden, "Account is not activated.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil || cfg.JWTSecret == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "JWT secret not configured.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID.String(),
		"roles":     user.RoleNames(),
		"superuser": user.IsSuperuser,
		"exp":       time.Now().Add(time.Duration(cfg.JWTTTLHours) * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"roles":    user.RoleNames(),
		},
	})
}

func Activate(c *gin.Context) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing activation token.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Configuration not found.")
		return
	}

	userID, err := parseActivationToken(tokenStr, cfg.JWTSecret)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid or expired activation token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	if !user.IsActive {
		user.IsActive = true
		if err := gormDB.Save(&user).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to activate account.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account activated. You can now sign in."})
}

// Logout exists so clients have a uniform auth surface; tokens are
// stateless, there is no server-side session to clear.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Signed out."})
}

func NoPermission(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error":   http.StatusText(http.StatusForbidden),
		"message": "You do not have permission to access this page.",
	})
}

func newActivationToken(userID, secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"purpose": "activate",
		"exp":     time.Now().Add(48 * time.Hour).Unix(),
	})
	signed, _ := token.SignedString([]byte(secret))
	return signed
}

func parseActivationToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "activate" {
		return "", fmt.Errorf("wrong token purpose")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", fmt.Errorf("missing user id")
	}
	return userID, nil
}
