package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/models"
	"github.com/tripgo/booking-backend/internal/services"
)

// AdminAuthHandler handles admin authentication HTTP requests
type AdminAuthHandler struct {
	authService *services.AdminAuthService
	logger      *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(authService *services.AdminAuthService, logger *logrus.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles admin login requests
// @Summary Admin login
// @Description Authenticate an admin user and return access and refresh tokens
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body models.AdminLoginRequest true "Login credentials"
// @Success 200 {object} services.AdminLoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/admin/login [post]
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"email": req.Email,
			"ip":    c.ClientIP(),
		}).Warn("Admin login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id": response.User.ID,
		"email":    response.User.Email,
	}).Info("Admin login successful")

	c.JSON(http.StatusOK, response)
}

// RefreshToken handles token refresh requests
// @Summary Refresh access token
// @Description Generate a new token pair from a refresh token
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} services.AdminLoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/admin/refresh [post]
func (h *AdminAuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	response, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		h.logger.WithError(err).Warn("Token refresh failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}
