package services

import (
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
	"github.com/tripgo/booking-backend/internal/models"
	"github.com/tripgo/booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any login failure. The reason is
// intentionally not disclosed to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminLoginResponse is the successful login payload
type AdminLoginResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// AdminAuthService authenticates back-office users
type AdminAuthService struct {
	userRepo   *database.UserRepository
	jwtService *jwt.Service
	logger     *logrus.Logger
}

// NewAdminAuthService creates a new AdminAuthService
func NewAdminAuthService(userRepo *database.UserRepository, jwtService *jwt.Service, logger *logrus.Logger) *AdminAuthService {
	return &AdminAuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login verifies admin credentials and issues a token pair
func (s *AdminAuthService) Login(email, password string) (*AdminLoginResponse, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.WithError(err).Error("Admin login lookup failed")
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsAdmin() || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AdminLoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AdminAuthService) Refresh(refreshToken string) (*AdminLoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil || !user.IsAdmin() {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AdminLoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}
