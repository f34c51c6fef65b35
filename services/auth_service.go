package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pabobernando/confused-be/models"
	"github.com/pabobernando/confused-be/repositories"
	"github.com/pabobernando/confused-be/utils"
	"github.com/golang-jwt/jwt/v4"
)

// TokenValidity is the lifetime of an issued admin session token.
const TokenValidity = 24 * time.Hour

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.Admin, string, error)
}

type authService struct {
	adminRepo repositories.AdminRepository
	jwtSecret []byte
	logger    *slog.Logger
}

func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string, logger *slog.Logger) AuthService {
	return &authService{
		adminRepo: adminRepo,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

// Login verifies the credentials and issues a signed session token. Unknown
// usernames and wrong passwords produce the same error so the response gives
// nothing away; the logs keep the distinction.
func (s *authService) Login(ctx context.Context, input LoginInput) (*models.Admin, string, error) {
	if input.Username == "" || input.Password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", ErrValidationFailed)
	}

	admin, err := s.adminRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			s.logger.Warn("login attempt with non-existent username", slog.String("username", input.Username))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find admin by username: %w", err)
	}

	ok, err := utils.CheckPasswordHash(input.Password, admin.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password hash: %w", err)
	}
	if !ok {
		s.logger.Warn("login attempt with invalid password",
			slog.String("username", input.Username),
			slog.String("admin_id", admin.ID),
		)
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":       admin.ID,
		"username": admin.Username,
		"type":     "admin",
		"exp":      now.Add(TokenValidity).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("admin login successful",
		slog.String("admin_id", admin.ID),
		slog.String("username", admin.Username),
	)

	admin.PasswordHash = ""
	return admin, tokenString, nil
}
