package service

import (
	"context"
	"errors"
	"log"
	"strings"

	apperrors "zeme/internal/errors"
	"zeme/internal/models"
	"zeme/internal/oauth"
	"zeme/internal/repository"
	"zeme/pkg/auth"
)

// AuthService handles authentication business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager auth.TokenManager
	google     oauth.Provider
}

// AuthServiceConfig holds configuration for AuthService.
type AuthServiceConfig struct {
	UserRepo   repository.UserRepository
	JWTManager auth.TokenManager
	// Google is optional; nil disables Google sign-in.
	Google oauth.Provider
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:   cfg.UserRepo,
		jwtManager: cfg.JWTManager,
		google:     cfg.Google,
	}
}

// Register creates a new user account and returns an access token.
func (s *AuthService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
	role, ok := models.NormalizeRole(req.Role)
	if !ok {
		return nil, apperrors.ErrInvalidRole
	}

	user := &models.User{
		FirstName:      strings.TrimSpace(req.FirstName),
		MiddleName:     strings.TrimSpace(req.MiddleName),
		LastName:       strings.TrimSpace(req.LastName),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          req.Email,
		Role:           role,
		CompanyName:    strings.TrimSpace(req.CompanyName),
		CompanyAddress: strings.TrimSpace(req.CompanyAddress),
		LicenseNumber:  strings.TrimSpace(req.LicenseNumber),
		ApartmentUnit:  strings.TrimSpace(req.ApartmentUnit),
		Bio:            req.Bio,
	}

	if models.RequiresCompany(role) && !hasCompany(user) {
		return nil, apperrors.ErrCompanyRequired
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashedPassword

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.generateAuthResponse(user)
}

// Login authenticates a user and returns an access token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	// Accounts created through Google fail with auth.ErrNoPassword.
	if err := auth.CheckPassword(req.Password, user.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.generateAuthResponse(user)
}

// GoogleLogin exchanges a Google authorization code and signs the user in,
// linking an existing account by email or creating a renter account.
func (s *AuthService) GoogleLogin(ctx context.Context, req *models.GoogleAuthRequest) (*models.AuthResponse, error) {
	if s.google == nil {
		return nil, apperrors.ErrOAuthNotEnabled
	}

	profile, err := s.google.Exchange(ctx, req.Code, req.RedirectURI)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByGoogleID(ctx, profile.Subject)
	if err == nil {
		return s.generateAuthResponse(user)
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.userRepo.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		user, err = s.userRepo.LinkGoogle(ctx, user.ID, profile.Subject, profile.Picture)
		if err != nil {
			return nil, err
		}
		log.Printf("Linked Google account to user %s", user.ID.Hex())
	case errors.Is(err, apperrors.ErrUserNotFound):
		user = &models.User{
			FirstName:    profile.GivenName,
			LastName:     profile.FamilyName,
			Email:        profile.Email,
			Role:         models.RoleRenter,
			GoogleID:     profile.Subject,
			ProfileImage: profile.Picture,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.generateAuthResponse(user)
}

// generateAuthResponse creates an access token for a user.
func (s *AuthService) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token:     token,
		ExpiresIn: int(s.jwtManager.Expiry().Seconds()),
		User:      *user,
	}, nil
}

func hasCompany(u *models.User) bool {
	return u.CompanyName != "" && u.CompanyAddress != "" && u.LicenseNumber != ""
}
