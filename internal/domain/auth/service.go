package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/domain/user"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/jwt"
	"github.com/yashdeshmukh28455/Smart-Carbon-Emission-Monitoring-Renewable-Credit-Trading-System/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	users  user.Repository
	jwt    *jwt.Service
	tokens TokenStore
	hasher *password.Hasher
	now    func() time.Time
}

// NewService creates auth service
func NewService(users user.Repository, jwtService *jwt.Service, tokens TokenStore, hasher *password.Hasher) *Service {
	return &Service{
		users:  users,
		jwt:    jwtService,
		tokens: tokens,
		hasher: hasher,
		now:    time.Now,
	}
}

// Register creates a household account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	u, err := s.createUser(ctx, req.Email, req.Password, user.RoleHousehold, req.AreaSqm, req.Occupants)
	if err != nil {
		return nil, err
	}
	return s.generateTokens(ctx, u)
}

func (s *Service) createUser(ctx context.Context, email, pass string, role user.Role, area float64, occupants int) (*user.User, error) {
	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		AreaSqm:      area,
		Occupants:    occupants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

// Login authenticates user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.generateTokens(ctx, u)
}

// Refresh rotates a refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	userID, err := s.tokens.Take(ctx, jwt.HashRefreshToken(refreshToken))
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	return s.generateTokens(ctx, u)
}

// Logout invalidates refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Delete(ctx, jwt.HashRefreshToken(refreshToken))
}

// Me returns current user by ID
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := NewUserResponse(u)
	return &resp, nil
}

// BootstrapAdmin creates the configured admin account if it does not exist yet.
func (s *Service) BootstrapAdmin(ctx context.Context, email, pass string) error {
	if email == "" || pass == "" {
		return nil
	}
	_, err := s.createUser(ctx, email, pass, user.RoleAdmin, 0, 0)
	switch {
	case err == nil:
		log.Info().Str("email", normalizeEmail(email)).Msg("admin account created")
		return nil
	case errors.Is(err, ErrEmailAlreadyExists):
		return nil
	default:
		return err
	}
}

func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := jwt.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, jwt.HashRefreshToken(refreshToken), u.ID, s.jwt.RefreshTTL()); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwt.AccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}
