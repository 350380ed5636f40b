package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

const (
	defaultTokenTTL = time.Hour
	resetTokenTTL   = time.Hour
	resetTokenBytes = 20
)

// AuthService implements registration, login, and the password-reset flow.
type AuthService struct {
	repo       ports.UserRepository
	notifier   ports.Notifier
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
	baseURL    string
	logger     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, notifier ports.Notifier, jwtSecret, baseURL string, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		notifier:   notifier,
		jwtSecret:  jwtSecret,
		tokenTTL:   defaultTokenTTL,
		bcryptCost: bcryptCost,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Register creates a new user with a hashed password and returns it together
// with a fresh bearer token.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	if !domain.ValidRole(input.Role) {
		return nil, "", domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, token, nil
}

// Login verifies the credentials and issues a fresh token. Unknown email and
// wrong password collapse into the same ErrInvalidCredentials so callers
// cannot probe for account existence.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// RequestPasswordReset generates a high-entropy token, persists only its
// sha256 hash with a one-hour expiry, and mails the raw token inside a reset
// URL. The raw token is never stored.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)

	expiresAt := time.Now().UTC().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, hashToken(rawToken), expiresAt); err != nil {
		return err
	}

	resetURL := s.baseURL + "/api/auth/reset-password/" + rawToken
	s.notifier.Enqueue(ports.EmailMessage{
		To:      user.Email,
		Subject: "Password Reset",
		Body: "You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n" +
			"Please click on the following link, or paste this into your browser to complete the process:\n\n" +
			resetURL + "\n\n" +
			"If you did not request this, please ignore this email and your password will remain unchanged.\n",
	})

	s.logger.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

// ResetPassword consumes a raw reset token: its hash must match a stored,
// unexpired token. The new password is hashed and the token cleared in the
// same write.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	user, err := s.repo.FindByResetTokenHash(ctx, hashToken(rawToken), time.Now().UTC())
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset completed")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
