package auth

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/FACorreiaa/go-tourism-recommender/app/middleware"
	"github.com/FACorreiaa/go-tourism-recommender/config"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
)

var (
	// ErrInvalidCredentials covers both unknown logins and wrong
	// passwords so the two are indistinguishable to the client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserBlocked is returned for accounts an admin has blocked.
	ErrUserBlocked = errors.New("user is blocked by administrator")
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService is the login/session surface plus the admin account
// controls.
type AuthService interface {
	Login(ctx context.Context, login, password string) (*api.LoginResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*api.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ListCredentials(ctx context.Context) ([]api.CredentialsOverview, error)
	SetBlockStatus(ctx context.Context, userID int64, blocked bool) error
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	cfg    *config.Config
}

// NewAuthService creates a new auth service instance.
func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
	}
}

// Login verifies credentials against the pinned users_credentials
// schema and issues an access/refresh token pair. Catalog installs
// imported legacy accounts whose passwords are plain sha256/sha1/md5
// hex digests; those are accepted alongside bcrypt.
func (s *AuthServiceImpl) Login(ctx context.Context, login, password string) (*api.LoginResponse, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("login", login))
	l.DebugContext(ctx, "Login attempt")

	creds, err := s.repo.GetCredentialsByLogin(ctx, login)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch credentials", slog.Any("error", err))
		return nil, fmt.Errorf("error fetching credentials: %w", err)
	}
	if creds == nil {
		return nil, ErrInvalidCredentials
	}
	if creds.IsBlocked {
		l.WarnContext(ctx, "Blocked user attempted login")
		return nil, ErrUserBlocked
	}

	if !verifyPassword(creds.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issueTokens(ctx, creds.UserID, creds.Login)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue tokens", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "Login successful", slog.Int64("userID", creds.UserID))
	return resp, nil
}

// RefreshSession rotates a refresh token into a fresh token pair.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*api.LoginResponse, error) {
	l := s.logger.With(slog.String("method", "RefreshSession"))

	tokenID, err := uuid.Parse(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	userID, err := s.repo.ValidateRefreshTokenAndGetUserID(ctx, tokenID)
	if err != nil {
		l.WarnContext(ctx, "Refresh token rejected", slog.Any("error", err))
		return nil, ErrInvalidCredentials
	}

	// Rotate: the old token is burned whether or not issuing succeeds.
	if err := s.repo.InvalidateRefreshToken(ctx, tokenID); err != nil {
		l.WarnContext(ctx, "Failed to invalidate old refresh token", slog.Any("error", err))
	}

	resp, err := s.issueTokens(ctx, userID, "")
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue tokens", slog.Any("error", err))
		return nil, err
	}

	l.InfoContext(ctx, "Session refreshed", slog.Int64("userID", userID))
	return resp, nil
}

// Logout invalidates the refresh token; the access token simply expires.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := uuid.Parse(refreshToken)
	if err != nil {
		return nil
	}
	return s.repo.InvalidateRefreshToken(ctx, tokenID)
}

func (s *AuthServiceImpl) ListCredentials(ctx context.Context) ([]api.CredentialsOverview, error) {
	overview, err := s.repo.ListCredentials(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list credentials", slog.Any("error", err))
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}
	return overview, nil
}

func (s *AuthServiceImpl) SetBlockStatus(ctx context.Context, userID int64, blocked bool) error {
	l := s.logger.With(slog.String("method", "SetBlockStatus"),
		slog.Int64("userID", userID), slog.Bool("blocked", blocked))

	if err := s.repo.SetBlockStatus(ctx, userID, blocked); err != nil {
		l.ErrorContext(ctx, "Failed to update block status", slog.Any("error", err))
		return fmt.Errorf("error updating block status: %w", err)
	}

	l.InfoContext(ctx, "Block status updated")
	return nil
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, userID int64, username string) (*api.LoginResponse, error) {
	now := time.Now()
	claims := &appMiddleware.Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWT.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshID := uuid.New()
	if err := s.repo.StoreRefreshToken(ctx, refreshID, userID, now.Add(s.cfg.JWT.RefreshTokenTTL)); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &api.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshID.String(),
		UserID:       userID,
		Username:     username,
		Message:      "Login successful",
	}, nil
}

// verifyPassword accepts a bcrypt hash or one of the legacy hex
// digests some imported accounts still carry.
func verifyPassword(storedHash, password string) bool {
	if strings.HasPrefix(storedHash, "$2a$") || strings.HasPrefix(storedHash, "$2b$") || strings.HasPrefix(storedHash, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
	}

	sha256Sum := sha256.Sum256([]byte(password))
	sha1Sum := sha1.Sum([]byte(password))
	md5Sum := md5.Sum([]byte(password))

	switch strings.ToLower(storedHash) {
	case hex.EncodeToString(sha256Sum[:]), hex.EncodeToString(sha1Sum[:]), hex.EncodeToString(md5Sum[:]):
		return true
	}
	return storedHash == password
}
