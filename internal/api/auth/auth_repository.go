package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/go-tourism-recommender/internal/api"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo reads the pinned users_credentials schema and manages
// refresh sessions.
type AuthRepo interface {
	GetCredentialsByLogin(ctx context.Context, login string) (*api.UserCredentials, error)
	StoreRefreshToken(ctx context.Context, tokenID uuid.UUID, userID int64, expiresAt time.Time) error
	ValidateRefreshTokenAndGetUserID(ctx context.Context, tokenID uuid.UUID) (int64, error)
	InvalidateRefreshToken(ctx context.Context, tokenID uuid.UUID) error
	ListCredentials(ctx context.Context) ([]api.CredentialsOverview, error)
	SetBlockStatus(ctx context.Context, userID int64, blocked bool) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool api.PGXPool
}

func NewAuthRepo(pgxpool api.PGXPool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresAuthRepo) GetCredentialsByLogin(ctx context.Context, login string) (*api.UserCredentials, error) {
	query := `
        SELECT user_id, login, password_hash, is_blocked
        FROM users_credentials
        WHERE login = $1
    `
	var creds api.UserCredentials
	if err := r.pgpool.QueryRow(ctx, query, login).Scan(
		&creds.UserID, &creds.Login, &creds.PasswordHash, &creds.IsBlocked,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find credentials: %w", err)
	}
	return &creds, nil
}

func (r *PostgresAuthRepo) StoreRefreshToken(ctx context.Context, tokenID uuid.UUID, userID int64, expiresAt time.Time) error {
	query := `
        INSERT INTO sessions (id, user_id, expires_at)
        VALUES ($1, $2, $3)
    `
	if _, err := r.pgpool.Exec(ctx, query, tokenID, userID, expiresAt); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) ValidateRefreshTokenAndGetUserID(ctx context.Context, tokenID uuid.UUID) (int64, error) {
	query := `
        SELECT user_id
        FROM sessions
        WHERE id = $1 AND expires_at > now()
    `
	var userID int64
	if err := r.pgpool.QueryRow(ctx, query, tokenID).Scan(&userID); err != nil {
		if err == pgx.ErrNoRows {
			return 0, fmt.Errorf("refresh token invalid or expired")
		}
		return 0, fmt.Errorf("failed to validate refresh token: %w", err)
	}
	return userID, nil
}

func (r *PostgresAuthRepo) InvalidateRefreshToken(ctx context.Context, tokenID uuid.UUID) error {
	if _, err := r.pgpool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, tokenID); err != nil {
		return fmt.Errorf("failed to invalidate refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) ListCredentials(ctx context.Context) ([]api.CredentialsOverview, error) {
	query := `
        SELECT user_id, login, is_blocked
        FROM users_credentials
        ORDER BY login
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials overview: %w", err)
	}
	defer rows.Close()

	var overview []api.CredentialsOverview
	for rows.Next() {
		var co api.CredentialsOverview
		if err := rows.Scan(&co.UserID, &co.Login, &co.IsBlocked); err != nil {
			return nil, fmt.Errorf("failed to scan credentials overview: %w", err)
		}
		overview = append(overview, co)
	}
	return overview, rows.Err()
}

func (r *PostgresAuthRepo) SetBlockStatus(ctx context.Context, userID int64, blocked bool) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE users_credentials SET is_blocked = $1 WHERE user_id = $2`,
		blocked, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update block status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no credentials found for user %d", userID)
	}
	return nil
}
