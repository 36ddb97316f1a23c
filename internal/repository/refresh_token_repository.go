package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fefaortiz/tear-api/internal/models"
)

// RefreshTokenRepository manages stored refresh tokens for all three
// account roles.
type RefreshTokenRepository struct {
	db *sqlx.DB
}

// NewRefreshTokenRepository constructs a RefreshTokenRepository.
func NewRefreshTokenRepository(db *sqlx.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create persists a refresh token.
func (r *RefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	const query = `INSERT INTO refresh_tokens (id, account_id, role, token, expires_at, created_at, revoked, ip_address, user_agent)
        VALUES (:id, :account_id, :role, :token, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// Find loads a refresh token by its opaque value.
func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, account_id, role, token, expires_at, created_at, revoked, ip_address, user_agent
        FROM refresh_tokens WHERE token = $1`
	var stored models.RefreshToken
	if err := r.db.GetContext(ctx, &stored, query, token); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Revoke marks one refresh token as revoked.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, id string) error {
	const query = `UPDATE refresh_tokens SET revoked = true WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeByAccount revokes every live token of one account.
func (r *RefreshTokenRepository) RevokeByAccount(ctx context.Context, accountID int64, role models.Role) error {
	const query = `UPDATE refresh_tokens SET revoked = true WHERE account_id = $1 AND role = $2 AND revoked = false`
	if _, err := r.db.ExecContext(ctx, query, accountID, role); err != nil {
		return fmt.Errorf("revoke account refresh tokens: %w", err)
	}
	return nil
}
