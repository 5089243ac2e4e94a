package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/recipebook/recipebook-go/internal/model"
)

var ErrTokenNotFound = errors.New("refresh token not found")

// TokenRepository handles refresh-token persistence operations.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create inserts a new refresh token and sets the generated ID.
func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	query := `INSERT INTO user_token (user_id, token, expiry_date) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, token.UserID, token.Token, token.ExpiryDate)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	token.ID = id
	return nil
}

// GetByToken retrieves a refresh token record by its token string.
func (r *TokenRepository) GetByToken(ctx context.Context, tokenString string) (*model.RefreshToken, error) {
	query := `SELECT id, user_id, token, expiry_date FROM user_token WHERE token = ?`

	token := &model.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, tokenString).Scan(
		&token.ID, &token.UserID, &token.Token, &token.ExpiryDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	return token, nil
}

// Delete removes a refresh token record.
func (r *TokenRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_token WHERE id = ?`, id)
	return err
}
