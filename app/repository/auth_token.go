package repository

import (
	"context"
	"database/sql"

	"github.com/mzdehbashi-github/ableton-challenge/app/entity"
)

type AuthTokenRepository struct {
	db DBTX
}

func NewAuthTokenRepository(db DBTX) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

func (r *AuthTokenRepository) Create(ctx context.Context, token *entity.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (user_id, token, created_at)
		VALUES (?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		token.UserID,
		token.Token,
		token.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = uint64(id)
	return nil
}

func (r *AuthTokenRepository) FindByUserID(ctx context.Context, userID uint64) (*entity.AuthToken, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM auth_tokens WHERE user_id = ?
	`
	token := &entity.AuthToken{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (r *AuthTokenRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	query := `DELETE FROM auth_tokens WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
