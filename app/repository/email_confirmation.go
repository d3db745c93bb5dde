package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mzdehbashi-github/ableton-challenge/app/entity"
)

type EmailConfirmationRepository struct {
	db DBTX
}

func NewEmailConfirmationRepository(db DBTX) *EmailConfirmationRepository {
	return &EmailConfirmationRepository{db: db}
}

func (r *EmailConfirmationRepository) Create(ctx context.Context, confirmation *entity.EmailConfirmation) error {
	query := `
		INSERT INTO email_confirmations (user_id, code, expires_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		confirmation.UserID,
		confirmation.Code,
		confirmation.ExpiresAt,
	)
	return err
}

// FindByEmailForUpdate is a locked read: the returned row stays locked until
// the enclosing transaction ends. Callers must run it inside a transaction.
func (r *EmailConfirmationRepository) FindByEmailForUpdate(ctx context.Context, email string) (*entity.EmailConfirmation, error) {
	query := `
		SELECT ec.user_id, ec.code, ec.expires_at, ec.confirmed_at
		FROM email_confirmations ec
		JOIN users u ON u.id = ec.user_id
		WHERE u.email = ? FOR UPDATE
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// FindByEmailAndCodeForUpdate is the locked read used by the confirm flow.
// A missing user and a mismatched code both come back as no row.
func (r *EmailConfirmationRepository) FindByEmailAndCodeForUpdate(ctx context.Context, email, code string) (*entity.EmailConfirmation, error) {
	query := `
		SELECT ec.user_id, ec.code, ec.expires_at, ec.confirmed_at
		FROM email_confirmations ec
		JOIN users u ON u.id = ec.user_id
		WHERE u.email = ? AND ec.code = ? FOR UPDATE
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email, code))
}

func (r *EmailConfirmationRepository) FindByUserID(ctx context.Context, userID uint64) (*entity.EmailConfirmation, error) {
	query := `
		SELECT user_id, code, expires_at, confirmed_at
		FROM email_confirmations WHERE user_id = ?
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *EmailConfirmationRepository) UpdateCode(ctx context.Context, userID uint64, code string, expiresAt time.Time) error {
	query := `
		UPDATE email_confirmations SET
			code = ?,
			expires_at = ?
		WHERE user_id = ?
	`
	_, err := r.db.ExecContext(ctx, query, code, expiresAt, userID)
	return err
}

func (r *EmailConfirmationRepository) Confirm(ctx context.Context, userID uint64, confirmedAt time.Time) error {
	query := `
		UPDATE email_confirmations SET
			confirmed_at = ?
		WHERE user_id = ?
	`
	_, err := r.db.ExecContext(ctx, query, confirmedAt, userID)
	return err
}

func (r *EmailConfirmationRepository) scanOne(row *sql.Row) (*entity.EmailConfirmation, error) {
	confirmation := &entity.EmailConfirmation{}
	err := row.Scan(
		&confirmation.UserID,
		&confirmation.Code,
		&confirmation.ExpiresAt,
		&confirmation.ConfirmedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}
