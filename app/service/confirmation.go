package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/mzdehbashi-github/ableton-challenge/app/entity"
	"github.com/mzdehbashi-github/ableton-challenge/app/mail"
	"github.com/mzdehbashi-github/ableton-challenge/app/repository"
	"github.com/mzdehbashi-github/ableton-challenge/config"

	"github.com/sirupsen/logrus"
)

const (
	confirmationSubject  = "Email Confirmation"
	confirmationBodyTmpl = "Please click here to confirm your email %s"
)

// ConfirmationService creates or refreshes a user's confirmation code and
// dispatches it by email. Callers are expected to have verified that the
// user exists.
type ConfirmationService interface {
	Send(ctx context.Context, email string, userID uint64) (*entity.EmailConfirmation, error)
}

type CodeGenerator func() (string, error)

type ConfirmationServiceOption func(*confirmationService)

type confirmationService struct {
	db           *sql.DB
	mailer       mail.Sender
	cfg          *config.Config
	generateCode CodeGenerator
}

func NewConfirmationService(db *sql.DB, mailer mail.Sender, cfg *config.Config, opts ...ConfirmationServiceOption) ConfirmationService {
	svc := &confirmationService{
		db:           db,
		mailer:       mailer,
		cfg:          cfg,
		generateCode: generateCode,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithCodeGenerator(generate CodeGenerator) ConfirmationServiceOption {
	return func(s *confirmationService) {
		if generate != nil {
			s.generateCode = generate
		}
	}
}

// Send runs the whole create-or-refresh under one transaction holding a row
// lock on the user's confirmation row, so racing sends and confirms for the
// same user serialize. The email is dispatched before the commit: a dispatch
// failure rolls back the new code rather than committing a code that was
// never delivered.
func (s *confirmationService) Send(ctx context.Context, email string, userID uint64) (*entity.EmailConfirmation, error) {
	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(s.cfg.ConfirmationCodeTTL)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	confirmationRepo := repository.NewEmailConfirmationRepository(tx)

	confirmation, err := confirmationRepo.FindByEmailForUpdate(ctx, email)
	if err != nil {
		return nil, err
	}

	if confirmation == nil {
		confirmation = &entity.EmailConfirmation{
			UserID:    userID,
			Code:      code,
			ExpiresAt: expiresAt,
		}
		if err = confirmationRepo.Create(ctx, confirmation); err != nil {
			return nil, err
		}
	} else {
		if confirmation.IsConfirmed() {
			return nil, ErrAlreadyConfirmed
		}

		confirmation.Code = code
		confirmation.ExpiresAt = expiresAt
		if err = confirmationRepo.UpdateCode(ctx, confirmation.UserID, code, expiresAt); err != nil {
			return nil, err
		}
	}

	msg := &mail.Message{
		To:      email,
		From:    s.cfg.Mail.From,
		Subject: confirmationSubject,
		Body:    fmt.Sprintf(confirmationBodyTmpl, confirmation.Code),
	}
	if err = s.mailer.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("send confirmation email: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	logrus.WithField("user_id", confirmation.UserID).Info("Confirmation email sent")
	return confirmation, nil
}

// generateCode draws a uniform 5-digit code, 10000 through 99999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(10000+n.Int64(), 10), nil
}
