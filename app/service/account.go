package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/mzdehbashi-github/ableton-challenge/app/dto"
	"github.com/mzdehbashi-github/ableton-challenge/app/entity"
	"github.com/mzdehbashi-github/ableton-challenge/app/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

type emailConfirmationReader interface {
	FindByUserID(ctx context.Context, userID uint64) (*entity.EmailConfirmation, error)
}

type AccountService interface {
	Signup(ctx context.Context, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*dto.LoginResult, error)
	ResendConfirmation(ctx context.Context, email string) (*entity.EmailConfirmation, error)
	ConfirmEmail(ctx context.Context, email, code string) (*entity.User, error)
	Get(ctx context.Context, userID uint64) (*entity.User, error)
}

type AsyncRunner func(task func())

type AccountServiceOption func(*accountService)

type accountService struct {
	db               *sql.DB
	userRepo         userRepository
	confirmationRepo emailConfirmationReader
	confirmation     ConfirmationService
	tokens           TokenService
	asyncRunner      AsyncRunner
}

func NewAccountService(
	db *sql.DB,
	userRepo userRepository,
	confirmationRepo emailConfirmationReader,
	confirmation ConfirmationService,
	tokens TokenService,
	opts ...AccountServiceOption,
) AccountService {
	svc := &accountService{
		db:               db,
		userRepo:         userRepo,
		confirmationRepo: confirmationRepo,
		confirmation:     confirmation,
		tokens:           tokens,
		asyncRunner: func(task func()) {
			go task()
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithAsyncRunner(runner AsyncRunner) AccountServiceOption {
	return func(s *accountService) {
		if runner != nil {
			s.asyncRunner = runner
		}
	}
}

// Signup creates an inactive account and then kicks off the confirmation
// email. The send runs after the user row is committed and is best effort: a
// mail failure is logged, not surfaced, and the signup still succeeds.
func (s *accountService) Signup(ctx context.Context, email, password string) (*entity.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.asyncRunner(func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, sendErr := s.confirmation.Send(sendCtx, user.Email, user.ID); sendErr != nil {
			logrus.WithError(sendErr).WithField("user_id", user.ID).Error("failed to send confirmation email after signup")
		}
	})

	return user, nil
}

// Login deliberately reports a missing user and a wrong password with the
// same error, so callers cannot probe which emails are registered.
func (s *accountService) Login(ctx context.Context, email, password string) (*dto.LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrAuthenticationFailed
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthenticationFailed
	}

	if !user.IsActive {
		confirmation, findErr := s.confirmationRepo.FindByUserID(ctx, user.ID)
		if findErr != nil {
			return nil, findErr
		}
		if confirmation == nil || !confirmation.IsConfirmed() {
			return nil, ErrEmailNotConfirmed
		}
		return nil, ErrUserNotActive
	}

	token, err := s.tokens.GetOrCreate(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{User: user, Token: token}, nil
}

// ResendConfirmation succeeds with a nil confirmation for unknown emails so
// the endpoint does not leak which addresses have accounts.
func (s *accountService) ResendConfirmation(ctx context.Context, email string) (*entity.EmailConfirmation, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	return s.confirmation.Send(ctx, email, user.ID)
}

// ConfirmEmail verifies the code under a row lock on the confirmation row
// and activates the user in the same transaction. An unknown email and a
// mismatched code are indistinguishable; an expired code is rejected the
// same way.
func (s *accountService) ConfirmEmail(ctx context.Context, email, code string) (*entity.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txUserRepo := repository.NewUserRepository(tx)
	user, err := txUserRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrCannotConfirm
	}

	txConfirmationRepo := repository.NewEmailConfirmationRepository(tx)
	confirmation, err := txConfirmationRepo.FindByEmailAndCodeForUpdate(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if confirmation == nil {
		return nil, ErrCannotConfirm
	}

	if confirmation.IsConfirmed() {
		return nil, ErrAlreadyConfirmed
	}

	now := time.Now()
	if confirmation.ExpiresAt.Before(now) {
		return nil, ErrCannotConfirm
	}

	if err = txConfirmationRepo.Confirm(ctx, confirmation.UserID, now); err != nil {
		return nil, err
	}

	user.IsActive = true
	if err = txUserRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("Email confirmed, account activated")
	return user, nil
}

func (s *accountService) Get(ctx context.Context, userID uint64) (*entity.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
