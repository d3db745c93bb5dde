package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mzdehbashi-github/ableton-challenge/app/entity"
	"github.com/mzdehbashi-github/ableton-challenge/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type authTokenRepository interface {
	Create(ctx context.Context, token *entity.AuthToken) error
	FindByUserID(ctx context.Context, userID uint64) (*entity.AuthToken, error)
}

// TokenService issues session tokens with get-or-create semantics: a user
// keeps the same token across logins until it is revoked.
type TokenService interface {
	GetOrCreate(ctx context.Context, user *entity.User) (string, error)
	Validate(tokenString string) (*Claims, error)
}

type tokenService struct {
	tokenRepo authTokenRepository
	cfg       *config.Config
}

func NewTokenService(tokenRepo authTokenRepository, cfg *config.Config) TokenService {
	return &tokenService{
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

func (s *tokenService) GetOrCreate(ctx context.Context, user *entity.User) (string, error) {
	existing, err := s.tokenRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.Token, nil
	}

	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.Email,
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}

	token := &entity.AuthToken{
		UserID:    user.ID,
		Token:     signed,
		CreatedAt: now,
	}
	if err = s.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	return signed, nil
}

func (s *tokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
