package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carrental/internal/db"
	"carrental/internal/logger"
	"carrental/internal/metrics"
	"carrental/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier checks an admin's username and password.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*db.Admin, error)
}

type bcryptVerifier struct {
	repo repository.AdminAuthRepository
}

// NewBcryptVerifier verifies passwords against the bcrypt hashes held by repo.
func NewBcryptVerifier(repo repository.AdminAuthRepository) CredentialVerifier {
	return &bcryptVerifier{repo: repo}
}

func (v *bcryptVerifier) Verify(ctx context.Context, username, password string) (*db.Admin, error) {
	admin, err := v.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

type AdminAuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	TokenTTL() time.Duration
}

type adminAuthService struct {
	verifier CredentialVerifier
	secret   []byte
	ttl      time.Duration
	metrics  *metrics.Metrics
	log      logger.ILogger
	now      func() time.Time
}

func NewAdminAuthService(verifier CredentialVerifier, secret string, ttl time.Duration, m *metrics.Metrics, log logger.ILogger) AdminAuthService {
	return &adminAuthService{
		verifier: verifier,
		secret:   []byte(secret),
		ttl:      ttl,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

func (s *adminAuthService) TokenTTL() time.Duration { return s.ttl }

func (s *adminAuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		s.metrics.AdminLoginsTotal.WithLabelValues("rejected").Inc()
		return "", ErrInvalidCredentials
	}

	admin, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.metrics.AdminLoginsTotal.WithLabelValues("rejected").Inc()
			s.log.Warning("admin login rejected", logger.String("username", username))
			return "", err
		}
		s.metrics.AdminLoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("error verifying credentials: %w", err)
	}

	claims := jwt.MapClaims{
		"sub":      admin.Username,
		"admin_id": admin.ID,
		"exp":      s.now().Add(s.ttl).Unix(),
		"iat":      s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.metrics.AdminLoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("error signing token: %w", err)
	}

	s.metrics.AdminLoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info("admin logged in", logger.String("username", admin.Username))
	return signed, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}
