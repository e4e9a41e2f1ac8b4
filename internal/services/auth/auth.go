// Package auth содержит логику регистрации, входа и валидации JWT.
package auth

import (
	"context"
	"time"

	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/lib/jwt"
	"github.com/workbridge/marketplace-engine/internal/lib/password"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// UserRepository описывает контракт для работы с учётными записями.
type UserRepository interface {
	// RegisterUser сохраняет новую учётную запись и возвращает её UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает учётную запись по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создаёт новый Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создаёт учётную запись клиента или исполнителя на тарифе Free.
// Счётчик квоты пуст, первая дата сброса — через месяц от регистрации.
func (s *Service) Register(ctx context.Context, req models.DummyRegisterUser) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	resetDate := time.Now().UTC().AddDate(0, 1, 0)
	user := models.User{
		Email:                 req.Email,
		Username:              req.Username,
		PasswordHash:          hashed,
		Role:                  req.Role,
		SubscriptionTier:      models.TierFree,
		MonthlyUsageResetDate: &resetDate,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль и возвращает JWT с именем, ролью и UID записи.
// Заблокированная учётная запись не может аутентифицироваться.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if user.IsSuspended {
		return "", "", errs.ErrSuspended
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", errs.ErrForbidden
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает claims владельца.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
