package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/internal/repositories"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.Admin, error)
	GetAdminByID(ctx context.Context, adminID uint64) (*entities.Admin, error)
}

// LockoutPolicy - сколько неудачных входов подряд допускается и на сколько блокируется вход.
type LockoutPolicy struct {
	MaxLoginAttempts int
	LockoutDuration  time.Duration
}

type AuthService struct {
	adminRepo repositories.AdminRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	policy    LockoutPolicy
	logger    *zap.Logger
}

func NewAuthService(
	adminRepo repositories.AdminRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	policy LockoutPolicy,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		adminRepo: adminRepo,
		cacheRepo: cacheRepo,
		policy:    policy,
		logger:    logger,
	}
}

// Счётчики ведутся по логину: так перебор по несуществующим логинам тоже ограничивается.
func attemptsKey(username string) string { return fmt.Sprintf("login_attempts:%s", username) }
func lockoutKey(username string) string  { return fmt.Sprintf("lockout:%s", username) }

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.Admin, error) {
	username := strings.ToLower(strings.TrimSpace(payload.Username))
	logger := s.logger.With(zap.String("username", username))

	if err := s.checkLockout(ctx, username); err != nil {
		logger.Warn("Вход заблокирован")
		return nil, err
	}

	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		s.handleFailedLoginAttempt(ctx, username)
		logger.Warn("Вход с неизвестным логином", zap.Error(err))
		return nil, apperrors.ErrInvalidCredentials
	}
	if !utils.PasswordMatches(admin.Password, payload.Password) {
		s.handleFailedLoginAttempt(ctx, username)
		logger.Warn("Неверный пароль")
		return nil, apperrors.ErrInvalidCredentials
	}

	s.resetLoginAttempts(ctx, username)
	logger.Info("Успешный вход", zap.Uint64("adminID", admin.ID))
	return admin, nil
}

func (s *AuthService) GetAdminByID(ctx context.Context, adminID uint64) (*entities.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		s.logger.Warn("GetAdminByID: не удалось найти сотрудника", zap.Uint64("adminID", adminID), zap.Error(err))
		return nil, apperrors.ErrNotFound
	}
	return admin, nil
}

func (s *AuthService) checkLockout(ctx context.Context, username string) error {
	// Если ключ существует - вход заблокирован
	if _, err := s.cacheRepo.Get(ctx, lockoutKey(username)); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, username string) {
	if s.policy.MaxLoginAttempts <= 0 {
		return
	}
	key := attemptsKey(username)
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Error("Не удалось увеличить счётчик попыток входа", zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, key, s.policy.LockoutDuration)
	}
	if attempts >= int64(s.policy.MaxLoginAttempts) {
		_ = s.cacheRepo.Set(ctx, lockoutKey(username), "locked", s.policy.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, key)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, username string) {
	_ = s.cacheRepo.Del(ctx, attemptsKey(username), lockoutKey(username))
}
