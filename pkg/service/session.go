package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "itdesk/pkg/errors"
)

const sessionKeyPrefix = "session:"

// SessionStore - хранилище сессий с TTL (Redis в проде, map в тестах).
// Get обязан вернуть apperrors.ErrNotFound для отсутствующего ключа.
type SessionStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// SessionClaims - содержимое cookie. Сама сессия живёт на сервере,
// ID() ссылается на неё, так что подделать или продлить её на клиенте нельзя.
type SessionClaims struct {
	AdminID uint64 `json:"admin_id"`
	jwt.RegisteredClaims
}

type SessionService interface {
	Create(ctx context.Context, adminID uint64) (string, error)
	Resolve(ctx context.Context, token string) (*SessionClaims, error)
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}

type sessionService struct {
	store     SessionStore
	secretKey []byte
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewSessionService(store SessionStore, secretKey string, ttl time.Duration, logger *zap.Logger) SessionService {
	return &sessionService{
		store:     store,
		secretKey: []byte(secretKey),
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *sessionService) TTL() time.Duration { return s.ttl }

func (s *sessionService) Create(ctx context.Context, adminID uint64) (string, error) {
	sessionID := uuid.NewString()
	if err := s.store.Set(ctx, sessionKeyPrefix+sessionID, adminID, s.ttl); err != nil {
		return "", fmt.Errorf("не удалось сохранить сессию: %w", err)
	}

	now := s.now()
	claims := &SessionClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatUint(adminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		_ = s.store.Del(ctx, sessionKeyPrefix+sessionID)
		return "", fmt.Errorf("не удалось подписать токен сессии: %w", err)
	}

	s.logger.Debug("Создана сессия", zap.Uint64("adminID", adminID), zap.String("sessionID", sessionID))
	return token, nil
}

func (s *sessionService) parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		if errors.Is(err, apperrors.ErrInvalidSigningMethod) {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.ID == "" || claims.AdminID == 0 {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// Resolve проверяет подпись и наличие сессии в хранилище.
func (s *sessionService) Resolve(ctx context.Context, token string) (*SessionClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Get(ctx, sessionKeyPrefix+claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	if stored != strconv.FormatUint(claims.AdminID, 10) {
		s.logger.Warn("Сессия принадлежит другому пользователю", zap.String("sessionID", claims.ID))
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (s *sessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		// просроченный или битый токен: отзывать нечего
		return nil
	}
	return s.store.Del(ctx, sessionKeyPrefix+claims.ID)
}
