package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/wegx-store/internal/storage/kv"
)

// Ключи токенов, оставшихся от прежних сессий
var sessionTokenKeys = []string{"app_access_token", "access_token"}

// SessionService — локальная сессия без аутентификации
type SessionService interface {
	// Me всегда возвращает ErrNotAuthenticated
	Me(ctx context.Context) error
	// Logout удаляет сохранённые токены, отсутствие токенов — не ошибка
	Logout(ctx context.Context) error
}

type sessionService struct {
	log   *slog.Logger
	store kv.Store
}

func NewSessionService(log *slog.Logger, store kv.Store) SessionService {
	return &sessionService{
		log:   log,
		store: store,
	}
}

func (s *sessionService) Me(ctx context.Context) error {
	return ErrNotAuthenticated
}

func (s *sessionService) Logout(ctx context.Context) error {
	const op = "service.SessionService.Logout"
	logger := s.log.With(slog.String("op", op))

	for _, key := range sessionTokenKeys {
		if err := s.store.Delete(ctx, key); err != nil {
			logger.Error("failed to delete token", slog.String("key", key), slog.Any("error", err))
			return fmt.Errorf("%s: failed to delete %s: %w", op, key, err)
		}
	}
	logger.Info("session cleared")
	return nil
}
