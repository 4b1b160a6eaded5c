package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/newsletter-service/internal/models"
	"github.com/pribylovaa/newsletter-service/internal/pkg/log"
	"github.com/pribylovaa/newsletter-service/internal/pkg/redact"
	"github.com/pribylovaa/newsletter-service/internal/storage"
)

const (
	welcomeSubject = "Thanks for Subscribing!"
	welcomeBody    = "<h2>Welcome!</h2><p>You're now subscribed to our updates.</p>"

	// Отправка идёт вне жизненного цикла запроса, поэтому со своим дедлайном.
	welcomeSendTimeout = 30 * time.Second
)

// Subscribe добавляет email в список рассылки и асинхронно отправляет
// приветственное письмо. Ошибка отправки логируется и не влияет на результат.
func (s *Service) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	const op = "service.subscribers.Subscribe"

	normEmail := strings.ToLower(strings.TrimSpace(email))
	if normEmail == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailRequired)
	}

	if _, err := s.storage.SubscriberByEmail(ctx, normEmail); err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadySubscribed)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := s.storage.SaveSubscriber(ctx, &models.Subscriber{
		Email:     normEmail,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Гонка двух подписок: уникальный индекс решил за нас.
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadySubscribed)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.sendWelcome(ctx, normEmail)

	return sub, nil
}

// RemoveSubscriber удаляет подписчика по ID и возвращает удалённую запись.
func (s *Service) RemoveSubscriber(ctx context.Context, id string) (*models.Subscriber, error) {
	const op = "service.subscribers.RemoveSubscriber"

	sub, err := s.storage.DeleteSubscriber(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriberNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sub, nil
}

// ListSubscribers возвращает всех подписчиков, новые первыми.
func (s *Service) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	const op = "service.subscribers.ListSubscribers"

	items, err := s.storage.ListSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// sendWelcome отправляет приветственное письмо в отдельной горутине.
// Логгер забираем из контекста запроса до запуска горутины: сам контекст
// к моменту отправки уже может быть отменён.
func (s *Service) sendWelcome(ctx context.Context, email string) {
	const op = "service.subscribers.sendWelcome"

	if s.mailer == nil {
		return
	}

	lg := log.From(ctx)

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), welcomeSendTimeout)
		defer cancel()

		if err := s.mailer.Send(sendCtx, email, welcomeSubject, welcomeBody); err != nil {
			lg.Error("welcome_email_failed",
				slog.String("op", op),
				slog.String("email", redact.Email(email)),
				slog.String("err", err.Error()),
			)
			return
		}

		lg.Info("welcome_email_sent",
			slog.String("op", op),
			slog.String("email", redact.Email(email)),
		)
	}()
}
