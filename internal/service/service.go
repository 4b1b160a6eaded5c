// service содержит бизнес-логику newsletter-service:
// регистрацию/аутентификацию пользователей, выпуск/проверку токенов,
// управление подписчиками рассылки и работу с хранилищем через
// интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Токены stateless: refresh-токен — JWT с отдельным секретом, на сервере
//     не хранится и отозван быть не может. Это осознанное ограничение дизайна.
//   - Ошибки возвращаются сентинелами и далее маппятся HTTP-слоем на коды
//     ответов (см. комментарии к переменным ошибок ниже).
package service

import (
	"context"
	"errors"

	"github.com/pribylovaa/newsletter-service/internal/config"
	"github.com/pribylovaa/newsletter-service/internal/storage"
)

var (
	// ErrRequiredFields — не заполнено обязательное поле регистрации.
	// Транспорт: HTTP 400.
	ErrRequiredFields = errors.New("all fields are required")

	// ErrInvalidCredentials — пара email/пароль неверна или пользователь не найден.
	// Намеренно не различаем эти случаи, чтобы не допускать перебор email.
	// Транспорт: HTTP 404 (исторический контракт API).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken — email уже занят другим пользователем.
	// Транспорт: HTTP 500 (исторический контракт API, см. DESIGN.md).
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidToken — токен некорректен по формату/подписи.
	// Транспорт: logout — HTTP 404, refresh — HTTP 403 (исторический контракт).
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк.
	// Транспорт: как ErrInvalidToken.
	ErrTokenExpired = errors.New("token expired")

	// ErrUserNotFound — пользователь из claims refresh-токена не существует.
	// Транспорт: HTTP 403.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailRequired — не передан email подписчика.
	// Транспорт: HTTP 400.
	ErrEmailRequired = errors.New("email is required")

	// ErrAlreadySubscribed — email уже есть в списке рассылки.
	// Транспорт: HTTP 400.
	ErrAlreadySubscribed = errors.New("already subscribed")

	// ErrSubscriberNotFound — подписчик с таким ID не найден.
	// Транспорт: HTTP 404.
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

// EmailSender отправляет письма подписчикам. Реализация — internal/mail;
// nil-значение допустимо и означает «отправка выключена».
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Service описывает бизнес-логику newsletter-service.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	mailer  EmailSender // может быть nil, если SMTP не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetMailer устанавливает отправителя писем (опционально).
func (s *Service) SetMailer(m EmailSender) {
	s.mailer = m
}
