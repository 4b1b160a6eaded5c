// storage задаёт контракт работы с БД для newsletter-service.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/newsletter-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/подписчик).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SubscriberStorage выполняет операции над подписчиками рассылки.
type SubscriberStorage interface {
	// SaveSubscriber создаёт нового подписчика и возвращает его с заполненным ID.
	SaveSubscriber(ctx context.Context, sub *models.Subscriber) (*models.Subscriber, error)
	// SubscriberByEmail находит подписчика по email.
	SubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	// DeleteSubscriber удаляет подписчика по ID и возвращает удалённую запись.
	DeleteSubscriber(ctx context.Context, id string) (*models.Subscriber, error)
	// ListSubscribers возвращает всех подписчиков, новые первыми.
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	SubscriberStorage
	Close(ctx context.Context) error
}
