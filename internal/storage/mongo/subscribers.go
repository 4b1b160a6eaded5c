package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/newsletter-service/internal/models"
	"github.com/pribylovaa/newsletter-service/internal/storage"
)

// subscriberDoc — представление подписчика в коллекции subscribers.
type subscriberDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d subscriberDoc) toModel() models.Subscriber {
	return models.Subscriber{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// SaveSubscriber создаёт подписчика и возвращает его с присвоенным ObjectID.
// Конфликт уникального индекса по email — storage.ErrAlreadyExists.
func (m *Mongo) SaveSubscriber(ctx context.Context, sub *models.Subscriber) (*models.Subscriber, error) {
	const op = "storage/mongo/SaveSubscriber"

	doc := subscriberDoc{
		Email:     sub.Email,
		CreatedAt: sub.CreatedAt.UTC().Truncate(time.Millisecond),
	}

	res, err := m.subscribers.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	out := doc.toModel()
	return &out, nil
}

// SubscriberByEmail возвращает подписчика по email.
// Если запись не найдена — storage.ErrNotFound.
func (m *Mongo) SubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	const op = "storage/mongo/SubscriberByEmail"

	var doc subscriberDoc
	err := m.subscribers.FindOne(ctx, bson.D{{Key: "email", Value: strings.TrimSpace(email)}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// DeleteSubscriber удаляет подписчика по идентификатору и возвращает удалённую запись.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) DeleteSubscriber(ctx context.Context, id string) (*models.Subscriber, error) {
	const op = "storage/mongo/DeleteSubscriber"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc subscriberDoc
	err = m.subscribers.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// ListSubscribers возвращает всех подписчиков, новые первыми.
func (m *Mongo) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	const op = "storage/mongo/ListSubscribers"

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := m.subscribers.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Subscriber
	for cur.Next(ctx) {
		var doc subscriberDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}
