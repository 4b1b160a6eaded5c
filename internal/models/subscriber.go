package models

import "time"

// Subscriber — запись списка рассылки (MongoDB).
// ID — ObjectID MongoDB, наружу/вовнутрь конвертируется в hex-строку.
// С пользователями никак не связана: подписаться можно без аккаунта.
type Subscriber struct {
	ID        string
	Email     string
	CreatedAt time.Time
}
