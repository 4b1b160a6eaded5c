// Package models содержит доменные сущности newsletter-service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей. Иерархии нет: либо обычный пользователь, либо админ.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User — модель пользователя в системе.
// PasswordHash никогда не сериализуется наружу: API-слой собирает
// собственное представление без этого поля.
type User struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	LastName     string
	FullName     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
