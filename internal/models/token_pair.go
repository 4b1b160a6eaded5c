package models

import "time"

// TokenPair — пара токенов, выдаваемая при аутентификации/регистрации/обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT с отдельным секретом; клиент получает
//     его в httpOnly-cookie и предъявляет для выпуска новой пары. На сервере
//     не хранится — отзыв невозможен по дизайну;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}
