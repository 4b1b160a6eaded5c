package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pribylovaa/newsletter-service/internal/models"
	"github.com/pribylovaa/newsletter-service/internal/service"
)

// CookieConfig — политика refresh-cookie.
// Secure включается только в prod-окружении; MaxAge совпадает с TTL
// refresh-токена (по умолчанию 7 дней).
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

// Handlers агрегирует зависимости HTTP-хендлеров.
type Handlers struct {
	svc    *service.Service
	cookie CookieConfig
}

func New(svc *service.Service, cookie CookieConfig) *Handlers {
	return &Handlers{svc: svc, cookie: cookie}
}

// successResponse — единый конверт успешного ответа.
type successResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// userPayload — представление пользователя для клиента.
// Хэш пароля в структуре отсутствует: инвариант «пароль не сериализуется»
// обеспечен самим типом, а не затиранием поля.
type userPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	FullName  string    `json:"fullname"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// subscriberPayload — представление подписчика для клиента.
type subscriberPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toSubscriberPayload(s *models.Subscriber) subscriberPayload {
	return subscriberPayload{
		ID:        s.ID,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeSuccess — успешный ответ в историческом конверте {status, message, data}.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successResponse{
		Status:  "Successful",
		Message: message,
		Data:    data,
	})
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
