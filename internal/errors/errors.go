// errors стандартизирует ответы об ошибках HTTP-слоя newsletter-service.
//
// На вход принимает ошибку от хендлера, на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей;
//   - короткий стабильный код в поле error для машиночитаемой обработки.
//
// Текст исходной ошибки в ответ не попадает никогда: он уходит
// в request-scoped логгер. Таксономия:
//   - validation   -> 400 (не заполнены обязательные поля);
//   - unauthorized -> 401 (нет учётных данных);
//   - forbidden    -> 403 (токен невалиден/просрочен или личность не разрешима);
//   - not_found    -> 404 (ресурс не найден / неверная пара email+пароль);
//   - internal     -> 500 (неожиданная ошибка, сбой хранилища).
package errors

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/newsletter-service/internal/pkg/log"
)

// Коды поля error в ответе.
const (
	CodeValidation   = "validation"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeInternal     = "internal"
)

// ErrorResponse — единый формат ошибки для клиента.
// Status всегда "Error"; Message — человекочитаемое описание;
// Code — стабильный машиночитаемый код (поле error в JSON).
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"error,omitempty"`
}

// HTTPError — ошибка хендлера с уже выбранным HTTP-статусом.
// Err (опционально) — исходная причина; логируется, наружу не отдаётся.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// WithCause прикрепляет исходную причину для логирования; ответ клиенту не меняет.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	e.Err = cause
	return e
}

// Validation — 400: не заполнены обязательные поля или битый вход.
func Validation(msg string) *HTTPError {
	return &HTTPError{StatusCode: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

// Unauthorized — 401: отсутствует учётная информация (нет cookie/токена).
func Unauthorized(msg string) *HTTPError {
	return &HTTPError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: msg}
}

// Forbidden — 403: токен невалиден/просрочен или личность не разрешима.
func Forbidden(msg string) *HTTPError {
	return &HTTPError{StatusCode: http.StatusForbidden, Code: CodeForbidden, Message: msg}
}

// NotFound — 404: ресурс не найден (или неверная пара email+пароль).
func NotFound(msg string) *HTTPError {
	return &HTTPError{StatusCode: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

// Internal — 500: неожиданная ошибка; cause уходит только в логи.
func Internal(msg string, cause error) *HTTPError {
	return &HTTPError{StatusCode: http.StatusInternalServerError, Code: CodeInternal, Message: msg, Err: cause}
}

// WriteError пишет корректный статус и унифицированное тело ошибки.
// Любая ошибка, не являющаяся *HTTPError, трактуется как внутренняя:
// хендлеры обязаны маппить доменные ошибки явно, а всё прочее не должно
// утекать к клиенту в исходном виде.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	he := &HTTPError{}
	if !errors.As(err, &he) {
		he = Internal("internal error", err)
	}

	if he.Err != nil {
		log.From(r.Context()).Error("request_failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", he.StatusCode),
			slog.String("err", he.Err.Error()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.StatusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Status:  "Error",
		Message: he.Message,
		Code:    he.Code,
	})
}
