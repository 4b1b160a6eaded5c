package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/newsletter-service/internal/errors"
	"github.com/pribylovaa/newsletter-service/internal/service"
)

type subscribeRequest struct {
	Email string `json:"email"`
}

// AddSubscriber — POST /subscribers. Аутентификации не требует.
// Повторная подписка — 400. Приветственное письмо уходит асинхронно
// и на ответ не влияет.
func (h *Handlers) AddSubscriber(w http.ResponseWriter, r *http.Request) {
	var in subscribeRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.Validation("invalid request body"))
		return
	}

	sub, err := h.svc.Subscribe(r.Context(), in.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			apierrors.WriteError(w, r, apierrors.Validation("email is required"))
		case errors.Is(err, service.ErrAlreadySubscribed):
			apierrors.WriteError(w, r, apierrors.Validation("already subscribed"))
		default:
			apierrors.WriteError(w, r, apierrors.Internal("subscription failed", err))
		}
		return
	}

	writeSuccess(w, http.StatusCreated, "subscribed successfully", map[string]any{
		"subscriber": toSubscriberPayload(sub),
	})
}

// RemoveSubscriber — DELETE /subscribers/{id}. Только для админа
// (см. маршрутизацию). Возвращает удалённую запись.
func (h *Handlers) RemoveSubscriber(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := h.svc.RemoveSubscriber(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriberNotFound):
			apierrors.WriteError(w, r, apierrors.NotFound("subscriber not found"))
		default:
			apierrors.WriteError(w, r, apierrors.Internal("error removing subscriber", err))
		}
		return
	}

	writeSuccess(w, http.StatusOK, "subscriber removed successfully", map[string]any{
		"subscriber": toSubscriberPayload(sub),
	})
}

// ListSubscribers — GET /subscribers. Только для админа.
func (h *Handlers) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListSubscribers(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, apierrors.Internal("error listing subscribers", err))
		return
	}

	payload := make([]subscriberPayload, 0, len(subs))
	for i := range subs {
		payload = append(payload, toSubscriberPayload(&subs[i]))
	}

	writeSuccess(w, http.StatusOK, "subscribers listed successfully", map[string]any{
		"subscribers": payload,
	})
}
