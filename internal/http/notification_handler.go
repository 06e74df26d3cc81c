package http

import (
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/notify"
)

type NotificationsResponse struct {
	Notifications []notify.Event `json:"notifications"`
}

// NotificationHandler exposes the recent cart feedback messages.
type NotificationHandler struct {
	feed *notify.Recorder
}

func NewNotificationHandler(feed *notify.Recorder) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	events := h.feed.Events()
	if events == nil {
		events = []notify.Event{}
	}
	respondJSON(w, http.StatusOK, NotificationsResponse{Notifications: events})
}
