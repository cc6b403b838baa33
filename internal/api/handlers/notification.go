package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dom/account-store/internal/api/middleware"
	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Sample returns one synthetic purchase notification.
func (h *NotificationHandler) Sample(w http.ResponseWriter, r *http.Request) {
	n, err := h.notificationService.Generate(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveAccounts) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		log.Printf("ERROR [handler.Sample]: %v", err)
		http.Error(w, "Failed to build notification", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, catalog.NewNotificationView(n, middleware.GetLocale(r.Context())))
}
