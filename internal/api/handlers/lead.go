package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/service"
)

type LeadHandler struct {
	leadService *service.LeadService
}

func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

type LeadRequest struct {
	AccountID     string `json:"accountId"`
	ContactMethod string `json:"contactMethod"`
	ContactValue  string `json:"contactValue"`
	Consent       bool   `json:"consent"`
}

type LeadResponse struct {
	Delivered bool    `json:"delivered"`
	OrderID   *string `json:"orderId"`
}

// Submit relays a purchase lead to the operator.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	result, err := h.leadService.Submit(r.Context(), service.LeadInput{
		AccountID:     req.AccountID,
		ContactMethod: domain.ContactMethod(req.ContactMethod),
		ContactValue:  req.ContactValue,
		Consent:       req.Consent,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLead):
			respondError(w, http.StatusBadRequest, "invalid_lead", err.Error())
		case errors.Is(err, service.ErrLeadChannelNotConfigured):
			respondError(w, http.StatusServiceUnavailable, "lead_channel_not_configured", "Orders are temporarily unavailable")
		case errors.Is(err, domain.ErrAccountNotFound):
			respondError(w, http.StatusNotFound, "account_not_found", "Account not found")
		case errors.Is(err, domain.ErrAccountNotActive):
			respondError(w, http.StatusConflict, "account_not_available", "Account is no longer available")
		case errors.Is(err, service.ErrDeliveryFailed):
			respondError(w, http.StatusBadGateway, "delivery_failed", "Failed to send the order, please try again")
		default:
			log.Printf("ERROR [handler.SubmitLead] accountID=%s: %v", req.AccountID, err)
			respondError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		}
		return
	}

	resp := LeadResponse{Delivered: result.Delivered}
	if result.Order != nil {
		id := result.Order.ID.String()
		resp.OrderID = &id
	}
	respondJSON(w, http.StatusCreated, resp)
}
