package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowcart/api/internal/domain"
	"github.com/glowcart/api/internal/platform/auth"
	"github.com/glowcart/api/internal/platform/httpx"
	"github.com/glowcart/api/internal/services"
)

const maxPaymentBodySize = 16 * 1024

// PaymentHandlers exposes the payment controller endpoints.
type PaymentHandlers struct {
	authn    *auth.Authenticator
	payments services.PaymentService
}

// NewPaymentHandlers constructs handlers for the payment endpoints.
func NewPaymentHandlers(authn *auth.Authenticator, payments services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{
		authn:    authn,
		payments: payments,
	}
}

// Routes wires the /paymentcontroller endpoints onto the provided router.
func (h *PaymentHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/create-payment-link", h.createPaymentLink)
	r.Get("/payment/{transactionId}", h.getPayment)
	r.Put("/update-payment-status/{transactionId}", h.updatePaymentStatus)
	if h.authn != nil {
		r.With(h.authn.RequireAuth()).Delete("/{id}", h.deleteOrder)
	} else {
		r.Delete("/{id}", h.deleteOrder)
	}
}

type createPaymentLinkRequest struct {
	OrderID     string  `json:"orderId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type paymentLinkResponse struct {
	PaymentURL string `json:"paymentUrl"`
}

type paymentTransactionPayload struct {
	TransactionID string  `json:"transactionId"`
	OrderID       *string `json:"orderId,omitempty"`
	Amount        float64 `json:"amount"`
	ResultCode    int     `json:"resultCode"`
	ResponseTime  string  `json:"responseTime"`
	Status        int     `json:"status"`
}

type paymentStatusSummaryPayload struct {
	Message       string `json:"message"`
	UpdatedStatus int    `json:"updatedStatus"`
	ResponseTime  string `json:"responseTime"`
}

func (h *PaymentHandlers) createPaymentLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.payments == nil {
		httpx.WriteError(ctx, w, httpx.NewError("payment_service_unavailable", "payment service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxPaymentBodySize)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	var req createPaymentLinkRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}
	orderID, err := uuid.Parse(strings.TrimSpace(req.OrderID))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "orderId must be a valid UUID", http.StatusBadRequest))
		return
	}

	link, err := h.payments.CreatePaymentLink(ctx, services.CreatePaymentLinkCommand{
		OrderID:     orderID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.writePaymentError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, paymentLinkResponse{PaymentURL: link.PaymentURL})
}

func (h *PaymentHandlers) getPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.payments == nil {
		httpx.WriteError(ctx, w, httpx.NewError("payment_service_unavailable", "payment service is unavailable", http.StatusServiceUnavailable))
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "transactionId"))
	if transactionID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "transaction id is required", http.StatusBadRequest))
		return
	}

	txn, err := h.payments.GetPayment(ctx, transactionID)
	if err != nil {
		h.writePaymentError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, buildTransactionPayload(txn))
}

func (h *PaymentHandlers) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.payments == nil {
		httpx.WriteError(ctx, w, httpx.NewError("payment_service_unavailable", "payment service is unavailable", http.StatusServiceUnavailable))
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "transactionId"))
	if transactionID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "transaction id is required", http.StatusBadRequest))
		return
	}

	rawStatus := strings.TrimSpace(r.URL.Query().Get("newStatus"))
	statusValue, err := strconv.Atoi(rawStatus)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "newStatus must be an integer", http.StatusBadRequest))
		return
	}
	newStatus := domain.PaymentStatus(statusValue)
	if !newStatus.Terminal() {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request",
			fmt.Sprintf("new status must be either Success (%d) or Failed (%d)", domain.PaymentStatusSuccess, domain.PaymentStatusFailed),
			http.StatusBadRequest))
		return
	}

	summary, err := h.payments.UpdatePaymentStatus(ctx, services.UpdatePaymentStatusCommand{
		TransactionID: transactionID,
		NewStatus:     newStatus,
	})
	if err != nil {
		h.writePaymentError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, paymentStatusSummaryPayload{
		Message: fmt.Sprintf("Payment status updated to %s (%d) for Transaction ID: %s",
			summary.UpdatedStatus, int(summary.UpdatedStatus), summary.TransactionID),
		UpdatedStatus: int(summary.UpdatedStatus),
		ResponseTime:  formatTime(summary.ResponseTime),
	})
}

func (h *PaymentHandlers) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.payments == nil {
		httpx.WriteError(ctx, w, httpx.NewError("payment_service_unavailable", "payment service is unavailable", http.StatusServiceUnavailable))
		return
	}

	orderID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "order id must be a valid UUID", http.StatusBadRequest))
		return
	}

	if err := h.payments.DeleteOrder(ctx, orderID); err != nil {
		h.writePaymentError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PaymentHandlers) writePaymentError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrPaymentInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrPaymentNotPending):
		httpx.WriteError(ctx, w, httpx.NewError("payment_status_conflict", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrPaymentNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("payment_not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrOrderNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("order_not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrPaymentGateway):
		httpx.WriteError(ctx, w, httpx.NewError("payment_gateway_error", err.Error(), http.StatusInternalServerError))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("payment_failed", "payment operation failed", http.StatusInternalServerError))
	}
}

func buildTransactionPayload(txn domain.PaymentTransaction) paymentTransactionPayload {
	payload := paymentTransactionPayload{
		TransactionID: txn.TransactionID,
		Amount:        txn.Amount,
		ResultCode:    txn.ResultCode,
		ResponseTime:  formatTime(txn.ResponseTime),
		Status:        int(txn.Status),
	}
	if txn.OrderID != nil {
		orderID := txn.OrderID.String()
		payload.OrderID = &orderID
	}
	return payload
}
