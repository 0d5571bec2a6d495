package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairsplit/fairsplit/internal/models"
)

type paymentResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	DebtorID  string  `json:"debtor_id"`
	DebteeID  string  `json:"debtee_id"`
	GroupID   string  `json:"group_id,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}

func toPaymentResponse(p *models.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		Name:      p.Name,
		Amount:    p.Amount,
		DebtorID:  p.DebtorID,
		DebteeID:  p.DebteeID,
		GroupID:   p.GroupID,
		RequestID: p.RequestID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPaymentResponses(payments []*models.Payment) []paymentResponse {
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

type createPaymentRequest struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	DebtorID  string  `json:"debtor_id"`
	DebteeID  string  `json:"debtee_id"`
	GroupID   string  `json:"group_id,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
}

func (a *API) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	payment, err := a.payments.CreatePayment(r.Context(), &models.Payment{
		Name:      req.Name,
		Amount:    req.Amount,
		DebtorID:  req.DebtorID,
		DebteeID:  req.DebteeID,
		GroupID:   req.GroupID,
		RequestID: req.RequestID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (a *API) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := a.payments.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (a *API) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	found, err := a.payments.DeletePayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "payment not found"})
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleListUserPayments(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var (
		payments []*models.Payment
		err      error
	)
	switch role := r.URL.Query().Get("role"); role {
	case "", "debtor":
		payments, err = a.payments.ListPaymentsByDebtor(r.Context(), userID)
	case "debtee":
		payments, err = a.payments.ListPaymentsByDebtee(r.Context(), userID)
	default:
		writeBadRequest(w, "role must be debtor or debtee")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponses(payments))
}

func (a *API) handleListGroupPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := a.payments.ListPaymentsByGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponses(payments))
}
