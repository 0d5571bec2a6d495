package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/service"
)

type requestResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	IsFulfilled bool    `json:"is_fulfilled"`
	ExpenseID   string  `json:"expense_id,omitempty"`
	DebtorID    string  `json:"debtor_id"`
	DebteeID    string  `json:"debtee_id"`
	GroupID     string  `json:"group_id,omitempty"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

func toRequestResponse(req *models.Request) requestResponse {
	return requestResponse{
		ID:          req.ID,
		Amount:      req.Amount,
		IsFulfilled: req.IsFulfilled,
		ExpenseID:   req.ExpenseID,
		DebtorID:    req.DebtorID,
		DebteeID:    req.DebteeID,
		GroupID:     req.GroupID,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}

func toRequestResponses(requests []*models.Request) []requestResponse {
	out := make([]requestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRequestResponse(req))
	}
	return out
}

type createRequestRequest struct {
	Amount   float64 `json:"amount"`
	DebtorID string  `json:"debtor_id"`
	DebteeID string  `json:"debtee_id"`
	GroupID  string  `json:"group_id,omitempty"`
}

func (a *API) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := a.requests.CreateRequest(r.Context(), &models.Request{
		Amount:   req.Amount,
		DebtorID: req.DebtorID,
		DebteeID: req.DebteeID,
		GroupID:  req.GroupID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestResponse(created))
}

func (a *API) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	request, err := a.requests.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestResponse(request))
}

type updateRequestRequest struct {
	Amount *float64 `json:"amount,omitempty"`
}

func (a *API) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	var req updateRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	request, err := a.requests.UpdateRequest(r.Context(), chi.URLParam(r, "id"), service.RequestPatch{
		Amount: req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestResponse(request))
}

func (a *API) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	request, err := a.requests.AcceptRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestResponse(request))
}

func (a *API) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	if err := a.requests.DeleteRequest(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleListUserRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := chi.URLParam(r, "id")
	openOnly := q.Get("open") == "true"

	var (
		requests []*models.Request
		err      error
	)
	switch role := q.Get("role"); role {
	case "", "debtor":
		requests, err = a.requests.ListRequestsByDebtor(r.Context(), userID, openOnly)
	case "debtee":
		requests, err = a.requests.ListRequestsByDebtee(r.Context(), userID)
	default:
		writeBadRequest(w, "role must be debtor or debtee")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestResponses(requests))
}

func (a *API) handleListGroupRequests(w http.ResponseWriter, r *http.Request) {
	openOnly := r.URL.Query().Get("open") == "true"
	requests, err := a.requests.ListRequestsByGroup(r.Context(), chi.URLParam(r, "id"), openOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestResponses(requests))
}
