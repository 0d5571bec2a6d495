package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fairsplit/fairsplit/internal/models"
	"github.com/fairsplit/fairsplit/internal/service"
)

type expenseResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Amount          float64  `json:"amount"`
	Category        string   `json:"category"`
	Paid            bool     `json:"paid"`
	PayerID         string   `json:"payer_id"`
	GroupID         string   `json:"group_id"`
	AssignedUserIDs []string `json:"assigned_user_ids"`
	CreatedAt       int64    `json:"created_at"`
	UpdatedAt       int64    `json:"updated_at"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:              e.ID,
		Name:            e.Name,
		Amount:          e.Amount,
		Category:        e.Category,
		Paid:            e.Paid,
		PayerID:         e.PayerID,
		GroupID:         e.GroupID,
		AssignedUserIDs: e.AssignedUserIDs,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

type createExpenseRequest struct {
	Name            string   `json:"name"`
	Amount          float64  `json:"amount"`
	Category        string   `json:"category"`
	PayerID         string   `json:"payer_id"`
	GroupID         string   `json:"group_id"`
	AssignedUserIDs []string `json:"assigned_user_ids"`
}

type createExpenseResponse struct {
	Expense  expenseResponse   `json:"expense"`
	Requests []requestResponse `json:"requests"`
}

func (a *API) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	expense, requests, err := a.expenses.CreateExpense(r.Context(), &models.Expense{
		Name:            req.Name,
		Amount:          req.Amount,
		Category:        req.Category,
		PayerID:         req.PayerID,
		GroupID:         req.GroupID,
		AssignedUserIDs: req.AssignedUserIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createExpenseResponse{
		Expense:  toExpenseResponse(expense),
		Requests: toRequestResponses(requests),
	})
}

func (a *API) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := a.expenses.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (a *API) handleListGroupExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ExpenseFilter{
		UserID:   q.Get("user_id"),
		Category: q.Get("category"),
	}
	if from := q.Get("from"); from != "" {
		v, err := strconv.ParseInt(from, 10, 64)
		if err != nil {
			writeBadRequest(w, "invalid from timestamp")
			return
		}
		filter.From = v
	}
	if to := q.Get("to"); to != "" {
		v, err := strconv.ParseInt(to, 10, 64)
		if err != nil {
			writeBadRequest(w, "invalid to timestamp")
			return
		}
		filter.To = v
	}

	expenses, err := a.expenses.ListExpenses(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

type updateExpenseRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Paid     *bool   `json:"paid,omitempty"`
}

func (a *API) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	expense, err := a.expenses.UpdateExpense(r.Context(), chi.URLParam(r, "id"), service.ExpensePatch{
		Name:     req.Name,
		Category: req.Category,
		Paid:     req.Paid,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (a *API) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := a.expenses.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleListExpenseRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := a.requests.ListRequestsByExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestResponses(requests))
}
