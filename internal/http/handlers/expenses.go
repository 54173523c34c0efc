package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spendlog/spendlog-be/internal/events"
	"github.com/spendlog/spendlog-be/internal/http/respond"
	"github.com/spendlog/spendlog-be/internal/models"
	"github.com/spendlog/spendlog-be/internal/models/dto"
	"github.com/spendlog/spendlog-be/internal/storage"
)

// ExpenseHandler owns expense CRUD, filtering, and summary endpoints.
type ExpenseHandler struct {
	store     storage.ExpenseStore
	publisher events.Publisher
	logger    *slog.Logger
}

// NewExpenseHandler constructs the handler.
func NewExpenseHandler(store storage.ExpenseStore, publisher events.Publisher, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{store: store, publisher: publisher, logger: logger}
}

// Register attaches expense routes to the router.
func (h *ExpenseHandler) Register(r chi.Router) {
	r.Post("/expenses", h.handleCreate)
	r.Get("/expenses", h.handleList)
	r.Get("/expenses/filter/category", h.handleFilterByCategory)
	r.Get("/expenses/filter/date", h.handleFilterByDateRange)
	r.Get("/expenses/summary/total", h.handleTotalSpent)
	r.Get("/expenses/summary/category", h.handleTotalByCategory)
	r.Get("/expenses/summary/month", h.handleTotalByMonth)
	r.Get("/expenses/{id}", h.handleGet)
	r.Put("/expenses/{id}", h.handleUpdate)
	r.Delete("/expenses/{id}", h.handleDelete)
}

func (h *ExpenseHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	expense := req.ToExpense()
	if err := expense.Validate(); err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.store.CreateExpense(r.Context(), expense)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create expense failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	h.publish(r, events.NewExpenseEvent(events.TypeExpenseCreated, created))
	respond.JSON(w, http.StatusCreated, "expense created", created)
}

func (h *ExpenseHandler) handleList(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.ListExpenses(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list expenses failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", expenses)
}

func (h *ExpenseHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	expense, err := h.store.GetExpense(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "get expense failed", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch expense")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", expense)
}

func (h *ExpenseHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	expense := req.ToExpense()
	if err := expense.Validate(); err != nil {
		respond.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := h.store.UpdateExpense(r.Context(), id, expense)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "update expense failed", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to update expense")
		return
	}

	h.publish(r, events.NewExpenseEvent(events.TypeExpenseUpdated, updated))
	respond.JSON(w, http.StatusOK, "expense updated", updated)
}

func (h *ExpenseHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.expenseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.store.DeleteExpense(r.Context(), id)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "delete expense failed", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	// Deleting an absent id still succeeds, but only a real removal is
	// announced downstream.
	if deleted {
		h.publish(r, events.NewExpenseEvent(events.TypeExpenseDeleted, models.Expense{ID: id}))
	}
	respond.NoContent(w)
}

func (h *ExpenseHandler) handleFilterByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	expenses, err := h.store.FilterByCategory(r.Context(), category)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "filter by category failed", "error", err, "category", category)
		respond.Error(w, http.StatusInternalServerError, "failed to filter expenses")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", expenses)
}

func (h *ExpenseHandler) handleFilterByDateRange(w http.ResponseWriter, r *http.Request) {
	start, err := models.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := models.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return
	}

	expenses, err := h.store.FilterByDateRange(r.Context(), start, end)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "filter by date range failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to filter expenses")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", expenses)
}

func (h *ExpenseHandler) handleTotalSpent(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.TotalSpent(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "total spent failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to compute total")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", total)
}

func (h *ExpenseHandler) handleTotalByCategory(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.TotalByCategory(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "total by category failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to compute totals")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", totals)
}

func (h *ExpenseHandler) handleTotalByMonth(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.TotalByMonth(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "total by month failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to compute totals")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", totals)
}

// expenseID parses the id path parameter, writing a 400 on failure.
func (h *ExpenseHandler) expenseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid expense id")
		return 0, false
	}
	return id, true
}

// publish delivers an event best-effort; a broker failure never fails the
// request.
func (h *ExpenseHandler) publish(r *http.Request, event events.Event) {
	if err := h.publisher.Publish(r.Context(), event); err != nil {
		h.logger.WarnContext(r.Context(), "publish event failed", "error", err, "type", event.Type, "expense_id", event.ExpenseID)
	}
}
