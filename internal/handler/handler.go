// Package handler exposes the planner over a JSON HTTP API.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mstanton/wishful/internal/config"
	"github.com/mstanton/wishful/internal/domain"
	"github.com/mstanton/wishful/internal/service"
	"github.com/mstanton/wishful/internal/store"
)

const dateLayout = "2006-01-02"

// Handler holds the HTTP endpoints.
type Handler struct {
	planner *service.Planner
	repo    *store.Repository
	log     *logrus.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(planner *service.Planner, repo *store.Repository, log *logrus.Logger) *Handler {
	return &Handler{planner: planner, repo: repo, log: log}
}

// Router builds the API routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	r.HandleFunc("/api/report", h.GetReport).Methods("GET")

	r.HandleFunc("/api/incomes", h.ListIncomes).Methods("GET")
	r.HandleFunc("/api/incomes", h.CreateIncome).Methods("POST")
	r.HandleFunc("/api/incomes/{id}", h.DeleteIncome).Methods("DELETE")

	r.HandleFunc("/api/expenses", h.ListExpenses).Methods("GET")
	r.HandleFunc("/api/expenses", h.CreateExpense).Methods("POST")
	r.HandleFunc("/api/expenses/{id}", h.DeleteExpense).Methods("DELETE")

	r.HandleFunc("/api/goals", h.ListGoals).Methods("GET")
	r.HandleFunc("/api/goals", h.CreateGoal).Methods("POST")
	r.HandleFunc("/api/goals/preview", h.PreviewGoal).Methods("POST")
	r.HandleFunc("/api/goals/{id}", h.DeleteGoal).Methods("DELETE")
	r.HandleFunc("/api/goals/{id}/purchase", h.PurchaseGoal).Methods("POST")

	r.HandleFunc("/api/purchases", h.ListPurchases).Methods("GET")
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	})
}

// GetReport runs the allocation calculation and returns the full report.
// An optional as_of query parameter pins the calculation day.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	report, err := h.planner.Report(asOf)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

type incomeRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Recurrence  string          `json:"recurrence"`
	DayOfMonth  int             `json:"dayOfMonth"`
	StartDate   string          `json:"startDate"`
	OneTimeDate string          `json:"oneTimeDate"`
}

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	src := domain.IncomeSource{
		Description: req.Description,
		Amount:      req.Amount,
		Recurrence:  domain.RecurrenceKind(req.Recurrence),
		DayOfMonth:  req.DayOfMonth,
	}
	var err error
	if src.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		h.writeError(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	if src.OneTimeDate, err = parseOptionalDate(req.OneTimeDate); err != nil {
		h.writeError(w, http.StatusBadRequest, "oneTimeDate must be YYYY-MM-DD")
		return
	}
	if err := config.ValidateIncomeSource(&src); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.repo.CreateIncome(&src); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, src)
}

func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.repo.ListIncomes()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, incomes)
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.repo.DeleteIncome)
}

type expenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.Description == "" || req.Amount.LessThanOrEqual(decimal.Zero) {
		h.writeError(w, http.StatusUnprocessableEntity, "description and a positive amount are required")
		return
	}

	exp := domain.ExpenseEvent{Description: req.Description, Amount: req.Amount, Date: date}
	if err := h.repo.CreateExpense(&exp); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, exp)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.repo.ListExpenses()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, expenses)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.repo.DeleteExpense)
}

type goalRequest struct {
	Name       string          `json:"name"`
	Cost       decimal.Decimal `json:"cost"`
	Policy     string          `json:"policy"`
	TargetDate string          `json:"targetDate"`
	Order      int             `json:"order"`
	Percentage decimal.Decimal `json:"percentage"`
}

func (gr goalRequest) toGoal() (domain.Goal, error) {
	g := domain.Goal{
		Name:       gr.Name,
		Cost:       gr.Cost,
		Policy:     domain.GoalPolicy(gr.Policy),
		Order:      gr.Order,
		Percentage: gr.Percentage,
	}
	var err error
	if g.TargetDate, err = parseOptionalDate(gr.TargetDate); err != nil {
		return g, err
	}
	return g, config.ValidateGoal(&g)
}

func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	g, err := req.toGoal()
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := h.planner.AddGoal(g, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.repo.ListGoals()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, goals)
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.planner.RemoveGoal)
}

type purchaseRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

func (h *Handler) PurchaseGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.planner.Purchase(id, req.Amount, req.Note, time.Now()); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"purchased": true})
}

// PreviewGoal runs a what-if calculation for an unpersisted goal and
// returns both the hypothetical goal's outcome and the full report so
// callers can show the effect on every other goal's timeline.
func (h *Handler) PreviewGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	g, err := req.toGoal()
	if err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	report, outcome, err := h.planner.Preview(g, time.Now())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome,
		"report":  report,
	})
}

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.repo.RecentPurchases(10)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, purchases)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, del func(int64) error) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := del(id); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	t = domain.Date(t)
	return &t, nil
}
