/*
handlers.go - HTTP API handlers for the attendance and payout system

PURPOSE:
  Exposes the roster, attendance, and payout ledgers over REST. Handles
  HTTP request/response and JSON serialization; all domain rules live in
  the domain packages, never here.

ENDPOINTS:
  Workers:
    GET    /api/workers                      List workers (newest first)
    POST   /api/workers                      Register worker
    GET    /api/workers/{id}                 Get worker
    PATCH  /api/workers/{id}/status          Set Active/Inactive
    PATCH  /api/workers/{id}/balances        Update advance/remaining
    DELETE /api/workers/{id}                 Delete worker (+ attendance)

  Attendance:
    GET    /api/workers/{id}/attendance      Range query (?start=&end=)
    POST   /api/workers/{id}/attendance      Mark a day
    POST   /api/workers/{id}/attendance/cycle Advance a day one step

  Payouts:
    GET    /api/workers/{id}/payout          Computed week preview (?date=)
    POST   /api/workers/{id}/payouts         Record a finalized payout
    GET    /api/workers/{id}/payouts         Settlement history

  Calendar:
    GET    /api/week                         Pay week + navigation (?date=)
    GET    /api/health                       Liveness

ERROR HANDLING:
  Responses carry a structured kind + message and never leak driver
  internals:
  - 400: validation_error, invalid_field, invalid_date, invalid_status
  - 404: not_found
  - 503: store_unavailable ("try again later")
  - 500: internal

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/AmitChaudhary07/worker-attendance-management/attendance"
	"github.com/AmitChaudhary07/worker-attendance-management/payout"
	"github.com/AmitChaudhary07/worker-attendance-management/payweek"
	"github.com/AmitChaudhary07/worker-attendance-management/roster"
	"github.com/AmitChaudhary07/worker-attendance-management/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Backend is the persistence surface the handlers need. Both
// store/sqlite and store/memory satisfy it.
type Backend interface {
	roster.Store
	attendance.Store
	payout.Store
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Workers    *roster.Ledger
	Attendance *attendance.Ledger
	Payouts    *payout.Processor
}

// NewHandler wires the domain ledgers over the given backend.
func NewHandler(backend Backend) *Handler {
	return &Handler{
		Workers:    roster.NewLedger(backend),
		Attendance: attendance.NewLedger(backend),
		Payouts:    payout.NewProcessor(backend),
	}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers, newest first.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Workers.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i := range workers {
		dtos[i] = toWorkerDTO(&workers[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateWorker registers a new worker.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	wage := decimal.Zero
	if req.DailyWage != "" {
		var err error
		wage, err = decimal.NewFromString(req.DailyWage.String())
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "daily_wage must be a number")
			return
		}
	}

	worker, err := h.Workers.Create(r.Context(), req.Name, req.Mobile, wage, req.Designation, roster.WorkerStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkerDTO(worker))
}

// GetWorker returns a single worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker, err := h.Workers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(worker))
}

// SetWorkerStatus flips a worker between Active and Inactive.
func (h *Handler) SetWorkerStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	worker, err := h.Workers.SetStatus(r.Context(), chi.URLParam(r, "id"), roster.WorkerStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(worker))
}

// UpdateWorkerBalances updates advance/remaining. Any other field name
// in the body is rejected before values are even parsed.
func (h *Handler) UpdateWorkerBalances(w http.ResponseWriter, r *http.Request) {
	var req BalanceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	var fields roster.BalanceFields
	for name, raw := range req {
		if err := roster.CheckBalanceField(name); err != nil {
			writeDomainError(w, err)
			return
		}
		value, err := decimal.NewFromString(raw.String())
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", name+" must be a number")
			return
		}
		switch name {
		case "advance":
			fields.Advance = &value
		case "remaining":
			fields.Remaining = &value
		}
	}

	worker, err := h.Workers.UpdateBalances(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkerDTO(worker))
}

// DeleteWorker removes a worker and all associated attendance records.
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	if err := h.Workers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "worker deleted"})
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetAttendance returns the stored marks in [start, end]. Unmarked days
// are omitted; the client applies the absent default.
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	from, err := payweek.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "start must be YYYY-MM-DD")
		return
	}
	to, err := payweek.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "end must be YYYY-MM-DD")
		return
	}

	marks, err := h.Attendance.Range(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marksToDTO(marks))
}

// MarkAttendance upserts one day's status.
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	date, err := payweek.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
		return
	}

	workerID := chi.URLParam(r, "id")
	if err := h.Attendance.Mark(r.Context(), workerID, date, attendance.Status(req.Status)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MarkDTO{WorkerID: workerID, Date: date.String(), Status: req.Status})
}

// CycleAttendance advances one day a single cycle step
// (absent -> present -> half -> full_plus_half -> absent).
func (h *Handler) CycleAttendance(w http.ResponseWriter, r *http.Request) {
	var req CycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	date, err := payweek.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
		return
	}

	workerID := chi.URLParam(r, "id")
	status, err := h.Attendance.Cycle(r.Context(), workerID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MarkDTO{WorkerID: workerID, Date: date.String(), Status: string(status)})
}

// =============================================================================
// PAYOUT HANDLERS
// =============================================================================

// GetWeekPayout computes the payout preview for the pay week containing
// ?date= (default today). Derived on the fly from the wage and the
// week's marks; nothing is persisted.
func (h *Handler) GetWeekPayout(w http.ResponseWriter, r *http.Request) {
	ref, today, ok := refDate(w, r)
	if !ok {
		return
	}

	workerID := chi.URLParam(r, "id")
	worker, err := h.Workers.Get(r.Context(), workerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	week, marks, err := h.Attendance.Week(r.Context(), workerID, ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	summary := payout.Summarize(week, marks, worker.DailyWage)
	writeJSON(w, http.StatusOK, WeekPayoutDTO{
		WorkerID: workerID,
		Week:     toWeekDTO(week, today),
		Marks:    marksToDTO(marks),
		Counts: CountsDTO{
			Present:      summary.Counts.Present,
			Half:         summary.Counts.Half,
			FullPlusHalf: summary.Counts.FullPlusHalf,
		},
		Amount: num(summary.Amount),
	})
}

// RecordPayout appends a finalized settlement event.
func (h *Handler) RecordPayout(w http.ResponseWriter, r *http.Request) {
	var req RecordPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "amount must be a number")
		return
	}
	weekStart, err := payweek.ParseDate(req.WeekStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "week_start must be YYYY-MM-DD")
		return
	}
	weekEnd, err := payweek.ParseDate(req.WeekEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "week_end must be YYYY-MM-DD")
		return
	}

	workerID := chi.URLParam(r, "id")
	// Existence check up front so settlements never reference a ghost.
	if _, err := h.Workers.Get(r.Context(), workerID); err != nil {
		writeDomainError(w, err)
		return
	}

	event, err := h.Payouts.Record(r.Context(), workerID, amount, weekStart, weekEnd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayoutEventDTO(event))
}

// ListPayouts returns the worker's settlement history, newest first.
func (h *Handler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	events, err := h.Payouts.ListForWorker(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]PayoutEventDTO, len(events))
	for i := range events {
		dtos[i] = toPayoutEventDTO(&events[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetWeek returns the pay week containing ?date= (default today) plus
// the navigation allowed from it.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	ref, today, ok := refDate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toWeekDTO(payweek.WeekOf(ref), today))
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// refDate resolves the optional ?date= query parameter, defaulting to
// today (UTC). Reports false after writing the error response.
func refDate(w http.ResponseWriter, r *http.Request) (ref, today payweek.Date, ok bool) {
	today = payweek.Today()
	ref = today
	if raw := r.URL.Query().Get("date"); raw != "" {
		var err error
		if ref, err = payweek.ParseDate(raw); err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD")
			return ref, today, false
		}
	}
	return ref, today, true
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Kind: kind, Message: message}})
}

// writeDomainError maps domain errors to status codes and structured
// kinds. Store-level failures surface as 503 so clients can tell "try
// again later" from "your request was wrong"; driver details stay in
// server logs only.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roster.ErrNotFound), errors.Is(err, attendance.ErrWorkerNotFound):
		writeError(w, http.StatusNotFound, "not_found", "worker not found")
	case errors.Is(err, roster.ErrInvalidField):
		writeError(w, http.StatusBadRequest, "invalid_field", err.Error())
	case errors.Is(err, roster.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, attendance.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, attendance.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, store.ErrUnavailable):
		slog.Error("store unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "storage is unavailable, try again later")
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
