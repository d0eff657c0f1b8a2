/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupled from the domain
  types. Decimal amounts cross the wire as JSON numbers; the core keeps
  exact decimals and only the DTO layer converts for display.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Handlers validate; DTOs are pure data carriers. Balance updates decode
  into a raw map so the field-name whitelist can be enforced before any
  value is parsed.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AmitChaudhary07/worker-attendance-management/attendance"
	"github.com/AmitChaudhary07/worker-attendance-management/payout"
	"github.com/AmitChaudhary07/worker-attendance-management/payweek"
	"github.com/AmitChaudhary07/worker-attendance-management/roster"
)

// =============================================================================
// WORKERS
// =============================================================================

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Mobile      string      `json:"mobile"`
	DailyWage   json.Number `json:"daily_wage"`
	Designation string      `json:"designation"`
	Status      string      `json:"status"`
	Advance     json.Number `json:"advance"`
	Remaining   json.Number `json:"remaining"`
	CreatedAt   string      `json:"created_at"`
}

// num renders a decimal as a bare JSON number, preserving the exact
// digits instead of routing through float64.
func num(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toWorkerDTO(w *roster.Worker) WorkerDTO {
	return WorkerDTO{
		ID:          w.ID,
		Name:        w.Name,
		Mobile:      w.Mobile,
		DailyWage:   num(w.DailyWage),
		Designation: w.Designation,
		Status:      string(w.Status),
		Advance:     num(w.Advance),
		Remaining:   num(w.Remaining),
		CreatedAt:   w.CreatedAt.Format(time.RFC3339),
	}
}

// CreateWorkerRequest is the request to register a worker.
type CreateWorkerRequest struct {
	Name        string      `json:"name"`
	Mobile      string      `json:"mobile"`
	DailyWage   json.Number `json:"daily_wage"`
	Designation string      `json:"designation"`
	Status      string      `json:"status"`
}

// SetStatusRequest flips a worker between Active and Inactive.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// BalanceUpdateRequest is decoded as a raw field map so unknown field
// names are rejected by the whitelist, not silently dropped.
type BalanceUpdateRequest map[string]json.Number

// =============================================================================
// ATTENDANCE
// =============================================================================

// MarkRequest marks one day for a worker.
type MarkRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// CycleRequest advances one day's status a single cycle step.
type CycleRequest struct {
	Date string `json:"date"`
}

// MarkDTO confirms a stored mark.
type MarkDTO struct {
	WorkerID string `json:"worker_id"`
	Date     string `json:"date"`
	Status   string `json:"status"`
}

func marksToDTO(marks map[payweek.Date]attendance.Status) map[string]string {
	out := make(map[string]string, len(marks))
	for date, status := range marks {
		out[date.String()] = string(status)
	}
	return out
}

// =============================================================================
// WEEKS & PAYOUTS
// =============================================================================

// WeekDTO describes one pay week and the navigation allowed from it.
type WeekDTO struct {
	Start              string   `json:"start"`
	End                string   `json:"end"`
	Days               []string `json:"days"`
	CanNavigateBack    bool     `json:"can_navigate_back"`
	CanNavigateForward bool     `json:"can_navigate_forward"`
}

func toWeekDTO(week payweek.Week, today payweek.Date) WeekDTO {
	days := make([]string, len(week))
	for i, d := range week {
		days[i] = d.String()
	}
	return WeekDTO{
		Start:              week.Start().String(),
		End:                week.End().String(),
		Days:               days,
		CanNavigateBack:    payweek.CanNavigateBack(week.Start(), today),
		CanNavigateForward: payweek.CanNavigateForward(week.Start(), today),
	}
}

// WeekPayoutDTO is the computed payout preview for one worker-week.
type WeekPayoutDTO struct {
	WorkerID string            `json:"worker_id"`
	Week     WeekDTO           `json:"week"`
	Marks    map[string]string `json:"marks"`
	Counts   CountsDTO         `json:"counts"`
	Amount   json.Number       `json:"amount"`
}

// CountsDTO tallies payable day-types.
type CountsDTO struct {
	Present      int `json:"present"`
	Half         int `json:"half"`
	FullPlusHalf int `json:"full_plus_half"`
}

// RecordPayoutRequest records a finalized payout.
type RecordPayoutRequest struct {
	Amount    json.Number `json:"amount"`
	WeekStart string      `json:"week_start"`
	WeekEnd   string      `json:"week_end"`
}

// PayoutEventDTO represents a settlement event.
type PayoutEventDTO struct {
	ID        string      `json:"id"`
	WorkerID  string      `json:"worker_id"`
	Amount    json.Number `json:"amount"`
	WeekStart string      `json:"week_start"`
	WeekEnd   string      `json:"week_end"`
	CreatedAt string      `json:"created_at"`
}

func toPayoutEventDTO(e *payout.Event) PayoutEventDTO {
	return PayoutEventDTO{
		ID:        e.ID,
		WorkerID:  e.WorkerID,
		Amount:    num(e.Amount),
		WeekStart: e.WeekStart.String(),
		WeekEnd:   e.WeekEnd.String(),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
