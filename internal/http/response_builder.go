package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"spendwise/internal/aggregate"
	"spendwise/internal/core"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, statusCode int, err error) {
	writeJSON(w, statusCode, Response{Success: false, Error: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrProviderTimeout):
		return http.StatusGatewayTimeout
	case core.IsProviderError(err):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "status_code", status, "error", err)
	}
	writeError(w, status, err)
}

type transactionDTO struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Amount      string  `json:"amount"`
	Direction   string  `json:"direction"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	DisplayName string  `json:"display_name"`
	Sender      string  `json:"sender"`
	Body        string  `json:"body"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toTransactionDTO(t core.Transaction) transactionDTO {
	return transactionDTO{
		ID:          t.ID,
		Date:        t.Date.String(),
		Amount:      t.Amount.String(),
		Direction:   string(t.Direction),
		Description: optional(t.Description),
		Category:    optional(t.Category),
		DisplayName: t.DisplayName(),
		Sender:      t.Sender,
		Body:        t.Body,
	}
}

func toTransactionDTOs(txs []core.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionDTO(t))
	}
	return out
}

type summaryDTO struct {
	Period           string `json:"period"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	TotalIncome      string `json:"total_income"`
	TotalExpense     string `json:"total_expense"`
	NetFlow          string `json:"net_flow"`
	TransactionCount int    `json:"transaction_count"`
}

func toSummaryDTO(s core.SummaryPeriod) summaryDTO {
	return summaryDTO{
		Period:           string(s.Kind),
		StartDate:        s.StartDate.String(),
		EndDate:          s.EndDate.String(),
		TotalIncome:      s.TotalIncome.String(),
		TotalExpense:     s.TotalExpense.String(),
		NetFlow:          s.NetFlow.String(),
		TransactionCount: s.TransactionCount,
	}
}

type weekBudgetDTO struct {
	WeekStart         string `json:"week_start"`
	WeekEnd           string `json:"week_end"`
	WeeklyExpense     string `json:"weekly_expense"`
	CumulativeExpense string `json:"cumulative_expense"`
	EstimatedBudget   string `json:"estimated_budget"`
	RemainingBudget   string `json:"remaining_budget"`
}

func toWeekBudgetDTOs(weeks []core.WeekBudget) []weekBudgetDTO {
	out := make([]weekBudgetDTO, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, weekBudgetDTO{
			WeekStart:         w.WeekStart.String(),
			WeekEnd:           w.WeekEnd.String(),
			WeeklyExpense:     w.WeeklyExpense.String(),
			CumulativeExpense: w.CumulativeExpense.String(),
			EstimatedBudget:   w.EstimatedBudget.String(),
			RemainingBudget:   w.RemainingBudget.String(),
		})
	}
	return out
}

type rollingDTO struct {
	Weeks            []weekBudgetDTO `json:"weeks"`
	TotalIncome      string          `json:"total_income"`
	TotalExpense     string          `json:"total_expense"`
	FirstWeekIncome  string          `json:"first_week_income"`
	AvgSpendingRatio float64         `json:"avg_spending_ratio"`
	EstimatedBudget  string          `json:"estimated_budget"`
}

func toRollingDTO(r aggregate.Rolling) rollingDTO {
	return rollingDTO{
		Weeks:            toWeekBudgetDTOs(r.Weeks),
		TotalIncome:      r.TotalIncome.String(),
		TotalExpense:     r.TotalExpense.String(),
		FirstWeekIncome:  r.FirstWeekIncome.String(),
		AvgSpendingRatio: r.AvgSpendingRatio,
		EstimatedBudget:  r.EstimatedBudget.String(),
	}
}

type alertDTO struct {
	Period            string `json:"period"`
	CumulativeExpense string `json:"cumulative_expense"`
	EstimatedBudget   string `json:"estimated_budget"`
	RemainingBudget   string `json:"remaining_budget"`
	Exceeded          bool   `json:"exceeded"`
	Message           string `json:"message"`
}

type monthBudgetDTO struct {
	Month            string          `json:"month"`
	AvgSpendingRatio float64         `json:"avg_spending_ratio"`
	FirstWeekIncome  string          `json:"first_week_income"`
	EstimatedBudget  string          `json:"estimated_budget"`
	Weeks            []weekBudgetDTO `json:"weeks"`
	Alerts           []alertDTO      `json:"alerts"`
}

func toMonthBudgetDTO(m aggregate.MonthBudget) monthBudgetDTO {
	alerts := make([]alertDTO, 0, len(m.Alerts))
	for _, a := range m.Alerts {
		alerts = append(alerts, alertDTO{
			Period:            a.PeriodLabel,
			CumulativeExpense: a.CumulativeExpense.String(),
			EstimatedBudget:   a.EstimatedBudget.String(),
			RemainingBudget:   a.RemainingBudget.String(),
			Exceeded:          a.Exceeded,
			Message:           a.Message,
		})
	}
	return monthBudgetDTO{
		Month:            m.Month,
		AvgSpendingRatio: m.AvgSpendingRatio,
		FirstWeekIncome:  m.FirstWeekIncome.String(),
		EstimatedBudget:  m.EstimatedBudget.String(),
		Weeks:            toWeekBudgetDTOs(m.Weeks),
		Alerts:           alerts,
	}
}

type categoryDTO struct {
	Category string  `json:"category"`
	Total    string  `json:"total"`
	Share    float64 `json:"share"`
}

func toCategoryDTOs(cats []core.CategoryTotal) []categoryDTO {
	out := make([]categoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryDTO{Category: c.Category, Total: c.Total.String(), Share: c.Share})
	}
	return out
}

type monthRowDTO struct {
	Month         string  `json:"month"`
	Income        string  `json:"income"`
	Expense       string  `json:"expense"`
	SpendingRatio float64 `json:"spending_ratio"`
}

func toMonthRowDTOs(rows []core.MonthRow) []monthRowDTO {
	out := make([]monthRowDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, monthRowDTO{
			Month:         m.Month,
			Income:        m.Income.String(),
			Expense:       m.Expense.String(),
			SpendingRatio: m.SpendingRatio,
		})
	}
	return out
}
