package http

import (
	"net/http"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.deps.Transactions.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	if limit, err := parseIntParam(r.URL.Query(), "limit", 0); err != nil {
		handleError(w, r, err)
		return
	} else if limit > 0 && limit < len(txs) {
		txs = txs[:limit]
	}

	writeSuccess(w, toTransactionDTOs(txs))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	tx, err := s.deps.Transactions.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, toTransactionDTO(tx))
}

type setCategoryRequest struct {
	Category *string `json:"category"`
}

// handleSetCategory applies a manual category. A null or blank category
// resets the transaction to uncategorized.
func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req setCategoryRequest
	if err := decodeJSONBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	category := ""
	if req.Category != nil {
		category = sanitizeInput(*req.Category)
	}

	tx, err := s.deps.Transactions.SetCategory(r.Context(), id, category)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, toTransactionDTO(tx))
}

type ingestRequest struct {
	Messages []core.RawMessage `json:"messages"`
}

// handleIngest pulls from the configured provider, or stores the messages in
// the request body when one is sent.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.ContentLength != 0 {
		var req ingestRequest
		if err := decodeJSONBody(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		res, err := s.deps.Ingestion.Ingest(ctx, "http", req.Messages)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeSuccess(w, res)
		return
	}

	res, err := s.deps.Ingestion.Run(ctx)
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Ingestion run failed", log.FieldError, err)
		handleError(w, r, err)
		return
	}
	if res.Skipped {
		writeJSON(w, http.StatusConflict, Response{Success: false, Data: res, Error: "ingestion already in progress"})
		return
	}
	writeSuccess(w, res)
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Ingestion.CategorizePending(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, map[string]int{"categorized": n})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	kind, err := parsePeriod(query)
	if err != nil {
		handleError(w, r, err)
		return
	}
	ref, err := parseRefDate(query, s.deps.Location)
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.deps.Reports.Summary(r.Context(), kind, ref)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, toSummaryDTO(summary))
}

func (s *Server) handleRollingBudget(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	weeks, err := parseIntParam(query, "weeks", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	ref, err := parseRefDate(query, s.deps.Location)
	if err != nil {
		handleError(w, r, err)
		return
	}

	rolling, err := s.deps.Reports.RollingBudget(r.Context(), weeks, ref)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, toRollingDTO(rolling))
}

func (s *Server) handleMonthBudget(w http.ResponseWriter, r *http.Request) {
	ref, err := parseRefDate(r.URL.Query(), s.deps.Location)
	if err != nil {
		handleError(w, r, err)
		return
	}

	budget, err := s.deps.Reports.MonthBudget(r.Context(), ref)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, toMonthBudgetDTO(budget))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	months, err := parseIntParam(query, "months", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	ref, err := parseRefDate(query, s.deps.Location)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cats, err := s.deps.Reports.Categories(r.Context(), months, ref)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, toCategoryDTOs(cats))
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r.URL.Query(), "limit", -1)
	if err != nil {
		handleError(w, r, err)
		return
	}

	rows, err := s.deps.Reports.Months(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeSuccess(w, toMonthRowDTOs(rows))
}

// handleReport serves the export document. Reports are cached per reference
// date until the next write.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ref, err := parseRefDate(r.URL.Query(), s.deps.Location)
	if err != nil {
		handleError(w, r, err)
		return
	}
	ref = s.deps.Reports.Ref(ref)
	key := core.DateOf(ref).String()

	if report, ok := s.reportCache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeSuccess(w, report)
		return
	}

	start := time.Now()
	report, err := s.deps.Reports.Report(r.Context(), ref)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.reportCache.Set(key, report)

	log.FromContext(r.Context()).DebugContext(r.Context(), "Report built",
		log.FieldRefDate, key,
		log.FieldDuration, time.Since(start).Milliseconds())

	w.Header().Set("X-Cache", "MISS")
	writeSuccess(w, report)
}
