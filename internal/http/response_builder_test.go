package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spendwise/internal/core"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("transaction 3: %w", core.ErrNotFound), http.StatusNotFound},
		{"invalid input", fmt.Errorf("%w: bad", errInvalidInput), http.StatusBadRequest},
		{"provider", &core.ProviderError{Op: "list inbox", Err: core.ErrProviderUnavailable}, http.StatusBadGateway},
		{"provider timeout", &core.ProviderError{Op: "list inbox", Err: core.ErrProviderTimeout}, http.StatusGatewayTimeout},
		{"store", fmt.Errorf("store batch: %w", &core.StoreError{Op: "insert", Err: errors.New("disk full")}), http.StatusServiceUnavailable},
		{"other", context.Canceled, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusBadRequest, errors.New("bad date"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := strings.TrimSpace(rr.Body.String())
	if body != `{"success":false,"error":"bad date"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestTransactionDTO(t *testing.T) {
	dto := toTransactionDTO(core.Transaction{
		ID:        4,
		Date:      core.Date{},
		Amount:    core.Money{Cents: 11900},
		Direction: core.Debit,
		Sender:    "VM-HDFCBK",
	})

	if dto.Date != core.InvalidDateLabel {
		t.Errorf("expected invalid date label, got %q", dto.Date)
	}
	if dto.Amount != "119.00" {
		t.Errorf("expected 119.00, got %q", dto.Amount)
	}
	if dto.Description != nil || dto.Category != nil {
		t.Errorf("expected null description and category")
	}
	if dto.DisplayName != "VM-HDFCBK" {
		t.Errorf("expected sender fallback, got %q", dto.DisplayName)
	}
}

func TestEmptyCollectionsEncodeAsArrays(t *testing.T) {
	if got := toTransactionDTOs(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice")
	}
	if got := toCategoryDTOs(nil); got == nil {
		t.Fatalf("expected empty non-nil slice")
	}
	if got := toMonthRowDTOs(nil); got == nil {
		t.Fatalf("expected empty non-nil slice")
	}
}
