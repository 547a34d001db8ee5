package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"spendwise/internal/core"
)

const maxBodyBytes = 1 << 16

var (
	errInvalidInput = errors.New("invalid input")
	errRateLimited  = errors.New("too many requests")
)

// parseRefDate reads the optional "date" query parameter as YYYY-MM-DD in
// loc. A missing value yields the zero time, which the report service reads
// as "now".
func parseRefDate(query url.Values, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(query.Get("date"))
	if v == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", errInvalidInput, v)
	}
	return t, nil
}

// parseIntParam reads a non-negative integer query parameter, returning def
// when it is absent.
func parseIntParam(query url.Values, name string, def int) (int, error) {
	v := strings.TrimSpace(query.Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errInvalidInput, name)
	}
	return n, nil
}

func parsePeriod(query url.Values) (core.PeriodKind, error) {
	switch v := strings.ToLower(strings.TrimSpace(query.Get("period"))); v {
	case "", string(core.PeriodMonth):
		return core.PeriodMonth, nil
	case string(core.PeriodWeek):
		return core.PeriodWeek, nil
	default:
		return "", fmt.Errorf("%w: period must be week or month", errInvalidInput)
	}
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: transaction id %q", errInvalidInput, raw)
	}
	return id, nil
}

// decodeJSONBody decodes a bounded JSON body into dst, rejecting unknown fields.
func decodeJSONBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty request body", errInvalidInput)
		}
		return fmt.Errorf("%w: %v", errInvalidInput, err)
	}
	return nil
}

// sanitizeInput trims and strips control characters except tab, newline and
// carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
