package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"spendwise/internal/core"
)

// dumpMessage is one entry of an Android SMS inbox export.
type dumpMessage struct {
	ID      flexString  `json:"_id"`
	Address string      `json:"address"`
	Date    core.Millis `json:"date"`
	Body    string      `json:"body"`
}

// File reads an inbox dump: a JSON array of {_id, address, date, body}.
type File struct {
	Path string
}

func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Name() string { return "file" }

func (f *File) ListInbox(ctx context.Context, opts ListOptions) ([]core.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError("list inbox", err)
	}

	data, err := os.ReadFile(f.Path)
	switch {
	case errors.Is(err, fs.ErrPermission):
		return nil, &core.ProviderError{Op: "read " + f.Path, Err: fmt.Errorf("%w: %w", core.ErrPermissionDenied, err)}
	case err != nil:
		return nil, &core.ProviderError{Op: "read " + f.Path, Err: fmt.Errorf("%w: %w", core.ErrProviderUnavailable, err)}
	}

	msgs, err := DecodeDump(data)
	if err != nil {
		return nil, &core.ProviderError{Op: "decode " + f.Path, Err: fmt.Errorf("%w: %w", core.ErrProviderUnavailable, err)}
	}
	return newestFirst(msgs, opts.limit()), nil
}

// DecodeDump parses an inbox export into raw messages.
func DecodeDump(data []byte) ([]core.RawMessage, error) {
	var dump []dumpMessage
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("parse inbox dump: %w", err)
	}
	out := make([]core.RawMessage, 0, len(dump))
	for _, m := range dump {
		out = append(out, core.RawMessage{
			ExternalID:      string(m.ID),
			Sender:          m.Address,
			Body:            m.Body,
			TimestampMillis: m.Date,
		})
	}
	return out, nil
}

func contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &core.ProviderError{Op: op, Err: fmt.Errorf("%w: %w", core.ErrProviderTimeout, err)}
	}
	return &core.ProviderError{Op: op, Err: fmt.Errorf("%w: %w", core.ErrProviderUnavailable, err)}
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}
