package inbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/core"
)

const dump = `[
  {"_id": 1, "address": "VM-HDFCBK", "date": 1759276800000, "body": "Rs 500 debited to Swiggy"},
  {"_id": "2", "address": "AX-ICICI", "date": "1759363200000", "body": "Rs 100 credited from Ravi"},
  {"_id": 3, "address": "JIO", "date": "garbage", "body": "Recharge now"},
  {"_id": 4, "address": "VM-HDFCBK", "date": 1759449600000, "body": "Rs 20 paid to Zomato"}
]`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inbox.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileListInboxNewestFirst(t *testing.T) {
	p := NewFile(writeDump(t, dump))

	msgs, err := p.ListInbox(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, msgs, 4)

	assert.Equal(t, []string{"4", "2", "1", "3"}, externalIDs(msgs))
	assert.Equal(t, "VM-HDFCBK", msgs[0].Sender)
	assert.Equal(t, core.Millis("1759449600000"), msgs[0].TimestampMillis)
	assert.Equal(t, core.Millis("garbage"), msgs[3].TimestampMillis)
}

func TestFileListInboxRespectsMaxCount(t *testing.T) {
	p := NewFile(writeDump(t, dump))

	msgs, err := p.ListInbox(context.Background(), ListOptions{MaxCount: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "2"}, externalIDs(msgs))
}

func TestFileListInboxErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewFile(filepath.Join(t.TempDir(), "missing.json")).ListInbox(ctx, ListOptions{})
	require.Error(t, err)
	assert.True(t, core.IsProviderError(err))
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)

	_, err = NewFile(writeDump(t, "{not json")).ListInbox(ctx, ListOptions{})
	assert.ErrorIs(t, err, core.ErrProviderUnavailable)

	expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
	defer cancel()
	_, err = NewFile(writeDump(t, dump)).ListInbox(expired, ListOptions{})
	assert.ErrorIs(t, err, core.ErrProviderTimeout)
}

func TestStatic(t *testing.T) {
	s := &Static{Messages: []core.RawMessage{
		{ExternalID: "old", TimestampMillis: "1000"},
		{ExternalID: "new", TimestampMillis: "2000"},
	}}
	msgs, err := s.ListInbox(context.Background(), ListOptions{MaxCount: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, externalIDs(msgs))

	denied := &core.ProviderError{Op: "list inbox", Err: core.ErrPermissionDenied}
	_, err = (&Static{Err: denied}).ListInbox(context.Background(), ListOptions{})
	assert.True(t, errors.Is(err, core.ErrPermissionDenied))
}

func externalIDs(msgs []core.RawMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ExternalID
	}
	return out
}
