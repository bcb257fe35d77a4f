package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkwebmonitor/internal/domain"
)

func TestSendPayload(t *testing.T) {
	t.Parallel()

	var received payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, server.Client())
	err := n.Send(context.Background(), "alert body", domain.SeverityHigh)
	require.NoError(t, err)

	require.Len(t, received.Attachments, 1)
	att := received.Attachments[0]
	assert.Equal(t, "#ff0000", att.Color)
	assert.Equal(t, "alert body", att.Text)
	assert.Equal(t, []string{"text"}, att.MarkdownIn)
	assert.Equal(t, "Darkweb Monitor JP", att.Footer)
	assert.NotZero(t, att.Timestamp)
}

func TestSendErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewNotifier(server.URL, server.Client())
	err := n.Send(context.Background(), "alert body", domain.SeverityLow)
	assert.Error(t, err)
}

func TestSendMisconfigured(t *testing.T) {
	t.Parallel()

	n := NewNotifier("", nil)
	assert.Error(t, n.Send(context.Background(), "alert body", domain.SeverityInfo))
}
