package notify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codship/internal/adapters/out/notify"
	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/notification"
)

func newTestIntent(t *testing.T, channel notification.Channel) notification.Intent {
	t.Helper()
	intent, err := notification.NewIntent(
		kernel.NewUUID(),
		"order_confirmed",
		channel,
		"+201000000000",
		"Your order SO-1001 has been confirmed",
		time.Now(),
	)
	require.NoError(t, err)
	return intent
}

func TestGateway_Send_PostsToChannelEndpoint(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	gateway := notify.NewGateway(server.URL, "secret-key", 5*time.Second)
	intent := newTestIntent(t, notification.ChannelWhatsApp)

	err := gateway.Send(t.Context(), intent)

	require.NoError(t, err)
	assert.Equal(t, "/send/whatsapp", gotPath)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "+201000000000", gotBody["recipient"])
	assert.Equal(t, "Your order SO-1001 has been confirmed", gotBody["message"])
	assert.Equal(t, "order_confirmed", gotBody["type"])
}

func TestGateway_Send_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "provider unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	gateway := notify.NewGateway(server.URL, "", time.Second)

	err := gateway.Send(t.Context(), newTestIntent(t, notification.ChannelSMS))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "provider unavailable")
}

func TestGateway_Send_TimeoutSurfacesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	gateway := notify.NewGateway(server.URL, "", 20*time.Millisecond)

	err := gateway.Send(t.Context(), newTestIntent(t, notification.ChannelSMS))

	require.Error(t, err)
}

func TestGateway_Send_InvalidChannel(t *testing.T) {
	gateway := notify.NewGateway("http://localhost:1", "", time.Second)
	intent := newTestIntent(t, notification.ChannelSMS)
	intent.Channel = "carrier-pigeon"

	err := gateway.Send(t.Context(), intent)

	require.Error(t, err)
}
