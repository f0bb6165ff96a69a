package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFCMSendBuildsLegacyRequest(t *testing.T) {
	var got fcmRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFCM("secret-key", srv.URL)
	res, err := f.Send(context.Background(), "tok-1", &Payload{
		Title: "New Plumbing Job: Fix sink",
		Body:  "Location: Lima",
		Sound: "default",
		Badge: 1,
		Data:  map[string]string{"deepLink": "app://job/j1"},
	})

	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "key=secret-key", auth)
	assert.Equal(t, "tok-1", got.To)
	assert.Equal(t, "high", got.Priority)
	assert.Equal(t, "New Plumbing Job: Fix sink", got.Notification.Title)
	assert.Equal(t, "app://job/j1", got.Data["deepLink"])
}

func TestFCMSendNon2xxIsNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "InvalidRegistration", http.StatusBadRequest)
	}))
	defer srv.Close()

	f := NewFCM("k", srv.URL)
	res, err := f.Send(context.Background(), "bad-token", &Payload{Title: "t"})

	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, res.Body, "InvalidRegistration")
}
