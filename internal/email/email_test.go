package email

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/owndesign/owndesign/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfig struct {
	config.Provider
	provider, sender, apiKey string
}

func (f fakeConfig) GetEmailProvider() string { return f.provider }
func (f fakeConfig) GetEmailSender() string   { return f.sender }
func (f fakeConfig) GetEmailAPIKey() string   { return f.apiKey }

func TestNewEmailService(t *testing.T) {
	s, err := NewEmailService(fakeConfig{provider: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = NewEmailService(fakeConfig{provider: "resend", apiKey: "key"})
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, s)

	_, err = NewEmailService(fakeConfig{provider: "resend"})
	assert.Error(t, err)

	_, err = NewEmailService(fakeConfig{provider: "pigeon"})
	assert.Error(t, err)
}

func TestResendSender_Send(t *testing.T) {
	var got resendPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewResendSender("secret", "")
	s.endpoint = srv.URL

	require.NoError(t, s.Send("creator1@example.com", "Welcome", "<p>hi</p>"))
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, resendPayload{From: defaultSender, To: "creator1@example.com", Subject: "Welcome", HTML: "<p>hi</p>"}, got)
}

func TestResendSender_SendReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	s := NewResendSender("secret", "bad")
	s.endpoint = srv.URL

	err := s.Send("creator1@example.com", "Welcome", "<p>hi</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "invalid from")
}
