package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMessageValidate(t *testing.T) {
	assert.ErrorIs(t, Message{Subject: "hi"}.Validate(), ErrNoRecipients)
	assert.Error(t, Message{To: []Recipient{{Email: " "}}, Subject: "hi"}.Validate())
	assert.Error(t, Message{To: []Recipient{{Email: "a@b.c"}}}.Validate())
	assert.NoError(t, Message{To: []Recipient{{Email: "a@b.c"}}, Subject: "hi"}.Validate())
}

func TestConsoleMailerSend(t *testing.T) {
	m := NewConsoleMailer(zap.NewNop())
	require.NoError(t, m.Send(context.Background(), Message{To: []Recipient{{Email: "a@b.c"}}, Subject: "hi"}))
}

func TestSendGridMailerSend(t *testing.T) {
	var captured map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, sendGridEndpoint, r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer("sg-key", "Scheduler", "no-reply@example.com", WithHost(srv.URL), WithHTTPClient(srv.Client()))
	err := m.Send(context.Background(), Message{
		To:      []Recipient{{Name: "Ada", Email: "ada@example.com"}},
		Subject: "Preferences open",
		Text:    "Submit your preferences",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sg-key", auth)

	personalizations := captured["personalizations"].([]interface{})
	require.Len(t, personalizations, 1)
	first := personalizations[0].(map[string]interface{})
	assert.Equal(t, "[Scheduler] Preferences open", first["subject"])
}

func TestSendGridMailerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	m := NewSendGridMailer("bad", "Scheduler", "no-reply@example.com", WithHost(srv.URL))
	err := m.Send(context.Background(), Message{To: []Recipient{{Email: "ada@example.com"}}, Subject: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
