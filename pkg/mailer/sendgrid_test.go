package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSendGridPostsMessage(t *testing.T) {
	var captured map[string]interface{}
	var authorization, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		authorization = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender, err := NewSendGrid(Config{APIKey: "key", FromName: "LearnHub", From: "no-reply@example.com", Host: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	err = sender.Send(context.Background(), "ada@example.com", "Password Reset Request", "plain", "<p>html</p>")
	require.NoError(t, err)
	require.Equal(t, "/v3/mail/send", path)
	require.Equal(t, "Bearer key", authorization)

	personalizations := captured["personalizations"].([]interface{})
	first := personalizations[0].(map[string]interface{})
	require.Equal(t, "Password Reset Request", first["subject"])
	from := captured["from"].(map[string]interface{})
	require.Equal(t, "no-reply@example.com", from["email"])
}

func TestSendGridReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sender, err := NewSendGrid(Config{APIKey: "bad", From: "no-reply@example.com", Host: server.URL}, zerolog.Nop())
	require.NoError(t, err)

	err = sender.Send(context.Background(), "ada@example.com", "subject", "plain", "html")
	require.Error(t, err)
}

func TestNewSendGridRequiresKey(t *testing.T) {
	_, err := NewSendGrid(Config{From: "no-reply@example.com"}, zerolog.Nop())
	require.Error(t, err)
}

func TestLogMailerSucceeds(t *testing.T) {
	require.NoError(t, NewLog(zerolog.Nop()).Send(context.Background(), "a@b.c", "s", "p", "h"))
}
