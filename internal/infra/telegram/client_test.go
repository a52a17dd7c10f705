package telegram

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

func TestTelebotAdapter_SendMessage(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-100123,"type":"supergroup"}}}`)
	}))
	defer srv.Close()

	bot, err := NewBot("123:abc", srv.URL, 5*time.Second, true)
	require.NoError(t, err)

	err = NewTelebotAdapter(bot).SendMessage(-100123, "<b>hello</b>", &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(gotPath, "/sendMessage"), gotPath)
	assert.Contains(t, gotBody, "-100123")
	assert.Contains(t, gotBody, "HTML")
	assert.Contains(t, gotBody, "hello")
}

func TestTelebotAdapter_SendMessageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":403,"description":"Forbidden: bot was kicked from the group chat"}`)
	}))
	defer srv.Close()

	bot, err := NewBot("123:abc", srv.URL, 5*time.Second, true)
	require.NoError(t, err)

	err = NewTelebotAdapter(bot).SendMessage(-100123, "hello", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat -100123")
}
