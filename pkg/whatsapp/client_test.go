package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTextMessage(t *testing.T) {
	var got SendMessageRequest
	var user, pass, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		user, pass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "ok", "data": {"message_id": "m1", "status": "sent"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "bot", "pw", "/device1/")
	err := client.SendTextMessage(context.Background(), "08123456", "hello")
	require.NoError(t, err)

	assert.Equal(t, "/device1/send/message", path)
	assert.Equal(t, "bot", user)
	assert.Equal(t, "pw", pass)
	assert.Equal(t, "628123456@s.whatsapp.net", got.Phone)
	assert.Equal(t, "hello", got.Message)
}

func TestSendMessage_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", "")
	_, err := client.SendMessage(context.Background(), "628123", "hello")
	assert.Error(t, err)
}

func TestConvertPhoneNumber(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{phone: "08123", want: "628123"},
		{phone: "628123", want: "628123"},
		{phone: "+1555", want: "+1555"},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, convertPhoneNumber(tt.phone))
		})
	}
}
